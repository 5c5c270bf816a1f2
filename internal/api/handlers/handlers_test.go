package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/KristinSchanks/healthcare-qms/internal/auth"
	database "github.com/KristinSchanks/healthcare-qms/internal/db"
	"github.com/KristinSchanks/healthcare-qms/internal/models"
	"github.com/KristinSchanks/healthcare-qms/internal/web"
)

var errStoreDown = errors.New("connection refused")

type stubFeedbackStore struct {
	err     error
	created []models.Feedback
}

func (s *stubFeedbackStore) CreateFeedback(_ context.Context, f *models.Feedback) error {
	if s.err != nil {
		return s.err
	}
	f.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *f)
	return nil
}

func (s *stubFeedbackStore) ListFeedback(context.Context) ([]models.Feedback, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.created, nil
}

type stubRecordStore struct {
	err       error
	created   []models.Record
	lastQuery *database.RecordQuery
}

func (s *stubRecordStore) CreateRecord(_ context.Context, r *models.Record) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *r)
	return nil
}

func (s *stubRecordStore) SearchRecords(_ context.Context, q database.RecordQuery) ([]models.Record, error) {
	s.lastQuery = &q
	if s.err != nil {
		return nil, s.err
	}
	return nil, nil
}

var jane = auth.User{Username: "jane", Role: "viewer"}

// newRouter mounts handlers without the session guard, passing jane as the current user
func newRouter(t *testing.T, feedback FeedbackStore, records RecordStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	as := func(fn func(*gin.Context, auth.User)) gin.HandlerFunc {
		return func(c *gin.Context) { fn(c, jane) }
	}

	fh := NewFeedbackHandler(feedback, nil)
	rh := NewRecordHandler(records, nil)
	r.GET("/feedback", as(fh.List))
	r.POST("/feedback", as(fh.Submit))
	r.POST("/add", as(rh.Create))
	r.GET("/search", as(rh.Search))
	return r
}

func serve(r http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStorageFailureIsServerError(t *testing.T) {
	r := newRouter(t, &stubFeedbackStore{err: errStoreDown}, &stubRecordStore{err: errStoreDown})

	tests := []struct {
		name   string
		method string
		path   string
		form   url.Values
	}{
		{"List Feedback", http.MethodGet, "/feedback", nil},
		{"Submit Feedback", http.MethodPost, "/feedback", url.Values{"feedback": {"hello"}}},
		{"Add Record", http.MethodPost, "/add", url.Values{"type": {"a"}, "name": {"b"}, "detail": {"c"}}},
		{"Search", http.MethodGet, "/search?q=x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, tt.form)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", w.Code)
			}
			if strings.Contains(w.Body.String(), errStoreDown.Error()) {
				t.Error("internal error detail leaked to the page")
			}
		})
	}
}

func TestSubmitUsesCurrentUser(t *testing.T) {
	store := &stubFeedbackStore{}
	r := newRouter(t, store, &stubRecordStore{})

	w := serve(r, http.MethodPost, "/feedback", url.Values{"feedback": {"Great system"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(store.created) != 1 || store.created[0].SubmittedBy != "jane" || store.created[0].Content != "Great system" {
		t.Errorf("created = %+v", store.created)
	}
}

func TestSubmitAcceptsEmptyContent(t *testing.T) {
	store := &stubFeedbackStore{}
	r := newRouter(t, store, &stubRecordStore{})

	if w := serve(r, http.MethodPost, "/feedback", url.Values{"feedback": {""}}); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(store.created) != 1 {
		t.Errorf("expected the empty entry to be stored")
	}
}

func TestCreateRecordUsesCurrentUser(t *testing.T) {
	store := &stubRecordStore{}
	r := newRouter(t, &stubFeedbackStore{}, store)

	w := serve(r, http.MethodPost, "/add", url.Values{"type": {"Calibration"}, "name": {"Calibration Log"}, "detail": {"Pressure gauge #4"}})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("got %d -> %q", w.Code, w.Header().Get("Location"))
	}
	want := models.Record{Type: "Calibration", Name: "Calibration Log", Detail: "Pressure gauge #4", User: "jane"}
	if len(store.created) != 1 || store.created[0] != want {
		t.Errorf("created = %+v, want %+v", store.created, want)
	}
}

func TestSearchLowercasesQuery(t *testing.T) {
	store := &stubRecordStore{}
	r := newRouter(t, &stubFeedbackStore{}, store)

	w := serve(r, http.MethodGet, "/search?q=PreSSure", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if store.lastQuery == nil || store.lastQuery.Contains != "pressure" {
		t.Errorf("query = %+v, want pressure", store.lastQuery)
	}
	if !strings.Contains(w.Body.String(), `value="pressure"`) {
		t.Error("lowercased query should be echoed back")
	}
}

func TestSearchWithoutQueryMatchesAll(t *testing.T) {
	store := &stubRecordStore{}
	r := newRouter(t, &stubFeedbackStore{}, store)

	serve(r, http.MethodGet, "/search", nil)
	if store.lastQuery == nil || store.lastQuery.Contains != "" {
		t.Errorf("query = %+v, want the zero RecordQuery", store.lastQuery)
	}
}
