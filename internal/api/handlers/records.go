package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/KristinSchanks/healthcare-qms/internal/api/middleware"
	"github.com/KristinSchanks/healthcare-qms/internal/auth"
	database "github.com/KristinSchanks/healthcare-qms/internal/db"
	"github.com/KristinSchanks/healthcare-qms/internal/metrics"
	"github.com/KristinSchanks/healthcare-qms/internal/models"
	"github.com/KristinSchanks/healthcare-qms/internal/session"
)

// RecordStore is the persistence the record pages need.
type RecordStore interface {
	CreateRecord(ctx context.Context, r *models.Record) error
	SearchRecords(ctx context.Context, q database.RecordQuery) ([]models.Record, error)
}

// RecordHandler handles record creation and search
type RecordHandler struct {
	store    RecordStore
	sessions *session.Manager
}

// NewRecordHandler creates a new RecordHandler instance
func NewRecordHandler(store RecordStore, sessions *session.Manager) *RecordHandler {
	return &RecordHandler{store: store, sessions: sessions}
}

// NewForm renders the add-record form
func (h *RecordHandler) NewForm(c *gin.Context, user auth.User) {
	renderPage(c, h.sessions, http.StatusOK, "add_record.html", "Add record", user, nil)
}

// Create stores a record authored by the current user
func (h *RecordHandler) Create(c *gin.Context, user auth.User) {
	// 1. Every field must be present, empty values are allowed
	var input [3]string
	for i, field := range []string{"type", "name", "detail"} {
		value, ok := c.GetPostForm(field)
		if !ok {
			renderError(c, http.StatusBadRequest, nil)
			return
		}
		input[i] = value
	}

	// 2. Persist
	record := models.Record{
		Type:   input[0],
		Name:   input[1],
		Detail: input[2],
		User:   user.Username,
	}
	if err := h.store.CreateRecord(c.Request.Context(), &record); err != nil {
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	metrics.RecordsCreated.Inc()
	log.WithFields(log.Fields{"user": user.Username, "record_id": record.ID, "type": record.Type}).Info("record added")

	// 3. Notice is shown on the dashboard
	if s, ok := middleware.CurrentSession(c); ok {
		if err := h.sessions.AddFlash(c.Request.Context(), s, "info", "Record added successfully."); err != nil {
			renderError(c, http.StatusInternalServerError, err)
			return
		}
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// Search matches q against record names and details, ignoring case
func (h *RecordHandler) Search(c *gin.Context, user auth.User) {
	query := strings.ToLower(c.Query("q"))

	results, err := h.store.SearchRecords(c.Request.Context(), database.RecordQuery{Contains: query})
	if err != nil {
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	metrics.SearchResults.Observe(float64(len(results)))

	renderPage(c, h.sessions, http.StatusOK, "search_results.html", "Search", user, gin.H{
		"Query":   query,
		"Results": results,
	})
}
