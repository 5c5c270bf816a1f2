package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/KristinSchanks/healthcare-qms/internal/api/middleware"
	"github.com/KristinSchanks/healthcare-qms/internal/auth"
	"github.com/KristinSchanks/healthcare-qms/internal/metrics"
	"github.com/KristinSchanks/healthcare-qms/internal/models"
	"github.com/KristinSchanks/healthcare-qms/internal/session"
)

// FeedbackStore is the persistence the feedback pages need.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) error
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
}

// FeedbackHandler handles the feedback page
type FeedbackHandler struct {
	store    FeedbackStore
	sessions *session.Manager
}

// NewFeedbackHandler creates a new FeedbackHandler instance
func NewFeedbackHandler(store FeedbackStore, sessions *session.Manager) *FeedbackHandler {
	return &FeedbackHandler{store: store, sessions: sessions}
}

// List renders every feedback entry, newest first
func (h *FeedbackHandler) List(c *gin.Context, user auth.User) {
	entries, err := h.store.ListFeedback(c.Request.Context())
	if err != nil {
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	renderPage(c, h.sessions, http.StatusOK, "feedback.html", "Feedback", user, gin.H{
		"Entries": entries,
	})
}

// Submit stores a feedback entry for the current user and re-renders the list
func (h *FeedbackHandler) Submit(c *gin.Context, user auth.User) {
	content, ok := c.GetPostForm("feedback")
	if !ok {
		renderError(c, http.StatusBadRequest, nil)
		return
	}

	entry := models.Feedback{
		Content:     content,
		SubmittedBy: user.Username,
	}
	if err := h.store.CreateFeedback(c.Request.Context(), &entry); err != nil {
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	metrics.FeedbackCreated.Inc()
	log.WithFields(log.Fields{"user": user.Username, "feedback_id": entry.ID}).Info("feedback submitted")

	if s, ok := middleware.CurrentSession(c); ok {
		if err := h.sessions.AddFlash(c.Request.Context(), s, "success", "Thank you for your feedback!"); err != nil {
			renderError(c, http.StatusInternalServerError, err)
			return
		}
	}

	h.List(c, user)
}
