package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KristinSchanks/healthcare-qms/internal/auth"
	"github.com/KristinSchanks/healthcare-qms/internal/session"
)

type DashboardHandler struct {
	sessions *session.Manager
}

func NewDashboardHandler(sessions *session.Manager) *DashboardHandler {
	return &DashboardHandler{sessions: sessions}
}

// Show renders the landing page for a logged-in user
func (h *DashboardHandler) Show(c *gin.Context, user auth.User) {
	renderPage(c, h.sessions, http.StatusOK, "dashboard.html", "Dashboard", user, nil)
}
