package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/KristinSchanks/healthcare-qms/internal/api/middleware"
	"github.com/KristinSchanks/healthcare-qms/internal/auth"
	"github.com/KristinSchanks/healthcare-qms/internal/metrics"
	"github.com/KristinSchanks/healthcare-qms/internal/session"
)

const invalidCredentialsMessage = "Invalid credentials"

// AuthHandler handles login and logout
type AuthHandler struct {
	credentials *auth.Store
	sessions    *session.Manager
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(credentials *auth.Store, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{credentials: credentials, sessions: sessions}
}

// Home sends visitors to the login page
func (h *AuthHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// LoginForm renders the login page
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

// Login verifies the submitted credentials and starts a session
func (h *AuthHandler) Login(c *gin.Context) {
	username, hasUser := c.GetPostForm("username")
	password, hasPass := c.GetPostForm("password")
	if !hasUser || !hasPass {
		renderError(c, http.StatusBadRequest, nil)
		return
	}

	user, err := h.credentials.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			renderError(c, http.StatusInternalServerError, err)
			return
		}
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		log.WithField("client_ip", c.ClientIP()).Info("login rejected")

		c.HTML(http.StatusOK, "login.html", gin.H{
			"Title":   "Log in",
			"Flashes": []session.Flash{{Category: "error", Message: invalidCredentialsMessage}},
		})
		return
	}

	// Drop any session the browser already had before issuing a new one
	if err := h.sessions.Destroy(c); err != nil {
		log.WithError(err).Warn("failed to discard previous session")
	}
	if _, err := h.sessions.Start(c, user.Username); err != nil {
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	log.WithField("user", user.Username).Info("user logged in")

	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout invalidates the session immediately
func (h *AuthHandler) Logout(c *gin.Context, user auth.User) {
	if err := h.sessions.Destroy(c); err != nil {
		renderError(c, http.StatusInternalServerError, err)
		return
	}

	log.WithField("user", user.Username).Info("user logged out")
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
