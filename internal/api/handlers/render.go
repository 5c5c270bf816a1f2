package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/KristinSchanks/healthcare-qms/internal/api/middleware"
	"github.com/KristinSchanks/healthcare-qms/internal/auth"
	"github.com/KristinSchanks/healthcare-qms/internal/session"
)

var errorMessages = map[int]string{
	http.StatusBadRequest:          "The form was missing required fields.",
	http.StatusNotFound:            "Page not found.",
	http.StatusMethodNotAllowed:    "Method not allowed.",
	http.StatusInternalServerError: "Something went wrong on our side. Please try again.",
}

// renderPage renders an authenticated page, consuming any pending flash messages.
func renderPage(c *gin.Context, sessions *session.Manager, status int, name, title string, user auth.User, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["User"] = user

	if s, ok := middleware.CurrentSession(c); ok {
		flashes, err := sessions.PopFlashes(c.Request.Context(), s)
		if err != nil {
			renderError(c, http.StatusInternalServerError, err)
			return
		}
		data["Flashes"] = flashes
	}

	c.HTML(status, name, data)
}

// renderError logs the detailed error and shows the user a generic page
func renderError(c *gin.Context, status int, err error) {
	if err != nil {
		_ = c.Error(err)
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error(http.StatusText(status))
	}

	message, ok := errorMessages[status]
	if !ok {
		message = http.StatusText(status)
	}

	data := gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	}
	if user, ok := middleware.CurrentUser(c); ok {
		data["User"] = user
	}

	c.HTML(status, "error.html", data)
	c.Abort()
}

// NotFound renders the 404 page for unmatched routes
func NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, nil)
}

// MethodNotAllowed renders the 405 page for known routes hit with the wrong method
func MethodNotAllowed(c *gin.Context) {
	renderError(c, http.StatusMethodNotAllowed, nil)
}
