package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/KristinSchanks/healthcare-qms/internal/auth"
	"github.com/KristinSchanks/healthcare-qms/internal/session"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

const (
	userKey    = "qms_user"
	sessionKey = "qms_session"
)

// RequireSession lets a request through only when it carries a live session whose user
// still exists in the credential table. Everything else is redirected to the login page.
func RequireSession(sessions *session.Manager, credentials *auth.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessions.Load(c)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.WithError(err).Error("session lookup failed")
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			redirectToLogin(c)
			return
		}

		user, ok := credentials.Lookup(s.Username)
		if !ok {
			// Account was removed from the table since login
			log.WithField("username", s.Username).Warn("session for unknown user discarded")
			if err := sessions.Destroy(c); err != nil {
				log.WithError(err).Warn("failed to discard stale session")
			}
			redirectToLogin(c)
			return
		}

		c.Set(userKey, user)
		c.Set(sessionKey, s)
		c.Next()
	}
}

// WithUser adapts a handler that takes the current user as an explicit argument.
// It MUST be used behind RequireSession.
func WithUser(fn func(c *gin.Context, user auth.User)) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			redirectToLogin(c)
			return
		}
		fn(c, user)
	}
}

// CurrentUser returns the user RequireSession attached to the request.
func CurrentUser(c *gin.Context) (auth.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return auth.User{}, false
	}
	user, ok := v.(auth.User)
	return user, ok
}

// CurrentSession returns the session RequireSession attached to the request.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}
