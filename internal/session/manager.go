package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

// Manager ties a Store to the session cookie. The cookie value is an HS256 JWT whose
// "sid" claim names the server-side session.
type Manager struct {
	store      Store
	secret     []byte
	cookieName string
	secure     bool
}

func NewManager(store Store, secret []byte, cookieName string, secure bool) *Manager {
	return &Manager{
		store:      store,
		secret:     secret,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Start creates a session for username and sets the cookie on the response.
func (m *Manager) Start(c *gin.Context, username string) (*Session, error) {
	s, err := m.store.Create(c.Request.Context(), username)
	if err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": s.ID,
		"sub": s.Username,
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session cookie: %w", err)
	}

	// MaxAge 0 leaves the cookie scoped to the browser session
	m.setCookie(c, signed, 0)
	return s, nil
}

// Load resolves the request's cookie to a live session, or ErrNotFound.
func (m *Manager) Load(c *gin.Context) (*Session, error) {
	id, err := m.sessionID(c)
	if err != nil {
		return nil, err
	}
	return m.store.Get(c.Request.Context(), id)
}

// Destroy deletes the server-side session (if any) and expires the cookie.
func (m *Manager) Destroy(c *gin.Context) error {
	raw, err := c.Cookie(m.cookieName)
	if err != nil {
		return nil
	}
	defer m.setCookie(c, "", -1)

	id, err := m.parseToken(raw)
	if err != nil {
		return nil
	}
	return m.store.Delete(c.Request.Context(), id)
}

// AddFlash queues a one-time notice on the session.
func (m *Manager) AddFlash(ctx context.Context, s *Session, category, message string) error {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	return m.store.Save(ctx, s)
}

// PopFlashes returns pending notices and clears them.
func (m *Manager) PopFlashes(ctx context.Context, s *Session) ([]Flash, error) {
	if len(s.Flashes) == 0 {
		return nil, nil
	}

	flashes := s.Flashes
	s.Flashes = nil
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return flashes, nil
}

func (m *Manager) sessionID(c *gin.Context) (string, error) {
	raw, err := c.Cookie(m.cookieName)
	if err != nil || raw == "" {
		return "", ErrNotFound
	}
	return m.parseToken(raw)
}

func (m *Manager) parseToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		log.WithError(err).Debug("rejected session cookie")
		return "", ErrNotFound
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrNotFound
	}
	id, _ := claims["sid"].(string)
	if id == "" {
		return "", ErrNotFound
	}
	return id, nil
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, value, maxAge, "/", "", m.secure, true)
}
