// Package session keeps server-side login state. The browser holds only a signed
// reference to a session; logging out deletes the server-side row immediately.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KristinSchanks/healthcare-qms/internal/config"
)

// ErrNotFound means there is no live session for the request.
var ErrNotFound = errors.New("session not found")

// Flash is a one-time notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Flashes   []Flash   `json:"flashes"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	Create(ctx context.Context, username string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// NewStore picks the backend named by session.store.
func NewStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (Store, error) {
	switch cfg.Session.Store {
	case "database":
		return NewGormStore(db), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}

		log.WithField("addr", cfg.Redis.Addr).Info("🔧 Redis session store initialized")
		return NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Session.Store)
	}
}
