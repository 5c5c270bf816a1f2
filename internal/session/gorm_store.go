package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/KristinSchanks/healthcare-qms/internal/models"
)

// GormStore keeps sessions in the sessions table next to the application data.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Create(ctx context.Context, username string) (*Session, error) {
	row := models.Session{
		ID:       uuid.NewString(),
		Username: username,
		Flashes:  datatypes.JSON("[]"),
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Session{ID: row.ID, Username: row.Username, CreatedAt: row.CreatedAt}, nil
}

func (g *GormStore) Get(ctx context.Context, id string) (*Session, error) {
	var row models.Session
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	s := &Session{ID: row.ID, Username: row.Username, CreatedAt: row.CreatedAt}
	if len(row.Flashes) > 0 {
		if err := json.Unmarshal(row.Flashes, &s.Flashes); err != nil {
			return nil, fmt.Errorf("decode session flashes: %w", err)
		}
	}
	return s, nil
}

func (g *GormStore) Save(ctx context.Context, s *Session) error {
	flashes := s.Flashes
	if flashes == nil {
		flashes = []Flash{}
	}
	data, err := json.Marshal(flashes)
	if err != nil {
		return err
	}

	result := g.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", s.ID).
		Update("flashes", datatypes.JSON(data))
	if result.Error != nil {
		return fmt.Errorf("save session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) Delete(ctx context.Context, id string) error {
	if err := g.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
