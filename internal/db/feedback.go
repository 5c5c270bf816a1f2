package database

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/KristinSchanks/healthcare-qms/internal/models"
)

// CreateFeedback inserts a feedback row; ID and SubmittedOn are filled in.
func (c *Client) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	if err := c.DB.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// ListFeedback returns every feedback row, newest first.
func (c *Client) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	var entries []models.Feedback

	err := c.DB.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "submitted_on"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	return entries, nil
}
