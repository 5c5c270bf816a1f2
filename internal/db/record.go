package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/KristinSchanks/healthcare-qms/internal/models"
	"github.com/KristinSchanks/healthcare-qms/internal/utils"
)

// RecordQuery filters records. The zero value matches every record.
type RecordQuery struct {
	// Contains is matched case-insensitively as a substring of name OR detail.
	Contains string
}

// CreateRecord inserts a record row; ID and SubmittedOn are filled in.
func (c *Client) CreateRecord(ctx context.Context, r *models.Record) error {
	if err := c.DB.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// SearchRecords returns the records matching q, in no particular order.
func (c *Client) SearchRecords(ctx context.Context, q RecordQuery) ([]models.Record, error) {
	var records []models.Record

	query := c.DB.WithContext(ctx).Model(&models.Record{})

	if q.Contains != "" {
		// LOWER + LIKE instead of ILIKE so the same SQL runs on sqlite, postgres and mysql
		pattern := "%" + utils.EscapeLike(strings.ToLower(q.Contains), utils.LikeEscape) + "%"
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(detail) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}

	return records, nil
}
