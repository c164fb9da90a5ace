package repository

import (
	"fmt"

	"clicklens/internal/models"

	"gorm.io/gorm"
)

const defaultClickLimit = 1000

// ClickLogRepository queries the click log the hosting shortener
// maintains. It never writes to it.
type ClickLogRepository struct {
	db    *gorm.DB
	limit int
}

func NewClickLogRepository(db *gorm.DB, limit int) *ClickLogRepository {
	if limit <= 0 {
		limit = defaultClickLimit
	}
	return &ClickLogRepository{
		db:    db,
		limit: limit,
	}
}

// RecentClicks returns the most recent clicks for a short code, newest
// first, capped at the configured limit.
func (r *ClickLogRepository) RecentClicks(shortCode string) ([]models.ClickRecord, error) {
	var records []models.ClickRecord
	err := r.db.
		Where("short_code = ?", shortCode).
		Order("click_time desc").
		Limit(r.limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query click log: %w", err)
	}
	return records, nil
}
