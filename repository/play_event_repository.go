package repository

import (
	"context"
	"fmt"

	"chordfm/model"

	"gorm.io/gorm"
)

// PlayEventRepository stores play-attempt analytics rows. Backed by GORM.
// It satisfies the player package's event store interface.
type PlayEventRepository interface {
	InsertPlayEvent(ctx context.Context, event *model.PlayEvent) error
	RecentByUser(userID int64, limit int) ([]model.PlayEvent, error)
	CountByProvider(trackID int64) (map[string]int64, error)
}

type playEventRepository struct {
	db *gorm.DB
}

// NewPlayEventRepository creates a new PlayEventRepository.
func NewPlayEventRepository(db *gorm.DB) PlayEventRepository {
	return &playEventRepository{db: db}
}

func (r *playEventRepository) InsertPlayEvent(ctx context.Context, event *model.PlayEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to insert play event: %w", err)
	}
	return nil
}

func (r *playEventRepository) RecentByUser(userID int64, limit int) ([]model.PlayEvent, error) {
	var events []model.PlayEvent
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list play events: %w", err)
	}
	return events, nil
}

// CountByProvider aggregates play attempts per provider for one track.
func (r *playEventRepository) CountByProvider(trackID int64) (map[string]int64, error) {
	type row struct {
		Provider string
		N        int64
	}
	var rows []row
	err := r.db.Model(&model.PlayEvent{}).
		Select("provider, COUNT(*) AS n").
		Where("track_id = ?", trackID).
		Group("provider").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate play events: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Provider] = r.N
	}
	return counts, nil
}
