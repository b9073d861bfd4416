package repository

import (
	"context"
	"fmt"

	"chordfm/core/player"
	"chordfm/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConnectionRepository stores per-user linked provider accounts. Backed by
// GORM. It satisfies the oauth package's connection store interface.
type ConnectionRepository interface {
	UpsertConnection(ctx context.Context, conn *model.ProviderConnection) error
	ListByUser(userID int64) ([]model.ProviderConnection, error)
	// StatusMap shapes the user's connections for the default-provider policy.
	StatusMap(userID int64) (map[player.Provider]model.ConnectionStatus, error)
	Disconnect(userID int64, provider string) error
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new ConnectionRepository.
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) UpsertConnection(ctx context.Context, conn *model.ProviderConnection) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"connected", "premium", "access_token", "refresh_token", "expires_at", "updated_at",
		}),
	}).Create(conn).Error
	if err != nil {
		return fmt.Errorf("failed to upsert provider connection: %w", err)
	}
	return nil
}

func (r *connectionRepository) ListByUser(userID int64) ([]model.ProviderConnection, error) {
	var conns []model.ProviderConnection
	err := r.db.Where("user_id = ?", userID).Order("provider").Find(&conns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list provider connections: %w", err)
	}
	return conns, nil
}

func (r *connectionRepository) StatusMap(userID int64) (map[player.Provider]model.ConnectionStatus, error) {
	conns, err := r.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	status := make(map[player.Provider]model.ConnectionStatus, len(conns))
	for _, c := range conns {
		p, ok := player.ParseProvider(c.Provider)
		if !ok {
			continue
		}
		status[p] = model.ConnectionStatus{Connected: c.Connected, Premium: c.Premium}
	}
	return status, nil
}

func (r *connectionRepository) Disconnect(userID int64, provider string) error {
	result := r.db.Model(&model.ProviderConnection{}).
		Where("user_id = ? AND provider = ?", userID, provider).
		Updates(map[string]interface{}{
			"connected":     false,
			"premium":       false,
			"access_token":  "",
			"refresh_token": "",
		})
	if result.Error != nil {
		return fmt.Errorf("failed to disconnect provider: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no connection found for provider %s", provider)
	}
	return nil
}
