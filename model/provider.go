package model

import "time"

// ProviderConnection is a per-user, per-provider linked-account row. The
// default-provider policy reads Connected and Premium as read-only input.
type ProviderConnection struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       int64     `json:"userId" gorm:"index:idx_user_provider,unique"`
	Provider     string    `json:"provider" gorm:"size:32;index:idx_user_provider,unique"`
	Connected    bool      `json:"connected"`
	Premium      bool      `json:"premium"`
	AccessToken  string    `json:"-" gorm:"type:text"`
	RefreshToken string    `json:"-" gorm:"type:text"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ConnectionStatus is the read-only view handed to the playback policy.
type ConnectionStatus struct {
	Connected bool `json:"connected"`
	Premium   bool `json:"premium"`
}
