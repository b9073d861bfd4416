package model

import (
	"database/sql"
	"time"
)

// User represents a user in the system.
type User struct {
	ID           int64          `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // Not exposed in API responses
	DisplayName  sql.NullString `json:"displayName,omitempty"`
	// PreferredProvider is the user's durable playback preference.
	// Empty or "none" means no explicit choice.
	PreferredProvider string    `json:"preferredProvider,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
