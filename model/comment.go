package model

import "time"

// Comment is a user comment on a track. Managed through GORM.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TrackID   int64     `json:"trackId" gorm:"index"`
	UserID    int64     `json:"userId" gorm:"index"`
	Username  string    `json:"username" gorm:"size:100"`
	Body      string    `json:"body" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
