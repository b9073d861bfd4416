package model

import "time"

// Interaction actions form a closed enum.
const (
	ActionLike = "like"
	ActionSave = "save"
	ActionSkip = "skip"
)

// ValidInteractionAction reports whether action belongs to the closed enum.
func ValidInteractionAction(action string) bool {
	switch action {
	case ActionLike, ActionSave, ActionSkip:
		return true
	}
	return false
}

// Like is a (user, track) like row.
type Like struct {
	UserID    int64     `json:"userId"`
	TrackID   int64     `json:"trackId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Save is a (user, track) save row.
type Save struct {
	UserID    int64     `json:"userId"`
	TrackID   int64     `json:"trackId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Interaction is a generic interaction row (like/save/skip) used by the
// analytics feed.
type Interaction struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	TrackID   int64     `json:"trackId"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlayEvent records a "user attempted to play via provider X" event.
// Secondary analytics, never a system of record; a dropped event is an
// accepted loss.
type PlayEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    int64     `json:"userId" gorm:"index"`
	TrackID   int64     `json:"trackId" gorm:"index"`
	Provider  string    `json:"provider" gorm:"size:32"`
	Action    string    `json:"action" gorm:"size:16"` // open_app, open_web, preview
	Context   string    `json:"context,omitempty" gorm:"size:64"`
	CreatedAt time.Time `json:"createdAt"`
}
