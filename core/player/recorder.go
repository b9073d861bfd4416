package player

import (
	"context"
	"time"

	"chordfm/logger"
	"chordfm/model"

	"github.com/google/uuid"
)

// Play-event actions form a closed enum.
const (
	PlayActionOpenApp = "open_app"
	PlayActionOpenWeb = "open_web"
	PlayActionPreview = "preview"
)

// PlayEventStore persists play events. Implemented by the GORM repository.
type PlayEventStore interface {
	InsertPlayEvent(ctx context.Context, event *model.PlayEvent) error
}

// Recorder logs play attempts. Best effort: implementations must never block
// the caller or surface failures to it.
type Recorder interface {
	Record(event model.PlayEvent)
}

// asyncRecorder writes each event on a detached goroutine. A failed write is
// logged and dropped; there is no retry.
type asyncRecorder struct {
	store   PlayEventStore
	timeout time.Duration
}

// NewAsyncRecorder creates a fire-and-forget recorder over the given store.
func NewAsyncRecorder(store PlayEventStore) Recorder {
	return &asyncRecorder{store: store, timeout: 5 * time.Second}
}

func (r *asyncRecorder) Record(event model.PlayEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.store.InsertPlayEvent(ctx, &event); err != nil {
			logger.Warn("play event dropped",
				logger.Int64("trackId", event.TrackID),
				logger.String("provider", event.Provider),
				logger.String("action", event.Action),
				logger.ErrorField(err))
		}
	}()
}

// NopRecorder discards every event. Used in tests and for anonymous sessions.
type NopRecorder struct{}

func (NopRecorder) Record(model.PlayEvent) {}
