package player

import (
	"sync"
	"time"

	"chordfm/model"
)

// State is the externally visible playback-session record. It exists once
// per browser tab and is never persisted; a reload starts from zero.
type State struct {
	Open             bool     `json:"open"`
	CanonicalTrackID int64    `json:"canonicalTrackId,omitempty"`
	Provider         Provider `json:"provider"`
	ProviderTrackID  string   `json:"providerTrackId,omitempty"`
	Autoplay         bool     `json:"autoplay"`
	SeekToSec        *float64 `json:"seekToSec,omitempty"`
	CurrentSectionID *int64   `json:"currentSectionId,omitempty"`
	IsPlaying        bool     `json:"isPlaying"`
}

// Session owns one playback-session record. All mutation goes through the
// named transitions below; nothing else writes the state. Transitions are
// synchronous — play-event recording is handed to the recorder's detached
// goroutine so no transition waits on the network.
type Session struct {
	id     string
	userID int64

	mu       sync.Mutex
	state    State
	recorder Recorder
	touched  time.Time
}

// NewSession creates a closed session. The provider defaults to youtube
// until a transition says otherwise.
func NewSession(id string, userID int64, recorder Recorder) *Session {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Session{
		id:       id,
		userID:   userID,
		state:    State{Provider: ProviderYoutube},
		recorder: recorder,
		touched:  time.Now(),
	}
}

// ID returns the opaque session id.
func (s *Session) ID() string { return s.id }

// State returns a copy of the current session record.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OpenRequest carries the payload of an OpenPlayer transition.
type OpenRequest struct {
	CanonicalTrackID int64
	Provider         Provider
	ProviderTrackID  string
	Autoplay         *bool // nil means true
	SeekToSec        *float64
	Context          string // e.g. "feed", "album", "search"
}

// OpenPlayer opens the player. A zero CanonicalTrackID keeps the previous
// one, so switching provider without new track data keeps its context. If a
// canonical track is known, a "preview" play event is recorded off the
// transition path.
func (s *Session) OpenPlayer(req OpenRequest) State {
	s.mu.Lock()
	s.state.Open = true
	if req.CanonicalTrackID != 0 {
		s.state.CanonicalTrackID = req.CanonicalTrackID
	}
	if req.Provider != "" {
		s.state.Provider = req.Provider
	}
	s.state.ProviderTrackID = req.ProviderTrackID
	s.state.Autoplay = req.Autoplay == nil || *req.Autoplay
	s.state.SeekToSec = req.SeekToSec
	s.touched = time.Now()
	st := s.state
	s.mu.Unlock()

	if st.CanonicalTrackID != 0 {
		s.recorder.Record(model.PlayEvent{
			UserID:   s.userID,
			TrackID:  st.CanonicalTrackID,
			Provider: string(st.Provider),
			Action:   PlayActionPreview,
			Context:  req.Context,
		})
	}
	return st
}

// SwitchProvider switches mid-listen: always forces the player open with
// autoplay, clears any pending seek, and records the switch as its own play
// event distinct from an initial open.
func (s *Session) SwitchProvider(p Provider, providerTrackID string, canonicalTrackID int64) State {
	s.mu.Lock()
	s.state.Open = true
	s.state.Autoplay = true
	s.state.SeekToSec = nil
	s.state.Provider = p
	s.state.ProviderTrackID = providerTrackID
	if canonicalTrackID != 0 {
		s.state.CanonicalTrackID = canonicalTrackID
	}
	s.touched = time.Now()
	st := s.state
	s.mu.Unlock()

	if st.CanonicalTrackID != 0 {
		s.recorder.Record(model.PlayEvent{
			UserID:   s.userID,
			TrackID:  st.CanonicalTrackID,
			Provider: string(p),
			Action:   PlayActionPreview,
			Context:  "provider-switch",
		})
	}
	return st
}

// ClosePlayer closes the player but keeps the last track and provider, so a
// later open without new data resumes the previous context.
func (s *Session) ClosePlayer() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Open = false
	s.state.Autoplay = false
	s.state.SeekToSec = nil
	s.state.IsPlaying = false
	s.touched = time.Now()
	return s.state
}

// SeekTo sets a one-shot seek instruction consumed by the active embed
// adapter.
func (s *Session) SeekTo(sec float64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SeekToSec = &sec
	s.touched = time.Now()
	return s.state
}

// ClearSeek clears the pending seek. Adapters must call this right after
// consuming a seek or the next adapter mount will re-seek.
func (s *Session) ClearSeek() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SeekToSec = nil
	return s.state
}

// SetCurrentSection records which named section the listener is in. Nil
// clears it.
func (s *Session) SetCurrentSection(id *int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentSectionID = id
	s.touched = time.Now()
	return s.state
}

// SetIsPlaying is a best-effort status report from an adapter. Not every
// embed surface can observe real playback.
func (s *Session) SetIsPlaying(playing bool) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsPlaying = playing
	s.touched = time.Now()
	return s.state
}

// ConsumeSeek atomically takes the pending seek instruction, if any. An
// adapter observing a seek sees it exactly once.
func (s *Session) ConsumeSeek() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SeekToSec == nil {
		return 0, false
	}
	sec := *s.state.SeekToSec
	s.state.SeekToSec = nil
	return sec, true
}

// SessionManager hands out one Session per client tab, keyed by an opaque
// session id. Idle sessions are dropped; there is nothing to persist.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	recorder Recorder
	idleTTL  time.Duration
}

// NewSessionManager creates a manager recording play events through the
// given recorder.
func NewSessionManager(recorder Recorder) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		recorder: recorder,
		idleTTL:  4 * time.Hour,
	}
}

// Get returns the session for id, creating it on first use.
func (m *SessionManager) Get(id string, userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := NewSession(id, userID, m.recorder)
	m.sessions[id] = s
	return s
}

// Sweep drops sessions idle past the TTL and reports how many were removed.
func (m *SessionManager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	cutoff := time.Now().Add(-m.idleTTL)
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.touched.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
