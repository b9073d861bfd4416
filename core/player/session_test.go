package player

import (
	"sync"
	"testing"

	"chordfm/model"
)

// captureRecorder collects events synchronously for assertions.
type captureRecorder struct {
	mu     sync.Mutex
	events []model.PlayEvent
}

func (r *captureRecorder) Record(ev model.PlayEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *captureRecorder) all() []model.PlayEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.PlayEvent(nil), r.events...)
}

func TestOpenPlayer(t *testing.T) {
	rec := &captureRecorder{}
	s := NewSession("tab1", 7, rec)

	st := s.OpenPlayer(OpenRequest{
		CanonicalTrackID: 1,
		Provider:         ProviderYoutube,
		ProviderTrackID:  "yt1",
		Context:          "feed",
	})

	if !st.Open || st.CanonicalTrackID != 1 || st.Provider != ProviderYoutube ||
		st.ProviderTrackID != "yt1" || !st.Autoplay || st.SeekToSec != nil {
		t.Errorf("OpenPlayer state = %+v", st)
	}

	events := rec.all()
	if len(events) != 1 {
		t.Fatalf("recorded %d events; want 1", len(events))
	}
	if events[0].Action != PlayActionPreview || events[0].Context != "feed" ||
		events[0].TrackID != 1 || events[0].Provider != "youtube" || events[0].UserID != 7 {
		t.Errorf("recorded event = %+v", events[0])
	}
}

func TestOpenPlayerWithoutTrackRecordsNothing(t *testing.T) {
	rec := &captureRecorder{}
	s := NewSession("tab1", 0, rec)

	s.OpenPlayer(OpenRequest{Provider: ProviderSpotify, ProviderTrackID: "sp1"})

	if n := len(rec.all()); n != 0 {
		t.Errorf("recorded %d events for a trackless open; want 0", n)
	}
}

func TestClosePlayerKeepsContext(t *testing.T) {
	s := NewSession("tab1", 0, nil)
	s.OpenPlayer(OpenRequest{CanonicalTrackID: 1, Provider: ProviderYoutube, ProviderTrackID: "yt1"})
	s.SeekTo(30)

	st := s.ClosePlayer()

	if st.Open || st.Autoplay || st.SeekToSec != nil || st.IsPlaying {
		t.Errorf("ClosePlayer left playback fields set: %+v", st)
	}
	// Track and provider survive so "last played" can reopen with one click.
	if st.CanonicalTrackID != 1 || st.Provider != ProviderYoutube || st.ProviderTrackID != "yt1" {
		t.Errorf("ClosePlayer dropped context: %+v", st)
	}
}

func TestReopenWithoutTrackResumesContext(t *testing.T) {
	s := NewSession("tab1", 0, nil)
	s.OpenPlayer(OpenRequest{CanonicalTrackID: 9, Provider: ProviderSpotify, ProviderTrackID: "sp9"})
	s.ClosePlayer()

	st := s.OpenPlayer(OpenRequest{ProviderTrackID: "sp9", Provider: ProviderSpotify})

	if st.CanonicalTrackID != 9 {
		t.Errorf("reopen lost canonical track: %+v", st)
	}
}

func TestSwitchProvider(t *testing.T) {
	rec := &captureRecorder{}
	s := NewSession("tab1", 3, rec)
	s.OpenPlayer(OpenRequest{CanonicalTrackID: 1, Provider: ProviderYoutube, ProviderTrackID: "yt1"})
	s.SeekTo(42)
	s.ClosePlayer()

	st := s.SwitchProvider(ProviderSpotify, "sp1", 1)

	if !st.Open || !st.Autoplay || st.SeekToSec != nil ||
		st.Provider != ProviderSpotify || st.ProviderTrackID != "sp1" || st.CanonicalTrackID != 1 {
		t.Errorf("SwitchProvider state = %+v", st)
	}

	events := rec.all()
	last := events[len(events)-1]
	if last.Context != "provider-switch" || last.Provider != "spotify" {
		t.Errorf("switch event = %+v", last)
	}
}

func TestSeekOneShot(t *testing.T) {
	s := NewSession("tab1", 0, nil)
	s.OpenPlayer(OpenRequest{CanonicalTrackID: 1, Provider: ProviderYoutube, ProviderTrackID: "yt1"})

	st := s.SeekTo(42)
	if st.SeekToSec == nil || *st.SeekToSec != 42 {
		t.Fatalf("SeekTo state = %+v", st)
	}

	// The adapter observes the pending seek exactly once.
	sec, ok := s.ConsumeSeek()
	if !ok || sec != 42 {
		t.Errorf("ConsumeSeek() = %v, %v; want 42, true", sec, ok)
	}
	if _, ok := s.ConsumeSeek(); ok {
		t.Error("ConsumeSeek() returned a second value for a one-shot seek")
	}
	if st := s.State(); st.SeekToSec != nil {
		t.Errorf("seek not cleared after consumption: %+v", st)
	}
}

func TestClearSeek(t *testing.T) {
	s := NewSession("tab1", 0, nil)
	s.SeekTo(10)
	st := s.ClearSeek()
	if st.SeekToSec != nil {
		t.Errorf("ClearSeek state = %+v", st)
	}
}

func TestSectionAndPlayingSetters(t *testing.T) {
	s := NewSession("tab1", 0, nil)
	id := int64(5)

	if st := s.SetCurrentSection(&id); st.CurrentSectionID == nil || *st.CurrentSectionID != 5 {
		t.Errorf("SetCurrentSection state = %+v", st)
	}
	if st := s.SetCurrentSection(nil); st.CurrentSectionID != nil {
		t.Errorf("SetCurrentSection(nil) state = %+v", st)
	}
	if st := s.SetIsPlaying(true); !st.IsPlaying {
		t.Errorf("SetIsPlaying state = %+v", st)
	}
}

func TestDefaultProviderIsYoutube(t *testing.T) {
	s := NewSession("tab1", 0, nil)
	if st := s.State(); st.Provider != ProviderYoutube || st.Open {
		t.Errorf("fresh session state = %+v", st)
	}
}

func TestSessionManagerReusesAndSweeps(t *testing.T) {
	m := NewSessionManager(NopRecorder{})

	a := m.Get("tab1", 1)
	b := m.Get("tab1", 1)
	if a != b {
		t.Error("Get returned a new session for an existing id")
	}

	m.Get("tab2", 2)
	m.idleTTL = 0 // everything is instantly idle
	if removed := m.Sweep(); removed != 2 {
		t.Errorf("Sweep() removed %d; want 2", removed)
	}
}
