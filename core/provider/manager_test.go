package provider

import (
	"context"
	"reflect"
	"testing"

	"chordfm/model"
)

type stubConnector struct {
	name    string
	healthy bool
}

func (s stubConnector) Name() string { return s.name }

func (s stubConnector) SearchTracks(context.Context, SearchOptions) ([]NormalizedTrack, error) {
	return nil, nil
}

func (s stubConnector) ResolveLinks(context.Context, string) (model.ProviderLink, error) {
	return model.ProviderLink{Provider: s.name}, nil
}

func (s stubConnector) CheckHealth(context.Context) bool { return s.healthy }

func TestManagerRegisterAndGet(t *testing.T) {
	m := NewManager()
	m.Register(stubConnector{name: "spotify"})
	m.Register(stubConnector{name: "youtube"})

	c, err := m.Get("spotify")
	if err != nil || c.Name() != "spotify" {
		t.Errorf("Get(spotify) = %v, %v", c, err)
	}
	if _, err := m.Get("tidal"); err == nil {
		t.Error("Get(tidal) found an unregistered connector")
	}
	if names := m.Names(); !reflect.DeepEqual(names, []string{"spotify", "youtube"}) {
		t.Errorf("Names() = %v", names)
	}
}

func TestManagerHealth(t *testing.T) {
	m := NewManager()
	m.Register(stubConnector{name: "spotify", healthy: true})
	m.Register(stubConnector{name: "lastfm", healthy: false})

	got := m.Health(context.Background())
	want := map[string]bool{"spotify": true, "lastfm": false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Health() = %v; want %v", got, want)
	}
}
