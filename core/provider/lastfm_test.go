package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newLastfmTestServer(t *testing.T, handler func(method string, w http.ResponseWriter, r *http.Request)) *LastfmConnector {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Errorf("missing api_key param: %s", r.URL)
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("missing format param: %s", r.URL)
		}
		handler(r.URL.Query().Get("method"), w, r)
	}))
	t.Cleanup(srv.Close)
	return NewLastfmConnector("test-key", srv.URL)
}

func TestLastfmSearchTracks(t *testing.T) {
	c := newLastfmTestServer(t, func(method string, w http.ResponseWriter, r *http.Request) {
		if method != "track.search" {
			t.Errorf("method = %q", method)
		}
		if q := r.URL.Query().Get("track"); q != "autumn leaves" {
			t.Errorf("track = %q", q)
		}
		w.Write([]byte(`{"results":{"trackmatches":{"track":[
			{"name":"Autumn Leaves","artist":"Chet Baker","url":"https://www.last.fm/music/Chet+Baker/_/Autumn+Leaves","mbid":"mb-1"},
			{"name":"Autumn Leaves","artist":"Bill Evans","url":"https://www.last.fm/music/Bill+Evans/_/Autumn+Leaves","mbid":""}
		]}}}`))
	})

	tracks, err := c.SearchTracks(context.Background(), SearchOptions{Query: "autumn leaves", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks; want 2", len(tracks))
	}
	if tracks[0].ProviderTrackID != "mb-1" || tracks[0].Artists[0] != "Chet Baker" {
		t.Errorf("first track = %+v", tracks[0])
	}
	// Tracks without an MBID fall back to the page URL as id.
	if tracks[1].ProviderTrackID != tracks[1].WebURL {
		t.Errorf("mbid-less track id = %q", tracks[1].ProviderTrackID)
	}
}

func TestLastfmResolveLinks(t *testing.T) {
	c := newLastfmTestServer(t, func(method string, w http.ResponseWriter, r *http.Request) {
		if method != "track.getInfo" {
			t.Errorf("method = %q", method)
		}
		w.Write([]byte(`{"track":{"name":"So What","url":"https://www.last.fm/music/Miles+Davis/_/So+What"}}`))
	})

	link, err := c.ResolveLinks(context.Background(), "mb-2")
	if err != nil {
		t.Fatal(err)
	}
	if link.Provider != "lastfm" || link.WebURL == "" || link.AppURL != "" {
		t.Errorf("link = %+v", link)
	}
}

func TestLastfmResolveLinksNotFound(t *testing.T) {
	c := newLastfmTestServer(t, func(method string, w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"track":{}}`))
	})

	if _, err := c.ResolveLinks(context.Background(), "missing"); err == nil {
		t.Error("ResolveLinks() accepted an empty track")
	}
}

func TestLastfmUserInfo(t *testing.T) {
	c := newLastfmTestServer(t, func(method string, w http.ResponseWriter, r *http.Request) {
		if method != "user.getInfo" {
			t.Errorf("method = %q", method)
		}
		w.Write([]byte(`{"user":{"name":"rj","url":"https://www.last.fm/user/rj","playcount":"12345"}}`))
	})

	user, err := c.UserInfo(context.Background(), "rj")
	if err != nil {
		t.Fatal(err)
	}
	if user.Name != "rj" || user.PlayCount != 12345 {
		t.Errorf("user = %+v", user)
	}
}

func TestLastfmRecentTracks(t *testing.T) {
	c := newLastfmTestServer(t, func(method string, w http.ResponseWriter, r *http.Request) {
		if method != "user.getRecentTracks" {
			t.Errorf("method = %q", method)
		}
		w.Write([]byte(`{"recenttracks":{"track":[
			{"name":"Naima","url":"https://www.last.fm/music/John+Coltrane/_/Naima","artist":{"#text":"John Coltrane"}}
		]}}`))
	})

	tracks, err := c.RecentTracks(context.Background(), "rj", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 || tracks[0].Artists[0] != "John Coltrane" {
		t.Errorf("tracks = %+v", tracks)
	}
}

func TestLastfmCheckHealth(t *testing.T) {
	healthy := newLastfmTestServer(t, func(method string, w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"trackmatches":{"track":[]}}}`))
	})
	if !healthy.CheckHealth(context.Background()) {
		t.Error("healthy endpoint reported unhealthy")
	}

	broken := newLastfmTestServer(t, func(method string, w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if broken.CheckHealth(context.Background()) {
		t.Error("broken endpoint reported healthy")
	}
}
