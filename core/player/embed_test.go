package player

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
)

func TestSpotifyEmbedURL(t *testing.T) {
	u, err := url.Parse(SpotifyEmbed{}.EmbedURL("sp1", true))
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "open.spotify.com" || u.Path != "/embed/track/sp1" {
		t.Errorf("embed URL = %s", u)
	}
	if u.Query().Get("autoplay") != "1" {
		t.Errorf("autoplay missing: %s", u)
	}

	u, _ = url.Parse(SpotifyEmbed{}.EmbedURL("sp1", false))
	if u.Query().Get("autoplay") != "" {
		t.Errorf("autoplay set without request: %s", u)
	}
}

func TestSpotifyEmbedCannotSeek(t *testing.T) {
	if (SpotifyEmbed{}).CanSeek() {
		t.Error("spotify embed claims seek support")
	}
	if _, ok := (SpotifyEmbed{}).SeekCommand(30); ok {
		t.Error("spotify embed produced a seek command")
	}
}

func TestYoutubeEmbedURL(t *testing.T) {
	e := YoutubeEmbed{Origin: "https://chordfm.example"}
	u, err := url.Parse(e.EmbedURL("yt1", true))
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "www.youtube.com" || u.Path != "/embed/yt1" {
		t.Errorf("embed URL = %s", u)
	}
	q := u.Query()
	if q.Get("enablejsapi") != "1" || q.Get("autoplay") != "1" ||
		q.Get("modestbranding") != "1" || q.Get("origin") != "https://chordfm.example" {
		t.Errorf("embed query = %v", q)
	}
}

func TestYoutubeSeekCommand(t *testing.T) {
	cmd, ok := YoutubeEmbed{}.SeekCommand(42.5)
	if !ok {
		t.Fatal("youtube embed refused a seek command")
	}

	var payload struct {
		Event string        `json:"event"`
		Func  string        `json:"func"`
		Args  []interface{} `json:"args"`
	}
	if err := json.Unmarshal([]byte(cmd), &payload); err != nil {
		t.Fatalf("seek command is not JSON: %v", err)
	}
	if payload.Event != "command" || payload.Func != "seekTo" {
		t.Errorf("seek payload = %+v", payload)
	}
	if len(payload.Args) != 2 || payload.Args[0].(float64) != 42.5 || payload.Args[1].(bool) != true {
		t.Errorf("seek args = %v", payload.Args)
	}
}

func TestAdapterFor(t *testing.T) {
	if a, ok := AdapterFor(ProviderSpotify, ""); !ok || a.Provider() != ProviderSpotify {
		t.Errorf("AdapterFor(spotify) = %v, %v", a, ok)
	}
	if a, ok := AdapterFor(ProviderYoutube, "https://x"); !ok || !a.CanSeek() {
		t.Errorf("AdapterFor(youtube) = %v, %v", a, ok)
	}
	if _, ok := AdapterFor(ProviderDeezer, ""); ok {
		t.Error("AdapterFor(deezer) returned an adapter for a non-embeddable provider")
	}
}

func TestApplySeekConsumesExactlyOnce(t *testing.T) {
	s := NewSession("tab1", 0, nil)
	s.OpenPlayer(OpenRequest{CanonicalTrackID: 1, Provider: ProviderYoutube, ProviderTrackID: "yt1"})
	s.SeekTo(12)

	adapter, _ := AdapterFor(ProviderYoutube, "https://chordfm.example")
	cmd, ok := ApplySeek(s, adapter)
	if !ok || !strings.Contains(cmd, "seekTo") {
		t.Errorf("ApplySeek() = %q, %v", cmd, ok)
	}
	if _, ok := ApplySeek(s, adapter); ok {
		t.Error("ApplySeek() honored the same seek twice")
	}
}

func TestApplySeekClearsEvenWhenUnsupported(t *testing.T) {
	s := NewSession("tab1", 0, nil)
	s.SeekTo(12)

	if _, ok := ApplySeek(s, SpotifyEmbed{}); ok {
		t.Error("spotify adapter honored a seek")
	}
	// The instruction must not survive to re-fire on the next mount.
	if st := s.State(); st.SeekToSec != nil {
		t.Errorf("seek survived an unsupporting adapter: %+v", st)
	}
}
