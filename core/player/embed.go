package player

import (
	"encoding/json"
	"net/url"
)

// EmbedAdapter renders a provider's track as an in-page iframe surface and
// reacts to session seek instructions. Adapters never know about each other;
// selection is by the session's provider field only.
type EmbedAdapter interface {
	Provider() Provider
	// EmbedURL builds the iframe src for a provider track.
	EmbedURL(providerTrackID string, autoplay bool) string
	// CanSeek reports whether the surface supports programmatic seeking.
	CanSeek() bool
	// SeekCommand synthesizes the postMessage payload honoring a seek, when
	// the surface supports it.
	SeekCommand(sec float64) (string, bool)
}

// SpotifyEmbed is Spotify's official embed widget. Autoplay rides a URL
// parameter; the widget has no programmatic seek, so a pending seek simply
// cannot be honored here.
type SpotifyEmbed struct{}

func (SpotifyEmbed) Provider() Provider { return ProviderSpotify }

func (SpotifyEmbed) EmbedURL(providerTrackID string, autoplay bool) string {
	u := url.URL{Scheme: "https", Host: "open.spotify.com", Path: "/embed/track/" + providerTrackID}
	q := url.Values{"utm_source": {"generator"}}
	if autoplay {
		q.Set("autoplay", "1")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (SpotifyEmbed) CanSeek() bool { return false }

func (SpotifyEmbed) SeekCommand(float64) (string, bool) { return "", false }

// YoutubeEmbed is YouTube's embeddable player with the JS bridge enabled.
// Seeks are delivered as postMessage commands into the iframe window.
type YoutubeEmbed struct {
	// Origin is passed both as the player's origin parameter and as the
	// postMessage target origin.
	Origin string
}

func (YoutubeEmbed) Provider() Provider { return ProviderYoutube }

func (e YoutubeEmbed) EmbedURL(providerTrackID string, autoplay bool) string {
	u := url.URL{Scheme: "https", Host: "www.youtube.com", Path: "/embed/" + providerTrackID}
	q := url.Values{
		"enablejsapi":    {"1"},
		"modestbranding": {"1"},
	}
	if autoplay {
		q.Set("autoplay", "1")
	}
	if e.Origin != "" {
		q.Set("origin", e.Origin)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (YoutubeEmbed) CanSeek() bool { return true }

func (YoutubeEmbed) SeekCommand(sec float64) (string, bool) {
	payload := struct {
		Event string        `json:"event"`
		Func  string        `json:"func"`
		Args  []interface{} `json:"args"`
	}{
		Event: "command",
		Func:  "seekTo",
		Args:  []interface{}{sec, true}, // true = allow seek ahead of buffer
	}
	b, _ := json.Marshal(payload)
	return string(b), true
}

// AdapterFor maps a provider to its embed adapter. Providers without an
// embeddable surface return false; the UI falls back to the link opener.
func AdapterFor(p Provider, origin string) (EmbedAdapter, bool) {
	switch p {
	case ProviderSpotify:
		return SpotifyEmbed{}, true
	case ProviderYoutube:
		return YoutubeEmbed{Origin: origin}, true
	}
	return nil, false
}

// ApplySeek consumes the session's one-shot seek through the adapter. The
// seek is cleared even when the adapter cannot honor it — a stale
// instruction must not re-fire on the next mount.
func ApplySeek(s *Session, a EmbedAdapter) (string, bool) {
	sec, ok := s.ConsumeSeek()
	if !ok {
		return "", false
	}
	return a.SeekCommand(sec)
}
