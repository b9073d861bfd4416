package player

import "strings"

// Provider identifies an external playback service. The set is closed;
// anything else is rejected at the data-entry boundary.
type Provider string

const (
	ProviderSpotify     Provider = "spotify"
	ProviderYoutube     Provider = "youtube"
	ProviderAppleMusic  Provider = "apple_music"
	ProviderDeezer      Provider = "deezer"
	ProviderSoundcloud  Provider = "soundcloud"
	ProviderAmazonMusic Provider = "amazon_music"
)

// Providers lists the closed provider set in canonical order: spotify first
// (the assumed premium experience), then youtube (the zero-configuration
// fallback), then the rest.
var Providers = []Provider{
	ProviderSpotify,
	ProviderYoutube,
	ProviderAppleMusic,
	ProviderDeezer,
	ProviderSoundcloud,
	ProviderAmazonMusic,
}

// ParseProvider validates a raw provider id against the closed set.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Info carries display metadata for a provider.
type Info struct {
	ID          Provider `json:"id"`
	DisplayName string   `json:"displayName"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
}

var infoTable = map[Provider]Info{
	ProviderSpotify:     {ID: ProviderSpotify, DisplayName: "Spotify", Icon: "spotify", Color: "#1DB954"},
	ProviderYoutube:     {ID: ProviderYoutube, DisplayName: "YouTube", Icon: "youtube", Color: "#FF0000"},
	ProviderAppleMusic:  {ID: ProviderAppleMusic, DisplayName: "Apple Music", Icon: "apple", Color: "#FA243C"},
	ProviderDeezer:      {ID: ProviderDeezer, DisplayName: "Deezer", Icon: "deezer", Color: "#A238FF"},
	ProviderSoundcloud:  {ID: ProviderSoundcloud, DisplayName: "SoundCloud", Icon: "soundcloud", Color: "#FF5500"},
	ProviderAmazonMusic: {ID: ProviderAmazonMusic, DisplayName: "Amazon Music", Icon: "amazon", Color: "#25D1DA"},
}

// InfoFor returns display metadata for a provider.
func InfoFor(p Provider) (Info, bool) {
	info, ok := infoTable[p]
	return info, ok
}

// URLSet is a pair of synthesized playback URLs for one provider track.
type URLSet struct {
	Web string `json:"web,omitempty"`
	App string `json:"app,omitempty"`
}

// URLsFor synthesizes web/app URLs from a bare provider track id. Pure and
// total: providers without a known scheme (and unknown providers) yield an
// empty set, never an error.
func URLsFor(p Provider, providerTrackID string) URLSet {
	if providerTrackID == "" {
		return URLSet{}
	}
	switch p {
	case ProviderSpotify:
		return URLSet{
			Web: "https://open.spotify.com/track/" + providerTrackID,
			App: "spotify:track:" + providerTrackID,
		}
	case ProviderYoutube:
		return URLSet{
			Web: "https://www.youtube.com/watch?v=" + providerTrackID,
			App: "vnd.youtube://watch?v=" + providerTrackID,
		}
	case ProviderAppleMusic:
		return URLSet{Web: "https://music.apple.com/song/" + providerTrackID}
	case ProviderDeezer:
		return URLSet{Web: "https://www.deezer.com/track/" + providerTrackID}
	}
	// soundcloud and amazon_music have no id-only web scheme.
	return URLSet{}
}
