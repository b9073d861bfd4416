package player

import (
	"reflect"
	"testing"

	"chordfm/model"
)

func TestURLsFor(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		trackID  string
		want     URLSet
	}{
		{"spotify", ProviderSpotify, "abc123", URLSet{
			Web: "https://open.spotify.com/track/abc123",
			App: "spotify:track:abc123",
		}},
		{"youtube", ProviderYoutube, "dQw4w9WgXcQ", URLSet{
			Web: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			App: "vnd.youtube://watch?v=dQw4w9WgXcQ",
		}},
		{"apple_music_web_only", ProviderAppleMusic, "99", URLSet{
			Web: "https://music.apple.com/song/99",
		}},
		{"deezer_web_only", ProviderDeezer, "42", URLSet{
			Web: "https://www.deezer.com/track/42",
		}},
		{"soundcloud_unknown_scheme", ProviderSoundcloud, "s1", URLSet{}},
		{"amazon_unknown_scheme", ProviderAmazonMusic, "a1", URLSet{}},
		{"unknown_provider", Provider("tidal"), "x", URLSet{}},
		{"empty_track_id", ProviderSpotify, "", URLSet{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URLsFor(tt.provider, tt.trackID); got != tt.want {
				t.Errorf("URLsFor(%q, %q) = %+v; want %+v", tt.provider, tt.trackID, got, tt.want)
			}
		})
	}
}

func TestParseProvider(t *testing.T) {
	if p, ok := ParseProvider(" Spotify "); !ok || p != ProviderSpotify {
		t.Errorf("ParseProvider(Spotify) = %q, %v", p, ok)
	}
	if _, ok := ParseProvider("napster"); ok {
		t.Error("ParseProvider(napster) accepted an unknown provider")
	}
}

func TestResolveNormalizedList(t *testing.T) {
	track := &model.Track{
		ID: 1,
		Links: []model.ProviderLink{
			{Provider: "youtube", ProviderTrackID: "yt1", WebURL: "https://youtu.be/yt1"},
			{Provider: "spotify", ProviderTrackID: "sp1", WebURL: "https://open.spotify.com/track/sp1", AppURL: "spotify:track:sp1", PreviewURL: "https://p.scdn.co/sp1"},
			{Provider: "spotify", ProviderTrackID: "sp2", WebURL: "https://open.spotify.com/track/sp2"}, // duplicate provider, dropped
			{Provider: "tidal", ProviderTrackID: "td1", WebURL: "https://tidal.com/td1"},                // unknown provider, dropped
			{Provider: "deezer", ProviderTrackID: "dz1"},                                                // no urls at all, dropped
		},
		// Legacy fields must be ignored when a normalized list exists.
		SpotifyID: "legacy",
	}

	got := Resolve(track)
	want := []ResolvedLink{
		{Provider: ProviderYoutube, ProviderTrackID: "yt1", WebURL: "https://youtu.be/yt1"},
		{Provider: ProviderSpotify, ProviderTrackID: "sp1", WebURL: "https://open.spotify.com/track/sp1", AppURL: "spotify:track:sp1", PreviewURL: "https://p.scdn.co/sp1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %+v; want %+v", got, want)
	}
}

func TestResolveBackendURLsVerbatim(t *testing.T) {
	// The backend's URL wins over anything the registry would synthesize.
	track := &model.Track{
		Links: []model.ProviderLink{
			{Provider: "youtube", ProviderTrackID: "abc", WebURL: "https://music.youtube.com/watch?v=abc"},
		},
	}
	got := Resolve(track)
	if len(got) != 1 || got[0].WebURL != "https://music.youtube.com/watch?v=abc" {
		t.Errorf("Resolve() regenerated a backend URL: %+v", got)
	}
	if got[0].AppURL != "" {
		t.Errorf("Resolve() invented an app URL the backend never supplied: %+v", got)
	}
}

func TestResolveLegacyFields(t *testing.T) {
	tests := []struct {
		name  string
		track model.Track
		want  []ResolvedLink
	}{
		{
			name:  "youtube_id_only_synthesizes_urls",
			track: model.Track{YoutubeID: "abc"},
			want: []ResolvedLink{
				{Provider: ProviderYoutube, ProviderTrackID: "abc",
					WebURL: "https://www.youtube.com/watch?v=abc",
					AppURL: "vnd.youtube://watch?v=abc"},
			},
		},
		{
			name:  "explicit_legacy_url_wins",
			track: model.Track{YoutubeID: "abc", URLYoutube: "https://youtu.be/abc"},
			want: []ResolvedLink{
				{Provider: ProviderYoutube, ProviderTrackID: "abc",
					WebURL: "https://youtu.be/abc",
					AppURL: "vnd.youtube://watch?v=abc"},
			},
		},
		{
			name:  "spotify_before_youtube",
			track: model.Track{SpotifyID: "sp", YoutubeID: "yt"},
			want: []ResolvedLink{
				{Provider: ProviderSpotify, ProviderTrackID: "sp",
					WebURL: "https://open.spotify.com/track/sp",
					AppURL: "spotify:track:sp"},
				{Provider: ProviderYoutube, ProviderTrackID: "yt",
					WebURL: "https://www.youtube.com/watch?v=yt",
					AppURL: "vnd.youtube://watch?v=yt"},
			},
		},
		{
			name: "explicit_spotify_urls",
			track: model.Track{SpotifyID: "sp",
				URLSpotifyWeb: "https://open.spotify.com/intl-fr/track/sp",
				URLSpotifyApp: "spotify:track:sp?si=x"},
			want: []ResolvedLink{
				{Provider: ProviderSpotify, ProviderTrackID: "sp",
					WebURL: "https://open.spotify.com/intl-fr/track/sp",
					AppURL: "spotify:track:sp?si=x"},
			},
		},
		{
			name:  "no_provider_data",
			track: model.Track{Title: "bare"},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(&tt.track)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveUniquePerProvider(t *testing.T) {
	track := &model.Track{
		Links: []model.ProviderLink{
			{Provider: "spotify", ProviderTrackID: "a", WebURL: "https://open.spotify.com/track/a"},
			{Provider: "spotify", ProviderTrackID: "b", WebURL: "https://open.spotify.com/track/b"},
			{Provider: "youtube", ProviderTrackID: "c", WebURL: "https://www.youtube.com/watch?v=c"},
			{Provider: "youtube", ProviderTrackID: "d", WebURL: "https://www.youtube.com/watch?v=d"},
		},
	}
	seen := make(map[Provider]int)
	for _, link := range Resolve(track) {
		seen[link.Provider]++
	}
	for p, n := range seen {
		if n > 1 {
			t.Errorf("Resolve() produced %d links for %s; want at most 1", n, p)
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	track := &model.Track{
		SpotifyID: "sp",
		YoutubeID: "yt",
		Links: []model.ProviderLink{
			{Provider: "spotify", ProviderTrackID: "sp1", WebURL: "https://open.spotify.com/track/sp1"},
		},
	}
	first := Resolve(track)
	second := Resolve(track)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Resolve() not idempotent: %+v != %+v", first, second)
	}
}

func TestLinkFor(t *testing.T) {
	track := &model.Track{SpotifyID: "sp", YoutubeID: "yt"}
	link, ok := LinkFor(track, ProviderYoutube)
	if !ok || link.ProviderTrackID != "yt" {
		t.Errorf("LinkFor(youtube) = %+v, %v", link, ok)
	}
	if _, ok := LinkFor(track, ProviderDeezer); ok {
		t.Error("LinkFor(deezer) found a link that does not exist")
	}
}
