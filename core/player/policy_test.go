package player

import (
	"testing"

	"chordfm/model"
)

func TestChooseDefault(t *testing.T) {
	connected := map[Provider]model.ConnectionStatus{
		ProviderSpotify: {Connected: true, Premium: true},
	}
	disconnected := map[Provider]model.ConnectionStatus{
		ProviderSpotify: {Connected: false},
	}

	tests := []struct {
		name       string
		preference string
		status     map[Provider]model.ConnectionStatus
		want       Provider
	}{
		{"spotify_pref_connected", "spotify", connected, ProviderSpotify},
		{"spotify_pref_not_connected", "spotify", disconnected, ProviderYoutube},
		{"other_pref_needs_no_account", "deezer", disconnected, ProviderDeezer},
		{"youtube_pref", "youtube", nil, ProviderYoutube},
		{"no_pref_spotify_connected", "", connected, ProviderSpotify},
		{"none_pref_spotify_connected", "none", connected, ProviderSpotify},
		{"no_pref_nothing_connected", "", disconnected, ProviderYoutube},
		{"no_pref_empty_status", "none", nil, ProviderYoutube},
		{"garbage_pref_falls_through", "winamp", connected, ProviderSpotify},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChooseDefault(tt.preference, tt.status); got != tt.want {
				t.Errorf("ChooseDefault(%q) = %q; want %q", tt.preference, got, tt.want)
			}
		})
	}
}
