package provider

import (
	"context"
	"fmt"

	"chordfm/config"
	"chordfm/core/player"
	"chordfm/logger"
	"chordfm/model"

	spotifyclient "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// SpotifyConnector talks to the Spotify Web API with app-level
// client-credentials auth. Per-user OAuth tokens are handled separately by
// the oauth package; search and link resolution need no user context.
type SpotifyConnector struct {
	client *spotifyclient.Client
}

// NewSpotifyConnector creates a connector from the configured client
// credentials.
func NewSpotifyConnector(cfg *config.Config) (*SpotifyConnector, error) {
	ctx := context.Background()
	creds := &clientcredentials.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify token request failed: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &SpotifyConnector{client: spotifyclient.New(httpClient)}, nil
}

func (c *SpotifyConnector) Name() string { return string(player.ProviderSpotify) }

// SearchTracks searches Spotify's track catalog.
func (c *SpotifyConnector) SearchTracks(ctx context.Context, opts SearchOptions) ([]NormalizedTrack, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	results, err := c.client.Search(ctx, opts.Query, spotifyclient.SearchTypeTrack, spotifyclient.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}
	if results.Tracks == nil {
		return nil, nil
	}

	tracks := make([]NormalizedTrack, 0, len(results.Tracks.Tracks))
	for _, ft := range results.Tracks.Tracks {
		artists := make([]string, 0, len(ft.Artists))
		for _, a := range ft.Artists {
			artists = append(artists, a.Name)
		}
		nt := NormalizedTrack{
			Provider:        c.Name(),
			ProviderTrackID: string(ft.ID),
			Title:           ft.Name,
			Artists:         artists,
			Album:           ft.Album.Name,
			PreviewURL:      ft.PreviewURL,
			WebURL:          ft.ExternalURLs["spotify"],
			DurationSec:     float64(ft.Duration) / 1000,
		}
		if len(ft.Album.Images) > 0 {
			nt.ArtworkURL = ft.Album.Images[0].URL
		}
		tracks = append(tracks, nt)
	}
	return tracks, nil
}

// ResolveLinks builds a provider link for a Spotify track id.
func (c *SpotifyConnector) ResolveLinks(ctx context.Context, providerTrackID string) (model.ProviderLink, error) {
	ft, err := c.client.GetTrack(ctx, spotifyclient.ID(providerTrackID))
	if err != nil {
		return model.ProviderLink{}, fmt.Errorf("spotify track lookup failed: %w", err)
	}

	urls := player.URLsFor(player.ProviderSpotify, providerTrackID)
	link := model.ProviderLink{
		Provider:        c.Name(),
		ProviderTrackID: providerTrackID,
		WebURL:          urls.Web,
		AppURL:          urls.App,
		PreviewURL:      ft.PreviewURL,
	}
	if ext := ft.ExternalURLs["spotify"]; ext != "" {
		link.WebURL = ext
	}
	return link, nil
}

// CheckHealth probes the API with a minimal search.
func (c *SpotifyConnector) CheckHealth(ctx context.Context) bool {
	_, err := c.client.Search(ctx, "a", spotifyclient.SearchTypeTrack, spotifyclient.Limit(1))
	if err != nil {
		logger.Warn("spotify health check failed", logger.ErrorField(err))
		return false
	}
	return true
}
