package provider

import (
	"context"

	"chordfm/model"
)

// SearchOptions bounds a connector search.
type SearchOptions struct {
	Query string
	Limit int
}

// NormalizedTrack is a provider search result reduced to the fields the rest
// of the system understands, so no caller branches on provider identity.
type NormalizedTrack struct {
	Provider        string   `json:"provider"`
	ProviderTrackID string   `json:"providerTrackId"`
	Title           string   `json:"title"`
	Artists         []string `json:"artists"`
	Album           string   `json:"album,omitempty"`
	ArtworkURL      string   `json:"artworkUrl,omitempty"`
	PreviewURL      string   `json:"previewUrl,omitempty"`
	WebURL          string   `json:"webUrl,omitempty"`
	DurationSec     float64  `json:"durationSec,omitempty"`
}

// Connector is the uniform contract every provider client implements.
type Connector interface {
	// Name is the connector's provider id ("spotify", "youtube", "lastfm").
	Name() string
	// SearchTracks runs a track search against the provider.
	SearchTracks(ctx context.Context, opts SearchOptions) ([]NormalizedTrack, error)
	// ResolveLinks builds a provider link for a known provider track id.
	ResolveLinks(ctx context.Context, providerTrackID string) (model.ProviderLink, error)
	// CheckHealth reports whether the provider API is currently reachable.
	CheckHealth(ctx context.Context) bool
}
