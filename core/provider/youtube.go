package provider

import (
	"context"
	"fmt"
	"html"

	"chordfm/core/player"
	"chordfm/logger"
	"chordfm/model"

	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// YoutubeConnector talks to the YouTube Data API with an API key.
type YoutubeConnector struct {
	service *ytapi.Service
}

// NewYoutubeConnector creates a connector from the configured API key.
func NewYoutubeConnector(apiKey string) (*YoutubeConnector, error) {
	service, err := ytapi.NewService(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("error creating YouTube client: %w", err)
	}
	return &YoutubeConnector{service: service}, nil
}

func (c *YoutubeConnector) Name() string { return string(player.ProviderYoutube) }

// SearchTracks searches YouTube videos in the music category.
func (c *YoutubeConnector) SearchTracks(ctx context.Context, opts SearchOptions) ([]NormalizedTrack, error) {
	limit := int64(opts.Limit)
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	call := c.service.Search.List([]string{"snippet"}).
		Q(opts.Query).
		Type("video").
		VideoCategoryId("10"). // Music
		MaxResults(limit).
		Context(ctx)
	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	tracks := make([]NormalizedTrack, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		nt := NormalizedTrack{
			Provider:        c.Name(),
			ProviderTrackID: item.Id.VideoId,
			Title:           html.UnescapeString(item.Snippet.Title),
			Artists:         []string{html.UnescapeString(item.Snippet.ChannelTitle)},
			WebURL:          player.URLsFor(player.ProviderYoutube, item.Id.VideoId).Web,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
			nt.ArtworkURL = item.Snippet.Thumbnails.High.Url
		}
		tracks = append(tracks, nt)
	}
	return tracks, nil
}

// ResolveLinks verifies a video id and builds a provider link for it.
func (c *YoutubeConnector) ResolveLinks(ctx context.Context, providerTrackID string) (model.ProviderLink, error) {
	call := c.service.Videos.List([]string{"snippet"}).Id(providerTrackID).Context(ctx)
	response, err := call.Do()
	if err != nil {
		return model.ProviderLink{}, fmt.Errorf("youtube video lookup failed: %w", err)
	}
	if len(response.Items) == 0 {
		return model.ProviderLink{}, fmt.Errorf("no video found for id %s", providerTrackID)
	}

	urls := player.URLsFor(player.ProviderYoutube, providerTrackID)
	return model.ProviderLink{
		Provider:        c.Name(),
		ProviderTrackID: providerTrackID,
		WebURL:          urls.Web,
		AppURL:          urls.App,
	}, nil
}

// CheckHealth probes the API with a minimal search.
func (c *YoutubeConnector) CheckHealth(ctx context.Context) bool {
	_, err := c.service.Search.List([]string{"snippet"}).Q("a").MaxResults(1).Context(ctx).Do()
	if err != nil {
		logger.Warn("youtube health check failed", logger.ErrorField(err))
		return false
	}
	return true
}
