package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"chordfm/logger"
	"chordfm/model"
)

// LastfmConnector talks to the Last.fm REST API. Calls are unauthenticated,
// keyed by a public API key. Last.fm has no playable embed surface; it
// contributes listening data (user info, top/recent tracks) and search.
type LastfmConnector struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewLastfmConnector creates a connector against baseURL (the production
// endpoint unless a test server overrides it).
func NewLastfmConnector(apiKey, baseURL string) *LastfmConnector {
	return &LastfmConnector{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *LastfmConnector) Name() string { return "lastfm" }

func (c *LastfmConnector) get(ctx context.Context, params url.Values, out interface{}) error {
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create last.fm request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("last.fm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("last.fm returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode last.fm response: %w", err)
	}
	return nil
}

// SearchTracks runs a track.search call.
func (c *LastfmConnector) SearchTracks(ctx context.Context, opts SearchOptions) ([]NormalizedTrack, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	params := url.Values{
		"method": {"track.search"},
		"track":  {opts.Query},
		"limit":  {strconv.Itoa(limit)},
	}

	var payload struct {
		Results struct {
			TrackMatches struct {
				Track []struct {
					Name   string `json:"name"`
					Artist string `json:"artist"`
					URL    string `json:"url"`
					MBID   string `json:"mbid"`
				} `json:"track"`
			} `json:"trackmatches"`
		} `json:"results"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	tracks := make([]NormalizedTrack, 0, len(payload.Results.TrackMatches.Track))
	for _, t := range payload.Results.TrackMatches.Track {
		id := t.MBID
		if id == "" {
			id = t.URL
		}
		tracks = append(tracks, NormalizedTrack{
			Provider:        c.Name(),
			ProviderTrackID: id,
			Title:           t.Name,
			Artists:         []string{t.Artist},
			WebURL:          t.URL,
		})
	}
	return tracks, nil
}

// ResolveLinks looks a track up by MBID and returns its last.fm page link.
func (c *LastfmConnector) ResolveLinks(ctx context.Context, providerTrackID string) (model.ProviderLink, error) {
	params := url.Values{
		"method": {"track.getInfo"},
		"mbid":   {providerTrackID},
	}

	var payload struct {
		Track struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"track"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return model.ProviderLink{}, err
	}
	if payload.Track.URL == "" {
		return model.ProviderLink{}, fmt.Errorf("no last.fm track for mbid %s", providerTrackID)
	}
	return model.ProviderLink{
		Provider:        c.Name(),
		ProviderTrackID: providerTrackID,
		WebURL:          payload.Track.URL,
	}, nil
}

// CheckHealth probes the API with a minimal search.
func (c *LastfmConnector) CheckHealth(ctx context.Context) bool {
	if _, err := c.SearchTracks(ctx, SearchOptions{Query: "a", Limit: 1}); err != nil {
		logger.Warn("last.fm health check failed", logger.ErrorField(err))
		return false
	}
	return true
}

// LastfmUser is a public Last.fm profile summary.
type LastfmUser struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	PlayCount int64  `json:"playCount"`
}

// UserInfo fetches a public profile by username.
func (c *LastfmConnector) UserInfo(ctx context.Context, username string) (LastfmUser, error) {
	params := url.Values{
		"method": {"user.getInfo"},
		"user":   {username},
	}

	var payload struct {
		User struct {
			Name      string `json:"name"`
			URL       string `json:"url"`
			PlayCount string `json:"playcount"`
		} `json:"user"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return LastfmUser{}, err
	}
	count, _ := strconv.ParseInt(payload.User.PlayCount, 10, 64)
	return LastfmUser{Name: payload.User.Name, URL: payload.User.URL, PlayCount: count}, nil
}

// TopTracks fetches a user's most played tracks.
func (c *LastfmConnector) TopTracks(ctx context.Context, username string, limit int) ([]NormalizedTrack, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	params := url.Values{
		"method": {"user.getTopTracks"},
		"user":   {username},
		"limit":  {strconv.Itoa(limit)},
	}

	var payload struct {
		TopTracks struct {
			Track []struct {
				Name   string `json:"name"`
				URL    string `json:"url"`
				Artist struct {
					Name string `json:"name"`
				} `json:"artist"`
			} `json:"track"`
		} `json:"toptracks"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	tracks := make([]NormalizedTrack, 0, len(payload.TopTracks.Track))
	for _, t := range payload.TopTracks.Track {
		tracks = append(tracks, NormalizedTrack{
			Provider:        c.Name(),
			ProviderTrackID: t.URL,
			Title:           t.Name,
			Artists:         []string{t.Artist.Name},
			WebURL:          t.URL,
		})
	}
	return tracks, nil
}

// RecentTracks fetches a user's recently played tracks.
func (c *LastfmConnector) RecentTracks(ctx context.Context, username string, limit int) ([]NormalizedTrack, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	params := url.Values{
		"method": {"user.getRecentTracks"},
		"user":   {username},
		"limit":  {strconv.Itoa(limit)},
	}

	var payload struct {
		RecentTracks struct {
			Track []struct {
				Name   string `json:"name"`
				URL    string `json:"url"`
				Artist struct {
					Text string `json:"#text"`
				} `json:"artist"`
			} `json:"track"`
		} `json:"recenttracks"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	tracks := make([]NormalizedTrack, 0, len(payload.RecentTracks.Track))
	for _, t := range payload.RecentTracks.Track {
		tracks = append(tracks, NormalizedTrack{
			Provider:        c.Name(),
			ProviderTrackID: t.URL,
			Title:           t.Name,
			Artists:         []string{t.Artist.Text},
			WebURL:          t.URL,
		})
	}
	return tracks, nil
}
