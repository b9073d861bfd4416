package oauth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chordfm/config"
	"chordfm/logger"
	"chordfm/model"

	"github.com/google/uuid"
	spotifyclient "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// stateTTL bounds how long an authorize flow may stay pending.
const stateTTL = 10 * time.Minute

// ConnectionStore persists linked provider accounts.
type ConnectionStore interface {
	UpsertConnection(ctx context.Context, conn *model.ProviderConnection) error
}

type pendingState struct {
	userID    int64
	expiresAt time.Time
}

// Service runs the authorization-code flow for linking a user's Spotify
// account. State tokens are random, one-shot, and expire; replays are
// rejected.
type Service struct {
	conf  *oauth2.Config
	store ConnectionStore

	mu     sync.Mutex
	states map[string]pendingState
}

// NewService creates the OAuth service from the configured Spotify
// credentials.
func NewService(cfg *config.Config, store ConnectionStore) *Service {
	return &Service{
		conf: &oauth2.Config{
			ClientID:     cfg.SpotifyClientID,
			ClientSecret: cfg.SpotifyClientSecret,
			RedirectURL:  cfg.SpotifyRedirectURL,
			Scopes: []string{
				"user-read-private",
				"user-top-read",
				"user-read-recently-played",
			},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
		store:  store,
		states: make(map[string]pendingState),
	}
}

// AuthorizeURL mints a one-shot state for the user and returns the consent
// URL to navigate to.
func (s *Service) AuthorizeURL(userID int64) string {
	state := uuid.NewString()

	s.mu.Lock()
	s.states[state] = pendingState{userID: userID, expiresAt: time.Now().Add(stateTTL)}
	// Opportunistic cleanup of expired flows.
	for k, v := range s.states {
		if time.Now().After(v.expiresAt) {
			delete(s.states, k)
		}
	}
	s.mu.Unlock()

	return s.conf.AuthCodeURL(state)
}

// consumeState validates and burns a state token.
func (s *Service) consumeState(state string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.states[state]
	if !ok {
		return 0, fmt.Errorf("unknown or replayed state parameter")
	}
	delete(s.states, state)
	if time.Now().After(pending.expiresAt) {
		return 0, fmt.Errorf("state parameter expired")
	}
	return pending.userID, nil
}

// HandleCallback exchanges the authorization code and persists the linked
// connection, including the premium capability flag read from the user's
// Spotify profile.
func (s *Service) HandleCallback(ctx context.Context, state, code string) error {
	userID, err := s.consumeState(state)
	if err != nil {
		return err
	}

	token, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}

	conn := &model.ProviderConnection{
		UserID:       userID,
		Provider:     "spotify",
		Connected:    true,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}

	// Premium detection is best effort; a profile failure still links the
	// account.
	client := spotifyclient.New(spotifyauth.New().Client(ctx, token))
	if user, err := client.CurrentUser(ctx); err != nil {
		logger.Warn("spotify profile fetch failed during linking", logger.ErrorField(err))
	} else {
		conn.Premium = user.Product == "premium"
	}

	if err := s.store.UpsertConnection(ctx, conn); err != nil {
		return fmt.Errorf("failed to store provider connection: %w", err)
	}

	logger.Info("provider account linked",
		logger.Int64("userId", userID),
		logger.String("provider", "spotify"))
	return nil
}
