package server

import (
	"encoding/json"
	"net/http"

	"chordfm/cache"
	"chordfm/config"
	"chordfm/core/oauth"
	"chordfm/core/player"
	"chordfm/core/presence"
	"chordfm/core/provider"
	"chordfm/repository"
)

// APIHandler handles all API requests.
type APIHandler struct {
	trackRepo      repository.TrackRepository
	userRepo       repository.UserRepository
	interactRepo   repository.InteractionRepository
	commentRepo    repository.CommentRepository
	playEventRepo  repository.PlayEventRepository
	connectionRepo repository.ConnectionRepository

	providers *provider.Manager
	sessions  *player.SessionManager
	recorder  player.Recorder
	oauthSvc  *oauth.Service

	feedCache     *cache.FeedCache
	presenceCache *cache.PresenceCache
	presenceHub   *presence.Hub

	cfg *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	trackRepo repository.TrackRepository,
	userRepo repository.UserRepository,
	interactRepo repository.InteractionRepository,
	commentRepo repository.CommentRepository,
	playEventRepo repository.PlayEventRepository,
	connectionRepo repository.ConnectionRepository,
	providers *provider.Manager,
	sessions *player.SessionManager,
	recorder player.Recorder,
	oauthSvc *oauth.Service,
	feedCache *cache.FeedCache,
	presenceCache *cache.PresenceCache,
	presenceHub *presence.Hub,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		trackRepo:      trackRepo,
		userRepo:       userRepo,
		interactRepo:   interactRepo,
		commentRepo:    commentRepo,
		playEventRepo:  playEventRepo,
		connectionRepo: connectionRepo,
		providers:      providers,
		sessions:       sessions,
		recorder:       recorder,
		oauthSvc:       oauthSvc,
		feedCache:      feedCache,
		presenceCache:  presenceCache,
		presenceHub:    presenceHub,
		cfg:            cfg,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
