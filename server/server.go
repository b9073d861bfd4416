package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chordfm/cache"
	"chordfm/config"
	"chordfm/core/auth"
	"chordfm/core/oauth"
	"chordfm/core/player"
	"chordfm/core/presence"
	"chordfm/core/provider"
	"chordfm/db"
	"chordfm/logger"
	"chordfm/model"
	"chordfm/repository"
	"chordfm/storage"

	"github.com/gorilla/mux"
	"github.com/minio/minio-go/v7"
)

// Start initializes every backing service and runs the HTTP server until
// interrupted.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
	})

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()
	if err := db.InitDB(); err != nil {
		logger.Fatal("failed to initialize database schema", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect GORM database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()
	if err := db.AutoMigrateModels(&model.Comment{}, &model.PlayEvent{}, &model.ProviderConnection{}); err != nil {
		logger.Fatal("failed to migrate models", logger.ErrorField(err))
	}

	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
	}
	defer cache.CloseRedis()

	if err := storage.InitMinio(cfg); err != nil {
		// Artwork uploads degrade; everything else still works.
		logger.Warn("MinIO unavailable, artwork uploads disabled", logger.ErrorField(err))
	}

	auth.InitJWT(cfg.JWTSecret, cfg.JWTExpiryHours)

	trackRepo := repository.NewTrackRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	interactRepo := repository.NewInteractionRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.GormDB)
	playEventRepo := repository.NewPlayEventRepository(db.GormDB)
	connectionRepo := repository.NewConnectionRepository(db.GormDB)

	providers := provider.NewManager()
	if cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "" {
		if c, err := provider.NewSpotifyConnector(cfg); err != nil {
			logger.Warn("spotify connector disabled", logger.ErrorField(err))
		} else {
			providers.Register(c)
		}
	}
	if cfg.YoutubeAPIKey != "" {
		if c, err := provider.NewYoutubeConnector(cfg.YoutubeAPIKey); err != nil {
			logger.Warn("youtube connector disabled", logger.ErrorField(err))
		} else {
			providers.Register(c)
		}
	}
	if cfg.LastfmAPIKey != "" {
		providers.Register(provider.NewLastfmConnector(cfg.LastfmAPIKey, cfg.LastfmAPIURL))
	}

	recorder := player.NewAsyncRecorder(playEventRepo)
	sessions := player.NewSessionManager(recorder)
	oauthSvc := oauth.NewService(cfg, connectionRepo)

	feedCache := cache.NewFeedCache()
	presenceCache := cache.NewPresenceCache()
	presenceHub := presence.NewHub()
	go presenceHub.Run()

	// Idle playback sessions are swept in the background.
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if removed := sessions.Sweep(); removed > 0 {
				logger.Debug("swept idle playback sessions", logger.Int("removed", removed))
			}
		}
	}()

	apiHandler := NewAPIHandler(
		trackRepo, userRepo, interactRepo, commentRepo, playEventRepo, connectionRepo,
		providers, sessions, recorder, oauthSvc,
		feedCache, presenceCache, presenceHub, cfg,
	)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-Id")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	// Auth
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", apiHandler.AuthMiddleware(apiHandler.MeHandler)).Methods(http.MethodGet)

	// Feed and tracks
	router.HandleFunc("/api/feed", apiHandler.GetFeedHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks", apiHandler.AuthMiddleware(apiHandler.CreateTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}", apiHandler.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}/links", apiHandler.OptionalAuthMiddleware(apiHandler.GetTrackLinksHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}/artwork", apiHandler.AuthMiddleware(apiHandler.UploadArtworkHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}/similar", apiHandler.SimilarTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}/play-stats", apiHandler.GetPlayStatsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/compare", apiHandler.CompareTracksHandler).Methods(http.MethodGet)

	// Interactions
	router.HandleFunc("/api/tracks/{id}/like", apiHandler.AuthMiddleware(apiHandler.LikeTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}/save", apiHandler.AuthMiddleware(apiHandler.SaveTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}/skip", apiHandler.AuthMiddleware(apiHandler.SkipTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}/interactions", apiHandler.AuthMiddleware(apiHandler.GetInteractionStateHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/me/saved", apiHandler.AuthMiddleware(apiHandler.GetSavedTracksHandler)).Methods(http.MethodGet)

	// Comments
	router.HandleFunc("/api/tracks/{id}/comments", apiHandler.GetCommentsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}/comments", apiHandler.AuthMiddleware(apiHandler.CreateCommentHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/comments/{commentId}", apiHandler.AuthMiddleware(apiHandler.DeleteCommentHandler)).Methods(http.MethodDelete)

	// Playback session
	router.HandleFunc("/api/player/state", apiHandler.OptionalAuthMiddleware(apiHandler.GetPlayerStateHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/player/open", apiHandler.OptionalAuthMiddleware(apiHandler.OpenPlayerHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/switch", apiHandler.OptionalAuthMiddleware(apiHandler.SwitchProviderHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/close", apiHandler.OptionalAuthMiddleware(apiHandler.ClosePlayerHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/seek", apiHandler.OptionalAuthMiddleware(apiHandler.SeekHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/playing", apiHandler.OptionalAuthMiddleware(apiHandler.SetPlayingHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/embed", apiHandler.OptionalAuthMiddleware(apiHandler.GetEmbedHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/player/record-open", apiHandler.AuthMiddleware(apiHandler.RecordOpenHandler)).Methods(http.MethodPost)

	// Providers and linked accounts
	router.HandleFunc("/api/providers", apiHandler.ListProvidersHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/providers/health", apiHandler.ProviderHealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/providers/{provider}/search", apiHandler.SearchProviderHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/lastfm/{username}", apiHandler.LastfmProfileHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/me/connections", apiHandler.AuthMiddleware(apiHandler.GetConnectionsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/me/connections/{provider}", apiHandler.AuthMiddleware(apiHandler.DisconnectProviderHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/me/preferred-provider", apiHandler.AuthMiddleware(apiHandler.SetPreferredProviderHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/me/play-history", apiHandler.AuthMiddleware(apiHandler.GetPlayHistoryHandler)).Methods(http.MethodGet)

	// OAuth
	router.HandleFunc("/api/oauth/spotify/authorize", apiHandler.AuthMiddleware(apiHandler.SpotifyAuthorizeHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/oauth/spotify/callback", apiHandler.SpotifyCallbackHandler).Methods(http.MethodGet)

	// Presence
	router.HandleFunc("/api/presence/heartbeat", apiHandler.AuthMiddleware(apiHandler.HeartbeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/presence/leave", apiHandler.AuthMiddleware(apiHandler.LeaveHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/presence/nearby", apiHandler.AuthMiddleware(apiHandler.NearbyHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/presence/ws", apiHandler.AuthMiddleware(apiHandler.PresenceWSHandler))

	// Artwork objects are proxied from MinIO with long-lived caching.
	router.PathPrefix("/artwork/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := storage.GetMinioClient()
		if client == nil {
			http.Error(w, "Object storage not available", http.StatusServiceUnavailable)
			return
		}

		objectPath := strings.TrimPrefix(r.URL.Path, "/")
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		object, err := client.GetObject(ctx, cfg.MinioBucket, objectPath, minio.GetObjectOptions{})
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer object.Close()

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Cache-Control", "public, max-age=31536000")
		if _, err := io.Copy(w, object); err != nil {
			logger.Warn("error serving artwork", logger.ErrorField(err))
		}
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}
	logger.Info("server stopped")
}
