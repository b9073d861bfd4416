package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"chordfm/core/player"
	"chordfm/core/provider"
	"chordfm/logger"

	"github.com/gorilla/mux"
)

// ListProvidersHandler returns the closed provider registry with display
// metadata.
func (h *APIHandler) ListProvidersHandler(w http.ResponseWriter, r *http.Request) {
	infos := make([]player.Info, 0, len(player.Providers))
	for _, p := range player.Providers {
		if info, ok := player.InfoFor(p); ok {
			infos = append(infos, info)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"providers": infos})
}

// SearchProviderHandler runs a track search against one connector.
func (h *APIHandler) SearchProviderHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["provider"]
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	connector, err := h.providers.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown provider: "+name)
		return
	}

	results, err := connector.SearchTracks(r.Context(), provider.SearchOptions{Query: query, Limit: limit})
	if err != nil {
		logger.Error("provider search failed",
			logger.String("provider", name),
			logger.String("query", query),
			logger.ErrorField(err))
		writeError(w, http.StatusBadGateway, "Provider search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// ProviderHealthHandler reports reachability per registered connector.
func (h *APIHandler) ProviderHealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"connectors": h.providers.Names(),
		"health":     h.providers.Health(r.Context()),
	})
}

// GetConnectionsHandler lists the caller's linked provider accounts. Tokens
// never leave the server.
func (h *APIHandler) GetConnectionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conns, err := h.connectionRepo.ListByUser(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load connections")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"connections": conns})
}

// DisconnectProviderHandler unlinks a provider account.
func (h *APIHandler) DisconnectProviderHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	name := mux.Vars(r)["provider"]

	if err := h.connectionRepo.Disconnect(userID, name); err != nil {
		writeError(w, http.StatusNotFound, "No connection for provider "+name)
		return
	}

	logger.Info("provider disconnected",
		logger.Int64("userId", userID),
		logger.String("provider", name))
	writeJSON(w, http.StatusOK, map[string]string{"provider": name, "status": "disconnected"})
}

// SetPreferredProviderHandler stores the caller's durable playback
// preference. "none" clears it.
func (h *APIHandler) SetPreferredProviderHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Provider string `json:"provider"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Provider != "" && req.Provider != player.PreferenceNone {
		if _, ok := player.ParseProvider(req.Provider); !ok {
			writeError(w, http.StatusBadRequest, "Unknown provider: "+req.Provider)
			return
		}
	}

	if err := h.userRepo.UpdatePreferredProvider(userID, req.Provider); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update preference")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"preferredProvider": req.Provider})
}

// LastfmProfileHandler returns a public Last.fm listening profile: user
// info plus top and recent tracks.
func (h *APIHandler) LastfmProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	connector, err := h.providers.Get("lastfm")
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Last.fm connector not configured")
		return
	}
	lastfm, ok := connector.(*provider.LastfmConnector)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "Last.fm connector not configured")
		return
	}

	info, err := lastfm.UserInfo(r.Context(), username)
	if err != nil {
		logger.Warn("last.fm profile fetch failed",
			logger.String("username", username),
			logger.ErrorField(err))
		writeError(w, http.StatusBadGateway, "Failed to load Last.fm profile")
		return
	}

	// Top and recent tracks degrade independently of the profile itself.
	top, err := lastfm.TopTracks(r.Context(), username, 10)
	if err != nil {
		top = nil
	}
	recent, err := lastfm.RecentTracks(r.Context(), username, 10)
	if err != nil {
		recent = nil
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":         info,
		"topTracks":    top,
		"recentTracks": recent,
	})
}

// GetPlayHistoryHandler returns the caller's recent play attempts.
func (h *APIHandler) GetPlayHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	events, err := h.playEventRepo.RecentByUser(userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load play history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}
