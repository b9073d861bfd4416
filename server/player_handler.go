package server

import (
	"encoding/json"
	"net/http"

	"chordfm/core/player"
	"chordfm/logger"
	"chordfm/model"
)

// sessionFromRequest resolves the caller's playback session. The session id
// rides the X-Session-Id header, one per browser tab.
func (h *APIHandler) sessionFromRequest(r *http.Request) (*player.Session, bool) {
	sessionID := r.Header.Get("X-Session-Id")
	if sessionID == "" {
		return nil, false
	}
	userID, _ := GetUserIDFromContext(r.Context())
	return h.sessions.Get(sessionID, userID), true
}

// GetPlayerStateHandler returns the current playback-session record.
func (h *APIHandler) GetPlayerStateHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}
	writeJSON(w, http.StatusOK, session.State())
}

// OpenPlayerHandler opens the player on a provider track.
func (h *APIHandler) OpenPlayerHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}

	var req struct {
		CanonicalTrackID int64    `json:"canonicalTrackId"`
		Provider         string   `json:"provider"`
		ProviderTrackID  string   `json:"providerTrackId"`
		Autoplay         *bool    `json:"autoplay"`
		SeekToSec        *float64 `json:"seekToSec"`
		Context          string   `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var p player.Provider
	if req.Provider != "" {
		parsed, ok := player.ParseProvider(req.Provider)
		if !ok {
			writeError(w, http.StatusBadRequest, "Unknown provider: "+req.Provider)
			return
		}
		p = parsed
	}

	state := session.OpenPlayer(player.OpenRequest{
		CanonicalTrackID: req.CanonicalTrackID,
		Provider:         p,
		ProviderTrackID:  req.ProviderTrackID,
		Autoplay:         req.Autoplay,
		SeekToSec:        req.SeekToSec,
		Context:          req.Context,
	})
	writeJSON(w, http.StatusOK, state)
}

// SwitchProviderHandler switches the open player to another provider,
// resolving the provider track id from the canonical track when the caller
// doesn't supply one.
func (h *APIHandler) SwitchProviderHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}

	var req struct {
		Provider         string `json:"provider"`
		ProviderTrackID  string `json:"providerTrackId"`
		CanonicalTrackID int64  `json:"canonicalTrackId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, okp := player.ParseProvider(req.Provider)
	if !okp {
		writeError(w, http.StatusBadRequest, "Unknown provider: "+req.Provider)
		return
	}

	trackID := req.CanonicalTrackID
	if trackID == 0 {
		trackID = session.State().CanonicalTrackID
	}
	providerTrackID := req.ProviderTrackID
	if providerTrackID == "" && trackID != 0 {
		track, err := h.trackRepo.GetTrackByID(trackID)
		if err == nil && track != nil {
			if link, found := player.LinkFor(track, p); found {
				providerTrackID = link.ProviderTrackID
			}
		}
	}
	if providerTrackID == "" {
		writeError(w, http.StatusUnprocessableEntity, "Track has no link for provider "+req.Provider)
		return
	}

	state := session.SwitchProvider(p, providerTrackID, req.CanonicalTrackID)
	writeJSON(w, http.StatusOK, state)
}

// ClosePlayerHandler closes the player, keeping the last track context.
func (h *APIHandler) ClosePlayerHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}
	writeJSON(w, http.StatusOK, session.ClosePlayer())
}

// SeekHandler sets a one-shot seek instruction on the session.
func (h *APIHandler) SeekHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}

	var req struct {
		Sec       float64 `json:"sec"`
		SectionID *int64  `json:"sectionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Sec < 0 {
		writeError(w, http.StatusBadRequest, "Seek position must be non-negative")
		return
	}

	state := session.SeekTo(req.Sec)
	if req.SectionID != nil {
		state = session.SetCurrentSection(req.SectionID)
	}
	writeJSON(w, http.StatusOK, state)
}

// SetPlayingHandler records the adapter's best-effort playing flag.
func (h *APIHandler) SetPlayingHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}

	var req struct {
		Playing bool `json:"playing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, session.SetIsPlaying(req.Playing))
}

// GetEmbedHandler builds the iframe configuration for the session's current
// provider, consuming any pending seek as a postMessage command.
func (h *APIHandler) GetEmbedHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}

	state := session.State()
	if !state.Open || state.ProviderTrackID == "" {
		writeError(w, http.StatusConflict, "Player is not open on a track")
		return
	}

	adapter, okAdapter := player.AdapterFor(state.Provider, h.cfg.AppBaseURL)
	if !okAdapter {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"embeddable": false,
			"provider":   state.Provider,
		})
		return
	}

	resp := map[string]interface{}{
		"embeddable": true,
		"provider":   state.Provider,
		"embedUrl":   adapter.EmbedURL(state.ProviderTrackID, state.Autoplay),
		"canSeek":    adapter.CanSeek(),
	}
	if cmd, okSeek := player.ApplySeek(session, adapter); okSeek {
		resp["seekCommand"] = cmd
	}
	writeJSON(w, http.StatusOK, resp)
}

// RecordOpenHandler logs the outcome of an external open (app or web tab)
// reported by the client.
func (h *APIHandler) RecordOpenHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		TrackID  int64  `json:"trackId"`
		Provider string `json:"provider"`
		Action   string `json:"action"` // open_app or open_web
		Context  string `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Action != player.PlayActionOpenApp && req.Action != player.PlayActionOpenWeb {
		writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}
	if _, ok := player.ParseProvider(req.Provider); !ok {
		writeError(w, http.StatusBadRequest, "Unknown provider: "+req.Provider)
		return
	}

	h.recorder.Record(model.PlayEvent{
		UserID:   userID,
		TrackID:  req.TrackID,
		Provider: req.Provider,
		Action:   req.Action,
		Context:  req.Context,
	})

	logger.Debug("open recorded",
		logger.Int64("trackId", req.TrackID),
		logger.String("provider", req.Provider),
		logger.String("action", req.Action))
	w.WriteHeader(http.StatusAccepted)
}
