package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"chordfm/logger"
	"chordfm/model"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HeartbeatHandler stores or refreshes the caller's presence row and fans the
// update out to connected listeners.
func (h *APIHandler) HeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	username, _ := GetUsernameFromContext(r.Context())

	var req struct {
		TrackID int64   `json:"trackId"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lon < -180 || req.Lon > 180 {
		writeError(w, http.StatusBadRequest, "Invalid coordinates")
		return
	}

	p := &model.Presence{
		UserID:   userID,
		Username: username,
		TrackID:  req.TrackID,
		Lat:      req.Lat,
		Lon:      req.Lon,
	}
	if err := h.presenceCache.Heartbeat(r.Context(), p); err != nil {
		logger.Error("presence heartbeat failed", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to store presence")
		return
	}

	h.presenceHub.BroadcastUpdate(p)
	w.WriteHeader(http.StatusNoContent)
}

// LeaveHandler drops the caller's presence row immediately.
func (h *APIHandler) LeaveHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.presenceCache.Remove(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to remove presence")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NearbyHandler returns listeners within the configured radius of the
// caller's coordinates, closest first.
func (h *APIHandler) NearbyHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	radius := h.cfg.PresenceRadiusKm
	if raw := r.URL.Query().Get("radiusKm"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 && parsed <= h.cfg.PresenceRadiusKm {
			radius = parsed
		}
	}

	listeners, err := h.presenceCache.Nearby(r.Context(), userID, lat, lon, radius)
	if err != nil {
		logger.Error("nearby query failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to query nearby listeners")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"listeners": listeners,
		"radiusKm":  radius,
		"connected": h.presenceHub.ClientCount(),
	})
}

// PresenceWSHandler upgrades to a websocket for live presence updates.
func (h *APIHandler) PresenceWSHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	username, _ := GetUsernameFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	client := h.presenceHub.NewClient(conn, userID, username)
	go client.WritePump()
	go client.ReadPump()
}
