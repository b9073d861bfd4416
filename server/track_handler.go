package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"chordfm/core/player"
	"chordfm/logger"
	"chordfm/model"
	"chordfm/storage"

	"github.com/gorilla/mux"
)

const defaultFeedPageSize = 20

// GetFeedHandler returns one page of the discovery feed, enriched with
// like/save/comment counts. Pages are served from Redis when fresh.
func (h *APIHandler) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultFeedPageSize
	}

	tracks, err := h.feedCache.GetPage(r.Context(), page, pageSize)
	if err != nil {
		logger.Warn("feed cache read failed", logger.ErrorField(err))
	}
	if tracks == nil {
		tracks, err = h.trackRepo.GetFeed(page, pageSize)
		if err != nil {
			logger.Error("failed to load feed", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "Failed to load feed")
			return
		}
		if err := h.feedCache.SetPage(r.Context(), page, pageSize, tracks); err != nil {
			logger.Warn("feed cache write failed", logger.ErrorField(err))
		}
	}

	type feedItem struct {
		*model.Track
		Counts map[string]int64      `json:"counts"`
		Links  []player.ResolvedLink `json:"resolvedLinks"`
	}
	items := make([]feedItem, 0, len(tracks))
	for _, t := range tracks {
		counts, err := h.feedCache.GetCounts(r.Context(), t.ID)
		if err != nil {
			counts = map[string]int64{}
		}
		items = append(items, feedItem{Track: t, Counts: counts, Links: player.Resolve(t)})
	}

	total, err := h.trackRepo.CountTracks()
	if err != nil {
		total = 0
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tracks":   items,
		"page":     page,
		"pageSize": pageSize,
		"total":    total,
	})
}

// GetTrackHandler returns one track with its sections and provider links.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	track, err := h.trackRepo.GetTrackByID(trackID)
	if err != nil {
		logger.Error("failed to load track", logger.Int64("trackId", trackID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to load track")
		return
	}
	if track == nil {
		writeError(w, http.StatusNotFound, "Track not found")
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// CreateTrackHandler ingests a new canonical track, optionally with sections
// and provider links.
func (h *APIHandler) CreateTrackHandler(w http.ResponseWriter, r *http.Request) {
	var track model.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if track.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	for _, s := range track.Sections {
		if !model.ValidSectionLabel(s.Label) {
			writeError(w, http.StatusBadRequest, "Invalid section label: "+s.Label)
			return
		}
	}
	for _, l := range track.Links {
		if _, ok := player.ParseProvider(l.Provider); !ok {
			writeError(w, http.StatusBadRequest, "Unknown provider: "+l.Provider)
			return
		}
	}

	if err := h.trackRepo.CreateTrack(&track); err != nil {
		logger.Error("failed to create track", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to create track")
		return
	}

	if err := h.feedCache.InvalidateFeed(r.Context()); err != nil {
		logger.Warn("feed invalidation failed", logger.ErrorField(err))
	}

	logger.Info("track created", logger.Int64("trackId", track.ID), logger.String("title", track.Title))
	writeJSON(w, http.StatusCreated, track)
}

// GetTrackLinksHandler resolves a track's playback links and the default
// provider choice for the requesting user.
func (h *APIHandler) GetTrackLinksHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	track, err := h.trackRepo.GetTrackByID(trackID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load track")
		return
	}
	if track == nil {
		writeError(w, http.StatusNotFound, "Track not found")
		return
	}

	links := player.Resolve(track)

	// The default choice is youtube for anonymous callers; authenticated
	// callers get their stored preference weighed against linked accounts.
	defaultProvider := player.ProviderYoutube
	if userID, err := GetUserIDFromContext(r.Context()); err == nil {
		preference := ""
		if user, err := h.userRepo.GetUserByID(userID); err == nil && user != nil {
			preference = user.PreferredProvider
		}
		status, err := h.connectionRepo.StatusMap(userID)
		if err != nil {
			status = nil
		}
		defaultProvider = player.ChooseDefault(preference, status)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trackId":         trackID,
		"links":           links,
		"defaultProvider": defaultProvider,
		// Clients opening native apps wait this long before falling back to
		// a web tab.
		"openFallbackTimeoutMs": h.cfg.OpenFallbackTimeout.Milliseconds(),
	})
}

// UploadArtworkHandler stores artwork for a track in object storage and
// points the track at the uploaded object.
func (h *APIHandler) UploadArtworkHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}
	file, header, err := r.FormFile("artwork")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing 'artwork' in form")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	url, err := storage.UploadArtwork(r.Context(), trackID, file, header.Size, contentType)
	if err != nil {
		logger.Error("artwork upload failed", logger.Int64("trackId", trackID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to upload artwork")
		return
	}
	if err := h.trackRepo.UpdateArtworkURL(trackID, url); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update track")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"artworkUrl": url})
}

// GetPlayStatsHandler aggregates play attempts per provider for one track.
func (h *APIHandler) GetPlayStatsHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	counts, err := h.playEventRepo.CountByProvider(trackID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate play events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trackId":   trackID,
		"playCount": counts,
	})
}

// pathID parses an int64 path variable.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
