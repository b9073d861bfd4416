package server

import (
	"net/http"

	"chordfm/logger"
	"chordfm/model"
)

// LikeTrackHandler toggles the caller's like on a track.
func (h *APIHandler) LikeTrackHandler(w http.ResponseWriter, r *http.Request) {
	h.toggleInteraction(w, r, model.ActionLike)
}

// SaveTrackHandler toggles the caller's save on a track.
func (h *APIHandler) SaveTrackHandler(w http.ResponseWriter, r *http.Request) {
	h.toggleInteraction(w, r, model.ActionSave)
}

func (h *APIHandler) toggleInteraction(w http.ResponseWriter, r *http.Request, action string) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	var active bool
	var field string
	switch action {
	case model.ActionLike:
		active, err = h.interactRepo.ToggleLike(userID, trackID)
		field = "likes"
	case model.ActionSave:
		active, err = h.interactRepo.ToggleSave(userID, trackID)
		field = "saves"
	}
	if err != nil {
		logger.Error("interaction toggle failed",
			logger.String("action", action),
			logger.Int64("trackId", trackID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to update interaction")
		return
	}

	if active {
		if err := h.interactRepo.RecordInteraction(userID, trackID, action); err != nil {
			logger.Warn("interaction log failed", logger.ErrorField(err))
		}
	}

	delta := int64(-1)
	if active {
		delta = 1
	}
	if err := h.feedCache.BumpCount(r.Context(), trackID, field, delta); err != nil {
		logger.Warn("count bump failed", logger.ErrorField(err))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trackId": trackID,
		"action":  action,
		"active":  active,
	})
}

// SkipTrackHandler records a skip. Skips have no stored toggle state; they
// only feed the interaction log.
func (h *APIHandler) SkipTrackHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	if err := h.interactRepo.RecordInteraction(userID, trackID, model.ActionSkip); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record skip")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"trackId": trackID, "action": model.ActionSkip})
}

// GetInteractionStateHandler reports the caller's like/save state and the
// track's totals.
func (h *APIHandler) GetInteractionStateHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	liked, err := h.interactRepo.IsLiked(userID, trackID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query interactions")
		return
	}
	saved, err := h.interactRepo.IsSaved(userID, trackID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query interactions")
		return
	}
	likeCount, err := h.interactRepo.CountLikes(trackID)
	if err != nil {
		likeCount = 0
	}
	saveCount, err := h.interactRepo.CountSaves(trackID)
	if err != nil {
		saveCount = 0
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trackId":   trackID,
		"liked":     liked,
		"saved":     saved,
		"likeCount": likeCount,
		"saveCount": saveCount,
	})
}

// GetSavedTracksHandler returns the caller's saved tracks, newest first.
func (h *APIHandler) GetSavedTracksHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ids, err := h.interactRepo.GetSavedTracks(userID, 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load saved tracks")
		return
	}

	tracks := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		track, err := h.trackRepo.GetTrackByID(id)
		if err != nil || track == nil {
			continue
		}
		tracks = append(tracks, track)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}
