package server

import (
	"net/http"
	"strconv"

	"chordfm/core/similarity"
	"chordfm/logger"
)

// CompareTracksHandler scores harmonic similarity between two tracks.
func (h *APIHandler) CompareTracksHandler(w http.ResponseWriter, r *http.Request) {
	aID, errA := strconv.ParseInt(r.URL.Query().Get("a"), 10, 64)
	bID, errB := strconv.ParseInt(r.URL.Query().Get("b"), 10, 64)
	if errA != nil || errB != nil {
		writeError(w, http.StatusBadRequest, "a and b track ids are required")
		return
	}

	a, err := h.trackRepo.GetTrackByID(aID)
	if err != nil || a == nil {
		writeError(w, http.StatusNotFound, "Track not found")
		return
	}
	b, err := h.trackRepo.GetTrackByID(bID)
	if err != nil || b == nil {
		writeError(w, http.StatusNotFound, "Track not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"a":     a.ID,
		"b":     b.ID,
		"score": similarity.Score(a, b),
	})
}

// SimilarTracksHandler ranks the catalog against one track by harmonic
// similarity.
func (h *APIHandler) SimilarTracksHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	target, err := h.trackRepo.GetTrackByID(trackID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load track")
		return
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "Track not found")
		return
	}

	candidates, err := h.trackRepo.GetAllTracks(500)
	if err != nil {
		logger.Error("failed to load candidates", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to rank tracks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trackId": trackID,
		"similar": similarity.Rank(target, candidates, limit),
	})
}
