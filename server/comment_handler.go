package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"chordfm/logger"
	"chordfm/model"
)

const maxCommentLength = 2000

// GetCommentsHandler lists a track's comments, newest first.
func (h *APIHandler) GetCommentsHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	comments, err := h.commentRepo.ListByTrack(trackID, 100)
	if err != nil {
		logger.Error("failed to list comments", logger.Int64("trackId", trackID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to load comments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// CreateCommentHandler posts a comment on a track.
func (h *APIHandler) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	username, _ := GetUsernameFromContext(r.Context())

	trackID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		writeError(w, http.StatusBadRequest, "Comment body is required")
		return
	}
	if len(req.Body) > maxCommentLength {
		writeError(w, http.StatusBadRequest, "Comment too long")
		return
	}

	comment := &model.Comment{
		TrackID:  trackID,
		UserID:   userID,
		Username: username,
		Body:     req.Body,
	}
	if err := h.commentRepo.CreateComment(comment); err != nil {
		logger.Error("failed to create comment", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	if err := h.feedCache.BumpCount(r.Context(), trackID, "comments", 1); err != nil {
		logger.Warn("count bump failed", logger.ErrorField(err))
	}

	writeJSON(w, http.StatusCreated, comment)
}

// DeleteCommentHandler removes the caller's own comment.
func (h *APIHandler) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	if err := h.commentRepo.DeleteComment(commentID, userID); err != nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": commentID})
}
