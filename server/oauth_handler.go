package server

import (
	"net/http"

	"chordfm/logger"
)

// SpotifyAuthorizeHandler starts the Spotify account-linking flow by
// redirecting the caller to the consent page.
func (h *APIHandler) SpotifyAuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	url := h.oauthSvc.AuthorizeURL(userID)
	writeJSON(w, http.StatusOK, map[string]string{"authorizeUrl": url})
}

// SpotifyCallbackHandler completes the linking flow. Spotify calls this with
// the one-shot state and the authorization code.
func (h *APIHandler) SpotifyCallbackHandler(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		logger.Warn("spotify consent denied", logger.String("error", errParam))
		http.Redirect(w, r, h.cfg.AppBaseURL+"/settings?link=denied", http.StatusFound)
		return
	}
	if state == "" || code == "" {
		writeError(w, http.StatusBadRequest, "state and code are required")
		return
	}

	if err := h.oauthSvc.HandleCallback(r.Context(), state, code); err != nil {
		logger.Error("spotify callback failed", logger.ErrorField(err))
		http.Redirect(w, r, h.cfg.AppBaseURL+"/settings?link=failed", http.StatusFound)
		return
	}

	http.Redirect(w, r, h.cfg.AppBaseURL+"/settings?link=ok", http.StatusFound)
}
