package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"blog-serwer/internal/blog"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, blog.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, blog.ErrDuplicatePost),
		errors.Is(err, blog.ErrUsernameTaken),
		errors.Is(err, blog.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, blog.ErrUserNotFound), errors.Is(err, blog.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, blog.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, blog.ErrMetadataUnavailable), errors.Is(err, blog.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a workflow error onto a response. Server side failures are
// logged with their cause and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)

	message := err.Error()
	switch {
	case status >= 500:
		logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		message = http.StatusText(status)
	case errors.Is(err, blog.ErrOrphanedMetadata):
		message = blog.ErrPostNotFound.Error()
	}

	http.Error(w, message, status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warningf("failed to encode response: %v", err)
	}
}
