package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"blog-serwer/internal/blog"

	"github.com/stretchr/testify/require"
)

func TestStatusForError(t *testing.T) {
	cases := map[error]int{
		&blog.ValidationError{Field: "filename", Reason: "bad"}: http.StatusBadRequest,
		blog.ErrDuplicatePost:                                   http.StatusConflict,
		blog.ErrUsernameTaken:                                   http.StatusConflict,
		blog.ErrEmailTaken:                                      http.StatusConflict,
		blog.ErrUserNotFound:                                    http.StatusNotFound,
		blog.ErrPostNotFound:                                    http.StatusNotFound,
		blog.ErrInvalidCredentials:                              http.StatusUnauthorized,
		fmt.Errorf("read: %w", blog.ErrStorageUnavailable):      http.StatusServiceUnavailable,
		fmt.Errorf("query: %w", blog.ErrMetadataUnavailable):    http.StatusServiceUnavailable,
		errors.New("boom"):                                      http.StatusInternalServerError,
	}
	for err, want := range cases {
		require.Equal(t, want, statusForError(err), err.Error())
	}
}
