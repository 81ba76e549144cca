package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

// ObjectStore is durable key-addressed byte storage. Keys are forward-slash
// separated and case-sensitive. Implementations must be safe for concurrent use.
type ObjectStore interface {
	Save(ctx context.Context, key string, data io.Reader, size int64) error
	// Get returns ErrObjectNotFound (possibly wrapped) when the key is absent.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Delete of a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ObjectKey is the address of a post body: "{username}/{filename}".
func ObjectKey(username, filename string) string {
	return username + "/" + filename
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.ContainsAny(key, "\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
