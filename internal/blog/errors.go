package blog

import (
	"errors"
	"fmt"

	"blog-serwer/internal/database"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicatePost       = database.ErrDuplicatePost
	ErrUserNotFound        = errors.New("user not found")
	ErrPostNotFound        = errors.New("post not found")
	ErrOrphanedMetadata    = errors.New("post metadata exists but its content is missing")
	ErrMetadataUnavailable = errors.New("metadata store unavailable")
	ErrStorageUnavailable  = errors.New("object storage unavailable")
	ErrUsernameTaken       = database.ErrUsernameTaken
	ErrEmailTaken          = database.ErrEmailTaken
	ErrInvalidCredentials  = errors.New("invalid login or password")
)

// ValidationError describes rejected input. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// infraError tags err with kind while keeping the cause in the chain.
type infraError struct {
	kind error
	op   string
	err  error
}

func (e *infraError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
}

func (e *infraError) Unwrap() []error {
	return []error{e.kind, e.err}
}

func metadataError(op string, err error) error {
	return &infraError{kind: ErrMetadataUnavailable, op: op, err: err}
}

func storageError(op string, err error) error {
	return &infraError{kind: ErrStorageUnavailable, op: op, err: err}
}
