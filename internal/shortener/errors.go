package shortener

import (
	"errors"

	"github.com/serroba/shortcode/internal/idgen"
)

var (
	// ErrNotFound indicates no record exists for a code or hash.
	ErrNotFound = errors.New("short url not found")

	// ErrCodeConflict indicates the durable store already holds the code.
	ErrCodeConflict = errors.New("short code already exists")

	// ErrPersistenceExhausted indicates every creation attempt hit ErrCodeConflict.
	// The returned error also wraps the last conflict.
	ErrPersistenceExhausted = errors.New("could not persist a unique short code")

	// ErrInvalidArgument indicates malformed caller input.
	ErrInvalidArgument = idgen.ErrInvalidArgument

	// ErrRateLimitExceeded indicates the generator is saturated for the current second.
	ErrRateLimitExceeded = idgen.ErrRateLimitExceeded
)
