package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/serroba/shortcode/internal/idgen"
)

// MaxAttempts bounds the generate-and-persist loop of a single creation.
const MaxAttempts = 8

// IDSource issues identifiers. *idgen.Generator satisfies it.
type IDSource interface {
	Next() (idgen.Identifier, error)
}

// Creator generates short codes and persists new records with bounded retries.
//
// Generator saturation (ErrRateLimitExceeded) and durable-store conflicts
// (ErrCodeConflict) are retried independently. When attempts run out the former is
// returned as is, the latter as ErrPersistenceExhausted. Every other failure is returned
// immediately.
type Creator struct {
	ids         IDSource
	store       Repository
	clock       idgen.Clock
	maxAttempts int
}

// NewCreator creates a Creator. A nil clock falls back to idgen.SystemClock.
func NewCreator(ids IDSource, store Repository, clock idgen.Clock) *Creator {
	if clock == nil {
		clock = idgen.SystemClock{}
	}

	return &Creator{
		ids:         ids,
		store:       store,
		clock:       clock,
		maxAttempts: MaxAttempts,
	}
}

// CreateAndPersist stores fullURL under a freshly generated code.
func (c *Creator) CreateAndPersist(ctx context.Context, fullURL string) (*ShortURL, error) {
	return c.create(ctx, fullURL, "")
}

// CreateWithHash is CreateAndPersist for the hash strategy, recording the URL hash alongside the code.
func (c *Creator) CreateWithHash(ctx context.Context, fullURL string, hash URLHash) (*ShortURL, error) {
	return c.create(ctx, fullURL, hash)
}

func (c *Creator) create(ctx context.Context, fullURL string, hash URLHash) (*ShortURL, error) {
	if strings.TrimSpace(fullURL) == "" {
		return nil, fmt.Errorf("%w: url must not be blank", ErrInvalidArgument)
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		last := attempt == c.maxAttempts

		id, err := c.ids.Next()
		if err != nil {
			if errors.Is(err, ErrRateLimitExceeded) && !last {
				continue
			}

			return nil, err
		}

		code, err := id.Code()
		if err != nil {
			return nil, fmt.Errorf("encoding identifier: %w", err)
		}

		shortURL := &ShortURL{
			Code:        Code(code),
			OriginalURL: fullURL,
			URLHash:     hash,
			CreatedAt:   c.clock.Now().UTC(),
		}

		err = c.store.Insert(ctx, shortURL)
		if err == nil {
			return shortURL, nil
		}

		if !errors.Is(err, ErrCodeConflict) {
			return nil, err
		}

		if last {
			return nil, fmt.Errorf("%w after %d attempts: %w", ErrPersistenceExhausted, attempt, err)
		}
	}

	return nil, ErrPersistenceExhausted
}
