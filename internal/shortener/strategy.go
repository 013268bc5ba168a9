package shortener

import (
	"context"
	"errors"
)

// Strategy defines the interface for URL shortening strategies.
type Strategy interface {
	Shorten(ctx context.Context, url string) (*ShortURL, error)
}

// SequenceStrategy always generates a new code for each URL.
type SequenceStrategy struct {
	creator *Creator
}

// NewSequenceStrategy creates a strategy that issues a fresh code per request.
func NewSequenceStrategy(creator *Creator) *SequenceStrategy {
	return &SequenceStrategy{creator: creator}
}

func (s *SequenceStrategy) Shorten(ctx context.Context, url string) (*ShortURL, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}

	return s.creator.CreateAndPersist(ctx, url)
}

// HashStrategy deduplicates URLs by returning the same code for equivalent URLs.
// New codes still come from the Creator.
type HashStrategy struct {
	store   Repository
	creator *Creator
}

// NewHashStrategy creates a new hash-based shortening strategy.
func NewHashStrategy(store Repository, creator *Creator) *HashStrategy {
	return &HashStrategy{
		store:   store,
		creator: creator,
	}
}

func (s *HashStrategy) Shorten(ctx context.Context, rawURL string) (*ShortURL, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	normalizedURL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	urlHash := HashURL(normalizedURL)

	existing, err := s.store.GetByHash(ctx, urlHash)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return s.creator.CreateWithHash(ctx, rawURL, urlHash)
}
