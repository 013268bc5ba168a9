package store

import (
	"context"
	"sync"

	"github.com/serroba/shortcode/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu     sync.RWMutex
	urls   map[shortener.Code]shortener.ShortURL
	hashes map[shortener.URLHash]shortener.Code
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls:   make(map[shortener.Code]shortener.ShortURL),
		hashes: make(map[shortener.URLHash]shortener.Code),
	}
}

func (m *MemoryStore) Insert(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.urls[shortURL.Code]; ok {
		return shortener.ErrCodeConflict
	}

	m.urls[shortURL.Code] = *shortURL

	if shortURL.URLHash != "" {
		if _, ok := m.hashes[shortURL.URLHash]; !ok {
			m.hashes[shortURL.URLHash] = shortURL.Code
		}
	}

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shortURL, ok := m.urls[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &shortURL, nil
}

func (m *MemoryStore) GetByHash(_ context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.hashes[hash]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	shortURL := m.urls[code]

	return &shortURL, nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
