package shortener_test

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/shortcode/internal/idgen"
	"github.com/serroba/shortcode/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com"

// scriptedIDs returns the queued results in order, then keeps issuing increasing identifiers.
type scriptedIDs struct {
	script []error
	next   idgen.Identifier
	calls  int
}

func (s *scriptedIDs) Next() (idgen.Identifier, error) {
	s.calls++

	if len(s.script) > 0 {
		err := s.script[0]
		s.script = s.script[1:]

		if err != nil {
			return 0, err
		}
	}

	s.next++

	return s.next, nil
}

// mockRepository is a test double for shortener.Repository.
// insertErrs are consumed one per Insert call; once empty, inserts succeed.
type mockRepository struct {
	mu         sync.Mutex
	insertErrs []error
	getErr     error
	inserts    int
	byCode     map[shortener.Code]*shortener.ShortURL
	byHash     map[shortener.URLHash]*shortener.ShortURL
	lookups    int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		byCode: make(map[shortener.Code]*shortener.ShortURL),
		byHash: make(map[shortener.URLHash]*shortener.ShortURL),
	}
}

func (m *mockRepository) Insert(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inserts++

	if len(m.insertErrs) > 0 {
		err := m.insertErrs[0]
		m.insertErrs = m.insertErrs[1:]

		if err != nil {
			return err
		}
	}

	m.byCode[shortURL.Code] = shortURL

	if shortURL.URLHash != "" {
		m.byHash[shortURL.URLHash] = shortURL
	}

	return nil
}

func (m *mockRepository) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lookups++

	if m.getErr != nil {
		return nil, m.getErr
	}

	shortURL, ok := m.byCode[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return shortURL, nil
}

func (m *mockRepository) GetByHash(_ context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}

	shortURL, ok := m.byHash[hash]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return shortURL, nil
}

// repeat returns n copies of err.
func repeat(err error, n int) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = err
	}

	return errs
}
