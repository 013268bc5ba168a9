package shortener

import "context"

// Repository is the durable store of URL records.
// All implementations must be safe for concurrent use.
type Repository interface {
	// Insert stores a new record. It returns ErrCodeConflict if the code is already taken
	// and never overwrites an existing record.
	Insert(ctx context.Context, shortURL *ShortURL) error

	// GetByCode returns ErrNotFound if no record exists for code.
	GetByCode(ctx context.Context, code Code) (*ShortURL, error)

	// GetByHash returns the record created for a normalized URL hash, or ErrNotFound.
	GetByHash(ctx context.Context, hash URLHash) (*ShortURL, error)
}
