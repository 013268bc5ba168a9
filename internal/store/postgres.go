package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortcode/internal/shortener"
)

const (
	pgUniqueViolation = "23505"
	shortURLsPkey     = "short_urls_pkey"
)

const shortURLsSchema = `
	CREATE TABLE IF NOT EXISTS short_urls (
		code         TEXT PRIMARY KEY,
		original_url TEXT NOT NULL,
		url_hash     TEXT,
		created_at   TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS short_urls_url_hash_idx ON short_urls (url_hash) WHERE url_hash IS NOT NULL;
`

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the short_urls table and its indexes if they do not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, shortURLsSchema)

	return err
}

func (p *PostgresStore) Insert(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO short_urls (code, original_url, url_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query,
		string(shortURL.Code),
		shortURL.OriginalURL,
		nullableString(shortURL.URLHash),
		shortURL.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == shortURLsPkey {
			return shortener.ErrCodeConflict
		}

		return err
	}

	return nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT code, original_url, url_hash, created_at
		FROM short_urls
		WHERE code = $1
	`

	return scanShortURL(p.pool.QueryRow(ctx, query, string(code)))
}

// GetByHash returns the oldest record created for hash.
func (p *PostgresStore) GetByHash(ctx context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	query := `
		SELECT code, original_url, url_hash, created_at
		FROM short_urls
		WHERE url_hash = $1
		ORDER BY created_at, code
		LIMIT 1
	`

	return scanShortURL(p.pool.QueryRow(ctx, query, string(hash)))
}

// Ping reports whether the database is reachable.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanShortURL(row pgx.Row) (*shortener.ShortURL, error) {
	var (
		url     shortener.ShortURL
		urlHash *string
	)

	err := row.Scan(
		&url.Code,
		&url.OriginalURL,
		&urlHash,
		&url.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	if urlHash != nil {
		url.URLHash = shortener.URLHash(*urlHash)
	}

	return &url, nil
}

func nullableString(s shortener.URLHash) *string {
	if s == "" {
		return nil
	}

	str := string(s)

	return &str
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
