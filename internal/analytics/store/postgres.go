package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortcode/internal/analytics"
)

const urlEventsSchema = `
	CREATE TABLE IF NOT EXISTS url_events (
		id          BIGSERIAL PRIMARY KEY,
		event_type  TEXT NOT NULL,
		code        TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		payload     JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS url_events_code_idx ON url_events (code, occurred_at);
`

// Postgres appends analytics events to the url_events table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgreSQL analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the url_events table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, urlEventsSchema)

	return err
}

func (p *Postgres) SaveURLCreated(ctx context.Context, event *analytics.URLCreatedEvent) error {
	return p.insert(ctx, analytics.TopicURLCreated, event.Code, event.CreatedAt, event)
}

func (p *Postgres) SaveURLAccessed(ctx context.Context, event *analytics.URLAccessedEvent) error {
	return p.insert(ctx, analytics.TopicURLAccessed, event.Code, event.AccessedAt, event)
}

// CountByCode returns how many events of eventType were stored for code.
func (p *Postgres) CountByCode(ctx context.Context, eventType, code string) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx,
		`SELECT count(*) FROM url_events WHERE event_type = $1 AND code = $2`,
		eventType, code,
	).Scan(&count)

	return count, err
}

func (p *Postgres) insert(ctx context.Context, eventType, code string, at time.Time, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", eventType, err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO url_events (event_type, code, occurred_at, payload) VALUES ($1, $2, $3, $4)`,
		eventType, code, at, payload,
	)
	if err != nil {
		return fmt.Errorf("inserting %s event: %w", eventType, err)
	}

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)
