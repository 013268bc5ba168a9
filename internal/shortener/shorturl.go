package shortener

import "time"

// Code is the base-62 short code identifying a URL record.
type Code string

// URLHash represents a hash of a normalized URL.
type URLHash string

// ShortURL is a persisted short code to URL mapping. Records are never mutated once created.
type ShortURL struct {
	Code        Code
	OriginalURL string
	URLHash     URLHash // empty for the sequence strategy, populated for the hash strategy
	CreatedAt   time.Time
}
