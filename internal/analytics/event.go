// Package analytics defines the events emitted by the shortener and how they are stored.
package analytics

import "time"

// Topics events are published on.
const (
	TopicURLCreated  = "url.created"
	TopicURLAccessed = "url.accessed"
)

// URLCreatedEvent is emitted when a URL is shortened.
type URLCreatedEvent struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	URLHash     string    `json:"urlHash,omitempty"`
	Strategy    string    `json:"strategy"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
	RequestID   string    `json:"requestId,omitempty"`
}

// URLAccessedEvent is emitted when a short code is resolved.
type URLAccessedEvent struct {
	Code       string    `json:"code"`
	Source     string    `json:"source"` // "cache" or "store"
	Promoted   bool      `json:"promoted"`
	AccessedAt time.Time `json:"accessedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
}
