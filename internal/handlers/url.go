package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortcode/internal/analytics"
	"github.com/serroba/shortcode/internal/messaging"
	"github.com/serroba/shortcode/internal/shortener"
	"go.uber.org/zap"
)

// Resolver resolves short codes. *shortener.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, code shortener.Code) (*shortener.Resolution, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	strategies         map[Strategy]shortener.Strategy
	resolver           Resolver
	baseURL            string
	defaultStrategy    Strategy
	publishURLCreated  messaging.Publish[analytics.URLCreatedEvent]
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent]
	logger             *zap.Logger
}

// NewURLHandler creates a new URL handler with injected strategies.
func NewURLHandler(
	resolver Resolver,
	baseURL string,
	strategies map[Strategy]shortener.Strategy,
	publishURLCreated messaging.Publish[analytics.URLCreatedEvent],
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		strategies:         strategies,
		resolver:           resolver,
		baseURL:            strings.TrimSuffix(baseURL, "/"),
		defaultStrategy:    StrategySequence,
		publishURLCreated:  publishURLCreated,
		publishURLAccessed: publishURLAccessed,
		logger:             logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	strategyName := req.Body.Strategy
	if strategyName == "" {
		strategyName = h.defaultStrategy
	}

	strategy, ok := h.strategies[strategyName]
	if !ok {
		return nil, huma.Error400BadRequest(
			fmt.Sprintf("invalid strategy %q: must be %q or %q", strategyName, StrategySequence, StrategyHash))
	}

	shortURL, err := strategy.Shorten(ctx, req.Body.URL)
	if err != nil {
		return nil, h.toHTTPError(err, zap.String("strategy", string(strategyName)))
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLCreatedEvent{
		Code:        string(shortURL.Code),
		OriginalURL: shortURL.OriginalURL,
		URLHash:     string(shortURL.URLHash),
		Strategy:    string(strategyName),
		CreatedAt:   shortURL.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
		RequestID:   meta.RequestID,
	}

	if err := h.publishURLCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	fullShortURL := h.ShortURL(shortURL.Code)

	resp := &CreateShortURLResponse{}
	resp.Location = fullShortURL
	resp.Body.ShortCode = string(shortURL.Code)
	resp.Body.ShortURL = fullShortURL
	resp.Body.OriginalURL = shortURL.OriginalURL

	return resp, nil
}

// RedirectToURL answers with 302 rather than 301 so browsers keep coming back
// and every visit is counted.
func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	resolution, err := h.resolver.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.toHTTPError(err, zap.String("code", req.Code))
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLAccessedEvent{
		Code:       req.Code,
		Source:     string(resolution.Source),
		Promoted:   resolution.Promoted,
		AccessedAt: time.Now().UTC(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
		RequestID:  meta.RequestID,
	}

	if err := h.publishURLAccessed(ctx, event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return &RedirectResponse{
		Status:       http.StatusFound,
		Location:     resolution.URL,
		CacheControl: "private, max-age=0",
	}, nil
}

// ShortURL returns the public URL for code.
func (h *URLHandler) ShortURL(code shortener.Code) string {
	return fmt.Sprintf("%s%s/%s", h.baseURL, BasePath, code)
}
