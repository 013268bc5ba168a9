package handlers

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortcode/internal/shortener"
	"go.uber.org/zap"
)

// generatorRetryAfter is how long a client should wait once the generator is saturated.
// Sequence numbers reset every second.
const generatorRetryAfter = "1"

// toHTTPError maps domain errors onto API errors. Server-side failures are logged here.
func (h *URLHandler) toHTTPError(err error, fields ...zap.Field) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidArgument):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short url not found")
	case errors.Is(err, shortener.ErrRateLimitExceeded):
		h.logger.Warn("code generator saturated", fields...)

		return huma.ErrorWithHeaders(
			huma.Error429TooManyRequests("too many short urls created this second, retry shortly"),
			http.Header{"Retry-After": {generatorRetryAfter}},
		)
	case errors.Is(err, shortener.ErrPersistenceExhausted):
		h.logger.Error("could not persist a unique short code", append(fields, zap.Error(err))...)

		return huma.Error500InternalServerError("failed to save url")
	default:
		h.logger.Error("request failed", append(fields, zap.Error(err))...)

		return huma.Error500InternalServerError("internal server error")
	}
}
