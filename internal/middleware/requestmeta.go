package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/jaevor/go-nanoid"
	"github.com/serroba/shortcode/internal/handlers"
	"github.com/serroba/shortcode/internal/messaging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	requestIDLength    = 21
	maxRequestIDLength = 128
)

var newRequestID = func() func() string {
	gen, err := nanoid.Standard(requestIDLength)
	if err != nil {
		panic(err)
	}

	return gen
}()

// RequestMeta adds the request id, client IP, user-agent, and referrer to the request context.
// An incoming X-Request-ID is reused; otherwise one is generated. Either way it is echoed back.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		requestID := ctx.Header(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = newRequestID()
		}

		meta := handlers.RequestMeta{
			RequestID: requestID,
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		newCtx = messaging.ContextWithRequestID(newCtx, requestID)

		ctx.SetHeader(RequestIDHeader, requestID)

		next(huma.WithContext(ctx, newCtx))
	}
}
