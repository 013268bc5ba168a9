package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortcode/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware enforcing per-client limits.
//
// Operations may carry a ratelimit.EndpointConfig under ratelimit.MetadataKey to
// disable limiting or replace the policy limits. Counters are keyed by client and
// route template, so every code under the same route shares one budget per client.
// When the counter store fails the request is let through.
func RateLimiter(
	api huma.API,
	limiter *ratelimit.Limiter,
	policy ratelimit.Policy,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		path := operationPath(ctx)
		limits := policy.ForMethod(ctx.Method())

		if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil {
			if cfg.Disabled {
				next(ctx)

				return
			}

			if len(cfg.Limits) > 0 {
				limits = cfg.Limits
			}
		}

		key := clientKey(ctx) + ":" + ctx.Method() + ":" + path

		decision, err := limiter.Allow(ctx.Context(), key, limits)
		if err != nil {
			logger.Warn("rate limit check failed, allowing request",
				zap.String("path", path),
				zap.Error(err),
			)
			next(ctx)

			return
		}

		if !decision.Allowed {
			logger.Warn("rate limit exceeded",
				zap.String("path", path),
				zap.String("method", ctx.Method()),
				zap.Int64("count", decision.Count),
				zap.Int64("max", decision.Limit.Max),
				zap.Duration("window", decision.Limit.Window),
				zap.String("client_ip", clientIP(ctx)),
			)

			ctx.SetHeader("Retry-After", retryAfterSeconds(decision))

			msg := fmt.Sprintf("rate limit exceeded: %d requests per %s", decision.Limit.Max, decision.Limit.Window)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)

			return
		}

		next(ctx)
	}
}

// clientKey hashes client IP and User-Agent into a fixed-length key.
func clientKey(ctx huma.Context) string {
	hash := sha256.Sum256([]byte(clientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(hash[:])
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}

func retryAfterSeconds(decision ratelimit.Decision) string {
	seconds := int64(math.Ceil(decision.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}

	return strconv.FormatInt(seconds, 10)
}
