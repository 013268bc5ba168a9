// Package health reports the reachability of the service's dependencies.
package health

import (
	"context"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// Dependency states reported per checker.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Overall service states.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

const pingTimeout = 2 * time.Second

// Checker defines the interface for checking a dependency.
// *store.RedisCache, *store.PostgresStore and *store.GormStore satisfy it.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler handles health check operations.
type Handler struct {
	checkers map[string]Checker
	logger   *zap.Logger
}

// NewHandler creates a new health handler over named dependency checkers.
func NewHandler(checkers map[string]Checker, logger *zap.Logger) *Handler {
	return &Handler{checkers: checkers, logger: logger}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status       string            `doc:"ok, or degraded when a dependency is unreachable" example:"ok" json:"status"`
		Dependencies map[string]string `doc:"State of each dependency"                                  json:"dependencies"`
	}
}

// Check pings every dependency. A failing dependency degrades the status but never fails the request.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = StatusOK
	resp.Body.Dependencies = make(map[string]string, len(h.checkers))

	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := h.checkers[name].Ping(pingCtx)

		cancel()

		if err != nil {
			h.logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
			resp.Body.Dependencies[name] = StatusUnhealthy
			resp.Body.Status = StatusDegraded

			continue
		}

		resp.Body.Dependencies[name] = StatusHealthy
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
