package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortcode/internal/ratelimit"
)

// BasePath is the prefix of the shortener API.
const BasePath = "/api/shortener"

// RegisterRoutes registers all URL shortener routes with per-endpoint rate limit configuration.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          BasePath,
		DefaultStatus: http.StatusCreated,
		Summary:       "Create short URL",
		Description:   "Shortens a URL using the sequence (default) or hash strategy.",
		Tags:          []string{"URLs"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.Limit{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "redirect-short-url",
		Method:      http.MethodGet,
		Path:        BasePath + "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL associated with the short code.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.Limit{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, urlHandler.RedirectToURL)
}
