package ratelimit

import "github.com/danielgtaylor/huma/v2"

// MetadataKey is the key used to store EndpointConfig in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig overrides the policy for a single operation.
type EndpointConfig struct {
	// Limits replaces the method-based policy limits when non-empty.
	Limits []Limit

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
