// Package provider defines the boundary between the deployment engine and
// the backends that materialize resources. The engine only ever asks a
// provider to create a resource of some kind with a property map, parented
// under a resource group; everything else (authentication, retries, diffing)
// is the provider's business.
package provider

import "context"

// ConfigureRequest carries provider-level configuration.
type ConfigureRequest struct {
	SubscriptionID string
	TenantID       string
	Location       string
}

// CreateRequest describes one resource to materialize. Properties have been
// fully resolved by the engine: no deferred handles remain by the time a
// provider sees them.
type CreateRequest struct {
	Kind       string
	Name       string
	Location   string
	Tags       map[string]string
	Properties map[string]any
}

// CreateResponse returns the identifier attributes of a materialized
// resource. Every provider sets at least "id" and "name"; kind-specific
// attributes (vault URI, principal ID, workspace customer ID) ride alongside.
type CreateResponse struct {
	Attributes map[string]any
}

// Provider materializes resource descriptions.
type Provider interface {
	Configure(ctx context.Context, req *ConfigureRequest) error
	Create(ctx context.Context, req *CreateRequest) (*CreateResponse, error)
}
