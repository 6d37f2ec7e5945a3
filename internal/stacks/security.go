package stacks

import (
	"fmt"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/internal/naming"
	"github.com/azstack-io/azstack/internal/tags"
	"github.com/azstack-io/azstack/pkg/provider"
)

// identityRoles lists the user-assigned identities the security stack owns.
var identityRoles = []string{"app", "data"}

// Security builds the key vault and the user-assigned identities that
// workloads run as.
type Security struct {
	vault      *engine.Handle
	identities map[string]*engine.Handle
}

// NewSecurity registers the key vault and workload identities inside the
// core security resource group. tenantID may be empty; the Azure provider
// falls back to the configured tenant.
func NewSecurity(d *engine.Deployment, ctx *config.Context, settings config.EnvironmentSettings, resourceGroupName *engine.Output, tenantID string) (*Security, error) {
	s := &Security{
		identities: make(map[string]*engine.Handle, len(identityRoles)),
	}

	defaultTags := tags.Defaults(ctx, tags.Request{Environment: settings.Name, Component: "security"})

	vaultName := naming.Generate(naming.Request{
		ResourceType: "kv",
		Name:         "main",
		Environment:  settings.Name,
	})

	// Purge protection cannot be disabled once enabled, so prod always
	// gets it regardless of the environment settings.
	purgeProtection := settings.Security.EnablePurgeProtection || settings.Name == "prod"

	vault, err := d.Register(&engine.Resource{
		Kind:     provider.KindKeyVault,
		Name:     vaultName,
		Location: settings.Location,
		Tags:     tags.Merge(defaultTags, nil),
		Properties: map[string]any{
			"resourceGroupName":       resourceGroupName,
			"tenantId":                tenantID,
			"sku":                     "standard",
			"enableRbacAuthorization": true,
			"softDeleteRetentionDays": settings.Security.SoftDeleteRetentionDays,
			"enablePurgeProtection":   purgeProtection,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register key vault %s: %w", vaultName, err)
	}
	s.vault = vault

	for _, role := range identityRoles {
		identityName := naming.Generate(naming.Request{
			ResourceType: "id",
			Name:         role,
			Environment:  settings.Name,
		})

		identity, err := d.Register(&engine.Resource{
			Kind:     provider.KindManagedIdentity,
			Name:     identityName,
			Location: settings.Location,
			Tags:     tags.Merge(defaultTags, map[string]string{"Role": role}),
			Properties: map[string]any{
				"resourceGroupName": resourceGroupName,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register managed identity %s: %w", identityName, err)
		}
		s.identities[role] = identity
	}

	return s, nil
}

func (s *Security) Name() string { return "security" }

// Identity returns the handle for one workload identity.
func (s *Security) Identity(role string) (*engine.Handle, error) {
	identity, ok := s.identities[role]
	if !ok {
		return nil, fmt.Errorf("unknown identity role %q", role)
	}
	return identity, nil
}

func (s *Security) Outputs() map[string]*engine.Output {
	return map[string]*engine.Output{
		"key_vault_name":             s.vault.Output("name"),
		"key_vault_uri":              s.vault.Output("vaultUri"),
		"app_identity_id":            s.identities["app"].Output("id"),
		"app_identity_principal_id":  s.identities["app"].Output("principalId"),
		"app_identity_client_id":     s.identities["app"].Output("clientId"),
		"data_identity_id":           s.identities["data"].Output("id"),
		"data_identity_principal_id": s.identities["data"].Output("principalId"),
	}
}
