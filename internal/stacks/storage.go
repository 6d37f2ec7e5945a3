package stacks

import (
	"fmt"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/internal/naming"
	"github.com/azstack-io/azstack/internal/tags"
	"github.com/azstack-io/azstack/pkg/provider"
)

// storageAccounts lists the accounts the storage stack owns and the blob
// containers inside each one.
var storageAccounts = []struct {
	logical    string
	accessTier string
	containers []string
}{
	{"app", "Hot", []string{"data", "uploads", "exports"}},
	{"logs", "Cool", []string{"diagnostics", "audit", "flow-logs"}},
}

// Storage builds the storage accounts and their blob containers.
type Storage struct {
	accounts map[string]*engine.Handle
}

// NewStorage registers the application and log storage accounts inside the
// core data resource group, with their blob containers.
func NewStorage(d *engine.Deployment, ctx *config.Context, settings config.EnvironmentSettings, resourceGroupName *engine.Output) (*Storage, error) {
	s := &Storage{
		accounts: make(map[string]*engine.Handle, len(storageAccounts)),
	}

	defaultTags := tags.Defaults(ctx, tags.Request{Environment: settings.Name, Component: "storage"})

	for _, acct := range storageAccounts {
		accountName := naming.Generate(naming.Request{
			ResourceType: "st",
			Name:         acct.logical,
			Environment:  settings.Name,
		})

		account, err := d.Register(&engine.Resource{
			Kind:     provider.KindStorageAccount,
			Name:     accountName,
			Location: settings.Location,
			Tags:     tags.Merge(defaultTags, map[string]string{"DataTier": acct.accessTier}),
			Properties: map[string]any{
				"resourceGroupName":        resourceGroupName,
				"sku":                      "Standard_LRS",
				"accessTier":               acct.accessTier,
				"supportsHttpsTrafficOnly": true,
				"minimumTlsVersion":        "TLS1_2",
				"allowBlobPublicAccess":    false,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register storage account %s: %w", accountName, err)
		}
		s.accounts[acct.logical] = account

		for _, container := range acct.containers {
			_, err := d.Register(&engine.Resource{
				Kind: provider.KindBlobContainer,
				Name: container,
				Properties: map[string]any{
					"resourceGroupName": resourceGroupName,
					"accountName":       account.Output("name"),
				},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to register blob container %s in %s: %w", container, accountName, err)
			}
		}
	}

	return s, nil
}

func (s *Storage) Name() string { return "storage" }

// Account returns the handle for one storage account.
func (s *Storage) Account(logical string) (*engine.Handle, error) {
	account, ok := s.accounts[logical]
	if !ok {
		return nil, fmt.Errorf("unknown storage account %q", logical)
	}
	return account, nil
}

func (s *Storage) Outputs() map[string]*engine.Output {
	return map[string]*engine.Output{
		"app_storage_name":          s.accounts["app"].Output("name"),
		"app_storage_blob_endpoint": s.accounts["app"].Output("primaryBlobEndpoint"),
		"logs_storage_name":         s.accounts["logs"].Output("name"),
	}
}
