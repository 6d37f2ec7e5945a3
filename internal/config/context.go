package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

// ErrUnknownEnvironment is returned when an environment selector does not
// match any configured environment.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Context carries ambient deployment configuration. It replaces hidden
// global lookups: every construction call that needs the project name, owner
// tag, or default location receives the context explicitly.
type Context struct {
	Project        string `env:"AZSTACK_PROJECT" envDefault:"azstack" yaml:"project"`
	StackName      string `env:"AZSTACK_STACK" yaml:"stack"`
	Owner          string `env:"AZSTACK_OWNER" yaml:"owner"`
	CostCenter     string `env:"AZSTACK_COST_CENTER" yaml:"costCenter"`
	Location       string `env:"AZSTACK_LOCATION" yaml:"location"`
	SubscriptionID string `env:"AZURE_SUBSCRIPTION_ID" yaml:"subscriptionId"`
	TenantID       string `env:"AZURE_TENANT_ID" yaml:"tenantId"`
}

// LoadContext builds the ambient context from environment variables.
func LoadContext() (*Context, error) {
	var ctx Context
	if err := env.Parse(&ctx); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &ctx, nil
}

// ApplyOverrides merges values from a YAML override file into the context.
// A missing file is not an error; set fields in the file win over the
// environment.
func (c *Context) ApplyOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var overrides Context
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if overrides.Project != "" {
		c.Project = overrides.Project
	}
	if overrides.StackName != "" {
		c.StackName = overrides.StackName
	}
	if overrides.Owner != "" {
		c.Owner = overrides.Owner
	}
	if overrides.CostCenter != "" {
		c.CostCenter = overrides.CostCenter
	}
	if overrides.Location != "" {
		c.Location = overrides.Location
	}
	if overrides.SubscriptionID != "" {
		c.SubscriptionID = overrides.SubscriptionID
	}
	if overrides.TenantID != "" {
		c.TenantID = overrides.TenantID
	}
	return nil
}
