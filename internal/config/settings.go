// Package config holds the per-environment settings tables and the ambient
// deployment context. Settings are selected once at startup and passed by
// value; nothing mutates them after load.
package config

import (
	"fmt"
	"sort"
	"strings"
)

// NetworkSettings is the network configuration for an environment.
type NetworkSettings struct {
	VNetAddressSpace     []string
	SubnetPrefixes       map[string]string
	EnableDDoSProtection bool
	EnableFirewall       bool
}

// SecuritySettings is the security configuration for an environment.
type SecuritySettings struct {
	EnablePurgeProtection   bool
	SoftDeleteRetentionDays int
	EnablePrivateEndpoints  bool
	AllowedIPRanges         []string
}

// MonitoringSettings is the monitoring configuration for an environment.
type MonitoringSettings struct {
	LogRetentionDays         int
	EnableDiagnosticSettings bool
	DailyQuotaGB             float64 // 0 means no cap
}

// FeatureFlags controls which optional resources are deployed per environment.
type FeatureFlags struct {
	EnableContainerApps  bool
	EnableFunctions      bool
	EnableServiceBus     bool
	EnableSQLDatabase    bool
	EnableAPIManagement  bool
	EnableCDN            bool
	EnableDataFactory    bool
	EnableRedisCache     bool
	EnableCosmosDB       bool
}

// EnvironmentSettings is the complete settings record for one environment.
type EnvironmentSettings struct {
	Name       string
	Location   string
	Network    NetworkSettings
	Security   SecuritySettings
	Monitoring MonitoringSettings
	Features   FeatureFlags
	Tags       map[string]string
}

var environments = map[string]EnvironmentSettings{
	"dev": {
		Name:     "dev",
		Location: "westus2",
		Network: NetworkSettings{
			VNetAddressSpace: []string{"10.0.0.0/16"},
			SubnetPrefixes: map[string]string{
				"gateway":    "10.0.0.0/24",
				"web":        "10.0.1.0/24",
				"app":        "10.0.2.0/24",
				"data":       "10.0.3.0/24",
				"management": "10.0.4.0/24",
			},
		},
		Security: SecuritySettings{
			SoftDeleteRetentionDays: 7,
		},
		Monitoring: MonitoringSettings{
			LogRetentionDays:         30,
			EnableDiagnosticSettings: true,
			DailyQuotaGB:             1.0,
		},
		Features: FeatureFlags{
			EnableContainerApps: true,
			EnableFunctions:     true,
			EnableServiceBus:    true,
			EnableSQLDatabase:   true,
			EnableAPIManagement: true,
			EnableDataFactory:   true,
			EnableRedisCache:    true,
			EnableCosmosDB:      true,
		},
	},
	"qa": {
		Name:     "qa",
		Location: "westus2",
		Network: NetworkSettings{
			VNetAddressSpace: []string{"10.3.0.0/16"},
			SubnetPrefixes: map[string]string{
				"gateway":    "10.3.0.0/24",
				"web":        "10.3.1.0/24",
				"app":        "10.3.2.0/24",
				"data":       "10.3.3.0/24",
				"management": "10.3.4.0/24",
			},
		},
		Security: SecuritySettings{
			SoftDeleteRetentionDays: 14,
		},
		Monitoring: MonitoringSettings{
			LogRetentionDays:         30,
			EnableDiagnosticSettings: true,
			DailyQuotaGB:             2.0,
		},
		Features: FeatureFlags{
			EnableContainerApps: true,
			EnableFunctions:     true,
			EnableServiceBus:    true,
			EnableSQLDatabase:   true,
		},
	},
	"staging": {
		Name:     "staging",
		Location: "westus2",
		Network: NetworkSettings{
			VNetAddressSpace: []string{"10.1.0.0/16"},
			SubnetPrefixes: map[string]string{
				"gateway":    "10.1.0.0/24",
				"web":        "10.1.1.0/24",
				"app":        "10.1.2.0/24",
				"data":       "10.1.3.0/24",
				"management": "10.1.4.0/24",
			},
		},
		Security: SecuritySettings{
			SoftDeleteRetentionDays: 30,
			EnablePrivateEndpoints:  true,
		},
		Monitoring: MonitoringSettings{
			LogRetentionDays:         60,
			EnableDiagnosticSettings: true,
			DailyQuotaGB:             5.0,
		},
		Features: FeatureFlags{
			EnableContainerApps: true,
			EnableFunctions:     true,
			EnableServiceBus:    true,
			EnableSQLDatabase:   true,
			EnableAPIManagement: true,
			EnableCDN:           true,
		},
	},
	"prod": {
		Name:     "prod",
		Location: "westus2",
		Network: NetworkSettings{
			VNetAddressSpace: []string{"10.2.0.0/16"},
			SubnetPrefixes: map[string]string{
				"gateway":    "10.2.0.0/24",
				"web":        "10.2.1.0/24",
				"app":        "10.2.2.0/24",
				"data":       "10.2.3.0/24",
				"management": "10.2.4.0/24",
			},
			EnableDDoSProtection: true,
			EnableFirewall:       true,
		},
		Security: SecuritySettings{
			EnablePurgeProtection:   true,
			SoftDeleteRetentionDays: 90,
			EnablePrivateEndpoints:  true,
		},
		Monitoring: MonitoringSettings{
			LogRetentionDays:         365,
			EnableDiagnosticSettings: true,
			// No daily cap in prod.
		},
		Features: FeatureFlags{
			EnableContainerApps: true,
			EnableFunctions:     true,
			EnableServiceBus:    true,
			EnableSQLDatabase:   true,
			EnableAPIManagement: true,
			EnableCDN:           true,
			EnableRedisCache:    true,
		},
	},
}

// Settings returns the settings record for the named environment. An unknown
// environment name is a fatal configuration error: the deployment must abort
// before any resource is described, and there is no default environment.
func Settings(environment string) (EnvironmentSettings, error) {
	s, ok := environments[environment]
	if !ok {
		return EnvironmentSettings{}, fmt.Errorf("%w: %q (valid environments: %s)",
			ErrUnknownEnvironment, environment, strings.Join(Environments(), ", "))
	}
	return s, nil
}

// Environments returns the valid environment selectors in sorted order.
func Environments() []string {
	names := make([]string, 0, len(environments))
	for name := range environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnvironmentFromStack extracts the environment selector from a deployment
// stack name. Stack names may be qualified as org/project/env or plain env;
// the last segment is the selector.
func EnvironmentFromStack(stackName string) string {
	if idx := strings.LastIndex(stackName, "/"); idx >= 0 {
		return stackName[idx+1:]
	}
	return stackName
}
