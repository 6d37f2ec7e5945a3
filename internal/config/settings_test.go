package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_KnownEnvironments(t *testing.T) {
	for _, env := range []string{"dev", "qa", "staging", "prod"} {
		t.Run(env, func(t *testing.T) {
			s, err := Settings(env)
			require.NoError(t, err)
			assert.Equal(t, env, s.Name)
			assert.NotEmpty(t, s.Location)
			assert.NotEmpty(t, s.Network.VNetAddressSpace)
			assert.Len(t, s.Network.SubnetPrefixes, 5)
			assert.Positive(t, s.Security.SoftDeleteRetentionDays)
			assert.Positive(t, s.Monitoring.LogRetentionDays)
		})
	}
}

func TestSettings_UnknownEnvironmentIsFatal(t *testing.T) {
	_, err := Settings("sandbox")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEnvironment))
	assert.Contains(t, err.Error(), "sandbox")
}

func TestSettings_NoDefaultFallback(t *testing.T) {
	// An empty selector must not resolve to any environment.
	_, err := Settings("")
	assert.ErrorIs(t, err, ErrUnknownEnvironment)
}

func TestSettings_ProdHardening(t *testing.T) {
	s, err := Settings("prod")
	require.NoError(t, err)
	assert.True(t, s.Security.EnablePurgeProtection)
	assert.True(t, s.Network.EnableDDoSProtection)
	assert.Equal(t, 365, s.Monitoring.LogRetentionDays)
	assert.Zero(t, s.Monitoring.DailyQuotaGB, "prod has no ingestion cap")
}

func TestSettings_AddressSpacesAreDisjoint(t *testing.T) {
	seen := map[string]string{}
	for _, env := range Environments() {
		s, err := Settings(env)
		require.NoError(t, err)
		for _, cidr := range s.Network.VNetAddressSpace {
			prior, dup := seen[cidr]
			assert.False(t, dup, "%s and %s share address space %s", prior, env, cidr)
			seen[cidr] = env
		}
	}
}

func TestEnvironments_Sorted(t *testing.T) {
	assert.Equal(t, []string{"dev", "prod", "qa", "staging"}, Environments())
}

func TestEnvironmentFromStack(t *testing.T) {
	tests := []struct {
		stack string
		want  string
	}{
		{"dev", "dev"},
		{"org/project/prod", "prod"},
		{"project/staging", "staging"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EnvironmentFromStack(tt.stack))
	}
}
