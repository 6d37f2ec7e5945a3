package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(s []string, v string) int {
	for i, item := range s {
		if item == v {
			return i
		}
	}
	return -1
}

func TestBuildDAG_NoDependencies(t *testing.T) {
	resources := []*Resource{
		{Kind: "azure:Resources.ResourceGroup", Name: "a"},
		{Kind: "azure:Resources.ResourceGroup", Name: "b"},
		{Kind: "azure:Resources.ResourceGroup", Name: "c"},
	}

	dag, err := BuildDAG(resources)
	require.NoError(t, err)
	assert.Len(t, dag.CreationOrder(), 3)
}

func TestBuildDAG_ExplicitDependsOn(t *testing.T) {
	resources := []*Resource{
		{Kind: "k", Name: "a", DependsOn: []string{"k.b"}},
		{Kind: "k", Name: "b"},
		{Kind: "k", Name: "c", DependsOn: []string{"k.a"}},
	}

	dag, err := BuildDAG(resources)
	require.NoError(t, err)

	order := dag.CreationOrder()
	require.Len(t, order, 3)
	assert.Less(t, indexOf(order, "k.b"), indexOf(order, "k.a"), "b should come before a")
	assert.Less(t, indexOf(order, "k.a"), indexOf(order, "k.c"), "a should come before c")
}

func TestBuildDAG_ImplicitOutputRef(t *testing.T) {
	d := NewDeployment("dev", "westus2")
	rg, err := d.Register(&Resource{Kind: "azure:Resources.ResourceGroup", Name: "rg-network-dev"})
	require.NoError(t, err)

	// Registered before-the-fact ordering is irrelevant: the *Output handle
	// in the property map forms the edge.
	resources := []*Resource{
		{
			Kind: "azure:Network.VirtualNetwork",
			Name: "vnet-main-dev",
			Properties: map[string]any{
				"resourceGroupName": rg.Output("name"),
			},
		},
		{Kind: "azure:Resources.ResourceGroup", Name: "rg-network-dev"},
	}

	dag, err := BuildDAG(resources)
	require.NoError(t, err)

	order := dag.CreationOrder()
	posRG := indexOf(order, "azure:Resources.ResourceGroup.rg-network-dev")
	posVNet := indexOf(order, "azure:Network.VirtualNetwork.vnet-main-dev")
	assert.Less(t, posRG, posVNet, "resource group should be created before the vnet")
}

func TestBuildDAG_AppliedOutputKeepsEdge(t *testing.T) {
	d := NewDeployment("dev", "westus2")
	vnet, err := d.Register(&Resource{Kind: "azure:Network.VirtualNetwork", Name: "vnet-main-dev"})
	require.NoError(t, err)

	subnetID := vnet.Output("id").Apply(func(v any) (any, error) {
		return v.(string) + "/subnets/web", nil
	})

	resources := []*Resource{
		{Kind: "azure:Network.VirtualNetwork", Name: "vnet-main-dev"},
		{
			Kind:       "azure:KeyVault.Vault",
			Name:       "kv-main-dev",
			Properties: map[string]any{"allowedSubnetIds": []any{subnetID}},
		},
	}

	dag, err := BuildDAG(resources)
	require.NoError(t, err)
	assert.Contains(t, dag.Dependencies("azure:KeyVault.Vault.kv-main-dev"),
		"azure:Network.VirtualNetwork.vnet-main-dev")
}

func TestBuildDAG_CycleDetection(t *testing.T) {
	resources := []*Resource{
		{Kind: "k", Name: "a", DependsOn: []string{"k.b"}},
		{Kind: "k", Name: "b", DependsOn: []string{"k.a"}},
	}

	_, err := BuildDAG(resources)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuildDAG_UnknownDependency(t *testing.T) {
	resources := []*Resource{
		{Kind: "k", Name: "a", DependsOn: []string{"k.missing"}},
	}

	_, err := BuildDAG(resources)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "k.missing")
}

func TestBuildDAG_DeterministicOrder(t *testing.T) {
	resources := []*Resource{
		{Kind: "k", Name: "c"},
		{Kind: "k", Name: "a"},
		{Kind: "k", Name: "b"},
	}

	first, err := BuildDAG(resources)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		dag, err := BuildDAG(resources)
		require.NoError(t, err)
		assert.Equal(t, first.CreationOrder(), dag.CreationOrder())
	}
	// Independent resources come out in registration order.
	assert.Equal(t, []string{"k.c", "k.a", "k.b"}, first.CreationOrder())
}
