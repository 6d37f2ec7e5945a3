package tags

import (
	"testing"
	"time"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_MandatoryKeys(t *testing.T) {
	got := Defaults(nil, Request{Environment: "dev"})

	require.Len(t, got, 5, "exactly the five mandatory keys with no optionals supplied")
	assert.Equal(t, "dev", got[KeyEnvironment])
	assert.Equal(t, "azstack", got[KeyManagedBy])
	assert.Contains(t, got, KeyProject)
	assert.Contains(t, got, KeyStack)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), got[KeyCreatedDate])
}

func TestDefaults_OptionalKeysOmittedNotEmpty(t *testing.T) {
	got := Defaults(nil, Request{Environment: "dev"})
	assert.NotContains(t, got, KeyOwner)
	assert.NotContains(t, got, KeyCostCenter)
	assert.NotContains(t, got, KeyComponent)
}

func TestDefaults_DirectValuesWinOverAmbient(t *testing.T) {
	ctx := &config.Context{Project: "webshop", Owner: "platform-team", CostCenter: "cc-1001"}
	got := Defaults(ctx, Request{Environment: "prod", Component: "networking", Owner: "net-team"})

	assert.Equal(t, "webshop", got[KeyProject])
	assert.Equal(t, "networking", got[KeyComponent])
	assert.Equal(t, "net-team", got[KeyOwner], "direct value beats ambient context")
	assert.Equal(t, "cc-1001", got[KeyCostCenter], "ambient fills what the request left empty")
}

func TestDefaults_StackFallsBackToEnvironment(t *testing.T) {
	got := Defaults(&config.Context{Project: "webshop"}, Request{Environment: "qa"})
	assert.Equal(t, "qa", got[KeyStack])

	got = Defaults(&config.Context{Project: "webshop", StackName: "org/webshop/qa"}, Request{Environment: "qa"})
	assert.Equal(t, "org/webshop/qa", got[KeyStack])
}

func TestMerge_ExtraWins(t *testing.T) {
	got := Merge(map[string]string{"Environment": "dev"}, map[string]string{"Environment": "staging"})
	assert.Equal(t, map[string]string{"Environment": "staging"}, got)
}

func TestMerge_NilExtraReturnsCopy(t *testing.T) {
	base := map[string]string{"Environment": "dev", "Owner": "platform-team"}
	got := Merge(base, nil)

	assert.Equal(t, base, got)
	got["Owner"] = "someone-else"
	assert.Equal(t, "platform-team", base["Owner"], "mutating the result must not mutate base")
}

func TestMerge_AddsNewKeys(t *testing.T) {
	got := Merge(
		map[string]string{"Environment": "dev"},
		map[string]string{"Purpose": "Networking Resources"},
	)
	assert.Equal(t, "dev", got["Environment"])
	assert.Equal(t, "Networking Resources", got["Purpose"])
}
