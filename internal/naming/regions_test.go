package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionCode(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"westus2", "wus2"},
		{"eastus", "eus"},
		{"northeurope", "neu"},
		{"West US 2", "wus2"},
		{"east-us", "eus"},
		{"unknownregion", "unkn"},
		{"xy", "xy"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, RegionCode(tt.location))
		})
	}
}
