package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultExemptions(t *testing.T) {
	ex := DefaultExemptions()

	tests := []struct {
		path   string
		exempt bool
	}{
		{"/", true},
		{"", true},
		{"/docs", true},
		{"/openapi.json", true},
		{"/health", true},
		{"/health/live", true},
		{"/healthz", false},
		{"/quota", true},
		{"/metrics", true},
		{"/coins", false},
		{"/coins/bitcoin", false},
		{"/wallet/balance", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.exempt, ex.Match(tt.path))
		})
	}
}

func TestNewExemptionsNormalizes(t *testing.T) {
	ex := NewExemptions(" status/ ", "", "/", "/internal")
	assert.Equal(t, []string{"/status", "/internal"}, ex.Prefixes())
	assert.True(t, ex.Match("/status/deep"))
	assert.False(t, ex.Match("/coins"))
	assert.True(t, ex.Match("/"))
}
