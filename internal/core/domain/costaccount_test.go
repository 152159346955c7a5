package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
)

func TestParseDistributionKey(t *testing.T) {
	testCases := []struct {
		code     string
		expected domain.DistributionKey
	}{
		{"03", domain.KeyEqual},
		{"03*", domain.KeyEqual},
		{"03 Einheiten", domain.KeyEqual},
		{"01", domain.KeyExternalHeating},
		{"02*", domain.KeyExternalWater},
		{"04 Festumlage", domain.KeyDirect},
		{"05*", domain.KeyOwnership},
		{" 06", domain.KeyLiftStation},
	}

	for _, tc := range testCases {
		key, err := domain.ParseDistributionKey(tc.code)
		require.NoError(t, err, "code %q", tc.code)
		assert.Equal(t, tc.expected, key, "code %q", tc.code)
	}
}

func TestParseDistributionKey_Invalid(t *testing.T) {
	for _, code := range []string{"", "0", "99", "ab"} {
		_, err := domain.ParseDistributionKey(code)
		assert.Error(t, err, "code %q should not parse", code)
	}
}

func TestDistributionKeyIsExternal(t *testing.T) {
	assert.True(t, domain.KeyExternalHeating.IsExternal())
	assert.True(t, domain.KeyExternalWater.IsExternal())
	assert.False(t, domain.KeyEqual.IsExternal())
	assert.False(t, domain.KeyOwnership.IsExternal())
}
