package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpiration(t *testing.T) {
	cases := []struct {
		input    string
		expected time.Duration
	}{
		{"30s", 30 * time.Second},
		{"15m", 15 * time.Minute},
		{"2h", 2 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
	}

	for _, tc := range cases {
		d, err := ParseExpiration(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, d, tc.input)
	}
}

func TestParseExpirationInvalid(t *testing.T) {
	for _, input := range []string{"", "15", "m", "15w", "-5m", "1.5h"} {
		_, err := ParseExpiration(input)
		assert.Error(t, err, input)
	}
}
