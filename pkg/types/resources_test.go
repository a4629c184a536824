package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMemoryGB(t *testing.T) {
	assert.Equal(t, "4g", FormatMemoryGB(4))
	assert.Equal(t, "1g", FormatMemoryGB(1.0))
	assert.Equal(t, "512m", FormatMemoryGB(0.5))
	assert.Equal(t, "1536m", FormatMemoryGB(1.5))
	assert.Equal(t, "819m", FormatMemoryGB(0.8))
	assert.Equal(t, "0", FormatMemoryGB(0))
	assert.Equal(t, "0", FormatMemoryGB(-1))
}

func TestFormatCPU(t *testing.T) {
	assert.Equal(t, "0.5", FormatCPU(0.5))
	assert.Equal(t, "2", FormatCPU(2.0))
	assert.Equal(t, "0.25", FormatCPU(0.25))
	assert.Equal(t, "1", FormatCPU(1))
	assert.Equal(t, "0", FormatCPU(0))
}

func TestParseMemoryGB(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2g", 2},
		{"2G", 2},
		{"2gb", 2},
		{"1.5g", 1.5},
		{"512m", 0.5},
		{"512mb", 0.5},
		{"4", 4},
	}
	for _, tc := range cases {
		got, err := ParseMemoryGB(tc.in)
		require.NoError(t, err, tc.in)
		assert.InDelta(t, tc.want, got, 0.001, tc.in)
	}

	for _, bad := range []string{"", "abc", "-2g", "2x", "300g"} {
		_, err := ParseMemoryGB(bad)
		assert.Error(t, err, bad)
	}
}

func TestRoundGB(t *testing.T) {
	assert.Equal(t, 1.6, RoundGB(1.6000000001))
	assert.Equal(t, 0.5, RoundGB(0.54))
	assert.Equal(t, 0.6, RoundGB(0.55))
}
