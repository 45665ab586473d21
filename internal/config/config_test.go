package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Import)
	assert.True(t, cfg.IOErrors)
	assert.True(t, cfg.RuleSetErrors)
	assert.False(t, cfg.CaptureOffsets)
	assert.False(t, cfg.AbsolutePaths)
	assert.Equal(t, 3, cfg.MaxRedirects)
	assert.Equal(t, SpecificityDigits, cfg.SpecificityMode)
	assert.NotEmpty(t, cfg.UserAgent)
	assert.Positive(t, cfg.HTTPTimeout)
}

func TestParseSpecificityMode(t *testing.T) {
	m, err := ParseSpecificityMode("")
	require.NoError(t, err)
	assert.Equal(t, SpecificityDigits, m)

	m, err = ParseSpecificityMode(" Tuple ")
	require.NoError(t, err)
	assert.Equal(t, SpecificityTuple, m)

	_, err = ParseSpecificityMode("weighted")
	assert.ErrorContains(t, err, "invalid specificity mode")
}
