package valleyx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.check())
	assert.Equal(t, 20., cfg.Spacing)
	assert.Equal(t, 100., cfg.Width)
	assert.Equal(t, 500., cfg.MaxWidth)
	assert.Equal(t, 10., cfg.PointSpacing)
	assert.Equal(t, 5, cfg.NumCells)
	assert.Equal(t, .8, cfg.Percentile)
}

func TestConfigCheck(t *testing.T) {
	mod := func(f func(*Config)) Config {
		c := DefaultConfig()
		f(&c)
		return c
	}
	bad := []struct {
		name string
		cfg  Config
	}{
		{"zero spacing", mod(func(c *Config) { c.Spacing = 0 })},
		{"negative width", mod(func(c *Config) { c.Width = -1 })},
		{"maxwidth below width", mod(func(c *Config) { c.MaxWidth = c.Width - 1 })},
		{"zero pointspacing", mod(func(c *Config) { c.PointSpacing = 0 })},
		{"negative sigma", mod(func(c *Config) { c.Sigma = -.5 })},
		{"zero minhandjump", mod(func(c *Config) { c.MinHandJump = 0 })},
		{"zero ratio", mod(func(c *Config) { c.Ratio = 0 })},
		{"negative mindistance", mod(func(c *Config) { c.MinDistance = -1 })},
		{"negative prominence", mod(func(c *Config) { c.MinPeakProminence = -1 })},
		{"zero numcells", mod(func(c *Config) { c.NumCells = 0 })},
		{"zero slopethreshold", mod(func(c *Config) { c.SlopeThreshold = 0 })},
		{"zero foundationslope", mod(func(c *Config) { c.FoundationSlope = 0 })},
		{"negative buffer", mod(func(c *Config) { c.Buffer = -1 })},
		{"zero minpoints", mod(func(c *Config) { c.MinPoints = 0 })},
		{"percentile over one", mod(func(c *Config) { c.Percentile = 1.2 })},
		{"zero percentile", mod(func(c *Config) { c.Percentile = 0 })},
		{"zero maxfloorslope", mod(func(c *Config) { c.MaxFloorSlope = 0 })},
		{"zero defaultthreshold", mod(func(c *Config) { c.DefaultThreshold = 0 })},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.check())
		})
	}

	t.Run("zero sigma is allowed", func(t *testing.T) {
		c := mod(func(c *Config) { c.Sigma = 0 })
		assert.NoError(t, c.check())
	})
	t.Run("maxwidth equal to width is allowed", func(t *testing.T) {
		c := mod(func(c *Config) { c.MaxWidth = c.Width })
		assert.NoError(t, c.check())
	})
}
