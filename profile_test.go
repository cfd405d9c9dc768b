package valleyx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatGrid builds a 5x40 frame (10 m cells) whose elevation and HAND
// vary by column only.
func flatGrid(elevByCol func(c int) float64) *TerrainGrids {
	tg := &TerrainGrids{Nrow: 5, Ncol: 40, Cw: 10., Xul: 0., Yul: 50.}
	tg.Elev = make([]float64, tg.ncells())
	tg.Hand = make([]float64, tg.ncells())
	for r := 0; r < tg.Nrow; r++ {
		for c := 0; c < tg.Ncol; c++ {
			tg.Elev[r*tg.Ncol+c] = elevByCol(c)
			tg.Hand[r*tg.Ncol+c] = elevByCol(c)
		}
	}
	return tg
}

func rowXSection(originCol int) *CrossSection {
	return &CrossSection{
		ReachID:      0,
		XsID:         0,
		Origin:       XY{(float64(originCol) + .5) * 10., 25.},
		Norm:         XY{1., 0.},
		PointSpacing: 10.,
	}
}

func TestSampleProfile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sigma = 0. // raw samples through to the assertions

	t.Run("samples track the grid at the point spacing", func(t *testing.T) {
		tg := flatGrid(func(c int) float64 { return float64(c) })
		p := sampleProfile(tg, rowXSection(0), right, 300., &cfg)
		require.True(t, p.Valid)
		require.Len(t, p.Elev, 31)
		for k, s := range p.Stations {
			assert.Equal(t, float64(k)*10., s)
			assert.Equal(t, float64(k), p.Elev[k])
		}
		assert.Len(t, p.Slope, 31)
	})

	t.Run("off-grid tail is trimmed", func(t *testing.T) {
		tg := flatGrid(func(c int) float64 { return 0. })
		p := sampleProfile(tg, rowXSection(0), right, 600., &cfg)
		require.True(t, p.Valid)
		assert.Len(t, p.Elev, 40) // grid ends at column 39
	})

	t.Run("side cut off before the agreement distance is invalid", func(t *testing.T) {
		tg := flatGrid(func(c int) float64 { return 0. })
		p := sampleProfile(tg, rowXSection(38), right, 300., &cfg)
		assert.False(t, p.Valid)
	})

	t.Run("short interior gaps are interpolated", func(t *testing.T) {
		tg := flatGrid(func(c int) float64 { return float64(c) * 3. })
		for r := 0; r < tg.Nrow; r++ {
			for _, c := range []int{5, 6} {
				tg.Elev[r*tg.Ncol+c] = math.NaN()
				tg.Hand[r*tg.Ncol+c] = math.NaN()
			}
		}
		p := sampleProfile(tg, rowXSection(0), right, 300., &cfg)
		require.True(t, p.Valid)
		assert.InDelta(t, 15., p.Elev[5], 1e-9)
		assert.InDelta(t, 18., p.Elev[6], 1e-9)
	})

	t.Run("a wide gap invalidates the side", func(t *testing.T) {
		tg := flatGrid(func(c int) float64 { return 0. })
		for r := 0; r < tg.Nrow; r++ {
			for c := 5; c <= 12; c++ { // 8-cell run, over the gap budget
				tg.Elev[r*tg.Ncol+c] = math.NaN()
			}
		}
		p := sampleProfile(tg, rowXSection(0), right, 300., &cfg)
		assert.False(t, p.Valid)
	})
}

func TestProfileSlope(t *testing.T) {
	g := profileSlope([]float64{0, 0, 10, 30}, 10.)
	assert.InDelta(t, 0., g[0], 1e-9)
	assert.InDelta(t, 26.565, g[1], 1e-3)
	assert.InDelta(t, 56.310, g[2], 1e-3)
	assert.InDelta(t, 63.435, g[3], 1e-3) // one-sided at the end

	g = profileSlope([]float64{0, math.NaN(), 10}, 10.)
	assert.False(t, math.IsNaN(g[1])) // centered difference skips over the hole
	assert.True(t, math.IsNaN(g[0]))
	assert.True(t, math.IsNaN(g[2]))
}

func TestFillGaps(t *testing.T) {
	nan := math.NaN()

	a := []float64{0, nan, nan, 9}
	fillGaps(a, 2)
	assert.InDelta(t, 3., a[1], 1e-9)
	assert.InDelta(t, 6., a[2], 1e-9)

	b := []float64{0, nan, nan, nan, 12}
	fillGaps(b, 2)
	assert.True(t, math.IsNaN(b[2])) // run of 3 stays open

	c := []float64{nan, nan, 5, 6}
	fillGaps(c, 2)
	assert.True(t, math.IsNaN(c[0])) // leading gap has no left anchor
}

func TestGapFraction(t *testing.T) {
	assert.Equal(t, 0., gapFraction([]float64{1, 2}))
	assert.Equal(t, .5, gapFraction([]float64{1, math.NaN()}))
	assert.Equal(t, 1., gapFraction(nil))
}

func TestTrimTrailingNaN(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, 2, trimTrailingNaN([]float64{1, 2, nan, nan}))
	assert.Equal(t, 3, trimTrailingNaN([]float64{1, nan, 2}))
	assert.Equal(t, 0, trimTrailingNaN([]float64{nan}))
}
