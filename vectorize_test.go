package valleyx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maskFromRows(rows []string) *FloorMask {
	m := &FloorMask{Nrow: len(rows), Ncol: len(rows[0]), Cw: 10., Xul: 0., Yul: float64(len(rows)) * 10.}
	m.In = make([]bool, m.Nrow*m.Ncol)
	for r, row := range rows {
		for c, ch := range row {
			m.In[r*m.Ncol+c] = ch == '#'
		}
	}
	return m
}

func TestVectorize(t *testing.T) {
	t.Run("a single cell becomes one square ring", func(t *testing.T) {
		m := maskFromRows([]string{
			"...",
			".#.",
			"...",
		})
		polys := m.Vectorize(0)
		require.Len(t, polys, 1)
		assert.Len(t, polys[0].Ring, 4)
		for _, v := range polys[0].Ring {
			assert.Contains(t, []XY{{10, 20}, {20, 20}, {10, 10}, {20, 10}}, v)
		}
	})

	t.Run("a block traces its outer boundary", func(t *testing.T) {
		m := maskFromRows([]string{
			"....",
			".##.",
			".##.",
			"....",
		})
		polys := m.Vectorize(0)
		require.Len(t, polys, 1)
		assert.Len(t, polys[0].Ring, 8)
	})

	t.Run("a hole yields a second ring", func(t *testing.T) {
		m := maskFromRows([]string{
			".....",
			".###.",
			".#.#.",
			".###.",
			".....",
		})
		polys := m.Vectorize(0)
		assert.Len(t, polys, 2)
	})

	t.Run("two islands yield two rings", func(t *testing.T) {
		m := maskFromRows([]string{
			"#..#",
			"....",
		})
		polys := m.Vectorize(0)
		assert.Len(t, polys, 2)
	})

	t.Run("chaikin smoothing doubles the vertex count and stays in the hull", func(t *testing.T) {
		m := maskFromRows([]string{
			".....",
			".###.",
			".###.",
			".....",
		})
		raw := m.Vectorize(0)
		smoothed := m.Vectorize(2)
		require.Len(t, smoothed, 1)
		assert.Len(t, smoothed[0].Ring, 4*len(raw[0].Ring))
		for _, v := range smoothed[0].Ring {
			assert.True(t, v.X >= 10 && v.X <= 40, "x %f", v.X)
			assert.True(t, v.Y >= 10 && v.Y <= 30, "y %f", v.Y)
		}
	})

	t.Run("empty mask vectorizes to nothing", func(t *testing.T) {
		m := maskFromRows([]string{"...", "..."})
		assert.Empty(t, m.Vectorize(0))
	})
}

func TestWritePolysWKT(t *testing.T) {
	m := maskFromRows([]string{
		"...",
		".#.",
		"...",
	})
	fp := filepath.Join(t.TempDir(), "floor.wkt")
	require.NoError(t, WritePolysWKT(fp, m.Vectorize(0)))

	b, err := os.ReadFile(fp)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "POLYGON (("))
	assert.True(t, strings.HasSuffix(lines[0], "))"))
}
