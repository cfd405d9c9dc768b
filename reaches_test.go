package valleyx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// yNetwork is two headwater cells joining at a junction that drains
// through one more cell to the outlet.
func yNetwork() *channelNet {
	return &channelNet{
		cids:  []int{1, 2, 3, 4, 5},
		ds:    map[int]int{1: 3, 2: 3, 3: 4, 4: 5, 5: -1},
		nus:   map[int]int{1: 0, 2: 0, 3: 2, 4: 1, 5: 1},
		coord: map[int]XY{1: {0, 30}, 2: {20, 30}, 3: {10, 20}, 4: {10, 10}, 5: {10, 0}},
	}
}

func TestBuildReaches(t *testing.T) {
	t.Run("one reach per junction-to-junction path", func(t *testing.T) {
		reaches := BuildReaches(yNetwork(), 10., 1e6)
		require.Len(t, reaches, 3)
		for i, r := range reaches {
			assert.Equal(t, i, r.ID)
			assert.Equal(t, 10., r.HandThreshold)
		}
		// both headwater paths terminate at the junction
		assert.Equal(t, XY{10, 20}, reaches[0].Verts[len(reaches[0].Verts)-1])
		assert.Equal(t, XY{10, 20}, reaches[1].Verts[len(reaches[1].Verts)-1])
		// the junction path carries on to the outlet
		assert.Equal(t, []XY{{10, 20}, {10, 10}, {10, 0}}, reaches[2].Verts)
	})

	t.Run("long paths are split at maxlen", func(t *testing.T) {
		reaches := BuildReaches(yNetwork(), 10., 10.)
		require.Len(t, reaches, 4) // the junction-to-outlet path splits in two
	})
}

func TestSplitPath(t *testing.T) {
	verts := make([]XY, 7)
	for i := range verts {
		verts[i] = XY{float64(i) * 10., 0.}
	}

	t.Run("pieces share the cut vertex", func(t *testing.T) {
		out := splitPath(verts, 25.)
		require.Len(t, out, 2)
		assert.Equal(t, verts[:4], out[0])
		assert.Equal(t, verts[3:], out[1])
	})

	t.Run("short paths pass through whole", func(t *testing.T) {
		out := splitPath(verts, 1e6)
		require.Len(t, out, 1)
		assert.Equal(t, verts, out[0])
	})
}
