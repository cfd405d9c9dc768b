package valleyx

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// FloorPolygon is one closed boundary ring traced from the floor mask,
// interior on the left. The terminal vector artifact of a run.
type FloorPolygon struct {
	Ring []XY
}

// Vectorize traces the mask boundary into closed rings and applies
// smoothIters rounds of Chaikin corner cutting to soften the raster
// stairsteps.
func (m *FloorMask) Vectorize(smoothIters int) []FloorPolygon {
	type vtx struct{ c, r int }
	type edge struct{ a, b vtx }

	// directed cell-boundary edges, interior kept on the left
	emap := make(map[vtx][]vtx)
	add := func(a, b vtx) { emap[a] = append(emap[a], b) }
	out := func(r, c int) bool {
		return r < 0 || r >= m.Nrow || c < 0 || c >= m.Ncol || !m.In[r*m.Ncol+c]
	}
	for r := 0; r < m.Nrow; r++ {
		for c := 0; c < m.Ncol; c++ {
			if !m.In[r*m.Ncol+c] {
				continue
			}
			if out(r-1, c) {
				add(vtx{c + 1, r}, vtx{c, r})
			}
			if out(r+1, c) {
				add(vtx{c, r + 1}, vtx{c + 1, r + 1})
			}
			if out(r, c-1) {
				add(vtx{c, r}, vtx{c, r + 1})
			}
			if out(r, c+1) {
				add(vtx{c + 1, r + 1}, vtx{c + 1, r})
			}
		}
	}
	for v := range emap {
		sort.Slice(emap[v], func(i, j int) bool {
			a, b := emap[v][i], emap[v][j]
			if a.r != b.r {
				return a.r < b.r
			}
			return a.c < b.c
		})
	}

	// chain edges into closed rings, smallest start vertex first
	starts := make([]vtx, 0, len(emap))
	for v := range emap {
		starts = append(starts, v)
	}
	sort.Slice(starts, func(i, j int) bool {
		if starts[i].r != starts[j].r {
			return starts[i].r < starts[j].r
		}
		return starts[i].c < starts[j].c
	})

	toXY := func(v vtx) XY {
		return XY{m.Xul + float64(v.c)*m.Cw, m.Yul - float64(v.r)*m.Cw}
	}
	var polys []FloorPolygon
	for _, s := range starts {
		for len(emap[s]) > 0 {
			ring := []XY{toXY(s)}
			cur := s
			for {
				nexts := emap[cur]
				if len(nexts) == 0 {
					break // open chain: mask edge artifact, drop
				}
				nxt := nexts[0]
				emap[cur] = nexts[1:]
				if nxt == s {
					break
				}
				ring = append(ring, toXY(nxt))
				cur = nxt
			}
			if len(ring) >= 4 {
				for i := 0; i < smoothIters; i++ {
					ring = chaikin(ring)
				}
				polys = append(polys, FloorPolygon{Ring: ring})
			}
		}
	}
	return polys
}

// chaikin performs one round of corner cutting on a closed ring.
func chaikin(ring []XY) []XY {
	n := len(ring)
	out := make([]XY, 0, 2*n)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		out = append(out,
			XY{.75*a.X + .25*b.X, .75*a.Y + .25*b.Y},
			XY{.25*a.X + .75*b.X, .25*a.Y + .75*b.Y})
	}
	return out
}

// WritePolysWKT writes the rings as WKT polygons, one per line.
func WritePolysWKT(fp string, polys []FloorPolygon) error {
	var sb strings.Builder
	for _, p := range polys {
		sb.WriteString("POLYGON ((")
		for i, v := range p.Ring {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%f %f", v.X, v.Y)
		}
		// close the ring
		fmt.Fprintf(&sb, ", %f %f))\n", p.Ring[0].X, p.Ring[0].Y)
	}
	if err := os.WriteFile(fp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("WritePolysWKT failed: %v", err)
	}
	return nil
}
