package valleyx

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FloorMask is the boolean valley-floor raster, frame-aligned with the
// terrain grids. Mutated only by the flood-fill/merge stage; terminal
// output of the extraction.
type FloorMask struct {
	Nrow, Ncol int
	Cw         float64
	Xul, Yul   float64
	In         []bool
}

// reachFloor is one reach's flood-fill result awaiting the merge.
type reachFloor struct {
	rid    int
	thresh float64 // derived floor-slope threshold [°]
	hand   float64 // reach HAND threshold [m]
	cells  []int
}

const lowConfidenceWeight = .5

// reachThreshold derives a reach's floor-slope separator from the
// distribution of its wall points' floor slopes: the cfg.Percentile
// empirical quantile, with low-confidence points down-weighted rather
// than discarded. Falls back to cfg.DefaultThreshold when fewer than
// cfg.MinPoints points carry a station; clamped to cfg.MaxFloorSlope.
func reachThreshold(wps []WallPoint, cfg *Config) float64 {
	type pt struct{ x, w float64 }
	pts := make([]pt, 0, len(wps))
	for _, wp := range wps {
		switch wp.Status {
		case WPConfirmed:
			pts = append(pts, pt{wp.FloorSlope, 1.})
		case WPLowConfidence:
			pts = append(pts, pt{wp.FloorSlope, lowConfidenceWeight})
		}
	}
	th := cfg.DefaultThreshold
	if len(pts) >= cfg.MinPoints {
		sort.Slice(pts, func(i, j int) bool { return pts[i].x < pts[j].x })
		xs, ws := make([]float64, len(pts)), make([]float64, len(pts))
		for i, p := range pts {
			xs[i], ws[i] = p.x, p.w
		}
		th = stat.Quantile(cfg.Percentile, stat.Empirical, xs, ws)
	}
	if th > cfg.MaxFloorSlope {
		th = cfg.MaxFloorSlope
	}
	return th
}

// neighbours8 appends the 8-connected neighbours of cid within bounds.
func neighbours8(cid, nrow, ncol int, dst []int) []int {
	r, c := cid/ncol, cid%ncol
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			rr, cc := r+dr, c+dc
			if rr >= 0 && rr < nrow && cc >= 0 && cc < ncol {
				dst = append(dst, rr*ncol+cc)
			}
		}
	}
	return dst
}

// seedCells rasterizes a reach centerline: every cell touched walking
// the segments at half-cell steps.
func seedCells(tg *TerrainGrids, r *Reach) []int {
	seen := map[int]bool{}
	var cells []int
	step := tg.Cw / 2.
	ln := r.length()
	for s := 0.; ; s += step {
		if s > ln {
			s = ln
		}
		if p, _, ok := r.pointAt(s); ok {
			if cid := tg.cellid(p); cid >= 0 && !seen[cid] {
				seen[cid] = true
				cells = append(cells, cid)
			}
		}
		if s >= ln {
			break
		}
	}
	return cells
}

// floodReach grows the floor outward from the reach's channel cells: a
// cell joins if reachable through cells that hold both the derived
// slope threshold and the reach HAND threshold.
func floodReach(tg *TerrainGrids, r *Reach, thresh float64) []int {
	n := tg.ncells()
	visited := make([]bool, n)
	var queue, cells, nbr []int
	for _, cid := range seedCells(tg, r) {
		h := tg.Hand[cid]
		if !math.IsNaN(h) && h <= r.HandThreshold && !visited[cid] {
			visited[cid] = true
			queue = append(queue, cid)
			cells = append(cells, cid)
		}
	}
	for len(queue) > 0 {
		cid := queue[0]
		queue = queue[1:]
		nbr = neighbours8(cid, tg.Nrow, tg.Ncol, nbr[:0])
		for _, nc := range nbr {
			if visited[nc] {
				continue
			}
			g, h := tg.Slope[nc], tg.Hand[nc]
			if math.IsNaN(g) || math.IsNaN(h) || g > thresh || h > r.HandThreshold {
				continue
			}
			visited[nc] = true
			queue = append(queue, nc)
			cells = append(cells, nc)
		}
	}
	return cells
}

// foundationFill grows the conservative low-slope floor from the whole
// channel network, bounded by foundationSlope alone.
func foundationFill(tg *TerrainGrids, foundationSlope float64) []bool {
	n := tg.ncells()
	in := make([]bool, n)
	var queue, nbr []int
	for cid, isch := range tg.Chan {
		if isch {
			in[cid] = true
			queue = append(queue, cid)
		}
	}
	for len(queue) > 0 {
		cid := queue[0]
		queue = queue[1:]
		nbr = neighbours8(cid, tg.Nrow, tg.Ncol, nbr[:0])
		for _, nc := range nbr {
			if in[nc] {
				continue
			}
			if g := tg.Slope[nc]; math.IsNaN(g) || g > foundationSlope {
				continue
			}
			in[nc] = true
			queue = append(queue, nc)
		}
	}
	return in
}

// mergeFloors reconciles the per-reach fills and the foundation fill
// into one mask. Overlap cells must satisfy the lower (more
// conservative) thresholds of their claiming reaches so a confirmed
// wall in one reach is never flooded over from its neighbour. rfs must
// arrive sorted by reach id; the resolution is then deterministic.
func mergeFloors(tg *TerrainGrids, rfs []reachFloor, foundation []bool, cfg *Config) *FloorMask {
	n := tg.ncells()
	in := make([]bool, n)
	removed := make([]bool, n)
	thr := make([]float64, n)
	hthr := make([]float64, n)

	for _, rf := range rfs {
		for _, cid := range rf.cells {
			switch {
			case removed[cid]:
			case !in[cid]:
				in[cid] = true
				thr[cid], hthr[cid] = rf.thresh, rf.hand
			default: // claimed by an earlier reach: keep only under the lower bounds
				lt, lh := math.Min(thr[cid], rf.thresh), math.Min(hthr[cid], rf.hand)
				if tg.Slope[cid] > lt || tg.Hand[cid] > lh {
					in[cid] = false
					removed[cid] = true
				} else {
					thr[cid], hthr[cid] = lt, lh
				}
			}
		}
	}

	if foundation != nil {
		for cid, f := range foundation {
			if f {
				in[cid] = true
			}
		}
	}
	for cid, isch := range tg.Chan {
		if isch {
			in[cid] = true
		}
	}

	// absolute slope cap; channel cells stay
	for cid := range in {
		if !in[cid] || tg.Chan[cid] {
			continue
		}
		if g := tg.Slope[cid]; math.IsNaN(g) || g > cfg.MaxFloorSlope {
			in[cid] = false
		}
	}

	iters := int(math.Round(cfg.Buffer / tg.Cw))
	if iters < 1 {
		iters = 1
	}
	in = binaryClose(in, tg.Nrow, tg.Ncol, iters)
	in = connectedToChannel(tg, in)

	return &FloorMask{Nrow: tg.Nrow, Ncol: tg.Ncol, Cw: tg.Cw, Xul: tg.Xul, Yul: tg.Yul, In: in}
}

// binaryClose dilates then erodes with a 3x3 structuring element,
// smoothing stairstep artifacts from raster propagation.
func binaryClose(in []bool, nrow, ncol, iters int) []bool {
	for i := 0; i < iters; i++ {
		in = morph(in, nrow, ncol, true)
	}
	for i := 0; i < iters; i++ {
		in = morph(in, nrow, ncol, false)
	}
	return in
}

func morph(in []bool, nrow, ncol int, dilate bool) []bool {
	out := make([]bool, len(in))
	var nbr []int
	for cid := range in {
		hit := in[cid]
		nbr = neighbours8(cid, nrow, ncol, nbr[:0])
		if dilate {
			for _, nc := range nbr {
				hit = hit || in[nc]
			}
		} else {
			hit = hit && len(nbr) == 8
			for _, nc := range nbr {
				hit = hit && in[nc]
			}
		}
		out[cid] = hit
	}
	return out
}

// connectedToChannel keeps only mask regions reachable from the channel
// network; detached low-slope benches are not valley floor.
func connectedToChannel(tg *TerrainGrids, in []bool) []bool {
	out := make([]bool, len(in))
	var queue, nbr []int
	for cid, isch := range tg.Chan {
		if isch && in[cid] && !out[cid] {
			out[cid] = true
			queue = append(queue, cid)
		}
	}
	for len(queue) > 0 {
		cid := queue[0]
		queue = queue[1:]
		nbr = neighbours8(cid, tg.Nrow, tg.Ncol, nbr[:0])
		for _, nc := range nbr {
			if in[nc] && !out[nc] {
				out[nc] = true
				queue = append(queue, nc)
			}
		}
	}
	return out
}
