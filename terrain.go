package valleyx

import "math"

// XY is a planar grid coordinate.
type XY struct{ X, Y float64 }

// TerrainGrids holds the precomputed raster inputs, dense row-major with
// NaN as no-data. Read-only for the duration of a run; the extractor
// never cares how they were produced.
type TerrainGrids struct {
	Nrow, Ncol int
	Cw         float64 // uniform cell width
	Xul, Yul   float64 // outer corner of cell (0,0)
	Elev       []float64
	Hand       []float64
	Smoothed   []float64 // gaussian-smoothed elevation
	Slope      []float64 // gradient magnitude of Smoothed [°]
	Chan       []bool    // channel cells
}

func (t *TerrainGrids) ncells() int { return t.Nrow * t.Ncol }

func (t *TerrainGrids) rowcol(p XY) (int, int) {
	return int(math.Floor((t.Yul - p.Y) / t.Cw)), int(math.Floor((p.X - t.Xul) / t.Cw))
}

func (t *TerrainGrids) inbounds(r, c int) bool {
	return r >= 0 && r < t.Nrow && c >= 0 && c < t.Ncol
}

// cellid returns the row-major cell index at p, or -1 when off grid.
func (t *TerrainGrids) cellid(p XY) int {
	r, c := t.rowcol(p)
	if !t.inbounds(r, c) {
		return -1
	}
	return r*t.Ncol + c
}

func (t *TerrainGrids) centroid(cid int) XY {
	r, c := cid/t.Ncol, cid%t.Ncol
	return XY{t.Xul + (float64(c)+.5)*t.Cw, t.Yul - (float64(r)+.5)*t.Cw}
}

// at samples a grid at p by nearest cell; NaN off grid.
func (t *TerrainGrids) at(a []float64, p XY) float64 {
	cid := t.cellid(p)
	if cid < 0 {
		return math.NaN()
	}
	return a[cid]
}

// buildDerivatives fills Smoothed and Slope when the collaborator
// supplied only elevation. sigma is in cell widths.
func (t *TerrainGrids) buildDerivatives(sigma float64) {
	if t.Smoothed == nil {
		t.Smoothed = gaussianSmooth2D(t.Elev, t.Nrow, t.Ncol, sigma)
	}
	if t.Slope == nil {
		t.Slope = slopeDegrees(t.Smoothed, t.Nrow, t.Ncol, t.Cw)
	}
}

// slopeDegrees computes the central-difference gradient magnitude of an
// elevation grid, in degrees. No-data cells and cells with no valid
// neighbour pair stay NaN.
func slopeDegrees(elev []float64, nrow, ncol int, cw float64) []float64 {
	g := make([]float64, nrow*ncol)
	for r := 0; r < nrow; r++ {
		for c := 0; c < ncol; c++ {
			i := r*ncol + c
			if math.IsNaN(elev[i]) {
				g[i] = math.NaN()
				continue
			}
			dzdx := oneAxisGradient(elev, i, c, ncol, 1, cw)
			dzdy := oneAxisGradient(elev, i, r, nrow, ncol, cw)
			if math.IsNaN(dzdx) || math.IsNaN(dzdy) {
				g[i] = math.NaN()
				continue
			}
			g[i] = math.Atan(math.Hypot(dzdx, dzdy)) * 180. / math.Pi
		}
	}
	return g
}

// oneAxisGradient falls back to a one-sided difference at edges and
// beside no-data cells.
func oneAxisGradient(a []float64, i, pos, n, stride int, cw float64) float64 {
	lo, hi, span := i, i, 0.
	if pos > 0 && !math.IsNaN(a[i-stride]) {
		lo = i - stride
		span += cw
	}
	if pos < n-1 && !math.IsNaN(a[i+stride]) {
		hi = i + stride
		span += cw
	}
	if span == 0. {
		return math.NaN()
	}
	return (a[hi] - a[lo]) / span
}

// gaussianSmooth2D applies a NaN-conserving gaussian filter: intensity
// is only redistributed between valid cells and no-data cells stay
// no-data. Separable row/column passes with zero padding.
func gaussianSmooth2D(a []float64, nrow, ncol int, sigma float64) []float64 {
	n := nrow * ncol
	out := make([]float64, n)
	if sigma <= 0 {
		copy(out, a)
		return out
	}
	k := gaussKernel(sigma)

	data, loss := make([]float64, n), make([]float64, n)
	for i, v := range a {
		if math.IsNaN(v) {
			loss[i] = 1.
		} else {
			data[i] = v
		}
	}
	data = convolveRows(data, nrow, ncol, k)
	data = convolveCols(data, nrow, ncol, k)
	loss = convolveRows(loss, nrow, ncol, k)
	loss = convolveCols(loss, nrow, ncol, k)

	for i, v := range a {
		if math.IsNaN(v) {
			out[i] = math.NaN()
		} else {
			out[i] = data[i] + loss[i]*v
		}
	}
	return out
}

// gaussKernel builds a normalized kernel truncated at 3 sigma.
func gaussKernel(sigma float64) []float64 {
	rad := int(math.Ceil(3. * sigma))
	if rad < 1 {
		rad = 1
	}
	k, s := make([]float64, 2*rad+1), 0.
	for i := -rad; i <= rad; i++ {
		v := math.Exp(-float64(i*i) / (2. * sigma * sigma))
		k[i+rad] = v
		s += v
	}
	for i := range k {
		k[i] /= s
	}
	return k
}

func convolveRows(a []float64, nrow, ncol int, k []float64) []float64 {
	rad := len(k) / 2
	out := make([]float64, len(a))
	for r := 0; r < nrow; r++ {
		row := a[r*ncol : (r+1)*ncol]
		for c := 0; c < ncol; c++ {
			s := 0.
			for j := -rad; j <= rad; j++ {
				if cc := c + j; cc >= 0 && cc < ncol {
					s += row[cc] * k[j+rad]
				}
			}
			out[r*ncol+c] = s
		}
	}
	return out
}

func convolveCols(a []float64, nrow, ncol int, k []float64) []float64 {
	rad := len(k) / 2
	out := make([]float64, len(a))
	for c := 0; c < ncol; c++ {
		for r := 0; r < nrow; r++ {
			s := 0.
			for j := -rad; j <= rad; j++ {
				if rr := r + j; rr >= 0 && rr < nrow {
					s += a[rr*ncol+c] * k[j+rad]
				}
			}
			out[r*ncol+c] = s
		}
	}
	return out
}

// gaussianSmooth1D smooths a profile series in place-safe fashion,
// skipping NaNs the same conserving way as the 2-D filter.
func gaussianSmooth1D(a []float64, sigma float64) []float64 {
	out := make([]float64, len(a))
	if sigma <= 0 || len(a) < 3 {
		copy(out, a)
		return out
	}
	k := gaussKernel(sigma)
	rad := len(k) / 2
	for i := range a {
		if math.IsNaN(a[i]) {
			out[i] = math.NaN()
			continue
		}
		s, w := 0., 0.
		for j := -rad; j <= rad; j++ {
			if ii := i + j; ii >= 0 && ii < len(a) && !math.IsNaN(a[ii]) {
				s += a[ii] * k[j+rad]
				w += k[j+rad]
			}
		}
		out[i] = s / w
	}
	return out
}
