package valleyx

import "math"

const (
	left  int8 = -1
	right int8 = 1

	maxGapFill = 2  // interior no-data run length recovered by interpolation
	maxGapFrac = .2 // unrecovered no-data fraction before a side is dropped
)

func sideName(s int8) string {
	if s == left {
		return "left"
	}
	return "right"
}

// Profile is one side of a cross-section: ordered terrain samples at
// strictly increasing station from the centerline outward.
type Profile struct {
	ReachID, XsID int
	Side          int8
	Spacing       float64
	Stations      []float64
	Elev          []float64
	Hand          []float64
	Slope         []float64 // finite-difference magnitude along the profile [°]
	Valid         bool
}

// sampleProfile samples the terrain grids along one half of a
// cross-section out to halfwidth. Small interior gaps are interpolated;
// a side that loses too many samples, or that is cut off the grid
// before cfg.MinDistance, is marked invalid.
func sampleProfile(tg *TerrainGrids, xs *CrossSection, side int8, halfwidth float64, cfg *Config) Profile {
	n := int(halfwidth/xs.PointSpacing) + 1
	p := Profile{
		ReachID:  xs.ReachID,
		XsID:     xs.XsID,
		Side:     side,
		Spacing:  xs.PointSpacing,
		Stations: make([]float64, n),
		Elev:     make([]float64, n),
		Hand:     make([]float64, n),
	}
	for k := 0; k < n; k++ {
		s := float64(k) * xs.PointSpacing
		pt := XY{
			xs.Origin.X + float64(side)*s*xs.Norm.X,
			xs.Origin.Y + float64(side)*s*xs.Norm.Y,
		}
		p.Stations[k] = s
		p.Elev[k] = tg.at(tg.Elev, pt)
		p.Hand[k] = tg.at(tg.Hand, pt)
	}

	// drop the off-grid tail, then recover small interior gaps
	n = trimTrailingNaN(p.Elev)
	p.Stations, p.Elev, p.Hand = p.Stations[:n], p.Elev[:n], p.Hand[:n]
	if float64(n-1)*xs.PointSpacing < cfg.MinDistance || n < 3 {
		return p // too short to classify
	}
	fillGaps(p.Elev, maxGapFill)
	fillGaps(p.Hand, maxGapFill)
	if gapFraction(p.Elev) > maxGapFrac || gapFraction(p.Hand) > maxGapFrac {
		return p
	}

	p.Elev = gaussianSmooth1D(p.Elev, cfg.Sigma)
	p.Slope = gaussianSmooth1D(profileSlope(p.Elev, xs.PointSpacing), cfg.Sigma)
	p.Valid = true
	return p
}

// profileSlope is the centered finite-difference magnitude of the
// elevation series, in degrees; one-sided at the ends. Micro-relief is
// deliberately not resolved here, raw DEM curvature is too noisy.
func profileSlope(elev []float64, ds float64) []float64 {
	n := len(elev)
	g := make([]float64, n)
	for i := range elev {
		lo, hi := i, i
		if i > 0 {
			lo = i - 1
		}
		if i < n-1 {
			hi = i + 1
		}
		if math.IsNaN(elev[lo]) || math.IsNaN(elev[hi]) || hi == lo {
			g[i] = math.NaN()
			continue
		}
		g[i] = math.Atan(math.Abs(elev[hi]-elev[lo])/(float64(hi-lo)*ds)) * 180. / math.Pi
	}
	return g
}

func trimTrailingNaN(a []float64) int {
	n := len(a)
	for n > 0 && math.IsNaN(a[n-1]) {
		n--
	}
	return n
}

// fillGaps linearly interpolates interior NaN runs no longer than
// maxrun from their bounding valid samples.
func fillGaps(a []float64, maxrun int) {
	for i := 0; i < len(a); i++ {
		if !math.IsNaN(a[i]) {
			continue
		}
		j := i
		for j < len(a) && math.IsNaN(a[j]) {
			j++
		}
		if i > 0 && j < len(a) && j-i <= maxrun {
			for k := i; k < j; k++ {
				f := float64(k-i+1) / float64(j-i+1)
				a[k] = a[i-1] + f*(a[j]-a[i-1])
			}
		}
		i = j
	}
}

func gapFraction(a []float64) float64 {
	if len(a) == 0 {
		return 1.
	}
	ng := 0
	for _, v := range a {
		if math.IsNaN(v) {
			ng++
		}
	}
	return float64(ng) / float64(len(a))
}
