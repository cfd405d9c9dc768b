package valleyx

import "fmt"

// CrossSection is a sampling line perpendicular to a reach centerline at
// a given station. Norm points to the left of the flow direction; the
// right side extends along -Norm.
type CrossSection struct {
	ReachID, XsID           int
	Station                 float64
	Origin                  XY
	Norm                    XY
	HalfWidth, PointSpacing float64
}

// buildXSections lays cross-sections along a reach at cfg.Spacing
// intervals. Degenerate reaches shorter than one spacing unit still
// yield a single section at the midpoint. Purely geometric, no side
// effects beyond the returned slice.
func buildXSections(r *Reach, cfg *Config) []CrossSection {
	ln := r.length()
	if len(r.Verts) < 2 || ln == 0. {
		fmt.Printf("  reach %d: degenerate centerline, skipped\n", r.ID)
		return nil
	}

	var stations []float64
	for s := cfg.Spacing; s < ln; s += cfg.Spacing {
		stations = append(stations, s)
	}
	if len(stations) == 0 {
		stations = []float64{ln / 2.}
	}

	xss := make([]CrossSection, 0, len(stations))
	for i, s := range stations {
		o, u, ok := r.pointAt(s)
		if !ok {
			fmt.Printf("  reach %d: no geometry at station %.1f, skipped\n", r.ID, s)
			continue
		}
		xss = append(xss, CrossSection{
			ReachID:      r.ID,
			XsID:         i,
			Station:      s,
			Origin:       o,
			Norm:         XY{-u.Y, u.X}, // left of flow
			HalfWidth:    cfg.Width,
			PointSpacing: cfg.PointSpacing,
		})
	}
	return xss
}
