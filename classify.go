package valleyx

import (
	"math"
	"sort"
)

// WPStatus tracks a wall-point candidate through the classifier:
// scanning finds a sustained ascent (candidate), the HAND breakpoint
// either corroborates it (confirmed), lands elsewhere (low confidence)
// or is absent (rejected); a side exhausted without any sustained
// ascent is not-found.
type WPStatus uint8

const (
	WPNotFound WPStatus = iota
	WPConfirmed
	WPLowConfidence
	WPRejected
)

func (s WPStatus) String() string {
	switch s {
	case WPConfirmed:
		return "confirmed"
	case WPLowConfidence:
		return "low-confidence"
	case WPRejected:
		return "rejected"
	default:
		return "not-found"
	}
}

// WallPoint is the classifier's verdict for one profile: the station at
// which floor turns to wall (NaN when not found), and the floor slope
// observed inside it. Produced once per valid profile, immutable.
type WallPoint struct {
	ReachID, XsID int
	Side          int8
	Status        WPStatus
	Station       float64
	FloorSlope    float64 // median profile slope inside the wall [°]
	FloorHand     float64 // HAND at the wall station [m]
}

// classifyProfile locates the floor/wall transition on one profile.
// Stateless: identical inputs always yield identical outputs.
func classifyProfile(p *Profile, cfg *Config) WallPoint {
	wp := WallPoint{
		ReachID: p.ReachID,
		XsID:    p.XsID,
		Side:    p.Side,
		Status:  WPNotFound,
		Station: math.NaN(),
	}

	c := sustainedAscent(p.Slope, cfg.SlopeThreshold, cfg.NumCells)
	if c < 0 {
		// floor extends to the full sampled width
		wp.FloorSlope = median(p.Slope)
		return wp
	}

	idx := c
	b, ok := handBreak(p.Hand, cfg)
	switch {
	case !ok:
		wp.Status = WPRejected // ascent without HAND corroboration
	case absInt(b-c) <= agreementWindow(cfg, p.Spacing):
		wp.Status = WPConfirmed
		if b < c {
			idx = b
		}
	default:
		wp.Status = WPLowConfidence
	}

	wp.Station = p.Stations[idx]
	wp.FloorSlope = median(p.Slope[:idx])
	wp.FloorHand = p.Hand[idx]
	return wp
}

// sustainedAscent walks outward from the centerline and returns the
// first index whose slope holds at or above thresh for ncells
// consecutive samples, -1 when no such run exists. Shorter spikes
// (levees, terraces, islands) are stepped over.
func sustainedAscent(slope []float64, thresh float64, ncells int) int {
	run, start := 0, -1
	for i, v := range slope {
		if !math.IsNaN(v) && v >= thresh {
			if run == 0 {
				start = i
			}
			run++
			if run >= ncells {
				return start
			}
		} else {
			run = 0
		}
	}
	return -1
}

// agreementWindow converts cfg.MinDistance (meters) to samples.
func agreementWindow(cfg *Config, spacing float64) int {
	return int(math.Round(cfg.MinDistance / spacing))
}

func absInt(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// median ignores NaNs; 0 for an empty (degenerate, wall-at-channel)
// floor segment.
func median(a []float64) float64 {
	v := make([]float64, 0, len(a))
	for _, x := range a {
		if !math.IsNaN(x) {
			v = append(v, x)
		}
	}
	if len(v) == 0 {
		return 0.
	}
	sort.Float64s(v)
	if len(v)%2 == 1 {
		return v[len(v)/2]
	}
	return (v[len(v)/2-1] + v[len(v)/2]) / 2.
}

// detectWallPoints runs the full per-reach wall detection: sections,
// profiles, classification, with one max-width retry for sides whose
// initial width exhausted without a sustained ascent.
func detectWallPoints(tg *TerrainGrids, r *Reach, cfg *Config) []WallPoint {
	xss := buildXSections(r, cfg)
	wps := make([]WallPoint, 0, 2*len(xss))
	for i := range xss {
		for _, side := range []int8{left, right} {
			p := sampleProfile(tg, &xss[i], side, cfg.Width, cfg)
			if !p.Valid {
				continue
			}
			wp := classifyProfile(&p, cfg)
			if wp.Status == WPNotFound && cfg.MaxWidth > cfg.Width {
				if px := sampleProfile(tg, &xss[i], side, cfg.MaxWidth, cfg); px.Valid {
					wp = classifyProfile(&px, cfg)
				}
			}
			wps = append(wps, wp)
		}
	}
	return wps
}
