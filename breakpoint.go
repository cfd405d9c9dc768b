package valleyx

import "math"

// handBreak locates the dominant upward step in a HAND series by binary
// segmentation: the split minimizing the pooled within-segment sum of
// squares. The split is accepted only if
//   - the step magnitude (outer mean - floor mean) >= MinHandJump,
//   - the HAND peak beyond the split stands >= MinPeakProminence above
//     the floor mean, and
//   - the magnitude is >= Ratio times the floor-side HAND variability,
//     which rejects gradual terrain rise mistaken for a wall.
//
// Returns the split index and whether an acceptable step exists.
func handBreak(hand []float64, cfg *Config) (int, bool) {
	n := len(hand)
	if n < 4 {
		return 0, false
	}

	// prefix sums over NaN-filled copy for O(n) segment statistics
	v := make([]float64, n)
	for i, x := range hand {
		if math.IsNaN(x) {
			if i > 0 {
				v[i] = v[i-1] // carry forward across residual gaps
			}
		} else {
			v[i] = x
		}
	}
	s := make([]float64, n+1)
	s2 := make([]float64, n+1)
	for i, x := range v {
		s[i+1] = s[i] + x
		s2[i+1] = s2[i] + x*x
	}
	sse := func(a, b int) float64 { // [a,b)
		m := float64(b - a)
		sum := s[b] - s[a]
		return (s2[b] - s2[a]) - sum*sum/m
	}

	best, bestGain := -1, 0.
	total := sse(0, n)
	for j := 2; j <= n-2; j++ {
		if gain := total - sse(0, j) - sse(j, n); gain > bestGain {
			best, bestGain = j, gain
		}
	}
	if best < 0 {
		return 0, false
	}

	floorMean := (s[best] - s[0]) / float64(best)
	outerMean := (s[n] - s[best]) / float64(n-best)
	mag := outerMean - floorMean
	if mag < cfg.MinHandJump {
		return 0, false
	}

	peak := math.Inf(-1)
	for _, x := range v[best:] {
		if x > peak {
			peak = x
		}
	}
	if peak-floorMean < cfg.MinPeakProminence {
		return 0, false
	}

	fv := sse(0, best) / float64(best)
	sd := math.Sqrt(fv)
	if sd < minFloorHandSD {
		sd = minFloorHandSD
	}
	if mag < cfg.Ratio*sd {
		return 0, false
	}
	return best, true
}

// minFloorHandSD keeps the ratio test meaningful over perfectly flat
// synthetic floors.
const minFloorHandSD = .1
