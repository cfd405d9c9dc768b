package valleyx

import "math"

// Reach is a contiguous flow-network segment with near-uniform valley
// characteristics. Built externally (or by BuildReaches); immutable.
type Reach struct {
	ID            int
	Verts         []XY // ordered centerline, upstream to downstream
	HandThreshold float64
}

func (r *Reach) length() float64 {
	s := 0.
	for i := 1; i < len(r.Verts); i++ {
		s += math.Hypot(r.Verts[i].X-r.Verts[i-1].X, r.Verts[i].Y-r.Verts[i-1].Y)
	}
	return s
}

// pointAt returns the centerline position and unit tangent at station s
// (distance along the reach). s is clamped to [0, length].
func (r *Reach) pointAt(s float64) (XY, XY, bool) {
	var acc float64
	for i := 1; i < len(r.Verts); i++ {
		a, b := r.Verts[i-1], r.Verts[i]
		seg := math.Hypot(b.X-a.X, b.Y-a.Y)
		if seg == 0. {
			continue
		}
		if s <= acc+seg || i == len(r.Verts)-1 {
			f := (s - acc) / seg
			if f < 0 {
				f = 0
			} else if f > 1 {
				f = 1
			}
			u := XY{(b.X - a.X) / seg, (b.Y - a.Y) / seg}
			return XY{a.X + f*(b.X-a.X), a.Y + f*(b.Y-a.Y)}, u, true
		}
		acc += seg
	}
	return XY{}, XY{}, false
}
