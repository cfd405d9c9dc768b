package valleyx

import (
	"fmt"
	"math"
	"sort"
)

// BuildReaches segments the channel network into reaches: one segment
// per junction-to-junction path, further split so no reach runs longer
// than maxlen. Every reach carries the supplied HAND threshold.
func BuildReaches(cn *channelNet, handThreshold, maxlen float64) []Reach {
	println(" > segmenting channel network into reaches..")

	// a path starts at a headwater or just below a junction and ends at
	// the next junction or outlet
	starts := make([]int, 0, len(cn.cids))
	for _, cid := range cn.cids {
		if cn.nus[cid] == 0 || cn.nus[cid] > 1 {
			starts = append(starts, cid)
		}
	}
	sort.Ints(starts)

	var reaches []Reach
	rid := 0
	for _, s := range starts {
		verts := []XY{cn.coord[s]}
		cid := s
		for {
			dcid := cn.ds[cid]
			if dcid < 0 {
				break
			}
			verts = append(verts, cn.coord[dcid])
			cid = dcid
			if cn.nus[cid] > 1 { // junction terminates the path
				break
			}
		}
		if len(verts) < 2 {
			continue
		}
		for _, vv := range splitPath(verts, maxlen) {
			reaches = append(reaches, Reach{ID: rid, Verts: vv, HandThreshold: handThreshold})
			rid++
		}
	}
	if len(reaches) == 0 {
		fmt.Println("   WARNING no reaches built from channel network")
	} else {
		fmt.Printf("   %d reaches\n", len(reaches))
	}
	return reaches
}

// splitPath cuts a polyline into pieces no longer than maxlen,
// duplicating the cut vertex so adjacent reaches share an endpoint.
func splitPath(verts []XY, maxlen float64) [][]XY {
	var out [][]XY
	cur, acc := []XY{verts[0]}, 0.
	for i := 1; i < len(verts); i++ {
		a, b := verts[i-1], verts[i]
		acc += math.Hypot(b.X-a.X, b.Y-a.Y)
		cur = append(cur, b)
		if acc >= maxlen && i < len(verts)-1 {
			out = append(out, cur)
			cur, acc = []XY{b}, 0.
		}
	}
	if len(cur) > 1 {
		out = append(out, cur)
	}
	return out
}
