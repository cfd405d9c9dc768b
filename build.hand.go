package valleyx

import (
	"fmt"
	"log"

	"github.com/maseology/goHydro/grid"
	"github.com/maseology/goHydro/tem"
)

// channelNet is the flow-network scaffolding BuildHAND extracts from a
// topological DEM, consumed by BuildReaches.
type channelNet struct {
	cids  []int       // channel cells, topologically safe order (upstream first)
	ds    map[int]int // channel cell -> downslope channel cell, -1 at outlets
	coord map[int]XY  // channel cell centroids
	nus   map[int]int // count of upslope channel cells draining in
}

// BuildHAND derives the HAND and channel grids from a hydrologically
// corrected DEM. strmkm2 is the total drainage area [km²] required to
// deem a cell a "channel cell".
func BuildHAND(gd *grid.Definition, tg *TerrainGrids, hdemFP string, strmkm2 float64) *channelNet {
	fmt.Printf(" > loading topological DEM\n   loading: %s\n", hdemFP)
	var dem tem.TEM
	if err := dem.New(hdemFP); err != nil {
		log.Fatalf(" BuildHAND tem.New() error: %v", err)
	}

	cids, ds := dem.DownslopeContributingAreaIDs(-1)
	upcnt := dem.ContributingCellMap(-1)
	strmcthresh := int(strmkm2 * 1000. * 1000. / gd.CellArea())

	isch := make(map[int]bool, len(cids))
	nch := 0
	for _, cid := range cids {
		if upcnt[cid] > strmcthresh {
			isch[cid] = true
			nch++
		}
	}
	if nch == 0 {
		log.Fatalf(" BuildHAND error: no channel cells at %.2f km² threshold", strmkm2)
	}
	fmt.Printf("   %d channel cells\n", nch)

	// drainage elevation by downslope trace; cids order cell before its
	// downslope neighbour, so a reversed pass resolves every trace in
	// one sweep
	dz := make(map[int]float64, len(cids))
	for i := len(cids) - 1; i >= 0; i-- {
		cid := cids[i]
		z := dem.TEC[cid].Z
		if isch[cid] {
			dz[cid] = z
			continue
		}
		if dcid, ok := ds[cid]; ok && dcid >= 0 {
			if v, ok := dz[dcid]; ok {
				dz[cid] = v
				continue
			}
		}
		dz[cid] = z // undrained edge cell
	}

	fillHand := tg.Hand == nil // a precomputed HAND grid wins
	if fillHand {
		tg.Hand = nanArray(tg.ncells())
	}
	tg.Chan = make([]bool, tg.ncells())
	for _, cid := range cids {
		p := gd.Coord[cid]
		i := tg.cellid(XY{p.X, p.Y})
		if i < 0 {
			continue
		}
		if fillHand {
			tg.Hand[i] = dem.TEC[cid].Z - dz[cid]
		}
		tg.Chan[i] = isch[cid]
	}

	// channel topology for the reach builder
	cn := &channelNet{
		ds:    make(map[int]int, nch),
		coord: make(map[int]XY, nch),
		nus:   make(map[int]int, nch),
	}
	for _, cid := range cids {
		if !isch[cid] {
			continue
		}
		cn.cids = append(cn.cids, cid)
		p := gd.Coord[cid]
		cn.coord[cid] = XY{p.X, p.Y}
		dcid := -1
		if d, ok := ds[cid]; ok && d >= 0 && isch[d] {
			dcid = d
		}
		cn.ds[cid] = dcid
		if dcid >= 0 {
			cn.nus[dcid]++
		}
	}
	return cn
}
