// Package valleyx extracts valley-floor surfaces from a DEM and
// flowline network. The extractor samples cross-section profiles
// perpendicular to each reach, locates the floor/wall transition on
// every profile side, derives a per-reach floor-slope threshold from
// the ensemble, and flood-fills a connected floor mask bounded by that
// threshold and HAND.
package valleyx

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
)

// Extraction carries a run's outputs: the merged floor mask, every
// wall-point verdict, and the derived per-reach floor-slope thresholds.
type Extraction struct {
	Floor      *FloorMask
	WallPoints []WallPoint
	Thresholds map[int]float64
}

// Extract runs the full pipeline over the domain. Fatal input
// conditions are reported before any sampling begins.
func (d *Domain) Extract() (*Extraction, error) {
	if err := d.checkInputs(); err != nil {
		return nil, err
	}
	tt := mmio.NewTimer()

	println(" > deriving elevation surfaces..")
	d.TG.buildDerivatives(d.Cfg.Sigma)
	if d.TG.Chan == nil {
		d.TG.Chan = d.channelFromReaches()
	}
	tt.Lap("surfaces ready")

	fmt.Printf(" > detecting wall points over %d reaches..\n", len(d.Reaches))
	type result struct {
		rf  reachFloor
		wps []WallPoint
	}
	res := make([]result, len(d.Reaches))

	prog := uiprogress.New() // the package-level singleton cannot be restarted once stopped
	prog.Start()
	bar := prog.AddBar(len(d.Reaches)).AppendCompleted().PrependElapsed()
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	for i := range d.Reaches {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			r := &d.Reaches[i]
			wps := detectWallPoints(d.TG, r, &d.Cfg)
			th := reachThreshold(wps, &d.Cfg)
			res[i] = result{
				rf:  reachFloor{rid: r.ID, thresh: th, hand: r.HandThreshold, cells: floodReach(d.TG, r, th)},
				wps: wps,
			}
			<-sem
			bar.Incr()
		}(i)
	}
	wg.Wait()
	prog.Stop()
	tt.Lap("wall points classified")

	// the single synchronization point: one goroutine owns the mask
	println(" > labeling floor..")
	rfs := make([]reachFloor, len(res))
	ths := make(map[int]float64, len(res))
	var wps []WallPoint
	for i, rr := range res {
		rfs[i] = rr.rf
		ths[rr.rf.rid] = rr.rf.thresh
		wps = append(wps, rr.wps...)
	}
	sort.Slice(rfs, func(i, j int) bool { return rfs[i].rid < rfs[j].rid })
	fm := mergeFloors(d.TG, rfs, foundationFill(d.TG, d.Cfg.FoundationSlope), &d.Cfg)
	tt.Lap("floor labeled")

	nconf, nlow, nrej, nnf := 0, 0, 0, 0
	for _, wp := range wps {
		switch wp.Status {
		case WPConfirmed:
			nconf++
		case WPLowConfidence:
			nlow++
		case WPRejected:
			nrej++
		default:
			nnf++
		}
	}
	fmt.Printf("   wall points: %s confirmed, %s low-confidence, %s rejected, %s not-found\n",
		mmio.Thousands(int64(nconf)), mmio.Thousands(int64(nlow)), mmio.Thousands(int64(nrej)), mmio.Thousands(int64(nnf)))

	return &Extraction{Floor: fm, WallPoints: wps, Thresholds: ths}, nil
}

func (d *Domain) checkInputs() error {
	if err := d.Cfg.check(); err != nil {
		return err
	}
	switch {
	case d.TG == nil:
		return fmt.Errorf("extract: no terrain grids supplied")
	case d.TG.Elev == nil:
		return fmt.Errorf("extract: elevation grid missing")
	case d.TG.Hand == nil:
		return fmt.Errorf("extract: HAND grid missing")
	case len(d.TG.Elev) != d.TG.ncells() || len(d.TG.Hand) != d.TG.ncells():
		return fmt.Errorf("extract: grid dimensions inconsistent with %d x %d frame", d.TG.Nrow, d.TG.Ncol)
	case d.TG.Cw <= 0:
		return fmt.Errorf("extract: non-positive cell width")
	case len(d.Reaches) == 0:
		return fmt.Errorf("extract: empty reach network")
	}
	return nil
}

// channelFromReaches rasterizes all centerlines when the collaborator
// supplied no channel grid.
func (d *Domain) channelFromReaches() []bool {
	ch := make([]bool, d.TG.ncells())
	for i := range d.Reaches {
		for _, cid := range seedCells(d.TG, &d.Reaches[i]) {
			ch[cid] = true
		}
	}
	return ch
}
