package valleyx

import (
	"fmt"
	"log"
	"math"

	"github.com/maseology/goHydro/grid"
)

// BuildTerrain loads the grid definition and the precomputed rasters
// into the extractor's dense frame. handFP may be empty when HAND is to
// be derived from a topological DEM (see BuildHAND).
func BuildTerrain(gdefFP, demFP, handFP string) (*TerrainGrids, *grid.Definition) {
	println(" > loading grid definition..")
	gd, err := grid.ReadGDEF(gdefFP, true)
	if err != nil {
		log.Fatalf(" BuildTerrain grid.ReadGDEF: %v", err)
	}
	if len(gd.Sactives) <= 0 {
		log.Fatalf(" BuildTerrain error: grid definition requires active cells")
	}

	tg := newFrame(gd)
	tg.Elev = loadReal(demFP, gd, tg)
	if len(handFP) > 0 {
		tg.Hand = loadReal(handFP, gd, tg)
	}
	return tg, gd
}

// newFrame sizes the dense row-major frame from the definition's active
// cell centroids.
func newFrame(gd *grid.Definition) *TerrainGrids {
	cw := gd.Cwidth
	xn, xx := math.Inf(1), math.Inf(-1)
	yn, yx := math.Inf(1), math.Inf(-1)
	for _, cid := range gd.Sactives {
		p := gd.Coord[cid]
		xn, xx = math.Min(xn, p.X), math.Max(xx, p.X)
		yn, yx = math.Min(yn, p.Y), math.Max(yx, p.Y)
	}
	return &TerrainGrids{
		Nrow: int(math.Round((yx-yn)/cw)) + 1,
		Ncol: int(math.Round((xx-xn)/cw)) + 1,
		Cw:   cw,
		Xul:  xn - cw/2.,
		Yul:  yx + cw/2.,
	}
}

func loadReal(fp string, gd *grid.Definition, tg *TerrainGrids) []float64 {
	fmt.Printf("   loading: %s\n", fp)
	var g grid.Real
	g.NewGD32(fp, gd)
	a := nanArray(tg.ncells())
	for cid, v := range g.A {
		if v == -9999. {
			continue
		}
		p := gd.Coord[cid]
		if i := tg.cellid(XY{p.X, p.Y}); i >= 0 {
			a[i] = v
		}
	}
	return a
}

func nanArray(n int) []float64 {
	a := make([]float64, n)
	for i := range a {
		a[i] = math.NaN()
	}
	return a
}
