package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"

	"github.com/avkoehl/valleyx"
	"github.com/maseology/mmio"
)

func main() {

	if len(os.Args) < 2 {
		log.Fatalf("usage: valleyx <control file (.vx)>")
	}
	ctrlFP := os.Args[1]

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap(fmt.Sprintf("\nRun complete. n processes: %v", runtime.GOMAXPROCS(0)))

	///////////////////////////////////////////////////////
	println("load .vx control file")
	var prfx, gdefFP, demFP, handFP, hdemFP string
	strmkm2, handThreshold, reachLen := 1., 10., 300.
	func(vxFP string) { // getFilePaths
		ins := mmio.NewInstruct(vxFP)
		prfx = ins.Param["prfx"][0]
		gdefFP = ins.Param["gdeffp"][0]
		demFP = ins.Param["demfp"][0]
		if v, ok := ins.Param["handfp"]; ok {
			handFP = v[0]
		}
		if v, ok := ins.Param["hdemfp"]; ok {
			hdemFP = v[0]
		}
		getf := func(k string, dst *float64) {
			if v, ok := ins.Param[k]; ok {
				f, err := strconv.ParseFloat(v[0], 64)
				if err != nil {
					log.Fatalf(" %s: %v", k, err)
				}
				*dst = f
			}
		}
		getf("strmkm2", &strmkm2)
		getf("handthreshold", &handThreshold)
		getf("reachlen", &reachLen)
	}(ctrlFP)

	cfg, err := valleyx.LoadConfig(ctrlFP)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(hdemFP) == 0 {
		log.Fatalf(" control file must name a topological DEM (hdemfp); it carries the flow network")
	}

	///////////////////////////////////////////////////////
	println("\nbuilding..")
	tg, gd := valleyx.BuildTerrain(gdefFP, demFP, handFP)
	cn := valleyx.BuildHAND(gd, tg, hdemFP, strmkm2)
	reaches := valleyx.BuildReaches(cn, handThreshold, reachLen)

	dom := valleyx.Domain{TG: tg, Reaches: reaches, Cfg: cfg}
	if err := dom.SaveGob(prfx + "domain.gob"); err != nil {
		log.Fatalf("%v", err)
	}
	tt.Print("build complete\n")

	///////////////////////////////////////////////////////
	println("extracting..")
	ext, err := dom.Extract()
	if err != nil {
		log.Fatalf("%v", err)
	}

	///////////////////////////////////////////////////////
	println("\nsaving outputs..")
	valleyx.WriteWallPoints(prfx+"wallpoints.csv", ext.WallPoints)
	valleyx.WriteThresholds(prfx+"thresholds.csv", ext.Thresholds)
	if err := ext.Floor.SaveBil(prfx + "floor.bil"); err != nil {
		log.Fatalf("%v", err)
	}
	if err := gd.ToHDR(prfx+"floor.hdr", 1, 32); err != nil {
		log.Fatalf(" gd.ToHDR failed: %v", err)
	}
	if err := valleyx.WritePolysWKT(prfx+"floor.wkt", ext.Floor.Vectorize(2)); err != nil {
		log.Fatalf("%v", err)
	}
}
