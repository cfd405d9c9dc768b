package valleyx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/maseology/mmio"
)

// WriteWallPoints emits every per-profile verdict for diagnostics and
// visualization.
func WriteWallPoints(fp string, wps []WallPoint) {
	n := len(wps)
	rch, xs, sd, st := make([]interface{}, n), make([]interface{}, n), make([]interface{}, n), make([]interface{}, n)
	stn, fs, fh := make([]interface{}, n), make([]interface{}, n), make([]interface{}, n)
	for i, wp := range wps {
		rch[i] = wp.ReachID
		xs[i] = wp.XsID
		sd[i] = sideName(wp.Side)
		st[i] = wp.Status.String()
		stn[i] = wp.Station
		fs[i] = wp.FloorSlope
		fh[i] = wp.FloorHand
	}
	mmio.WriteCSV(fp, "reach,xs,side,status,station,floorslope,floorhand", rch, xs, sd, st, stn, fs, fh)
}

// WriteThresholds emits the derived per-reach floor-slope thresholds.
func WriteThresholds(fp string, ths map[int]float64) {
	rids := make([]int, 0, len(ths))
	for rid := range ths {
		rids = append(rids, rid)
	}
	sort.Ints(rids)
	rch, th := make([]interface{}, len(rids)), make([]interface{}, len(rids))
	for i, rid := range rids {
		rch[i] = rid
		th[i] = ths[rid]
	}
	mmio.WriteCSV(fp, "reach,floorslope", rch, th)
}

// SaveBil writes the mask as an int32 grid (1 floor, 0 not floor);
// pair with grid.Definition.ToHDR for the header.
func (m *FloorMask) SaveBil(fp string) error {
	a := make([]int32, len(m.In))
	for i, v := range m.In {
		if v {
			a[i] = 1
		}
	}
	return writeInts(fp, a)
}

func writeInts(fp string, i []int32) error {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, i); err != nil {
		return fmt.Errorf("writeInts failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writeInts failed: %v", err)
	}
	return nil
}
