package valleyx

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Domain aggregates everything a run needs: the read-only terrain
// grids, the reach network, and the configuration.
type Domain struct {
	TG      *TerrainGrids
	Reaches []Reach
	Cfg     Config
}

func (d *Domain) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" domain.Save %v", err)
	}
	if err := gob.NewEncoder(f).Encode(d); err != nil {
		return fmt.Errorf(" domain.Save %v", err)
	}
	f.Close()
	return nil
}

func LoadGobDomain(fp string) (*Domain, error) {
	var d Domain
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	enc := gob.NewDecoder(f)
	err = enc.Decode(&d)
	if err != nil {
		return nil, err
	}
	f.Close()
	return &d, nil
}
