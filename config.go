package valleyx

import (
	"fmt"
	"strconv"

	"github.com/maseology/mmio"
)

// Config holds every tunable of the extraction. Built once, passed by
// pointer, never mutated after check().
type Config struct {
	// cross-section geometry and sampling density [m]
	Spacing, Width, MaxWidth, PointSpacing float64

	Sigma float64 // profile/DEM smoothing strength

	// breakpoint confirmation sensitivity
	MinHandJump       float64 // minimum HAND step [m] to corroborate a wall
	Ratio             float64 // step magnitude vs floor HAND variability
	MinDistance       float64 // stage agreement window [m]
	MinPeakProminence float64 // HAND peak prominence beyond the break [m]

	// sustained-ascent detection
	NumCells       int     // consecutive samples the slope must hold
	SlopeThreshold float64 // [°]

	// floor thresholding and flood fill
	FoundationSlope  float64 // conservative connectivity bound [°]
	Buffer           float64 // boundary smoothing distance [m]
	MinPoints        int     // wall points needed before trusting the percentile
	Percentile       float64 // of observed floor slopes
	MaxFloorSlope    float64 // absolute slope cap on floor cells [°]
	DefaultThreshold float64 // fallback floor-slope threshold [°]
}

// DefaultConfig carries the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		Spacing:           20.,
		Width:             100.,
		MaxWidth:          500.,
		PointSpacing:      10.,
		Sigma:             2.,
		MinHandJump:       15.,
		Ratio:             3.5,
		MinDistance:       20.,
		MinPeakProminence: 20.,
		NumCells:          5,
		SlopeThreshold:    10.,
		FoundationSlope:   5.,
		Buffer:            1.,
		MinPoints:         5,
		Percentile:        .8,
		MaxFloorSlope:     25.,
		DefaultThreshold:  5.,
	}
}

// LoadConfig reads an instruct file, overriding the defaults for any
// key present. Unknown keys are ignored so the same file can carry the
// run's file paths.
func LoadConfig(fp string) (Config, error) {
	c := DefaultConfig()
	ins := mmio.NewInstruct(fp)
	getf := func(k string, dst *float64) error {
		if v, ok := ins.Param[k]; ok {
			f, err := strconv.ParseFloat(v[0], 64)
			if err != nil {
				return fmt.Errorf("LoadConfig '%s': %v", k, err)
			}
			*dst = f
		}
		return nil
	}
	geti := func(k string, dst *int) error {
		if v, ok := ins.Param[k]; ok {
			i, err := strconv.Atoi(v[0])
			if err != nil {
				return fmt.Errorf("LoadConfig '%s': %v", k, err)
			}
			*dst = i
		}
		return nil
	}
	for k, dst := range map[string]*float64{
		"spacing":           &c.Spacing,
		"width":             &c.Width,
		"maxwidth":          &c.MaxWidth,
		"pointspacing":      &c.PointSpacing,
		"sigma":             &c.Sigma,
		"minhandjump":       &c.MinHandJump,
		"ratio":             &c.Ratio,
		"mindistance":       &c.MinDistance,
		"minpeakprominence": &c.MinPeakProminence,
		"slopethreshold":    &c.SlopeThreshold,
		"foundationslope":   &c.FoundationSlope,
		"buffer":            &c.Buffer,
		"percentile":        &c.Percentile,
		"maxfloorslope":     &c.MaxFloorSlope,
		"defaultthreshold":  &c.DefaultThreshold,
	} {
		if err := getf(k, dst); err != nil {
			return c, err
		}
	}
	if err := geti("numcells", &c.NumCells); err != nil {
		return c, err
	}
	if err := geti("minpoints", &c.MinPoints); err != nil {
		return c, err
	}
	return c, c.check()
}

// check validates option domains. Called before any sampling begins;
// a non-nil return aborts the run.
func (c *Config) check() error {
	switch {
	case c.Spacing <= 0:
		return fmt.Errorf("config: spacing must be positive (got %g)", c.Spacing)
	case c.Width <= 0:
		return fmt.Errorf("config: width must be positive (got %g)", c.Width)
	case c.MaxWidth < c.Width:
		return fmt.Errorf("config: maxwidth (%g) must not be less than width (%g)", c.MaxWidth, c.Width)
	case c.PointSpacing <= 0:
		return fmt.Errorf("config: pointspacing must be positive (got %g)", c.PointSpacing)
	case c.Sigma < 0:
		return fmt.Errorf("config: sigma must not be negative (got %g)", c.Sigma)
	case c.MinHandJump <= 0:
		return fmt.Errorf("config: minhandjump must be positive (got %g)", c.MinHandJump)
	case c.Ratio <= 0:
		return fmt.Errorf("config: ratio must be positive (got %g)", c.Ratio)
	case c.MinDistance < 0:
		return fmt.Errorf("config: mindistance must not be negative (got %g)", c.MinDistance)
	case c.MinPeakProminence < 0:
		return fmt.Errorf("config: minpeakprominence must not be negative (got %g)", c.MinPeakProminence)
	case c.NumCells < 1:
		return fmt.Errorf("config: numcells must be at least 1 (got %d)", c.NumCells)
	case c.SlopeThreshold <= 0:
		return fmt.Errorf("config: slopethreshold must be positive (got %g)", c.SlopeThreshold)
	case c.FoundationSlope <= 0:
		return fmt.Errorf("config: foundationslope must be positive (got %g)", c.FoundationSlope)
	case c.Buffer < 0:
		return fmt.Errorf("config: buffer must not be negative (got %g)", c.Buffer)
	case c.MinPoints < 1:
		return fmt.Errorf("config: minpoints must be at least 1 (got %d)", c.MinPoints)
	case c.Percentile <= 0 || c.Percentile > 1:
		return fmt.Errorf("config: percentile must be in (0,1] (got %g)", c.Percentile)
	case c.MaxFloorSlope <= 0:
		return fmt.Errorf("config: maxfloorslope must be positive (got %g)", c.MaxFloorSlope)
	case c.DefaultThreshold <= 0:
		return fmt.Errorf("config: defaultthreshold must be positive (got %g)", c.DefaultThreshold)
	}
	return nil
}
