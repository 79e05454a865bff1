// Package config handles skymask configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// Config holds all skymask settings.
type Config struct {
	Sky      SkyConfig      `yaml:"sky"`
	Context  ContextConfig  `yaml:"context"`
	Location LocationConfig `yaml:"location"`
	Output   OutputConfig   `yaml:"output"`
	Run      RunConfig      `yaml:"run"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SkyConfig holds the sky dome and test point settings.
type SkyConfig struct {
	Viewpoint    *[3]float64 `yaml:"viewpoint"`     // Test point, X east, Y north, Z up
	Density      int         `yaml:"density"`       // 0 for Tregenza, 1+ for Reinhart subdivisions
	Scale        float64     `yaml:"scale"`         // Multiplier on DomeRadius
	DomeRadius   float64     `yaml:"dome_radius"`   // Dome radius at scale 1
	ReferenceZ   float64     `yaml:"reference_z"`   // Elevation of the reported dome
	ArcSteps     int         `yaml:"arc_steps"`     // Patch mesh divisions along the arc
	SweepDegrees float64     `yaml:"sweep_degrees"` // Largest patch mesh azimuth step
}

// ContextConfig holds the occluding context geometry.
type ContextConfig struct {
	STL        []string          `yaml:"stl"`        // Binary STL files
	Primitives []PrimitiveConfig `yaml:"primitives"` // Boxes, spheres, and cylinders
	Cells      int               `yaml:"cells"`      // Marching cubes resolution for primitives
}

// PrimitiveConfig describes one context primitive.
type PrimitiveConfig struct {
	Kind   string     `yaml:"kind"` // box, sphere, or cylinder
	Center [3]float64 `yaml:"center"`
	Size   [3]float64 `yaml:"size"`   // box
	Radius float64    `yaml:"radius"` // sphere, cylinder
	Height float64    `yaml:"height"` // cylinder
}

// LocationConfig holds the site used for sun exposure. Sun exposure is
// only computed when Enabled is set.
type LocationConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"`
	Year      int     `yaml:"year"`
}

// OutputConfig holds output file paths. Empty paths are skipped.
type OutputConfig struct {
	Plot         string `yaml:"plot"`
	ExposurePlot string `yaml:"exposure_plot"`
	MaskedSTL    string `yaml:"masked_stl"`
	VisibleSTL   string `yaml:"visible_stl"`
	POV          string `yaml:"pov"`
}

// RunConfig holds execution settings.
type RunConfig struct {
	Workers  int           `yaml:"workers"` // 0 means one per CPU
	CacheDir string        `yaml:"cache_dir"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Sky: SkyConfig{
			Density:      0,
			Scale:        1,
			DomeRadius:   200,
			ReferenceZ:   0,
			ArcSteps:     4,
			SweepDegrees: 3,
		},
		Context: ContextConfig{
			Cells: 48,
		},
		Location: LocationConfig{
			Timezone: "UTC",
			Year:     2022,
		},
		Output: OutputConfig{
			Plot: "skymask.png",
		},
		Run: RunConfig{
			Timeout: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that can't be used.
func (c *Config) Validate() error {
	switch {
	case c.Sky.Density < 0:
		return fmt.Errorf("sky.density %d must not be negative", c.Sky.Density)
	case !(c.Sky.Scale > 0):
		return fmt.Errorf("sky.scale %v must be positive", c.Sky.Scale)
	case !(c.Sky.DomeRadius > 0):
		return fmt.Errorf("sky.dome_radius %v must be positive", c.Sky.DomeRadius)
	case c.Run.Workers < 0:
		return fmt.Errorf("run.workers %d must not be negative", c.Run.Workers)
	}
	for i, p := range c.Context.Primitives {
		switch p.Kind {
		case "box", "sphere", "cylinder":
		default:
			return fmt.Errorf("context.primitives[%d]: unknown kind %q", i, p.Kind)
		}
	}
	return nil
}
