package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagViewpoint = flag.String("viewpoint", "", "Test point as x,y,z")
	flagDensity   = flag.Int("density", -1, "Sky density (0 Tregenza, 1+ Reinhart)")
	flagScale     = flag.Float64("scale", 0, "Sky dome scale")
	flagWorkers   = flag.Int("workers", 0, "Number of concurrent ray tests")
	flagPlot      = flag.String("plot", "", "Sky mask plot output path")
	flagCache     = flag.String("cache", "", "Occlusion cache directory")
	flagSave      = flag.String("save-config", "", "Write the resolved config to this path and exit")
	flagHOY       = flag.String("hoy", "", "Print the hour of year of month,day,hour (or the date of an hour of year) and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SavePath returns the path given with --save-config, if any.
func SavePath() string {
	return *flagSave
}

// HOYQuery returns the argument of --hoy, if any.
func HOYQuery() string {
	return *flagHOY
}

// Args returns the non-flag command-line arguments, which are treated
// as additional context STL files.
func Args() []string {
	return flag.Args()
}

// parseVec parses "x,y,z".
func parseVec(s string) (*[3]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", s, err)
		}
		v[i] = f
	}
	return &v, nil
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagViewpoint != "" {
		v, err := parseVec(*flagViewpoint)
		if err != nil {
			return fmt.Errorf("-viewpoint: %w", err)
		}
		cfg.Sky.Viewpoint = v
	}
	if *flagDensity >= 0 {
		cfg.Sky.Density = *flagDensity
	}
	if *flagScale > 0 {
		cfg.Sky.Scale = *flagScale
	}
	if *flagWorkers > 0 {
		cfg.Run.Workers = *flagWorkers
	}
	if *flagPlot != "" {
		cfg.Output.Plot = *flagPlot
	}
	if *flagCache != "" {
		cfg.Run.CacheDir = *flagCache
	}
	return nil
}
