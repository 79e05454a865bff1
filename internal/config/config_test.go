package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test sky defaults
	if cfg.Sky.Viewpoint != nil {
		t.Errorf("expected no default viewpoint, got %v", *cfg.Sky.Viewpoint)
	}
	if cfg.Sky.Density != 0 {
		t.Errorf("expected density 0, got %d", cfg.Sky.Density)
	}
	if cfg.Sky.Scale != 1 {
		t.Errorf("expected scale 1, got %f", cfg.Sky.Scale)
	}
	if cfg.Sky.DomeRadius != 200 {
		t.Errorf("expected dome radius 200, got %f", cfg.Sky.DomeRadius)
	}
	if cfg.Sky.ArcSteps != 4 || cfg.Sky.SweepDegrees != 3 {
		t.Errorf("expected tessellation 4 / 3°, got %d / %f", cfg.Sky.ArcSteps, cfg.Sky.SweepDegrees)
	}

	// Test context defaults
	if cfg.Context.Cells != 48 {
		t.Errorf("expected 48 cells, got %d", cfg.Context.Cells)
	}

	// Test location defaults
	if cfg.Location.Enabled {
		t.Error("expected location to be disabled by default")
	}
	if cfg.Location.Timezone != "UTC" {
		t.Errorf("expected timezone UTC, got %s", cfg.Location.Timezone)
	}

	// Test run defaults
	if cfg.Run.Timeout != 5*time.Minute {
		t.Errorf("expected timeout 5m, got %v", cfg.Run.Timeout)
	}
	if cfg.Output.Plot != "skymask.png" {
		t.Errorf("expected plot skymask.png, got %s", cfg.Output.Plot)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
sky:
  viewpoint: [10, 20, 1.5]
  density: 2
  scale: 0.5

context:
  stl: ["site.stl", "trees.stl"]
  primitives:
    - kind: box
      center: [0, 30, 10]
      size: [40, 5, 20]
    - kind: sphere
      center: [-20, 0, 8]
      radius: 6

location:
  enabled: true
  latitude: 42.36
  longitude: -71.06
  timezone: "America/New_York"

run:
  workers: 4
  cache_dir: "/tmp/skymask"
  timeout: 30s

logging:
  level: "debug"
  log_file: "skymask.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Sky.Viewpoint == nil || *cfg.Sky.Viewpoint != [3]float64{10, 20, 1.5} {
		t.Errorf("expected viewpoint [10 20 1.5], got %v", cfg.Sky.Viewpoint)
	}
	if cfg.Sky.Density != 2 {
		t.Errorf("expected density 2, got %d", cfg.Sky.Density)
	}
	if cfg.Sky.Scale != 0.5 {
		t.Errorf("expected scale 0.5, got %f", cfg.Sky.Scale)
	}
	// Unset values keep their defaults
	if cfg.Sky.DomeRadius != 200 {
		t.Errorf("expected dome radius 200, got %f", cfg.Sky.DomeRadius)
	}

	if len(cfg.Context.STL) != 2 || cfg.Context.STL[1] != "trees.stl" {
		t.Errorf("expected two STL files, got %v", cfg.Context.STL)
	}
	if len(cfg.Context.Primitives) != 2 {
		t.Fatalf("expected 2 primitives, got %d", len(cfg.Context.Primitives))
	}
	if p := cfg.Context.Primitives[0]; p.Kind != "box" || p.Size != [3]float64{40, 5, 20} {
		t.Errorf("unexpected box %+v", p)
	}
	if p := cfg.Context.Primitives[1]; p.Kind != "sphere" || p.Radius != 6 {
		t.Errorf("unexpected sphere %+v", p)
	}

	if !cfg.Location.Enabled || cfg.Location.Latitude != 42.36 {
		t.Errorf("unexpected location %+v", cfg.Location)
	}
	if cfg.Location.Year != 2022 {
		t.Errorf("expected default year 2022, got %d", cfg.Location.Year)
	}

	if cfg.Run.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Run.Workers)
	}
	if cfg.Run.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Run.Timeout)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "skymask.log" {
		t.Errorf("expected log file 'skymask.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
sky:
  density: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if filepath.Base(dir) != "skymask" {
		t.Errorf("ConfigDir should end in skymask, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Keep the user's real config out of the way
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create skymask.yaml in current directory
	configPath := filepath.Join(tmpDir, "skymask.yaml")
	if err := os.WriteFile(configPath, []byte("sky:\n  density: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find skymask.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "viewpoint flag",
			setup: func() {
				*flagViewpoint = "1, 2.5,-3"
			},
			verify: func(cfg *Config) {
				if cfg.Sky.Viewpoint == nil || *cfg.Sky.Viewpoint != [3]float64{1, 2.5, -3} {
					t.Errorf("expected viewpoint [1 2.5 -3], got %v", cfg.Sky.Viewpoint)
				}
			},
			teardown: func() {
				*flagViewpoint = ""
			},
		},
		{
			name: "density flag",
			setup: func() {
				*flagDensity = 3
			},
			verify: func(cfg *Config) {
				if cfg.Sky.Density != 3 {
					t.Errorf("expected density 3, got %d", cfg.Sky.Density)
				}
			},
			teardown: func() {
				*flagDensity = -1
			},
		},
		{
			name: "scale and workers flags",
			setup: func() {
				*flagScale = 2
				*flagWorkers = 8
			},
			verify: func(cfg *Config) {
				if cfg.Sky.Scale != 2 {
					t.Errorf("expected scale 2, got %f", cfg.Sky.Scale)
				}
				if cfg.Run.Workers != 8 {
					t.Errorf("expected 8 workers, got %d", cfg.Run.Workers)
				}
			},
			teardown: func() {
				*flagScale = 0
				*flagWorkers = 0
			},
		},
		{
			name: "output flags",
			setup: func() {
				*flagPlot = "out.png"
				*flagCache = "/tmp/cache"
			},
			verify: func(cfg *Config) {
				if cfg.Output.Plot != "out.png" {
					t.Errorf("expected plot out.png, got %s", cfg.Output.Plot)
				}
				if cfg.Run.CacheDir != "/tmp/cache" {
					t.Errorf("expected cache dir /tmp/cache, got %s", cfg.Run.CacheDir)
				}
			},
			teardown: func() {
				*flagPlot = ""
				*flagCache = ""
			},
		},
		{
			name:  "no flags",
			setup: func() {},
			verify: func(cfg *Config) {
				if cfg.Sky.Viewpoint != nil || cfg.Sky.Density != 0 || cfg.Sky.Scale != 1 {
					t.Errorf("defaults changed without flags: %+v", cfg.Sky)
				}
			},
			teardown: func() {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			if err := applyFlags(cfg); err != nil {
				t.Fatalf("applyFlags: %v", err)
			}
			tt.verify(cfg)
		})
	}
}

func TestHOYQuery(t *testing.T) {
	if HOYQuery() != "" {
		t.Errorf("expected empty --hoy by default, got %q", HOYQuery())
	}
	*flagHOY = "6,21,12"
	defer func() { *flagHOY = "" }()
	if HOYQuery() != "6,21,12" {
		t.Errorf("expected --hoy 6,21,12, got %q", HOYQuery())
	}
}

func TestApplyFlagsBadViewpoint(t *testing.T) {
	*flagViewpoint = "1,2"
	defer func() { *flagViewpoint = "" }()

	if err := applyFlags(Default()); err == nil {
		t.Error("expected error for a two-component viewpoint")
	}
}

func TestParseVec(t *testing.T) {
	for _, bad := range []string{"", "1,2", "1,2,3,4", "a,b,c", "1,,3"} {
		if _, err := parseVec(bad); err == nil {
			t.Errorf("parseVec(%q) succeeded", bad)
		}
	}
	v, err := parseVec("0.5,-2,1e3")
	if err != nil {
		t.Fatal(err)
	}
	if *v != [3]float64{0.5, -2, 1000} {
		t.Errorf("parseVec = %v", *v)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"negative density", func(c *Config) { c.Sky.Density = -1 }, "sky.density"},
		{"zero scale", func(c *Config) { c.Sky.Scale = 0 }, "sky.scale"},
		{"zero dome radius", func(c *Config) { c.Sky.DomeRadius = 0 }, "sky.dome_radius"},
		{"negative workers", func(c *Config) { c.Run.Workers = -2 }, "run.workers"},
		{"unknown primitive", func(c *Config) {
			c.Context.Primitives = []PrimitiveConfig{{Kind: "box"}, {Kind: "cone"}}
		}, "context.primitives[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error mentioning %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("sky:\n  density: 1\n  scale: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagDensity = 2
	defer func() {
		*flagConfig = ""
		*flagDensity = -1
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Flag beats file
	if cfg.Sky.Density != 2 {
		t.Errorf("expected density 2 from flag, got %d", cfg.Sky.Density)
	}
	// File beats default
	if cfg.Sky.Scale != 3 {
		t.Errorf("expected scale 3 from file, got %f", cfg.Sky.Scale)
	}
	// Default survives
	if cfg.Sky.ArcSteps != 4 {
		t.Errorf("expected default arc steps 4, got %d", cfg.Sky.ArcSteps)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "out.yaml")

	cfg := Default()
	cfg.Sky.Viewpoint = &[3]float64{1, 2, 3}
	cfg.Context.Primitives = []PrimitiveConfig{{Kind: "cylinder", Height: 10, Radius: 2}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Sky.Viewpoint == nil || *loaded.Sky.Viewpoint != [3]float64{1, 2, 3} {
		t.Errorf("viewpoint not saved, got %v", loaded.Sky.Viewpoint)
	}
	if len(loaded.Context.Primitives) != 1 || loaded.Context.Primitives[0].Kind != "cylinder" {
		t.Errorf("primitives not saved, got %+v", loaded.Context.Primitives)
	}
	if loaded.Run.Timeout != 5*time.Minute {
		t.Errorf("timeout not saved, got %v", loaded.Run.Timeout)
	}
}
