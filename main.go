// Command skymask computes the portion of the sky dome around a test
// point that is masked by surrounding context geometry, and the sky
// view factor that remains.
//
// Context geometry is read from binary STL files and from primitives in
// the config file. Like SketchUp exports, STL coordinates are taken as
// X east, Y north, Z up.
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/vg"

	"github.com/aclements/skymask/internal/config"
	"github.com/aclements/skymask/internal/logger"
)

func main() {
	config.ParseFlags()
	if q := config.HOYQuery(); q != "" {
		report, err := HOYReport(q)
		if err != nil {
			fmt.Fprintln(os.Stderr, "skymask:", err)
			os.Exit(2)
		}
		fmt.Println(report)
		return
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "skymask:", err)
		os.Exit(2)
	}
	if path := config.SavePath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintln(os.Stderr, "skymask:", err)
			os.Exit(1)
		}
		return
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer logger.Sync(log)

	if err := run(cfg, log); err != nil {
		log.Error("skymask failed", zap.Error(err))
		logger.Sync(log)
		if errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrNotInitialized) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newModel(cfg *config.Config, log *zap.Logger) (*SkyModel, error) {
	m := NewSkyModel(log)
	m.DomeRadius = cfg.Sky.DomeRadius
	m.ReferenceZ = cfg.Sky.ReferenceZ
	m.Tess = Tessellation{ArcSteps: cfg.Sky.ArcSteps, MaxSweep: cfg.Sky.SweepDegrees * math.Pi / 180}
	m.Workers = cfg.Run.Workers
	m.CacheDir = cfg.Run.CacheDir

	for _, path := range cfg.Context.STL {
		if err := m.AddContext(path); err != nil {
			return nil, err
		}
	}
	for i, p := range cfg.Context.Primitives {
		mesh, err := primitiveMesh(p, cfg.Context.Cells)
		if err != nil {
			return nil, fmt.Errorf("context primitive %d: %w", i, err)
		}
		m.AddMesh(fmt.Sprintf("%s#%d", p.Kind, i), mesh)
	}
	m.MarkReady()
	return m, nil
}

func primitiveMesh(p config.PrimitiveConfig, cells int) (*Mesh, error) {
	center := vec(p.Center)
	switch p.Kind {
	case "box":
		return BoxMesh(center, vec(p.Size), cells)
	case "sphere":
		return SphereMesh(center, p.Radius, cells)
	case "cylinder":
		return CylinderMesh(center, p.Height, p.Radius, cells)
	}
	return nil, fmt.Errorf("unknown primitive kind %q: %w", p.Kind, ErrInvalidArgument)
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func run(cfg *config.Config, log *zap.Logger) error {
	m, err := newModel(cfg, log)
	if err != nil {
		return err
	}

	req := SkyMaskRequest{Density: cfg.Sky.Density, Scale: cfg.Sky.Scale}
	if cfg.Sky.Viewpoint != nil {
		vp := vec(*cfg.Sky.Viewpoint)
		req.Viewpoint = &vp
	}

	ctx := context.Background()
	if cfg.Run.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Run.Timeout)
		defer cancel()
	}
	start := time.Now()
	res, err := m.SkyMask(ctx, req)
	if err != nil {
		return err
	}
	log.Debug("sky mask timing", zap.Duration("elapsed", time.Since(start)))

	fmt.Printf("masked:  %s%%\n", FormatPercent(res.PercentMasked))
	fmt.Printf("skyView: %s%%\n", FormatPercent(res.PercentVisible))
	if d, ok := res.NearestObstruction(); ok {
		fmt.Printf("nearest: %.2f\n", d)
	}
	if len(res.Failed) > 0 {
		fmt.Printf("failed:  %d patches counted as visible\n", len(res.Failed))
	}

	var exp *SunExposure
	if cfg.Location.Enabled {
		tz, err := time.LoadLocation(cfg.Location.Timezone)
		if err != nil {
			return fmt.Errorf("location timezone: %w", err)
		}
		loc := Location{Latitude: cfg.Location.Latitude, Longitude: cfg.Location.Longitude, TZ: tz}
		exp, err = res.SunExposure(loc, cfg.Location.Year)
		if err != nil {
			return err
		}
		fmt.Printf("sun:     %s%% of %d daylight hours in view\n", FormatPercent(exp.PercentVisible()), exp.DaylightHours())
	}

	return writeOutputs(cfg.Output, res, exp, m.ContextMeshes(), log)
}

func writeOutputs(out config.OutputConfig, res *SkyMaskResult, exp *SunExposure, contextMeshes []*Mesh, log *zap.Logger) error {
	if out.Plot != "" {
		plt, err := res.Plot(exp)
		if err != nil {
			return err
		}
		if err := plt.Save(15*vg.Centimeter, 15*vg.Centimeter, out.Plot); err != nil {
			return err
		}
		log.Info("wrote sky mask plot", zap.String("path", out.Plot))
	}
	if out.ExposurePlot != "" && exp != nil {
		if err := exp.HeatMap().Save(20*vg.Centimeter, 15*vg.Centimeter, out.ExposurePlot); err != nil {
			return err
		}
		log.Info("wrote sun exposure plot", zap.String("path", out.ExposurePlot))
	}
	for _, o := range []struct {
		path  string
		write func(f *os.File) error
	}{
		{out.MaskedSTL, func(f *os.File) error { return res.Masked.WriteSTL(f) }},
		{out.VisibleSTL, func(f *os.File) error { return res.Visible.WriteSTL(f) }},
		{out.POV, func(f *os.File) error { return res.WritePOV(f, contextMeshes) }},
	} {
		if o.path == "" {
			continue
		}
		if err := writeFile(o.path, o.write); err != nil {
			return err
		}
		log.Info("wrote output", zap.String("path", o.path))
	}
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
