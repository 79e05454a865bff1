package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// A SkyModel computes the sky mask at a test point in a 3D model.
//
// The coordinate system is as follows:
//
//	Z/up
//	|  Y/north
//	| /
//	|/____ X/east
type SkyModel struct {
	// DomeRadius is the radius of a sky dome at scale 1.
	DomeRadius float64

	// ReferenceZ is the elevation of the reported dome. The dome used
	// for ray casting is centered on the viewpoint, but the masked and
	// visible meshes are always centered at this elevation.
	ReferenceZ float64

	Tess     Tessellation
	Workers  int
	CacheDir string

	log    *zap.Logger
	ready  bool
	layers []*contextLayer
}

type contextLayer struct {
	name string
	mesh *Mesh
}

// DefaultDomeRadius is the dome radius at scale 1, in model units.
const DefaultDomeRadius = 200

// NewSkyModel returns an empty sky model. The model can't compute sky
// masks until its context is loaded and MarkReady is called.
func NewSkyModel(log *zap.Logger) *SkyModel {
	if log == nil {
		log = zap.NewNop()
	}
	return &SkyModel{
		DomeRadius: DefaultDomeRadius,
		Tess:       DefaultTessellation,
		log:        log,
	}
}

// AddContext loads context geometry from a binary STL file.
func (m *SkyModel) AddContext(stlPath string) error {
	f, err := os.Open(stlPath)
	if err != nil {
		return err
	}
	defer f.Close()
	mesh, err := ReadSTL(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", stlPath, err)
	}
	m.AddMesh(stlPath, mesh)
	return nil
}

// AddMesh adds mesh to the context geometry.
func (m *SkyModel) AddMesh(name string, mesh *Mesh) {
	m.log.Debug("context layer added", zap.String("name", name), zap.Int("triangles", len(mesh.Tris)))
	m.layers = append(m.layers, &contextLayer{name, mesh})
}

// ContextMeshes returns the context geometry added so far.
func (m *SkyModel) ContextMeshes() []*Mesh {
	meshes := make([]*Mesh, len(m.layers))
	for i, l := range m.layers {
		meshes[i] = l.mesh
	}
	return meshes
}

// MarkReady marks the model as initialized. Until it is called,
// SkyMask returns ErrNotInitialized.
func (m *SkyModel) MarkReady() {
	m.ready = true
}

// SkyMaskRequest is the input to SkyModel.SkyMask.
type SkyMaskRequest struct {
	Viewpoint *r3.Vec
	Density   int
	Scale     float64
}

func (m *SkyModel) validate(req SkyMaskRequest) error {
	switch {
	case req.Viewpoint == nil && len(m.layers) == 0:
		return fmt.Errorf("connect a test point and context geometry: %w", ErrInvalidArgument)
	case req.Viewpoint == nil:
		return fmt.Errorf("test point is missing: %w", ErrInvalidArgument)
	case len(m.layers) == 0:
		return fmt.Errorf("context geometry is missing: %w", ErrInvalidArgument)
	case !isFinite(*req.Viewpoint):
		return fmt.Errorf("test point %v is not finite: %w", *req.Viewpoint, ErrInvalidArgument)
	case !(req.Scale > 0):
		return fmt.Errorf("scale %v must be positive: %w", req.Scale, ErrInvalidArgument)
	case req.Density < 0 || req.Density > MaxDensity:
		return fmt.Errorf("sky density %d not in [0, %d]: %w", req.Density, MaxDensity, ErrInvalidArgument)
	case !(m.DomeRadius > 0):
		return fmt.Errorf("dome radius %v must be positive: %w", m.DomeRadius, ErrInvalidArgument)
	}
	return nil
}

// SkyMask computes the portion of the sky dome around req.Viewpoint
// that is masked by the model's context geometry.
func (m *SkyModel) SkyMask(ctx context.Context, req SkyMaskRequest) (*SkyMaskResult, error) {
	if !m.ready {
		m.log.Warn("sky model is not initialized; load context geometry first")
		return nil, ErrNotInitialized
	}
	if err := m.validate(req); err != nil {
		return nil, err
	}

	vp := *req.Viewpoint
	radius := m.DomeRadius * req.Scale
	dome, err := GenerateSkyDome(vp, req.Density, radius)
	if err != nil {
		return nil, err
	}

	occ := NewOccluder(m.ContextMeshes()...)
	ck := MakeCacheKey(m.CacheDir, m.log, occ.Mesh(), vp, req.Density, radius, m.Tess)
	var result OcclusionResult
	var cached []cachedPatch
	if ck.Load(&cached) && len(cached) == len(dome.Patches) {
		result = make(OcclusionResult, len(cached))
		for i, c := range cached {
			result[i] = PatchResult{State: c.State, Distance: c.Distance}
		}
	} else {
		result, err = ComputeOcclusion(ctx, vp, occ, dome.Patches, OcclusionOptions{
			Workers: m.Workers,
			Tess:    m.Tess,
			Log:     m.log,
		})
		if err != nil {
			return nil, fmt.Errorf("computing occlusion: %w", err)
		}
		if result.Err() == nil {
			ck.Save(toCache(result))
		}
	}

	// Report the dome on the reference plane so it has the same
	// placement regardless of the viewpoint's height.
	ref, err := GenerateSkyDome(r3.Vec{X: vp.X, Y: vp.Y, Z: m.ReferenceZ}, req.Density, radius)
	if err != nil {
		return nil, err
	}
	res, err := Aggregate(ref, result, m.Tess)
	if err != nil {
		if errors.Is(err, ErrDegenerateGeometry) {
			m.log.Error("sky mask failed", zap.Error(err))
		}
		return nil, err
	}
	m.log.Info("sky mask computed",
		zap.Int("patches", len(dome.Patches)),
		zap.Int("rows", len(dome.Rows())),
		zap.String("masked", FormatPercent(res.PercentMasked)),
		zap.Float64("skyView", res.SkyView()))
	return res, nil
}

// cachedPatch is the part of a PatchResult that is worth caching.
// Failed tests are never cached, so it has no error.
type cachedPatch struct {
	State    Occlusion
	Distance float64
}

func toCache(result OcclusionResult) []cachedPatch {
	cached := make([]cachedPatch, len(result))
	for i, pr := range result {
		cached[i] = cachedPatch{pr.State, pr.Distance}
	}
	return cached
}
