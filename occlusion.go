package main

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Occlusion is the outcome of testing one sky patch.
type Occlusion uint8

const (
	Visible Occlusion = iota
	Masked
	// Unknown means the test itself failed, for example because the
	// patch has no area. Aggregation counts it as visible.
	Unknown
)

func (o Occlusion) String() string {
	switch o {
	case Visible:
		return "visible"
	case Masked:
		return "masked"
	case Unknown:
		return "unknown"
	}
	return fmt.Sprintf("Occlusion(%d)", uint8(o))
}

// PatchResult is the occlusion test result for a single patch.
type PatchResult struct {
	State Occlusion
	// Distance is how far the patch's ray travels before it hits the
	// occluder. It is only set if State is Masked.
	Distance float64
	Err      error // Set iff State is Unknown
}

// OcclusionResult holds one PatchResult per patch, in patch order.
type OcclusionResult []PatchResult

// States returns just the occlusion states of r.
func (r OcclusionResult) States() []Occlusion {
	states := make([]Occlusion, len(r))
	for i, pr := range r {
		states[i] = pr.State
	}
	return states
}

// Distances returns the obstruction distance of each patch, or 0 for
// patches that aren't masked.
func (r OcclusionResult) Distances() []float64 {
	dists := make([]float64, len(r))
	for i, pr := range r {
		if pr.State == Masked {
			dists[i] = pr.Distance
		}
	}
	return dists
}

// Failed returns the indexes of patches whose test failed.
func (r OcclusionResult) Failed() []int {
	var failed []int
	for i, pr := range r {
		if pr.State == Unknown {
			failed = append(failed, i)
		}
	}
	return failed
}

// Err combines the errors of all failed patches, or returns nil.
func (r OcclusionResult) Err() error {
	var err error
	for _, pr := range r {
		err = multierr.Append(err, pr.Err)
	}
	return err
}

// An Occluder is the combined context geometry that blocks the sky.
// It is read-only once built and safe for concurrent use.
type Occluder struct {
	mesh     *Mesh
	min, max r3.Vec
	ok       bool
}

// NewOccluder joins meshes into a single occluder.
func NewOccluder(meshes ...*Mesh) *Occluder {
	o := &Occluder{mesh: JoinMeshes(meshes...)}
	o.min, o.max, o.ok = o.mesh.Bounds()
	return o
}

// Mesh returns the joined occluder mesh.
func (o *Occluder) Mesh() *Mesh {
	return o.mesh
}

// Nearest returns the distance along ray to the closest point where
// it hits the occluder.
func (o *Occluder) Nearest(ray *Ray) (float64, bool) {
	if !o.ok || !ray.HitsBox(o.min, o.max) {
		return 0, false
	}
	return ray.IntersectMesh(o.mesh)
}

// OcclusionOptions configures ComputeOcclusion.
type OcclusionOptions struct {
	Workers int // Number of concurrent tests; 0 means GOMAXPROCS
	Tess    Tessellation
	Log     *zap.Logger
}

type patchOutcome struct {
	i   int
	res PatchResult
}

// ComputeOcclusion casts a ray from viewpoint through the centroid of
// each patch and reports whether occ blocks it, and if so how far
// away. The result has one
// entry per patch, in the same order as patches.
//
// Patches are tested concurrently. A patch whose test fails is
// reported as Unknown and doesn't affect the others. If ctx is
// cancelled before all patches are tested, ComputeOcclusion returns
// ctx.Err().
func ComputeOcclusion(ctx context.Context, viewpoint r3.Vec, occ *Occluder, patches []*SkyPatch, opts OcclusionOptions) (OcclusionResult, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(patches) {
		workers = len(patches)
	}

	// Workers only read viewpoint, occ, and patches. Each outcome is
	// sent back with its index and only this goroutine writes result.
	jobs := make(chan int)
	outcomes := make(chan patchOutcome, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes <- patchOutcome{i, testPatch(i, viewpoint, occ, patches[i], opts.Tess)}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := range patches {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	result := make(OcclusionResult, len(patches))
	for o := range outcomes {
		result[o.i] = o.res
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, i := range result.Failed() {
		log.Warn("sky patch test failed; counting it as visible",
			zap.Int("patch", i), zap.Error(result[i].Err))
	}
	log.Debug("occlusion computed",
		zap.Int("patches", len(patches)),
		zap.Int("workers", workers),
		zap.Int("failed", len(result.Failed())))
	return result, nil
}

func testPatch(i int, viewpoint r3.Vec, occ *Occluder, p *SkyPatch, tess Tessellation) (res PatchResult) {
	defer func() {
		if err := recover(); err != nil {
			res = PatchResult{State: Unknown, Err: fmt.Errorf("sky patch %d: %v", i, err)}
		}
	}()

	centroid, err := p.Centroid(tess)
	if err != nil {
		return PatchResult{State: Unknown, Err: err}
	}
	dir := r3.Sub(centroid, viewpoint)
	if r3.Norm(dir) == 0 {
		return PatchResult{State: Unknown, Err: fmt.Errorf("sky patch %d: centroid at viewpoint: %w", i, ErrDegenerateGeometry)}
	}
	ray := Ray{Origin: viewpoint, Dir: r3.Unit(dir)}
	if d, ok := occ.Nearest(&ray); ok {
		return PatchResult{State: Masked, Distance: d}
	}
	return PatchResult{State: Visible}
}
