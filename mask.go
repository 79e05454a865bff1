package main

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// SkyMaskResult is the masked and visible portions of a sky dome.
type SkyMaskResult struct {
	// Dome is the dome the meshes are cut from. Its patches line up
	// index for index with States.
	Dome   *SkyDome
	States []Occlusion

	// Distances holds how far each masked patch's ray travels before
	// it is blocked, and 0 for the other patches.
	Distances []float64

	Masked, Visible *Mesh

	MaskedArea, TotalArea float64

	// PercentMasked and PercentVisible are rounded to two decimal
	// places and sum to 100.
	PercentMasked, PercentVisible float64

	// Failed lists patches whose occlusion test failed. They are
	// included in Visible.
	Failed []int
}

// SkyView returns the sky view factor, the visible fraction of the sky
// in [0, 1].
func (r *SkyMaskResult) SkyView() float64 {
	return r.PercentVisible / 100
}

// NearestObstruction returns the shortest distance at which any patch
// is blocked. ok is false if no patch is masked.
func (r *SkyMaskResult) NearestObstruction() (dist float64, ok bool) {
	for i, s := range r.States {
		if s != Masked {
			continue
		}
		if !ok || r.Distances[i] < dist {
			dist, ok = r.Distances[i], true
		}
	}
	return dist, ok
}

// FormatPercent formats a percentage the way results are reported.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Aggregate splits the patches of reference into masked and visible
// meshes according to result and computes the masked share of the sky.
// result must have been computed against a dome with the same density
// as reference.
func Aggregate(reference *SkyDome, result OcclusionResult, tess Tessellation) (*SkyMaskResult, error) {
	if len(result) != len(reference.Patches) {
		return nil, fmt.Errorf("%d occlusion results for %d sky patches: %w", len(result), len(reference.Patches), ErrInvalidArgument)
	}

	meshes := lo.Map(reference.Patches, func(p *SkyPatch, _ int) *Mesh {
		return p.Mesh(tess)
	})
	masked := lo.Filter(meshes, func(_ *Mesh, i int) bool {
		return result[i].State == Masked
	})
	visible := lo.Reject(meshes, func(_ *Mesh, i int) bool {
		return result[i].State == Masked
	})

	out := &SkyMaskResult{
		Dome:    reference,
		States:    result.States(),
		Distances: result.Distances(),
		Masked:    JoinMeshes(masked...),
		Visible:   JoinMeshes(visible...),
		Failed:    result.Failed(),
	}
	out.MaskedArea = out.Masked.Area()
	out.TotalArea = JoinMeshes(meshes...).Area()
	if out.TotalArea == 0 {
		return nil, fmt.Errorf("sky dome has no area: %w", ErrDegenerateGeometry)
	}

	out.PercentMasked = round2(100 * out.MaskedArea / out.TotalArea)
	out.PercentVisible = round2(100 - out.PercentMasked)
	return out, nil
}
