package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// tregenzaBands is the number of equal-azimuth patches in each band of
// the Tregenza sky, from the horizon up. The zenith cap is not
// included.
var tregenzaBands = [...]int{30, 30, 24, 24, 18, 12, 6}

// MaxDensity is the finest supported sky subdivision. Density d has
// 145·(d+1)² patches.
const MaxDensity = 6

var (
	downAxis  = r3.Vec{Z: -1}
	eastAxis  = r3.Vec{X: 1}
	northAxis = r3.Vec{Y: 1}
)

// A SkyPatch is one cell of a SkyDome: the surface swept by revolving
// a base arc about the dome's vertical axis between two azimuths.
//
// Azimuths are in radians clockwise from north (+Y), so east is π/2.
// Altitudes are in radians above the horizon.
type SkyPatch struct {
	Index int // Position in the dome, row-major
	Row   int

	Center r3.Vec

	// Arc is the start, middle, and end of the base arc at azimuth
	// 0. The arc runs upward from the lower edge of the row.
	Arc [3]r3.Vec

	StartAzimuth, EndAzimuth float64
	MinAltitude, MaxAltitude float64
}

// A SkyRow describes one ring of patches in a SkyDome.
type SkyRow struct {
	Segments int // Number of patches in this row
	Offset   int // Index of the row's first patch

	MinAltitude, MaxAltitude float64
}

// A SkyDome is a hemisphere divided into SkyPatches.
type SkyDome struct {
	Center  r3.Vec
	Density int
	Scale   float64 // Radius of the dome

	Patches []*SkyPatch
	rows    []SkyRow
}

// rowSegments returns the number of patches in each row of a sky of
// the given density, from the horizon up.
//
// Each Tregenza band is split into density+1 rows with density+1 times
// as many patches. The zenith band is split into density+1 rows of 2k+1
// patches, counting k down to 0 at the cap, so the last row is always a
// single patch and the sky has 145·(density+1)² patches. Rows of 48
// segments throughout, as some tools use for every density, would give
// 7·48+1 = 337 patches at density 0 instead.
func rowSegments(density int) []int {
	n := density + 1
	var segs []int
	for _, band := range tregenzaBands {
		for i := 0; i < n; i++ {
			segs = append(segs, band*n)
		}
	}
	for k := n - 1; k >= 0; k-- {
		segs = append(segs, 2*k+1)
	}
	return segs
}

// PatchCount returns the number of patches in a sky of the given
// density.
func PatchCount(density int) int {
	n := 0
	for _, seg := range rowSegments(density) {
		n += seg
	}
	return n
}

// GenerateSkyDome returns a dome of radius scale centered at center.
// Domes with the same density and scale are translations of each
// other, patch for patch.
func GenerateSkyDome(center r3.Vec, density int, scale float64) (*SkyDome, error) {
	if density < 0 || density > MaxDensity {
		return nil, fmt.Errorf("sky density %d not in [0, %d]: %w", density, MaxDensity, ErrInvalidArgument)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("sky scale %v must be positive: %w", scale, ErrInvalidArgument)
	}
	if !isFinite(center) {
		return nil, fmt.Errorf("sky center %v is not finite: %w", center, ErrInvalidArgument)
	}

	segs := rowSegments(density)
	dome := &SkyDome{Center: center, Density: density, Scale: scale}

	// Every row spans two steps of the vertical angle except the
	// zenith row, which spans one. That's 2·len(segs)-1 steps in the
	// quarter circle.
	step := math.Pi / float64(2*len(segs)-1) / 2

	baseVector := northAxis
	altitude := 0.0
	for row, numSeg := range segs {
		if row == len(segs)-1 {
			step /= 2
		}
		rot := r3.NewRotation(step, eastAxis)

		var arc [3]r3.Vec
		arc[0] = r3.Add(center, r3.Scale(scale, baseVector))
		baseVector = rot.Rotate(baseVector)
		arc[1] = r3.Add(center, r3.Scale(scale, baseVector))
		baseVector = rot.Rotate(baseVector)
		arc[2] = r3.Add(center, r3.Scale(scale, baseVector))

		minAlt := altitude
		altitude += 2 * step
		dome.rows = append(dome.rows, SkyRow{
			Segments:    numSeg,
			Offset:      len(dome.Patches),
			MinAltitude: minAlt,
			MaxAltitude: altitude,
		})

		angleDiv := 2 * math.Pi / float64(numSeg)
		for seg := 0; seg < numSeg; seg++ {
			dome.Patches = append(dome.Patches, &SkyPatch{
				Index:        len(dome.Patches),
				Row:          row,
				Center:       center,
				Arc:          arc,
				StartAzimuth: float64(seg) * angleDiv,
				EndAzimuth:   float64(seg+1) * angleDiv,
				MinAltitude:  minAlt,
				MaxAltitude:  altitude,
			})
		}
	}
	return dome, nil
}

// Rows returns the row table of d, from the horizon up.
func (d *SkyDome) Rows() []SkyRow {
	return d.rows
}

// PatchAt returns the index of the patch containing the direction with
// the given altitude and azimuth, both in radians. It returns false for
// directions below the horizon.
func (d *SkyDome) PatchAt(altitude, azimuth float64) (int, bool) {
	if altitude < 0 || altitude > math.Pi/2 || len(d.rows) == 0 {
		return 0, false
	}
	azimuth = math.Mod(azimuth, 2*math.Pi)
	if azimuth < 0 {
		azimuth += 2 * math.Pi
	}
	for i, row := range d.rows {
		if altitude >= row.MaxAltitude && i < len(d.rows)-1 {
			continue
		}
		seg := int(azimuth / (2 * math.Pi / float64(row.Segments)))
		if seg >= row.Segments {
			seg = row.Segments - 1
		}
		return row.Offset + seg, true
	}
	return 0, false
}

// Tessellation controls how finely a SkyPatch is meshed.
type Tessellation struct {
	ArcSteps int     // Divisions along the base arc
	MaxSweep float64 // Largest azimuth step, in radians
}

// DefaultTessellation keeps the meshed dome area within 0.1% of a true
// hemisphere.
var DefaultTessellation = Tessellation{ArcSteps: 4, MaxSweep: math.Pi / 60}

func (t Tessellation) orDefault() Tessellation {
	if t.ArcSteps <= 0 {
		t.ArcSteps = DefaultTessellation.ArcSteps
	}
	if !(t.MaxSweep > 0) {
		t.MaxSweep = DefaultTessellation.MaxSweep
	}
	return t
}

// arcPoints returns n+1 points evenly spaced along p's base arc.
func (p *SkyPatch) arcPoints(n int) []r3.Vec {
	start := r3.Sub(p.Arc[0], p.Center)
	end := r3.Sub(p.Arc[2], p.Center)
	pts := make([]r3.Vec, n+1)
	axis := r3.Cross(start, end)
	if r3.Norm(axis) == 0 {
		// The arc has collapsed to a point.
		for i := range pts {
			pts[i] = start
		}
		return pts
	}
	cos := r3.Dot(start, end) / (r3.Norm(start) * r3.Norm(end))
	angle := math.Acos(math.Max(-1, math.Min(1, cos)))
	axis = r3.Unit(axis)
	for i := range pts {
		pts[i] = r3.NewRotation(angle*float64(i)/float64(n), axis).Rotate(start)
	}
	return pts
}

// Mesh tessellates p into a triangle mesh.
func (p *SkyPatch) Mesh(tess Tessellation) *Mesh {
	tess = tess.orDefault()
	arc := p.arcPoints(tess.ArcSteps)
	sweep := p.EndAzimuth - p.StartAzimuth
	nSweep := int(math.Ceil(sweep/tess.MaxSweep - 1e-9))
	if nSweep < 1 {
		nSweep = 1
	}

	m := new(Mesh)
	for j := 0; j <= nSweep; j++ {
		az := p.StartAzimuth + sweep*float64(j)/float64(nSweep)
		rot := r3.NewRotation(az, downAxis)
		for _, q := range arc {
			m.Verts = append(m.Verts, r3.Add(p.Center, rot.Rotate(q)))
		}
	}

	// Vertices are laid out one arc per azimuth step. Triangles whose
	// area vanishes (the pole of the zenith cap) are dropped.
	rows := len(arc)
	minArea := 1e-12 * r3.Norm2(r3.Sub(p.Arc[0], p.Center))
	add := func(a, b, c int) {
		tri := r3.Triangle{m.Verts[a], m.Verts[b], m.Verts[c]}
		if triArea(&tri) > minArea {
			m.Tris = append(m.Tris, [3]int{a, b, c})
		}
	}
	for j := 0; j < nSweep; j++ {
		for i := 0; i < rows-1; i++ {
			a := j*rows + i
			b := (j+1)*rows + i
			add(a, a+1, b)
			add(b, a+1, b+1)
		}
	}
	return m
}

// Centroid returns the area centroid of p's tessellated surface.
func (p *SkyPatch) Centroid(tess Tessellation) (r3.Vec, error) {
	c, err := p.Mesh(tess).Centroid()
	if err != nil {
		return c, fmt.Errorf("sky patch %d: %w", p.Index, err)
	}
	return c, nil
}

func isFinite(v r3.Vec) bool {
	for _, x := range [...]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
