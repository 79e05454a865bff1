package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// A Mesh is an indexed triangle mesh. The coordinate system is the same
// as SkyModel's: X east, Y north, Z up.
type Mesh struct {
	Header string

	Verts []r3.Vec
	Tris  [][3]int
}

// Triangle returns the i'th triangle of m.
func (m *Mesh) Triangle(i int) r3.Triangle {
	idxs := m.Tris[i]
	return r3.Triangle{m.Verts[idxs[0]], m.Verts[idxs[1]], m.Verts[idxs[2]]}
}

// Empty reports whether m has no triangles.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Tris) == 0
}

// JoinMeshes appends meshes into a single mesh. Vertices are not
// welded, so each input keeps its own vertex range.
func JoinMeshes(meshes ...*Mesh) *Mesh {
	out := new(Mesh)
	for _, m := range meshes {
		if m == nil {
			continue
		}
		base := len(out.Verts)
		out.Verts = append(out.Verts, m.Verts...)
		for _, tri := range m.Tris {
			out.Tris = append(out.Tris, [3]int{tri[0] + base, tri[1] + base, tri[2] + base})
		}
	}
	return out
}

func triArea(tri *r3.Triangle) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0])))
}

func triCentroid(tri *r3.Triangle) r3.Vec {
	return r3.Scale(1.0/3, r3.Add(r3.Add(tri[0], tri[1]), tri[2]))
}

// Area returns the surface area of m.
func (m *Mesh) Area() float64 {
	var area float64
	for i := range m.Tris {
		tri := m.Triangle(i)
		area += triArea(&tri)
	}
	return area
}

// Centroid returns the area centroid of m's surface. It fails with
// ErrDegenerateGeometry if m has no area.
func (m *Mesh) Centroid() (r3.Vec, error) {
	var sum r3.Vec
	var area float64
	for i := range m.Tris {
		tri := m.Triangle(i)
		a := triArea(&tri)
		sum = r3.Add(sum, r3.Scale(a, triCentroid(&tri)))
		area += a
	}
	if area == 0 || math.IsNaN(area) {
		return r3.Vec{}, fmt.Errorf("centroid of %d triangles: %w", len(m.Tris), ErrDegenerateGeometry)
	}
	return r3.Scale(1/area, sum), nil
}

// Bounds returns the axis-aligned bounding box of m's vertices.
func (m *Mesh) Bounds() (min, max r3.Vec, ok bool) {
	if len(m.Verts) == 0 {
		return min, max, false
	}
	min, max = m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		min = r3.Vec{X: math.Min(min.X, v.X), Y: math.Min(min.Y, v.Y), Z: math.Min(min.Z, v.Z)}
		max = r3.Vec{X: math.Max(max.X, v.X), Y: math.Max(max.Y, v.Y), Z: math.Max(max.Z, v.Z)}
	}
	return min, max, true
}
