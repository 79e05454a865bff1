package main

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// contactEpsilon is the smallest ray distance that counts as a hit.
// Hits closer than this are contact with the surface the ray starts on,
// so a viewpoint resting on a ground plane isn't masked by it. The same
// value bounds the determinant for rays grazing a triangle's plane.
const contactEpsilon = 0.0000001

// baryEpsilon widens each triangle by a sliver in barycentric
// coordinates. A ray along an edge shared by two triangles would
// otherwise be rounded out of both and leak through a closed mesh.
const baryEpsilon = 1e-9

type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec // Must be normalized
}

// IntersectMesh returns the distance along r to the nearest triangle of
// m that it hits.
func (r *Ray) IntersectMesh(m *Mesh) (t float64, ok bool) {
	var minT float64
	haveMin := false
	for i := range m.Tris {
		tri := m.Triangle(i)
		t, ok := r.IntersectTriangle(&tri)
		if !ok {
			continue
		}
		if !haveMin || t < minT {
			minT, haveMin = t, true
		}
	}
	return minT, haveMin
}

func (r *Ray) IntersectTriangle(tri *r3.Triangle) (t float64, ok bool) {
	// Möller–Trumbore intersection, based on Wikipedia implementation
	// and the Scratchapixel implementation.
	edge1 := r3.Sub(tri[1], tri[0])
	edge2 := r3.Sub(tri[2], tri[0])
	h := r3.Cross(r.Dir, edge2)
	det := r3.Dot(edge1, h)
	// If the determinant is negative, this is the "back" of the triangle.
	// If the determinant is close to 0, the ray is parallel to the plane
	// of the triangle.
	if det > -contactEpsilon && det < contactEpsilon {
		return 0, false
	}
	invDet := 1 / det
	s := r3.Sub(r.Origin, tri[0])
	u := invDet * r3.Dot(s, h)
	if u < -baryEpsilon || u > 1+baryEpsilon {
		return 0, false
	}
	q := r3.Cross(s, edge1)
	v := invDet * r3.Dot(r.Dir, q)
	if v < -baryEpsilon || u+v > 1+baryEpsilon {
		return 0, false
	}
	// t is the distance on the ray to the intersection point.
	t = invDet * r3.Dot(edge2, q)
	if t < contactEpsilon {
		// There is a line intersection but not a ray intersection.
		return 0, false
	}
	return t, true
}

// HitsBox reports whether r passes through the axis-aligned box
// [min, max] at a non-negative distance.
func (r *Ray) HitsBox(min, max r3.Vec) bool {
	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	bMin := [3]float64{min.X, min.Y, min.Z}
	bMax := [3]float64{max.X, max.Y, max.Z}

	// Slab test.
	tMin, tMax := 0.0, math.Inf(1)
	for i := range o {
		if d[i] == 0 {
			if o[i] < bMin[i] || o[i] > bMax[i] {
				return false
			}
			continue
		}
		t0, t1 := (bMin[i]-o[i])/d[i], (bMax[i]-o[i])/d[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin, tMax = math.Max(tMin, t0), math.Min(tMax, t1)
		if tMin > tMax {
			return false
		}
	}
	return true
}

