package main

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// assertBetween fails t unless x is in [a, b].
func assertBetween(t *testing.T, msg string, x, a, b float64) {
	t.Helper()
	if a <= x && x <= b {
		return
	}
	t.Errorf("got %s = %v, want in range [%v, %v]", msg, x, a, b)
}

func assertNear(t *testing.T, msg string, got, want r3.Vec, tol float64) {
	t.Helper()
	if r3.Norm(r3.Sub(got, want)) > tol {
		t.Errorf("got %s = %v, want %v ± %v", msg, got, want, tol)
	}
}

// squareMesh returns a horizontal square of side 2·half centered at c.
func squareMesh(c r3.Vec, half float64) *Mesh {
	return &Mesh{
		Verts: []r3.Vec{
			{X: c.X - half, Y: c.Y - half, Z: c.Z},
			{X: c.X + half, Y: c.Y - half, Z: c.Z},
			{X: c.X + half, Y: c.Y + half, Z: c.Z},
			{X: c.X - half, Y: c.Y + half, Z: c.Z},
		},
		Tris: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

// wallMesh returns a vertical wall in the plane y = y0 spanning
// [-half, half] in X and [z0, z1] in Z.
func wallMesh(y0, half, z0, z1 float64) *Mesh {
	return &Mesh{
		Verts: []r3.Vec{
			{X: -half, Y: y0, Z: z0},
			{X: half, Y: y0, Z: z0},
			{X: half, Y: y0, Z: z1},
			{X: -half, Y: y0, Z: z1},
		},
		Tris: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

// uvSphere returns a closed latitude/longitude sphere.
func uvSphere(center r3.Vec, radius float64, rings, segs int) *Mesh {
	m := new(Mesh)
	for i := 0; i <= rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		for j := 0; j < segs; j++ {
			phi := 2 * math.Pi * float64(j) / float64(segs)
			m.Verts = append(m.Verts, r3.Add(center, r3.Vec{
				X: radius * math.Sin(theta) * math.Cos(phi),
				Y: radius * math.Sin(theta) * math.Sin(phi),
				Z: radius * math.Cos(theta),
			}))
		}
	}
	for i := 0; i < rings; i++ {
		for j := 0; j < segs; j++ {
			a := i*segs + j
			b := i*segs + (j+1)%segs
			c := (i+1)*segs + j
			d := (i+1)*segs + (j+1)%segs
			if i > 0 {
				m.Tris = append(m.Tris, [3]int{a, c, b})
			}
			if i < rings-1 {
				m.Tris = append(m.Tris, [3]int{b, c, d})
			}
		}
	}
	return m
}

// enclosure returns a sphere of radius 10 centered on the origin. Sky
// patch rays from the origin run along its edges and through its poles.
func enclosure() *Mesh {
	return uvSphere(r3.Vec{}, 10, 12, 24)
}
