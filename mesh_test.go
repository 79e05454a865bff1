package main

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestJoinMeshes(t *testing.T) {
	a := squareMesh(r3.Vec{}, 1)
	b := squareMesh(r3.Vec{Z: 2}, 1)
	m := JoinMeshes(a, nil, b)
	if len(m.Verts) != 8 || len(m.Tris) != 4 {
		t.Fatalf("joined mesh has %d verts and %d tris, want 8 and 4", len(m.Verts), len(m.Tris))
	}
	for i := 0; i < 2; i++ {
		if got, want := m.Triangle(2+i), b.Triangle(i); got != want {
			t.Errorf("triangle %d = %v, want %v", 2+i, got, want)
		}
	}
	if !JoinMeshes().Empty() {
		t.Error("join of no meshes isn't empty")
	}
}

func TestMeshArea(t *testing.T) {
	m := JoinMeshes(squareMesh(r3.Vec{}, 1), squareMesh(r3.Vec{Z: 2}, 0.5))
	if got := m.Area(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Area = %v, want 5", got)
	}
	s := uvSphere(r3.Vec{}, 1, 32, 64)
	assertBetween(t, "sphere area", s.Area(), 0.99*4*math.Pi, 4*math.Pi)
}

func TestMeshCentroid(t *testing.T) {
	c, err := squareMesh(r3.Vec{X: 3, Y: -2, Z: 1}, 2).Centroid()
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "square centroid", c, r3.Vec{X: 3, Y: -2, Z: 1}, 1e-12)

	// Area weighting pulls the centroid toward the larger square.
	c, err = JoinMeshes(squareMesh(r3.Vec{}, 1), squareMesh(r3.Vec{Z: 3}, 2)).Centroid()
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "weighted centroid", c, r3.Vec{Z: 3 * 16.0 / 20}, 1e-12)

	degenerate := &Mesh{
		Verts: []r3.Vec{{}, {X: 1}, {X: 2}},
		Tris:  [][3]int{{0, 1, 2}},
	}
	if _, err := degenerate.Centroid(); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("got error %v, want ErrDegenerateGeometry", err)
	}
	if _, err := new(Mesh).Centroid(); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("got error %v for empty mesh, want ErrDegenerateGeometry", err)
	}
}

func TestMeshBounds(t *testing.T) {
	if _, _, ok := new(Mesh).Bounds(); ok {
		t.Error("empty mesh has bounds")
	}
	min, max, ok := JoinMeshes(squareMesh(r3.Vec{}, 1), wallMesh(4, 2, -1, 6)).Bounds()
	if !ok {
		t.Fatal("no bounds")
	}
	assertNear(t, "min", min, r3.Vec{X: -2, Y: -1, Z: -1}, 0)
	assertNear(t, "max", max, r3.Vec{X: 2, Y: 4, Z: 6}, 0)
}
