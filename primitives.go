package main

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// defaultMeshCells is the marching cubes resolution used to mesh
// context primitives, in cells along the longest side.
const defaultMeshCells = 48

// BoxMesh returns a box of the given size centered at center.
func BoxMesh(center, size r3.Vec, cells int) (*Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, 0)
	if err != nil {
		return nil, fmt.Errorf("box %v: %v: %w", size, err, ErrInvalidArgument)
	}
	return sdfMesh(s, center, cells), nil
}

// SphereMesh returns a sphere centered at center.
func SphereMesh(center r3.Vec, radius float64, cells int) (*Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere of radius %v: %v: %w", radius, err, ErrInvalidArgument)
	}
	return sdfMesh(s, center, cells), nil
}

// CylinderMesh returns a vertical cylinder centered at center.
func CylinderMesh(center r3.Vec, height, radius float64, cells int) (*Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder %vx%v: %v: %w", height, radius, err, ErrInvalidArgument)
	}
	return sdfMesh(s, center, cells), nil
}

// sdfMesh moves s to center and meshes it with marching cubes.
func sdfMesh(s sdf.SDF3, center r3.Vec, cells int) *Mesh {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: center.X, Y: center.Y, Z: center.Z}))
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	m := new(Mesh)
	vertMap := make(map[v3.Vec]int)
	for _, tri := range triangles {
		var idxs [3]int
		for j := 0; j < 3; j++ {
			v := tri[j]
			idx, ok := vertMap[v]
			if !ok {
				idx = len(m.Verts)
				m.Verts = append(m.Verts, r3.Vec{X: v.X, Y: v.Y, Z: v.Z})
				vertMap[v] = idx
			}
			idxs[j] = idx
		}
		if idxs[0] == idxs[1] || idxs[1] == idxs[2] || idxs[0] == idxs[2] {
			continue
		}
		m.Tris = append(m.Tris, idxs)
	}
	return m
}
