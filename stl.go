package main

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

type stlHeader struct {
	H    [80]byte
	NTri uint32
}

// ReadSTL reads a binary STL file. Identical vertices are merged.
func ReadSTL(r io.Reader) (*Mesh, error) {
	m := new(Mesh)

	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	m.Header = strings.TrimRight(string(header.H[:]), " \x00")

	vertMap := make(map[[3]float32]int)

	var vert [3]float32
	var tri [3]int
	triBuf := make([]byte, 4*3*4+2)
	for i := 0; i < int(header.NTri); i++ {
		// Read a triangle
		if _, err := io.ReadFull(r, triBuf); err != nil {
			return nil, err
		}
		// Read the vertexes.
		for v := range tri {
			// Read the coordinates of this vertex.
			for c := range vert {
				const start = 3 * 4 // Skip normal
				vert[c] = math.Float32frombits(binary.LittleEndian.Uint32(triBuf[start+12*v+4*c:]))
			}
			// Add the vertex to the vertex set.
			vertIndex, ok := vertMap[vert]
			if !ok {
				vertIndex = len(m.Verts)
				m.Verts = append(m.Verts, r3.Vec{X: float64(vert[0]), Y: float64(vert[1]), Z: float64(vert[2])})
				vertMap[vert] = vertIndex
			}
			tri[v] = vertIndex
		}
		// Add the triangle.
		m.Tris = append(m.Tris, tri)
	}

	return m, nil
}

// WriteSTL writes m as a binary STL file.
func (m *Mesh) WriteSTL(w io.Writer) error {
	bw := bufio.NewWriter(w)

	var header stlHeader
	copy(header.H[:], m.Header)
	header.NTri = uint32(len(m.Tris))
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return err
	}

	triBuf := make([]byte, 4*3*4+2)
	put := func(off int, v r3.Vec) {
		binary.LittleEndian.PutUint32(triBuf[off:], math.Float32bits(float32(v.X)))
		binary.LittleEndian.PutUint32(triBuf[off+4:], math.Float32bits(float32(v.Y)))
		binary.LittleEndian.PutUint32(triBuf[off+8:], math.Float32bits(float32(v.Z)))
	}
	for i := range m.Tris {
		tri := m.Triangle(i)
		n := r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0]))
		if r3.Norm(n) > 0 {
			n = r3.Unit(n)
		}
		put(0, n)
		for v := range tri {
			put(12+12*v, tri[v])
		}
		// Attribute byte count stays zero.
		if _, err := bw.Write(triBuf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
