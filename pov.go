package main

import (
	"bufio"
	"fmt"
	"io"
	"text/template"

	"gonum.org/v1/gonum/spatial/r3"
)

// ToPOV writes m as a POV-Ray mesh2 object.
func (m *Mesh) ToPOV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "mesh2 {\n")
	fmt.Fprintf(bw, "  vertex_vectors {\n")
	fmt.Fprintf(bw, "    %d,\n", len(m.Verts))
	for _, vert := range m.Verts {
		// Reorder the vertexes to align our Z-up coordinate system
		// with POV-Ray's Y-up system.
		fmt.Fprintf(bw, "    <%v, %v, %v>,\n", vert.X, vert.Z, vert.Y)
	}
	fmt.Fprintf(bw, "  }\n")
	fmt.Fprintf(bw, "  face_indices {\n")
	fmt.Fprintf(bw, "    %d,\n", len(m.Tris))
	for _, tri := range m.Tris {
		fmt.Fprintf(bw, "    <%d, %d, %d>,\n", tri[0], tri[1], tri[2])
	}
	fmt.Fprintf(bw, "  }\n")
	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}

// WritePOV writes a POV-Ray scene showing the masked and visible sky
// over the context geometry, viewed from above.
func (r *SkyMaskResult) WritePOV(w io.Writer, contextMeshes []*Mesh) error {
	c := r.Dome.Center
	args := struct {
		Center r3.Vec
		Radius float64
	}{c, r.Dome.Scale}
	if err := povSceneTemplate.Execute(w, &args); err != nil {
		return err
	}

	objects := []struct {
		mesh  *Mesh
		color string
	}{
		{r.Masked, "rgb <0.004, 0.004, 0.004>"},
		{r.Visible, "rgbt <0.85, 0.85, 1, 0.4>"},
		{JoinMeshes(contextMeshes...), "rgb <0.8, 0.8, 0.8>"},
	}
	for _, o := range objects {
		if o.mesh.Empty() {
			continue
		}
		fmt.Fprintf(w, "object {\n")
		if err := o.mesh.ToPOV(w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\ttexture { pigment { color %s } finish { ambient 0.6 } }\n}\n", o.color); err != nil {
			return err
		}
	}
	return nil
}

var povSceneTemplate = template.Must(template.New("pov").Parse(`#version 3.7;

global_settings {
	assumed_gamma 1.0
}

background { color rgb <0.1, 0.1, 0.12> }

#declare DomeCenter = <{{.Center.X}}, {{.Center.Z}}, {{.Center.Y}}>;

camera {
	location DomeCenter + <0, {{.Radius}} * 2.5, -{{.Radius}} * 1.5>
	look_at DomeCenter
}

light_source {
	DomeCenter + <{{.Radius}}, {{.Radius}} * 3, -{{.Radius}}>
	color rgb <1, 1, 1>
}

// Compass: north points along +Z in POV-Ray coordinates.
cylinder {
	DomeCenter, DomeCenter + <0, 0, {{.Radius}} * 1.1>, {{.Radius}} / 100
	texture { pigment { color rgb <0, 0, 1> } }
}
`))
