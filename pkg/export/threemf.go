// Package export writes generation output to interchange formats used by
// downstream slicers, CAD packages and cut-face previewers.
package export

import (
	"fmt"
	"io"

	"github.com/hpinc/go3mf"

	"github.com/nyx-lab/meshforge/pkg/kernel"
)

// WriteThreeMF serializes obj's triangulated surface as a 3D-Manufacturing-
// Format package, since 3MF's mesh object only carries triangles.
func WriteThreeMF(w io.Writer, obj *kernel.Object) error {
	model := &go3mf.Model{}
	mesh := &go3mf.Mesh{}

	for _, v := range obj.Vertices {
		mesh.Vertices.Vertex = append(mesh.Vertices.Vertex, go3mf.Point3D{
			float32(v.X), float32(v.Y), float32(v.Z),
		})
	}
	for _, f := range obj.Triangles {
		if len(f) != 3 {
			continue
		}
		mesh.Triangles.Triangle = append(mesh.Triangles.Triangle, go3mf.Triangle{
			V1: uint32(f[0]), V2: uint32(f[1]), V3: uint32(f[2]),
		})
	}

	obj3mf := &go3mf.Object{
		ID:   1,
		Type: go3mf.ObjectTypeModel,
		Mesh: mesh,
	}
	model.Resources.Objects = append(model.Resources.Objects, obj3mf)
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: 1})

	enc := go3mf.NewEncoder(w)
	if err := enc.Encode(model); err != nil {
		return fmt.Errorf("export: writing 3mf: %w", err)
	}
	return nil
}
