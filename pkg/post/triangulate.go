package post

import "github.com/nyx-lab/meshforge/pkg/kernel"

// Triangulator is the concrete kernel.Triangulator: it fan-splits every
// quad face into two triangles, leaving existing triangles untouched.
type Triangulator struct{}

// NewTriangulator returns a ready-to-use Triangulator.
func NewTriangulator() *Triangulator { return &Triangulator{} }

// Triangulate implements kernel.Triangulator.
func (t *Triangulator) Triangulate(m *kernel.Mesh) *kernel.Mesh {
	if m == nil {
		return nil
	}
	out := &kernel.Mesh{
		Vertices:    m.Vertices,
		SourceNodes: m.SourceNodes,
		Combinable:  m.Combinable,
	}
	for _, f := range m.Faces {
		switch len(f) {
		case 3:
			out.Faces = append(out.Faces, f)
		case 4:
			out.Faces = append(out.Faces, kernel.Face{f[0], f[1], f[2]})
			out.Faces = append(out.Faces, kernel.Face{f[0], f[2], f[3]})
		default:
			for i := 1; i < len(f)-1; i++ {
				out.Faces = append(out.Faces, kernel.Face{f[0], f[i], f[i+1]})
			}
		}
	}
	return out
}
