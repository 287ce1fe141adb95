package csg

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"

	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
)

// meshCells controls marching-cubes tessellation resolution when
// remeshing a boolean result. Higher values cost more time and memory but
// track the operands' surfaces more closely.
const meshCells = 128

// Combiner implements kernel.Combiner using sdfx's SDF boolean operators.
type Combiner struct {
	// Cells overrides meshCells when non-zero, mainly for fast tests.
	Cells int
}

// New returns a ready-to-use Combiner at default resolution.
func New() *Combiner { return &Combiner{} }

// Combine implements kernel.Combiner.
func (c *Combiner) Combine(a, b *kernel.Mesh, method kernel.Method) (*kernel.Mesh, error) {
	if a.IsNull() || b.IsNull() {
		return nil, fmt.Errorf("csg: cannot combine with a null operand")
	}

	sa := newMeshSDF(a)
	sb := newMeshSDF(b)

	var combined sdf.SDF3
	switch method {
	case kernel.MethodUnion:
		combined = sdf.Union3D(sa, sb)
	case kernel.MethodDiff:
		combined = sdf.Difference3D(sa, sb)
	case kernel.MethodIntersection:
		combined = sdf.Intersect3D(sa, sb)
	default:
		return nil, fmt.Errorf("csg: unknown method %d", method)
	}

	cells := c.Cells
	if cells == 0 {
		cells = meshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(combined, renderer)
	if len(triangles) == 0 {
		return nil, nil
	}

	out := &kernel.Mesh{
		Vertices:   make([]geom.Vec3, 0, len(triangles)*3),
		Faces:      make([]kernel.Face, 0, len(triangles)),
		Combinable: true,
	}
	sourceLookup := newNearestSourceLookup(a, b)
	for _, tri := range triangles {
		base := len(out.Vertices)
		for j := 0; j < 3; j++ {
			v := geom.Vec3{X: tri[j].X, Y: tri[j].Y, Z: tri[j].Z}
			out.Vertices = append(out.Vertices, v)
			out.SourceNodes = append(out.SourceNodes, sourceLookup.nearest(v))
		}
		out.Faces = append(out.Faces, kernel.Face{base, base + 1, base + 2})
	}
	return out, nil
}

// nearestSourceLookup does a linear nearest-vertex search across both
// operands' source vertices. Meshes here are small (per-part sweep output,
// not scanned scenes), so a linear scan is simpler than building a spatial
// index for every boolean step; pkg/post uses an R-tree instead, where the
// final object's much larger triangle count makes the index worthwhile.
type nearestSourceLookup struct {
	positions []geom.Vec3
	sources   []kernel.SourceNode
}

func newNearestSourceLookup(a, b *kernel.Mesh) *nearestSourceLookup {
	l := &nearestSourceLookup{}
	l.positions = append(l.positions, a.Vertices...)
	l.sources = append(l.sources, a.SourceNodes...)
	l.positions = append(l.positions, b.Vertices...)
	l.sources = append(l.sources, b.SourceNodes...)
	return l
}

func (l *nearestSourceLookup) nearest(p geom.Vec3) kernel.SourceNode {
	if len(l.positions) == 0 {
		return kernel.SourceNode{}
	}
	best := 0
	bestDist := geom.Sub(l.positions[0], p).Length()
	for i := 1; i < len(l.positions); i++ {
		d := geom.Sub(l.positions[i], p).Length()
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < len(l.sources) {
		return l.sources[best]
	}
	return kernel.SourceNode{}
}
