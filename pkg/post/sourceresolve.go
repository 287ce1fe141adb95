package post

import (
	"github.com/dhconnelly/rtreego"

	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
)

const rtreeMinChildren = 2
const rtreeMaxChildren = 8

// sourcePoint adapts a source vertex to rtreego.Spatial so it can be
// indexed and queried by nearest-neighbor.
type sourcePoint struct {
	pos    geom.Vec3
	source kernel.SourceNode
	rect   rtreego.Rect
}

func newSourcePoint(pos geom.Vec3, source kernel.SourceNode) *sourcePoint {
	const epsilon = 1e-6
	rect, _ := rtreego.NewRect(
		rtreego.Point{pos.X, pos.Y, pos.Z},
		[]float64{epsilon, epsilon, epsilon},
	)
	return &sourcePoint{pos: pos, source: source, rect: rect}
}

func (p *sourcePoint) Bounds() rtreego.Rect { return p.rect }

// SourceResolver is the concrete kernel.SourceResolver: it indexes the
// object's known source vertices in an R-tree and assigns each triangle
// the source of its centroid's nearest neighbor. The R-tree pays off here
// because a finished object can carry many thousands of triangles, unlike
// the small per-boolean-step lookups in pkg/csg.
type SourceResolver struct{}

// NewSourceResolver returns a ready-to-use resolver.
func NewSourceResolver() *SourceResolver { return &SourceResolver{} }

// ResolveTriangleSourceNodes implements kernel.SourceResolver.
func (r *SourceResolver) ResolveTriangleSourceNodes(obj *kernel.Object) {
	if len(obj.VertexSourceNodes) == 0 {
		return
	}

	tree := rtreego.NewTree(3, rtreeMinChildren, rtreeMaxChildren)
	for i, src := range obj.VertexSourceNodes {
		if i >= len(obj.Vertices) {
			break
		}
		tree.Insert(newSourcePoint(obj.Vertices[i], src))
	}

	obj.TriangleSourceNodes = make([]kernel.SourceNode, len(obj.Triangles))
	for ti, f := range obj.Triangles {
		centroid := faceCentroid(obj.Vertices, f)
		results := tree.NearestNeighbor(rtreego.Point{centroid.X, centroid.Y, centroid.Z})
		if results == nil {
			continue
		}
		obj.TriangleSourceNodes[ti] = results.(*sourcePoint).source
	}
}

func faceCentroid(vertices []geom.Vec3, f kernel.Face) geom.Vec3 {
	var c geom.Vec3
	for _, idx := range f {
		c = geom.Add(c, vertices[idx])
	}
	return geom.Scale(c, 1/float64(len(f)))
}
