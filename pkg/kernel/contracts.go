package kernel

import "github.com/nyx-lab/meshforge/pkg/geom"

// Combiner performs a boolean CSG operation between two meshes, returning
// a new mesh (or nil if the operation failed / produced non-manifold
// geometry, in which case Combinable is false on the returned mesh, if
// non-nil, or the error explains why no mesh at all could be produced).
type Combiner interface {
	Combine(a, b *Mesh, method Method) (*Mesh, error)
}

// Recombiner regenerates quad topology from a triangulated mesh, using the
// pre-CSG quad-diagonal markers carried on the mesh.
type Recombiner interface {
	Recombine(m *Mesh) (*Mesh, error)
}

// Welder merges vertices closer than threshold, excluding any position in
// protected, and reports how many vertices were removed.
type Welder interface {
	Weld(m *Mesh, threshold float64, protected map[geom.PositionKey]bool) (merged *Mesh, removed int)
}

// Triangulator splits every quad face of m into two triangles.
type Triangulator interface {
	Triangulate(m *Mesh) *Mesh
}

// SmoothNormalGenerator computes per-triangle-vertex normals with creases
// preserved past thresholdDegrees between adjacent face normals.
type SmoothNormalGenerator interface {
	SmoothNormals(obj *Object, thresholdDegrees float64)
}

// SourceResolver assigns each triangle in obj the (partID, nodeID) of the
// nearest known source vertex.
type SourceResolver interface {
	ResolveTriangleSourceNodes(obj *Object)
}
