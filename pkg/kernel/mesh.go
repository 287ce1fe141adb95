// Package kernel defines the mesh data model and the abstract contracts the
// generation pipeline drives: CSG combination, quad recombination, welding,
// triangulation, smooth-normal generation and source-node resolution.
// Concrete implementations live in pkg/csg and pkg/post; kernel only
// describes the shapes they operate on and the interfaces they satisfy,
// the way pkg/kernel in the teacher separated the abstract Kernel/Solid
// contract from its sdfx/manifold backends.
package kernel

import "github.com/nyx-lab/meshforge/pkg/geom"

// Face is a triangle (3 indices) or a quad (4 indices) into a Mesh's
// Vertices slice.
type Face []int

// Mesh is a combinable polygon mesh flowing through part building, CSG
// combination and post-processing. It carries enough provenance
// (SourceNodes, per-face quad-diagonal markers) to support quad recovery
// and colorization after a lossy boolean step.
type Mesh struct {
	Vertices []geom.Vec3
	Faces    []Face

	// SourceNodes holds, per vertex, the (partID, nodeID) pair it was
	// generated from. Used for colorization; approximate after a CSG step
	// remeshes the surface.
	SourceNodes []SourceNode

	// SharedQuadEdges records the diagonal position-key pairs of every
	// quad face present before this mesh was fed to a CSG step, so quad
	// recovery can later identify which triangle pairs used to be a
	// single quad.
	SharedQuadEdges map[geom.PositionKeyPair]bool

	// NoneSeamVertices holds the position keys of vertices that existed
	// before any CSG step touched this mesh; welding must never merge
	// these away, since they are not welding seams.
	NoneSeamVertices map[geom.PositionKey]bool

	// Combinable is false when the CSG engine reported this mesh (or the
	// operation that produced it) as non-manifold; such meshes are routed
	// to a component's incombinable set instead of being combined further.
	Combinable bool
}

// SourceNode names the part and node a piece of geometry was generated
// from.
type SourceNode struct {
	PartID string
	NodeID string
}

// Clone returns a deep copy of m so cache reads never alias a mutable mesh
// into two owners.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{
		Vertices:    append([]geom.Vec3(nil), m.Vertices...),
		SourceNodes: append([]SourceNode(nil), m.SourceNodes...),
		Combinable:  m.Combinable,
	}
	out.Faces = make([]Face, len(m.Faces))
	for i, f := range m.Faces {
		out.Faces[i] = append(Face(nil), f...)
	}
	if m.SharedQuadEdges != nil {
		out.SharedQuadEdges = make(map[geom.PositionKeyPair]bool, len(m.SharedQuadEdges))
		for k, v := range m.SharedQuadEdges {
			out.SharedQuadEdges[k] = v
		}
	}
	if m.NoneSeamVertices != nil {
		out.NoneSeamVertices = make(map[geom.PositionKey]bool, len(m.NoneSeamVertices))
		for k, v := range m.NoneSeamVertices {
			out.NoneSeamVertices[k] = v
		}
	}
	return out
}

// IsNull reports whether m carries no geometry.
func (m *Mesh) IsNull() bool {
	return m == nil || len(m.Vertices) == 0 || len(m.Faces) == 0
}

// IsCombinable reports whether m can still participate in further CSG
// combination.
func (m *Mesh) IsCombinable() bool {
	return m != nil && m.Combinable
}

// Method is a CSG boolean operator.
type Method int

const (
	MethodUnion Method = iota
	MethodDiff
	MethodIntersection
)

// ObjectNode carries one skeleton node's authored parameters through to the
// final Object, independent of the surface geometry it produced. Downstream
// tooling (editors, exporters) uses this to relate output geometry back to
// the skeleton a user actually authored.
type ObjectNode struct {
	PartID   string
	NodeID   string
	Position geom.Vec3
	Radius   float64
	Color    [3]float64
	Joined   bool
}

// ObjectEdge connects two ObjectNode endpoints, identified by their
// (partID, nodeID) pair, that were adjacent in the authored skeleton.
type ObjectEdge struct {
	From SourceNode
	To   SourceNode
}

// Object is the final generation output. Triangles holds the fully
// triangulated geometry that every per-triangle array (TriangleNormals,
// TriangleColors, ...) is indexed against; TriangleAndQuads is the
// separate, where-recoverable re-quadded surface meant for display and
// export. Nodes and Edges mirror the authored skeleton that produced the
// surface, and MeshID is an opaque identifier the caller supplies to a
// generation request and gets back unchanged, for matching an Object to
// the request that produced it.
type Object struct {
	Vertices              []geom.Vec3
	Triangles             []Face
	TriangleAndQuads      []Face
	TriangleNormals       []geom.Vec3
	TriangleVertexNormals [][]geom.Vec3
	TriangleColors        [][3]float64
	TriangleSourceNodes   []SourceNode
	VertexSourceNodes     []SourceNode
	Nodes                 []ObjectNode
	Edges                 []ObjectEdge
	MeshID                uint64
	IsSuccessful          bool
}
