package post

import (
	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
)

// Recombiner is the concrete kernel.Recombiner: it looks for adjacent
// triangle pairs whose shared edge is a recorded quad diagonal and merges
// them back into a single 4-gon face.
type Recombiner struct{}

// NewRecombiner returns a ready-to-use Recombiner.
func NewRecombiner() *Recombiner { return &Recombiner{} }

type edgeKey struct{ a, b geom.PositionKey }

func newEdgeKey(a, b geom.PositionKey) edgeKey {
	if b[0] < a[0] || (b[0] == a[0] && (b[1] < a[1] || (b[1] == a[1] && b[2] < a[2]))) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Recombine implements kernel.Recombiner.
func (r *Recombiner) Recombine(m *kernel.Mesh) (*kernel.Mesh, error) {
	if m == nil || len(m.SharedQuadEdges) == 0 {
		return m, nil
	}

	type triRef struct {
		faceIdx int
		verts   [3]int
	}
	byEdge := make(map[edgeKey][]triRef)

	for fi, f := range m.Faces {
		if len(f) != 3 {
			continue
		}
		for e := 0; e < 3; e++ {
			a, b := f[e], f[(e+1)%3]
			ka, kb := geom.NewPositionKey(m.Vertices[a]), geom.NewPositionKey(m.Vertices[b])
			byEdge[newEdgeKey(ka, kb)] = append(byEdge[newEdgeKey(ka, kb)], triRef{fi, [3]int{f[0], f[1], f[2]}})
		}
	}

	used := make(map[int]bool)
	var out []kernel.Face

	for _, f := range m.Faces {
		if len(f) != 3 {
			out = append(out, f)
		}
	}

	for edge, refs := range byEdge {
		if len(refs) != 2 {
			continue
		}
		t1, t2 := refs[0], refs[1]
		if used[t1.faceIdx] || used[t2.faceIdx] {
			continue
		}
		pair := geom.NewPositionKeyPair(edge.a, edge.b)
		if !m.SharedQuadEdges[pair] {
			continue
		}

		shared, opp1, ok1 := sharedAndOpposite(t1.verts, edge, m)
		_, opp2, ok2 := sharedAndOpposite(t2.verts, edge, m)
		if !ok1 || !ok2 {
			continue
		}
		used[t1.faceIdx] = true
		used[t2.faceIdx] = true
		out = append(out, kernel.Face{opp1, shared[0], opp2, shared[1]})
	}

	for fi, f := range m.Faces {
		if len(f) == 3 && !used[fi] {
			out = append(out, f)
		}
	}

	return &kernel.Mesh{
		Vertices:         m.Vertices,
		Faces:            out,
		SourceNodes:      m.SourceNodes,
		SharedQuadEdges:  m.SharedQuadEdges,
		NoneSeamVertices: m.NoneSeamVertices,
		Combinable:       m.Combinable,
	}, nil
}

// sharedAndOpposite finds, within a triangle's 3 vertices, which two match
// the given shared edge's position keys and which one is the opposite
// vertex.
func sharedAndOpposite(verts [3]int, edge edgeKey, m *kernel.Mesh) (shared [2]int, opposite int, ok bool) {
	var sharedFound int
	oppositeIdx := -1
	for _, v := range verts {
		k := geom.NewPositionKey(m.Vertices[v])
		if k == edge.a || k == edge.b {
			if sharedFound < 2 {
				shared[sharedFound] = v
				sharedFound++
			}
		} else {
			oppositeIdx = v
		}
	}
	if sharedFound != 2 || oppositeIdx == -1 {
		return shared, 0, false
	}
	return shared, oppositeIdx, true
}
