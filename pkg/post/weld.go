// Package post implements the post-CSG cleanup stages: welding seam
// vertices, recovering quad topology, triangulating for preview, resolving
// per-triangle source nodes, and generating smooth normals.
package post

import (
	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
)

// Welder is the concrete kernel.Welder: it merges vertices within
// threshold of each other, excluding any vertex whose position key is in
// protected, and repeats until a pass makes no change.
type Welder struct{}

// New returns a ready-to-use Welder.
func New() *Welder { return &Welder{} }

// Weld implements kernel.Welder.
func (w *Welder) Weld(m *kernel.Mesh, threshold float64, protected map[geom.PositionKey]bool) (*kernel.Mesh, int) {
	current := m
	totalRemoved := 0
	for {
		next, removed := weldPass(current, threshold, protected)
		totalRemoved += removed
		current = next
		if removed == 0 {
			return current, totalRemoved
		}
	}
}

func weldPass(m *kernel.Mesh, threshold float64, protected map[geom.PositionKey]bool) (*kernel.Mesh, int) {
	n := len(m.Vertices)
	remap := make([]int, n)
	for i := range remap {
		remap[i] = -1
	}

	newVerts := make([]geom.Vec3, 0, n)
	newSources := make([]kernel.SourceNode, 0, n)
	removed := 0

	for i := 0; i < n; i++ {
		if remap[i] != -1 {
			continue
		}
		newIdx := len(newVerts)
		newVerts = append(newVerts, m.Vertices[i])
		if i < len(m.SourceNodes) {
			newSources = append(newSources, m.SourceNodes[i])
		} else {
			newSources = append(newSources, kernel.SourceNode{})
		}
		remap[i] = newIdx

		if protected[geom.NewPositionKey(m.Vertices[i])] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if remap[j] != -1 {
				continue
			}
			if protected[geom.NewPositionKey(m.Vertices[j])] {
				continue
			}
			if geom.Sub(m.Vertices[i], m.Vertices[j]).Length() <= threshold {
				remap[j] = newIdx
				removed++
			}
		}
	}

	newFaces := make([]kernel.Face, 0, len(m.Faces))
	for _, f := range m.Faces {
		nf := make(kernel.Face, len(f))
		degenerate := false
		for i, idx := range f {
			nf[i] = remap[idx]
		}
		for i := 0; i < len(nf); i++ {
			for j := i + 1; j < len(nf); j++ {
				if nf[i] == nf[j] {
					degenerate = true
				}
			}
		}
		if !degenerate {
			newFaces = append(newFaces, nf)
		}
	}

	out := &kernel.Mesh{
		Vertices:         newVerts,
		Faces:            newFaces,
		SourceNodes:      newSources,
		SharedQuadEdges:  m.SharedQuadEdges,
		NoneSeamVertices: m.NoneSeamVertices,
		Combinable:       m.Combinable,
	}
	return out, removed
}
