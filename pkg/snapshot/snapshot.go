// Package snapshot defines the flat, string-attributed scene description
// consumed by the mesh generator, and the indexing and mirror-preprocessing
// steps that run over it before generation begins.
package snapshot

import "github.com/nyx-lab/meshforge/pkg/attr"

// CombineMode controls how a component contributes to its parent during
// CSG combination.
type CombineMode int

const (
	CombineNormal CombineMode = iota
	CombineInversion
	CombineUncombined
)

// Canvas is the coordinate origin all node positions are relative to.
type Canvas struct {
	OriginX, OriginY, OriginZ float64
}

// Snapshot is the immutable input to a generation run.
type Snapshot struct {
	Canvas        Canvas
	Parts         map[string]attr.Map
	Nodes         map[string]attr.Map
	Edges         map[string]attr.Map
	Components    map[string]attr.Map
	RootComponent string
}

// Clone returns a deep-enough copy of s that mirror preprocessing can mutate
// freely without aliasing the caller's maps.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Canvas:        s.Canvas,
		Parts:         make(map[string]attr.Map, len(s.Parts)),
		Nodes:         make(map[string]attr.Map, len(s.Nodes)),
		Edges:         make(map[string]attr.Map, len(s.Edges)),
		Components:    make(map[string]attr.Map, len(s.Components)),
		RootComponent: s.RootComponent,
	}
	for id, m := range s.Parts {
		out.Parts[id] = cloneMap(m)
	}
	for id, m := range s.Nodes {
		out.Nodes[id] = cloneMap(m)
	}
	for id, m := range s.Edges {
		out.Edges[id] = cloneMap(m)
	}
	for id, m := range s.Components {
		out.Components[id] = cloneMap(m)
	}
	return out
}

func cloneMap(m attr.Map) attr.Map {
	out := make(attr.Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// NodePosition returns a node's position relative to the canvas origin.
func (s *Snapshot) NodePosition(nodeID string) (x, y, z float64) {
	n := s.Nodes[nodeID]
	x = n.Float("x", 0) - s.Canvas.OriginX
	y = s.Canvas.OriginY - n.Float("y", 0)
	z = s.Canvas.OriginZ - n.Float("z", 0)
	return
}

// ComponentCombineMode reads a component's effective combine mode,
// upgrading Normal to Inversion when the inverse flag is set.
func ComponentCombineMode(c attr.Map) CombineMode {
	mode := CombineNormal
	switch c.String("combineMode", "Normal") {
	case "Inversion":
		mode = CombineInversion
	case "Uncombined":
		mode = CombineUncombined
	}
	if mode == CombineNormal && c.Bool("inverse") {
		mode = CombineInversion
	}
	return mode
}
