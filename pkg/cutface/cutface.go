// Package cutface extracts the 2D cross-section polygon that gets swept
// along a part's skeleton: either walked out of another part's node/edge
// graph, or one of a small set of named presets.
package cutface

import (
	"math"
	"sort"

	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/meshid"
	"github.com/nyx-lab/meshforge/pkg/snapshot"
)

// referenceDirection is the direction endpoint selection prefers, matching
// the walk's fixed starting bias.
var referenceDirection = normalize2(geom.Vec2{X: -1, Y: -1})

func normalize2(v geom.Vec2) geom.Vec2 {
	l := math.Hypot(v.X, v.Y)
	if l == 0 {
		return v
	}
	return geom.Vec2{X: v.X / l, Y: v.Y / l}
}

// Template is an extracted or preset cut-face polygon, in walk order.
type Template struct {
	Points []geom.Vec2
	// NodeIDs holds, for polygons walked from a referenced part, the source
	// node id for each point; nil for presets and for chamfered points.
	NodeIDs []string
	// Radii holds, for polygons walked from a referenced part, that node's
	// own radius attribute; nil for presets. buildRing uses it to weight a
	// point's offset relative to the template's average radius, so a
	// referenced part with unevenly sized nodes produces a correspondingly
	// uneven cut-face silhouette instead of a uniformly scaled one.
	Radii []float64
}

// Resolve interprets a part's cutFace attribute: a UUID reference to
// another part's node graph, or a named preset. An empty value, an unknown
// reference with no matching preset name, or a referenced graph that walks
// to fewer than 3 points all yield the Square preset; it never returns nil.
func Resolve(s *snapshot.Snapshot, idx *snapshot.Index, cutFace string) *Template {
	if cutFace == "" {
		return Preset(PresetSquare)
	}
	if refID, ok := meshid.Parse(cutFace); ok {
		if _, exists := s.Parts[refID]; exists {
			if t := extractFromPart(s, idx, refID); t != nil && len(t.Points) >= 3 {
				return t
			}
		}
	}
	if p, ok := parsePreset(cutFace); ok {
		return Preset(p)
	}
	return Preset(PresetSquare)
}

type graphNode struct {
	id     string
	x, y   float64
	radius float64
}

// extractFromPart walks the referenced part's node/edge graph into an
// ordered polygon.
func extractFromPart(s *snapshot.Snapshot, idx *snapshot.Index, partID string) *Template {
	nodeIDs := idx.PartNodes[partID]
	if len(nodeIDs) < 3 {
		return nil
	}

	nodes := make(map[string]graphNode, len(nodeIDs))
	for _, id := range nodeIDs {
		x, y, _ := s.NodePosition(id)
		nodes[id] = graphNode{id: id, x: x, y: y, radius: s.Nodes[id].Float("radius", 1)}
	}

	adjacency := make(map[string][]string)
	for _, edgeID := range idx.PartEdges[partID] {
		e := s.Edges[edgeID]
		from, to := e.String("from", ""), e.String("to", "")
		if from == "" || to == "" {
			continue
		}
		if _, ok := nodes[from]; !ok {
			continue
		}
		if _, ok := nodes[to]; !ok {
			continue
		}
		adjacency[from] = append(adjacency[from], to)
		adjacency[to] = append(adjacency[to], from)
	}

	start := chooseStart(nodes, nodeIDs, adjacency)
	order := walk(start, adjacency)
	if len(order) < 3 {
		return nil
	}

	t := &Template{
		Points:  make([]geom.Vec2, len(order)),
		NodeIDs: make([]string, len(order)),
		Radii:   make([]float64, len(order)),
	}
	for i, id := range order {
		n := nodes[id]
		t.Points[i] = geom.Vec2{X: n.x, Y: n.y}
		t.NodeIDs[i] = id
		t.Radii[i] = n.radius
	}
	return t
}

// chooseStart picks the walk's starting node: for a ring (every node degree
// 2) any node works, so the first in stable id order is used; for a chain,
// the degree-1 endpoint whose direction from the centroid is closest to
// referenceDirection is used, ties broken by node insertion order.
func chooseStart(nodes map[string]graphNode, order []string, adjacency map[string][]string) string {
	var endpoints []string
	for _, id := range order {
		if len(adjacency[id]) == 1 {
			endpoints = append(endpoints, id)
		}
	}
	if len(endpoints) == 0 {
		return order[0]
	}

	cx, cy := centroid(nodes, order)

	best := endpoints[0]
	bestAngle := math.MaxFloat64
	for _, id := range endpoints {
		n := nodes[id]
		dir := normalize2(geom.Vec2{X: n.x - cx, Y: n.y - cy})
		angle := math.Acos(clamp(dir.X*referenceDirection.X+dir.Y*referenceDirection.Y, -1, 1))
		if angle < bestAngle {
			bestAngle = angle
			best = id
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func centroid(nodes map[string]graphNode, order []string) (x, y float64) {
	for _, id := range order {
		n := nodes[id]
		x += n.x
		y += n.y
	}
	x /= float64(len(order))
	y /= float64(len(order))
	return
}

// walk traverses the adjacency from start, advancing at each step to the
// first unvisited neighbor (sorted for determinism), until no unvisited
// neighbor remains.
func walk(start string, adjacency map[string][]string) []string {
	visited := map[string]bool{start: true}
	order := []string{start}
	current := start
	for {
		neighbors := append([]string(nil), adjacency[current]...)
		sort.Strings(neighbors)
		next := ""
		for _, n := range neighbors {
			if !visited[n] {
				next = n
				break
			}
		}
		if next == "" {
			break
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}
	return order
}

// Chamfer replaces every edge (p[i], p[i+1]) with two points at 0.8/0.2 and
// 0.2/0.8 interpolation, doubling the vertex count and preserving winding.
// Radii, if present, are interpolated the same way so a chamfered template
// walked from a referenced part keeps its per-point radius weighting.
func Chamfer(t *Template) *Template {
	n := len(t.Points)
	out := &Template{Points: make([]geom.Vec2, 0, n*2)}
	if t.Radii != nil {
		out.Radii = make([]float64, 0, n*2)
	}
	for i := 0; i < n; i++ {
		a := t.Points[i]
		b := t.Points[(i+1)%n]
		out.Points = append(out.Points, geom.Lerp2(a, b, 0.2), geom.Lerp2(a, b, 0.8))
		if t.Radii != nil {
			ra := lerpFloat(t.Radii[i], t.Radii[(i+1)%n], 0.2)
			rb := lerpFloat(t.Radii[i], t.Radii[(i+1)%n], 0.8)
			out.Radii = append(out.Radii, ra, rb)
		}
	}
	return out
}

func lerpFloat(a, b, t float64) float64 { return a + (b-a)*t }
