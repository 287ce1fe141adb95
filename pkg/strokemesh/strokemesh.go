// Package strokemesh sweeps a cut-face polygon along a chain of nodes
// (a "stroke") to produce a quad-dominant mesh, the external stroke
// modifier / stroke mesh builder contract of the generation pipeline.
package strokemesh

import (
	"fmt"
	"math"

	"github.com/nyx-lab/meshforge/pkg/cutface"
	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
)

// coincidentEpsilon is the distance below which two consecutive skeleton
// nodes are treated as occupying the same point, making it impossible to
// derive a tangent (and therefore a ring orientation) between them.
const coincidentEpsilon = 1e-9

// NodeInfo describes one node of a part's skeleton as seen by the builder.
type NodeInfo struct {
	ID          string
	Position    geom.Vec3
	Radius      float64
	CutTemplate *cutface.Template // nil means use the part-level default
	CutRotation float64
}

// EdgeInfo connects two nodes by index into the NodeInfo slice passed to
// Build.
type EdgeInfo struct {
	From, To int
}

// BaseNormalAxis names which world axis a part's `base` attribute excludes
// from the base normal. SweepBuilder does not read it: every ring is
// oriented from the chain tangent alone (see perpendicularBasis).
type BaseNormalAxis int

const (
	BaseNormalNone BaseNormalAxis = iota
	BaseNormalYZ                  // exclude X
	BaseNormalXY                  // exclude Z
	BaseNormalZX                  // exclude Y
	BaseNormalAverage
)

// Params carries a part's sweep attributes. SweepBuilder applies the deform
// fields and IntermediateInsertion; HollowThickness, BaseAxis and Smooth are
// carried but not applied, so a built mesh is always a solid, unsmoothed
// sweep.
type Params struct {
	DeformThickness float64
	DeformWidth     float64
	DeformUnified   bool
	HollowThickness float64
	BaseAxis        BaseNormalAxis
	Smooth          bool
	// IntermediateInsertion doubles the chain's resolution by inserting an
	// interpolated node between every consecutive pair before building
	// rings, letting the sweep follow direction changes more closely. The
	// first build attempt for a part enables this; a retry after a build
	// error disables it.
	IntermediateInsertion bool
}

// Builder is the external stroke-mesh-builder contract: it consumes an
// ordered skeleton plus a default cut template and returns a mesh whose
// faces are quads wherever consecutive rings share the same vertex count.
type Builder interface {
	Build(nodes []NodeInfo, edges []EdgeInfo, defaultTemplate *cutface.Template, params Params) (*kernel.Mesh, error)
}

// SweepBuilder is the concrete Builder: it walks each edge of the skeleton
// (skeletons here are simple chains or single nodes, never branching) and
// places a copy of the cut template, oriented to the local tangent, at
// each node; consecutive rings are stitched into quads.
type SweepBuilder struct{}

// New returns a ready-to-use SweepBuilder.
func New() *SweepBuilder { return &SweepBuilder{} }

// Build implements Builder.
func (b *SweepBuilder) Build(nodes []NodeInfo, edges []EdgeInfo, defaultTemplate *cutface.Template, params Params) (*kernel.Mesh, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	chain := orderChain(nodes, edges)
	ordered := make([]NodeInfo, len(chain))
	for i, ni := range chain {
		ordered[i] = nodes[ni]
	}

	if len(ordered) == 1 {
		return buildSingleNodeSphere(ordered[0], defaultTemplate, params)
	}

	if params.IntermediateInsertion {
		ordered = insertIntermediateNodes(ordered)
	}

	if i, j, ok := firstCoincidentPair(ordered); ok {
		return rawFallbackMesh(ordered), fmt.Errorf("strokemesh: nodes %s and %s coincide, cannot orient a ring between them", ordered[i].ID, ordered[j].ID)
	}

	ringSize := templateFor(ordered[0], defaultTemplate, params).Points
	rings := make([][]geom.Vec3, len(ordered))
	sourceNode := make([]string, len(ordered))

	for i, n := range ordered {
		tmpl := templateFor(n, defaultTemplate, params)
		tangent := chainTangent(ordered, i)
		ring := buildRing(n, tmpl, tangent, params)
		rings[i] = ring
		sourceNode[i] = n.ID
	}

	mesh := &kernel.Mesh{
		SharedQuadEdges:  make(map[geom.PositionKeyPair]bool),
		NoneSeamVertices: make(map[geom.PositionKey]bool),
		Combinable:       true,
	}

	vertexOf := make([][]int, len(ordered))
	for i, ring := range rings {
		vertexOf[i] = make([]int, len(ring))
		for j, v := range ring {
			idx := len(mesh.Vertices)
			mesh.Vertices = append(mesh.Vertices, v)
			mesh.SourceNodes = append(mesh.SourceNodes, kernel.SourceNode{NodeID: sourceNode[i]})
			mesh.NoneSeamVertices[geom.NewPositionKey(v)] = true
			vertexOf[i][j] = idx
		}
	}

	n := len(ringSize)
	for i := 0; i < len(ordered)-1; i++ {
		a, c := vertexOf[i], vertexOf[i+1]
		for j := 0; j < n; j++ {
			j2 := (j + 1) % n
			face := kernel.Face{a[j], a[j2], c[j2], c[j]}
			mesh.Faces = append(mesh.Faces, face)
			registerQuadDiagonals(mesh, face)
		}
	}

	capRing(mesh, vertexOf[0], true)
	capRing(mesh, vertexOf[len(ordered)-1], false)

	return mesh, nil
}

// insertIntermediateNodes doubles a chain's resolution by inserting an
// interpolated node between every consecutive pair, averaging position,
// radius and cut rotation. Inserted nodes carry the id of the node they
// follow and no per-node cut template, so they fall back to the part's
// default template.
func insertIntermediateNodes(ordered []NodeInfo) []NodeInfo {
	if len(ordered) < 2 {
		return ordered
	}
	out := make([]NodeInfo, 0, len(ordered)*2-1)
	for i, n := range ordered {
		out = append(out, n)
		if i == len(ordered)-1 {
			continue
		}
		next := ordered[i+1]
		out = append(out, NodeInfo{
			ID:          n.ID,
			Position:    geom.Lerp(n.Position, next.Position, 0.5),
			Radius:      (n.Radius + next.Radius) / 2,
			CutRotation: (n.CutRotation + next.CutRotation) / 2,
		})
	}
	return out
}

func registerQuadDiagonals(m *kernel.Mesh, face kernel.Face) {
	if len(face) != 4 {
		return
	}
	k0 := geom.NewPositionKey(m.Vertices[face[0]])
	k2 := geom.NewPositionKey(m.Vertices[face[2]])
	k1 := geom.NewPositionKey(m.Vertices[face[1]])
	k3 := geom.NewPositionKey(m.Vertices[face[3]])
	m.SharedQuadEdges[geom.NewPositionKeyPair(k0, k2)] = true
	m.SharedQuadEdges[geom.NewPositionKeyPair(k1, k3)] = true
}

// capRing closes off an end of the tube with a triangle fan around its
// centroid. outward selects winding direction so both caps face away from
// the tube's interior.
func capRing(m *kernel.Mesh, ring []int, outward bool) {
	if len(ring) < 3 {
		return
	}
	var centroid geom.Vec3
	for _, idx := range ring {
		centroid = geom.Add(centroid, m.Vertices[idx])
	}
	centroid = geom.Scale(centroid, 1/float64(len(ring)))
	centroidIdx := len(m.Vertices)
	m.Vertices = append(m.Vertices, centroid)
	m.SourceNodes = append(m.SourceNodes, m.SourceNodes[ring[0]])
	m.NoneSeamVertices[geom.NewPositionKey(centroid)] = true

	for j := 0; j < len(ring); j++ {
		j2 := (j + 1) % len(ring)
		if outward {
			m.Faces = append(m.Faces, kernel.Face{centroidIdx, ring[j2], ring[j]})
		} else {
			m.Faces = append(m.Faces, kernel.Face{centroidIdx, ring[j], ring[j2]})
		}
	}
}

// buildSingleNodeSphere builds a UV sphere for a part consisting of a single
// node. The north and south poles are each a single shared vertex rather
// than a full longitude ring collapsed to one position, so the caps are
// clean triangle fans instead of quads with duplicate coincident indices.
func buildSingleNodeSphere(n NodeInfo, defaultTemplate *cutface.Template, params Params) (*kernel.Mesh, error) {
	const latSteps = 8
	tmpl := templateFor(n, defaultTemplate, params)
	lonSteps := len(tmpl.Points)

	mesh := &kernel.Mesh{
		SharedQuadEdges:  make(map[geom.PositionKeyPair]bool),
		NoneSeamVertices: make(map[geom.PositionKey]bool),
		Combinable:       true,
	}

	addVertex := func(v geom.Vec3) int {
		idx := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, v)
		mesh.SourceNodes = append(mesh.SourceNodes, kernel.SourceNode{NodeID: n.ID})
		mesh.NoneSeamVertices[geom.NewPositionKey(v)] = true
		return idx
	}

	northPole := addVertex(geom.Add(n.Position, geom.Vec3{X: 0, Y: n.Radius, Z: 0}))
	southPole := addVertex(geom.Add(n.Position, geom.Vec3{X: 0, Y: -n.Radius, Z: 0}))

	rings := make([][]int, latSteps-1)
	for lat := 1; lat < latSteps; lat++ {
		theta := math.Pi * float64(lat) / float64(latSteps)
		y := math.Cos(theta)
		ringRadius := math.Sin(theta)
		row := make([]int, lonSteps)
		for lon := 0; lon < lonSteps; lon++ {
			phi := 2 * math.Pi * float64(lon) / float64(lonSteps)
			v := geom.Add(n.Position, geom.Vec3{
				X: n.Radius * ringRadius * math.Cos(phi),
				Y: n.Radius * y,
				Z: n.Radius * ringRadius * math.Sin(phi),
			})
			row[lon] = addVertex(v)
		}
		rings[lat-1] = row
	}

	first, last := rings[0], rings[len(rings)-1]
	for lon := 0; lon < lonSteps; lon++ {
		lon2 := (lon + 1) % lonSteps
		mesh.Faces = append(mesh.Faces, kernel.Face{northPole, first[lon2], first[lon]})
		mesh.Faces = append(mesh.Faces, kernel.Face{last[lon], last[lon2], southPole})
	}

	for lat := 0; lat < len(rings)-1; lat++ {
		a, c := rings[lat], rings[lat+1]
		for lon := 0; lon < lonSteps; lon++ {
			lon2 := (lon + 1) % lonSteps
			face := kernel.Face{a[lon], a[lon2], c[lon2], c[lon]}
			mesh.Faces = append(mesh.Faces, face)
			registerQuadDiagonals(mesh, face)
		}
	}

	return mesh, nil
}

// templateFor returns the template a node's ring is built from: its own
// per-node template if it has one, otherwise the part's default. Chamfering
// is applied by the caller to whichever template it resolves, before either
// one reaches here, so both paths arrive already chamfered when requested.
func templateFor(n NodeInfo, def *cutface.Template, params Params) *cutface.Template {
	if n.CutTemplate != nil {
		return n.CutTemplate
	}
	return def
}

// buildRing places a copy of tmpl at node n, scaled by radius and deform
// factors, oriented perpendicular to tangent.
func buildRing(n NodeInfo, tmpl *cutface.Template, tangent geom.Vec3, params Params) []geom.Vec3 {
	u, v := perpendicularBasis(tangent)
	thickness := params.DeformThickness
	width := params.DeformWidth
	if thickness == 0 {
		thickness = 1
	}
	if width == 0 {
		width = 1
	}
	if params.DeformUnified {
		avg := (thickness + width) / 2
		thickness, width = avg, avg
	}

	rot := n.CutRotation
	cosr, sinr := math.Cos(rot), math.Sin(rot)

	weights := radiusWeights(tmpl.Radii)

	ring := make([]geom.Vec3, len(tmpl.Points))
	for i, p := range tmpl.Points {
		x := p.X*cosr - p.Y*sinr
		y := p.X*sinr + p.Y*cosr
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		offset := geom.Add(geom.Scale(u, x*n.Radius*width*w), geom.Scale(v, y*n.Radius*thickness*w))
		ring[i] = geom.Add(n.Position, offset)
	}
	return ring
}

// radiusWeights returns, for each template point, its radius relative to
// the template's average radius, so points walked from a larger-radius node
// bulge further from the sweep axis than points from a smaller one. Presets
// and templates with no per-point radii (radii == nil) weight every point
// equally.
func radiusWeights(radii []float64) []float64 {
	if len(radii) == 0 {
		return nil
	}
	weights := make([]float64, len(radii))
	var sum float64
	for _, r := range radii {
		sum += r
	}
	avg := sum / float64(len(radii))
	if avg == 0 {
		for i := range weights {
			weights[i] = 1
		}
		return weights
	}
	for i, r := range radii {
		weights[i] = r / avg
	}
	return weights
}

func perpendicularBasis(tangent geom.Vec3) (u, v geom.Vec3) {
	up := geom.Vec3{X: 0, Y: 1, Z: 0}
	if math.Abs(tangent.Y) > 0.99 {
		up = geom.Vec3{X: 1, Y: 0, Z: 0}
	}
	u = normalize3(cross(tangent, up))
	v = normalize3(cross(tangent, u))
	return
}

func cross(a, b geom.Vec3) geom.Vec3 {
	return geom.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func normalize3(v geom.Vec3) geom.Vec3 {
	l := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if l == 0 {
		return geom.Vec3{X: 1, Y: 0, Z: 0}
	}
	return geom.Scale(v, 1/l)
}

func distance3(a, b geom.Vec3) float64 {
	d := geom.Sub(a, b)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// firstCoincidentPair returns the index of the first consecutive pair of
// ordered whose positions are within coincidentEpsilon of each other.
func firstCoincidentPair(ordered []NodeInfo) (i, j int, ok bool) {
	for k := 0; k+1 < len(ordered); k++ {
		if distance3(ordered[k].Position, ordered[k+1].Position) < coincidentEpsilon {
			return k, k + 1, true
		}
	}
	return 0, 0, false
}

// rawFallbackMesh triangulates ordered's raw node positions into a
// best-effort triangle fan, with no ring stitching or deform applied. Used as an error preview when Build cannot orient a proper
// sweep, so a failed part still surfaces something instead of nothing.
func rawFallbackMesh(ordered []NodeInfo) *kernel.Mesh {
	m := &kernel.Mesh{Combinable: false}
	for _, n := range ordered {
		m.Vertices = append(m.Vertices, n.Position)
		m.SourceNodes = append(m.SourceNodes, kernel.SourceNode{NodeID: n.ID})
	}
	for i := 0; i+2 < len(m.Vertices); i++ {
		m.Faces = append(m.Faces, kernel.Face{0, i + 1, i + 2})
	}
	return m
}

// orderChain linearizes a skeleton into a single path by degree-1
// endpoint. Skeletons in this pipeline are always simple chains (or a
// single node); branching skeletons are not a supported part shape.
func orderChain(nodes []NodeInfo, edges []EdgeInfo) []int {
	if len(edges) == 0 {
		return []int{0}
	}
	adjacency := make(map[int][]int)
	for _, e := range edges {
		adjacency[e.From] = append(adjacency[e.From], e.To)
		adjacency[e.To] = append(adjacency[e.To], e.From)
	}
	start := 0
	for idx := range nodes {
		if len(adjacency[idx]) == 1 {
			start = idx
			break
		}
	}
	visited := map[int]bool{start: true}
	order := []int{start}
	current := start
	for {
		next := -1
		for _, n := range adjacency[current] {
			if !visited[n] {
				next = n
				break
			}
		}
		if next == -1 {
			break
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}
	return order
}

func chainTangent(ordered []NodeInfo, i int) geom.Vec3 {
	switch {
	case i == 0:
		return normalize3(geom.Sub(ordered[1].Position, ordered[0].Position))
	case i == len(ordered)-1:
		return normalize3(geom.Sub(ordered[i].Position, ordered[i-1].Position))
	default:
		prev := geom.Sub(ordered[i].Position, ordered[i-1].Position)
		next := geom.Sub(ordered[i+1].Position, ordered[i].Position)
		return normalize3(geom.Add(normalize3(prev), normalize3(next)))
	}
}
