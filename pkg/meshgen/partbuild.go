package meshgen

import (
	"fmt"
	"math"

	"github.com/nyx-lab/meshforge/pkg/attr"
	"github.com/nyx-lab/meshforge/pkg/cache"
	"github.com/nyx-lab/meshforge/pkg/cutface"
	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
	"github.com/nyx-lab/meshforge/pkg/meshid"
	"github.com/nyx-lab/meshforge/pkg/post"
	"github.com/nyx-lab/meshforge/pkg/snapshot"
	"github.com/nyx-lab/meshforge/pkg/strokemesh"
)

func vec3(x, y, z float64) geom.Vec3 { return geom.Vec3{X: x, Y: y, Z: z} }

// buildPart resolves a leaf part's cache entry, building it if absent.
// Retry policy: the first attempt enables intermediate-node insertion; if it
// errors and the part is retry-eligible, one retry runs with insertion
// disabled.
func buildPart(s *snapshot.Snapshot, idx *snapshot.Index, cc *cache.Context, partID string) (*cache.PartEntry, error) {
	if entry, ok := cc.Parts[partID]; ok {
		return entry, nil
	}

	p, ok := s.Parts[partID]
	if !ok {
		return nil, fmt.Errorf("meshgen: unknown part %s", partID)
	}

	entry, err := buildPartMesh(s, idx, p, partID, true)
	if err != nil && retryable(p) {
		entry, err = buildPartMesh(s, idx, p, partID, false)
	}

	entry.IsSuccessful = err == nil
	entry.Joined = p.String("target", "Model") == "Model" && !p.Bool("disabled")
	cc.Parts[partID] = entry
	return entry, nil
}

// retryable reports whether a part is eligible for the intermediate-node
// retry: parts referencing an externally authored fill mesh are not, since
// insertion has no bearing on why an imported mesh failed to build.
func retryable(p attr.Map) bool {
	fillMesh := p.String("fillMesh", "")
	if fillMesh == "" {
		return true
	}
	id, ok := meshid.Parse(fillMesh)
	return !ok || id == meshid.Nil
}

func buildPartMesh(s *snapshot.Snapshot, idx *snapshot.Index, p attr.Map, partID string, intermediate bool) (*cache.PartEntry, error) {
	nodeIDs := idx.PartNodes[partID]
	if len(nodeIDs) == 0 {
		return &cache.PartEntry{}, fmt.Errorf("meshgen: part %s has no nodes", partID)
	}

	chamfered := p.Bool("chamfered")

	nodes := make([]strokemesh.NodeInfo, len(nodeIDs))
	nodeIndexByID := make(map[string]int, len(nodeIDs))
	for i, nodeID := range nodeIDs {
		n := s.Nodes[nodeID]
		x, y, z := s.NodePosition(nodeID)
		nodes[i] = strokemesh.NodeInfo{
			ID:          nodeID,
			Position:    vec3(x, y, z),
			Radius:      n.Float("radius", 1),
			CutRotation: n.Float("cutRotation", 0),
		}
		if n.Has("cutFace") {
			tmpl := cutface.Resolve(s, idx, n.String("cutFace", ""))
			if chamfered {
				tmpl = cutface.Chamfer(tmpl)
			}
			nodes[i].CutTemplate = tmpl
		}
		nodeIndexByID[nodeID] = i
	}

	var edges []strokemesh.EdgeInfo
	for _, edgeID := range idx.PartEdges[partID] {
		e := s.Edges[edgeID]
		from, to := nodeIndexByID[e.String("from", "")], nodeIndexByID[e.String("to", "")]
		edges = append(edges, strokemesh.EdgeInfo{From: from, To: to})
	}

	defaultTemplate := cutface.Resolve(s, idx, p.String("cutFace", ""))
	if chamfered {
		defaultTemplate = cutface.Chamfer(defaultTemplate)
	}

	params := strokemesh.Params{
		DeformThickness:       p.Float("deformThickness", 1),
		DeformWidth:           p.Float("deformWidth", 1),
		DeformUnified:         p.Bool("deformUnified"),
		HollowThickness:       p.Float("hollowThickness", 0),
		BaseAxis:              baseAxis(p.String("base", "")),
		Smooth:                p.Bool("smooth"),
		IntermediateInsertion: intermediate,
	}

	mesh, err := strokemesh.New().Build(nodes, edges, defaultTemplate, params)
	if err != nil {
		entry := &cache.PartEntry{}
		if mesh != nil && !mesh.IsNull() {
			for i := range mesh.SourceNodes {
				mesh.SourceNodes[i].PartID = partID
			}
			entry.ErrorPreview = post.NewTriangulator().Triangulate(mesh)
		}
		return entry, fmt.Errorf("meshgen: building part %s: %w", partID, err)
	}
	if mesh == nil {
		return &cache.PartEntry{}, fmt.Errorf("meshgen: part %s produced no geometry", partID)
	}

	for i := range mesh.SourceNodes {
		mesh.SourceNodes[i].PartID = partID
	}

	if p.Has("__mirrorFromPartId") {
		mirrorInPlace(mesh)
	}

	preview := previewMesh(mesh)

	return &cache.PartEntry{
		Mesh:         mesh,
		PreviewMesh:  preview,
		IsSuccessful: true,
	}, nil
}

// previewMesh builds the standalone per-part thumbnail mesh: triangulated,
// then recentered and scaled to a unit bounding box so a part's preview is
// independent of where and how large it was authored, then doubled to match
// the reference viewer's preview scale.
func previewMesh(m *kernel.Mesh) *kernel.Mesh {
	tri := post.NewTriangulator().Triangulate(m)
	vertices := append([]geom.Vec3(nil), tri.Vertices...)
	trimVertices(vertices)
	for i := range vertices {
		vertices[i] = geom.Scale(vertices[i], 2)
	}
	return &kernel.Mesh{
		Vertices:    vertices,
		Faces:       tri.Faces,
		SourceNodes: append([]kernel.SourceNode(nil), tri.SourceNodes...),
	}
}

// trimVertices recenters vs on its bounding-box center and scales it so its
// largest bounding-box dimension is 1 (every coordinate within ±0.5), in
// place.
func trimVertices(vs []geom.Vec3) {
	if len(vs) == 0 {
		return
	}
	min, max := vs[0], vs[0]
	for _, v := range vs[1:] {
		min = geom.Vec3{X: math.Min(min.X, v.X), Y: math.Min(min.Y, v.Y), Z: math.Min(min.Z, v.Z)}
		max = geom.Vec3{X: math.Max(max.X, v.X), Y: math.Max(max.Y, v.Y), Z: math.Max(max.Z, v.Z)}
	}
	center := geom.Scale(geom.Add(min, max), 0.5)
	extent := math.Max(max.X-min.X, math.Max(max.Y-min.Y, max.Z-min.Z))
	if extent == 0 {
		extent = 1
	}
	scale := 1 / extent
	for i := range vs {
		vs[i] = geom.Scale(geom.Sub(vs[i], center), scale)
	}
}

func baseAxis(base string) strokemesh.BaseNormalAxis {
	switch base {
	case "YZ":
		return strokemesh.BaseNormalYZ
	case "XY":
		return strokemesh.BaseNormalXY
	case "ZX":
		return strokemesh.BaseNormalZX
	case "Average":
		return strokemesh.BaseNormalAverage
	default:
		return strokemesh.BaseNormalNone
	}
}

// mirrorInPlace negates the x coordinate of every vertex and reverses each
// face's winding order, so a mirror twin's mesh is the true reflection of
// its source rather than an inside-out copy of it. Position-keyed sets are
// rebuilt afterward since negating x changes every key.
func mirrorInPlace(m *kernel.Mesh) {
	oldToNewKey := make(map[geom.PositionKey]geom.PositionKey, len(m.Vertices))
	for i := range m.Vertices {
		before := geom.NewPositionKey(m.Vertices[i])
		m.Vertices[i].X = -m.Vertices[i].X
		oldToNewKey[before] = geom.NewPositionKey(m.Vertices[i])
	}
	for _, f := range m.Faces {
		for i, j := 0, len(f)-1; i < j; i, j = i+1, j-1 {
			f[i], f[j] = f[j], f[i]
		}
	}
	if m.SharedQuadEdges != nil {
		rebuilt := make(map[geom.PositionKeyPair]bool, len(m.SharedQuadEdges))
		for pair := range m.SharedQuadEdges {
			rebuilt[geom.NewPositionKeyPair(oldToNewKey[pair.A], oldToNewKey[pair.B])] = true
		}
		m.SharedQuadEdges = rebuilt
	}
	if m.NoneSeamVertices != nil {
		rebuilt := make(map[geom.PositionKey]bool, len(m.NoneSeamVertices))
		for k := range m.NoneSeamVertices {
			rebuilt[oldToNewKey[k]] = true
		}
		m.NoneSeamVertices = rebuilt
	}
}
