// Package meshgen orchestrates the full pipeline: snapshot indexing,
// mirror preprocessing, dirty analysis and cache eviction, per-part
// stroke-mesh building, component-tree CSG combination, and the
// post-processing pass that welds seams, recovers quads and shades the
// result.
package meshgen

import (
	"github.com/nyx-lab/meshforge/pkg/cache"
	"github.com/nyx-lab/meshforge/pkg/csg"
	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
	"github.com/nyx-lab/meshforge/pkg/post"
	"github.com/nyx-lab/meshforge/pkg/snapshot"
)

// weldThreshold is the seam-merge distance used after final combination.
const weldThreshold = 0.025

// smoothShadingThresholdDegrees is the crease angle above which adjacent
// faces keep distinct normals instead of blending.
const smoothShadingThresholdDegrees = 60

// GenerateOptions configures a single generation run.
type GenerateOptions struct {
	// Combiner overrides the default sdfx-backed CSG combiner when
	// non-nil.
	Combiner kernel.Combiner
	// SmoothShadingThresholdDegrees overrides smoothShadingThresholdDegrees
	// when non-zero.
	SmoothShadingThresholdDegrees float64
	// MeshID is an opaque identifier the caller assigns to this generation
	// request; it is copied verbatim onto the returned Object so a caller
	// juggling several in-flight requests can match a result back to the
	// request that produced it.
	MeshID uint64
}

// Generate runs the full pipeline against s using cc for incremental
// caching, and returns the finished Object. cc may be reused across calls
// against edits of the same snapshot; it must not be shared between
// concurrent calls to Generate.
func Generate(s *snapshot.Snapshot, cc *cache.Context, opts GenerateOptions) (*kernel.Object, error) {
	working := s.Clone()
	snapshot.PreprocessMirror(working)

	idx := snapshot.BuildIndex(working)
	dirty := snapshot.AnalyzeDirty(working)

	cc.Evict(dirty)
	cc.EvictDangling(working)

	combiner := opts.Combiner
	if combiner == nil {
		combiner = csg.New()
	}

	r := &resolver{
		s:          working,
		idx:        idx,
		cc:         cc,
		combiner:   combiner,
		recombiner: post.NewRecombiner(),
	}

	res, err := r.resolveComponent(working.RootComponent)
	if err != nil {
		return nil, err
	}

	obj := &kernel.Object{IsSuccessful: res.mesh != nil && !res.failed}

	final := res.mesh
	if final != nil {
		welder := post.New()
		protected := final.NoneSeamVertices
		welded, _ := welder.Weld(final, weldThreshold, protected)
		final = welded
	}

	triangulator := post.NewTriangulator()
	for _, m := range append([]*kernel.Mesh{final}, res.incombinable...) {
		if m.IsNull() {
			continue
		}
		appendMesh(obj, m, triangulator.Triangulate(m))
	}

	// Error previews are raw, already-triangulated geometry from parts that
	// failed to build (see pkg/strokemesh.Build's coincident-node failure
	// and pkg/meshgen.buildPartMesh). Colorize below colors them like any
	// other triangle; their index range is then overwritten with
	// errorPreviewColor.
	errorPreviewStart := len(obj.Triangles)
	for _, m := range res.errorPreviews {
		if m.IsNull() {
			continue
		}
		appendMesh(obj, m, m)
	}
	errorPreviewEnd := len(obj.Triangles)

	obj.Nodes, obj.Edges = collectSkeleton(working, idx)
	obj.MeshID = opts.MeshID

	post.FaceNormals(obj)

	threshold := opts.SmoothShadingThresholdDegrees
	if threshold == 0 {
		threshold = smoothShadingThresholdDegrees
	}
	post.NewSmoothNormalGenerator().SmoothNormals(obj, threshold)
	post.NewSourceResolver().ResolveTriangleSourceNodes(obj)
	post.NewColorizer().Colorize(obj, working.Parts)

	for i := errorPreviewStart; i < errorPreviewEnd; i++ {
		obj.TriangleColors[i] = errorPreviewColor
	}

	return obj, nil
}

// errorPreviewColor marks a failed part's raw geometry so it is visually
// distinguishable from successfully built and combined surfaces.
var errorPreviewColor = [3]float64{1, 0, 0}

// appendMesh flattens m's vertices onto obj once, then appends its
// (possibly quadded) faces to obj.TriangleAndQuads for display and export,
// and tri's faces — the same mesh already fan-split into triangles — to
// obj.Triangles, which every per-triangle array is computed against. Both
// face lists index into the one shared vertex range this call appends,
// since Triangulate never touches a mesh's vertices.
func appendMesh(obj *kernel.Object, m, tri *kernel.Mesh) {
	base := len(obj.Vertices)
	obj.Vertices = append(obj.Vertices, m.Vertices...)
	obj.VertexSourceNodes = append(obj.VertexSourceNodes, m.SourceNodes...)
	for _, f := range m.Faces {
		obj.TriangleAndQuads = append(obj.TriangleAndQuads, offsetFace(f, base))
	}
	for _, f := range tri.Faces {
		obj.Triangles = append(obj.Triangles, offsetFace(f, base))
	}
}

func offsetFace(f kernel.Face, base int) kernel.Face {
	nf := make(kernel.Face, len(f))
	for i, idx := range f {
		nf[i] = idx + base
	}
	return nf
}

// collectSkeleton returns the authored ObjectNode/ObjectEdge lists for
// every part joined into the model, so the final Object retains the
// skeleton that produced its surface alongside the surface itself.
func collectSkeleton(s *snapshot.Snapshot, idx *snapshot.Index) ([]kernel.ObjectNode, []kernel.ObjectEdge) {
	var nodes []kernel.ObjectNode
	var edges []kernel.ObjectEdge

	for partID, p := range s.Parts {
		if p.String("target", "Model") != "Model" || p.Bool("disabled") {
			continue
		}
		color := post.ColorForPart(partID, s.Parts)
		for _, nodeID := range idx.PartNodes[partID] {
			n := s.Nodes[nodeID]
			x, y, z := s.NodePosition(nodeID)
			nodes = append(nodes, kernel.ObjectNode{
				PartID:   partID,
				NodeID:   nodeID,
				Position: geom.Vec3{X: x, Y: y, Z: z},
				Radius:   n.Float("radius", 1),
				Color:    color,
				Joined:   true,
			})
		}
		for _, edgeID := range idx.PartEdges[partID] {
			e := s.Edges[edgeID]
			edges = append(edges, kernel.ObjectEdge{
				From: kernel.SourceNode{PartID: partID, NodeID: e.String("from", "")},
				To:   kernel.SourceNode{PartID: partID, NodeID: e.String("to", "")},
			})
		}
	}
	return nodes, edges
}
