package strokemesh_test

import (
	"testing"

	"github.com/nyx-lab/meshforge/pkg/cutface"
	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/post"
	"github.com/nyx-lab/meshforge/pkg/strokemesh"
)

func TestBuildSingleNodeProducesClosedSphere(t *testing.T) {
	nodes := []strokemesh.NodeInfo{
		{ID: "n1", Position: geom.Vec3{X: 0, Y: 0, Z: 0}, Radius: 1},
	}
	tmpl := cutface.Preset(cutface.PresetCircle)

	m, err := strokemesh.New().Build(nodes, nil, tmpl, strokemesh.Params{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(m.Vertices) == 0 || len(m.Faces) == 0 {
		t.Fatal("expected non-empty mesh for single node")
	}
	for _, f := range m.Faces {
		if len(f) != 4 && len(f) != 3 {
			t.Errorf("face has %d vertices, want 3 or 4", len(f))
		}
	}
	if !post.IsWatertight(m) {
		t.Error("single-node sphere should be closed (watertight)")
	}
}

func TestBuildTwoNodeTubeHasQuadsAndCaps(t *testing.T) {
	nodes := []strokemesh.NodeInfo{
		{ID: "n1", Position: geom.Vec3{X: 0, Y: 0, Z: 0}, Radius: 1},
		{ID: "n2", Position: geom.Vec3{X: 2, Y: 0, Z: 0}, Radius: 1},
	}
	edges := []strokemesh.EdgeInfo{{From: 0, To: 1}}
	tmpl := cutface.Preset(cutface.PresetCircle)

	m, err := strokemesh.New().Build(nodes, edges, tmpl, strokemesh.Params{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(m.SharedQuadEdges) == 0 {
		t.Error("expected shared quad edges to be recorded for the tube's side faces")
	}
	if len(m.NoneSeamVertices) != len(m.Vertices) {
		t.Errorf("all pre-CSG vertices should be marked non-seam: got %d of %d", len(m.NoneSeamVertices), len(m.Vertices))
	}
	capTriangles := 0
	for _, f := range m.Faces {
		if len(f) == 3 {
			capTriangles++
		}
	}
	if want := 2 * len(tmpl.Points); capTriangles != want {
		t.Errorf("cap triangle count = %d, want %d (one fan per tube end)", capTriangles, want)
	}
}

func TestBuildIntermediateInsertionAddsRings(t *testing.T) {
	nodes := []strokemesh.NodeInfo{
		{ID: "n1", Position: geom.Vec3{X: 0, Y: 0, Z: 0}, Radius: 1},
		{ID: "n2", Position: geom.Vec3{X: 2, Y: 0, Z: 0}, Radius: 1},
	}
	edges := []strokemesh.EdgeInfo{{From: 0, To: 1}}
	tmpl := cutface.Preset(cutface.PresetCircle)

	plain, err := strokemesh.New().Build(nodes, edges, tmpl, strokemesh.Params{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	withIntermediate, err := strokemesh.New().Build(nodes, edges, tmpl, strokemesh.Params{IntermediateInsertion: true})
	if err != nil {
		t.Fatalf("Build with intermediate insertion: %v", err)
	}
	if len(withIntermediate.Vertices) <= len(plain.Vertices) {
		t.Errorf("intermediate insertion produced %d vertices, want more than the %d from a plain build",
			len(withIntermediate.Vertices), len(plain.Vertices))
	}
}
