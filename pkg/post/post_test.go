package post_test

import (
	"testing"

	"github.com/nyx-lab/meshforge/pkg/attr"
	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
	"github.com/nyx-lab/meshforge/pkg/post"
)

func cube() *kernel.Mesh {
	v := []geom.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	faces := []kernel.Face{
		{0, 1, 2, 3}, {7, 6, 5, 4},
		{0, 4, 5, 1}, {1, 5, 6, 2},
		{2, 6, 7, 3}, {3, 7, 4, 0},
	}
	return &kernel.Mesh{Vertices: v, Faces: faces, Combinable: true}
}

func TestWeldIsIdempotent(t *testing.T) {
	m := cube()
	w := post.New()

	welded, _ := w.Weld(m, 0.001, nil)
	rewelded, removed := w.Weld(welded, 0.001, nil)

	if removed != 0 {
		t.Errorf("re-welding an already-welded mesh removed %d vertices, want 0", removed)
	}
	if len(rewelded.Vertices) != len(welded.Vertices) {
		t.Errorf("re-welded vertex count = %d, want %d", len(rewelded.Vertices), len(welded.Vertices))
	}
}

func TestWeldMergesCoincidentVertices(t *testing.T) {
	m := &kernel.Mesh{
		Vertices: []geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0.001, Y: 0, Z: 0}, {X: 5, Y: 0, Z: 0}},
		Faces:    []kernel.Face{{0, 1, 2}},
	}
	w := post.New()
	welded, removed := w.Weld(m, 0.01, nil)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(welded.Vertices) != 2 {
		t.Errorf("welded vertex count = %d, want 2", len(welded.Vertices))
	}
}

func TestIsWatertightCube(t *testing.T) {
	tri := post.NewTriangulator().Triangulate(cube())
	if !post.IsWatertight(tri) {
		t.Error("triangulated cube should be watertight")
	}
}

func TestIsWatertightOpenMesh(t *testing.T) {
	m := &kernel.Mesh{
		Vertices: []geom.Vec3{{}, {X: 1}, {X: 1, Y: 1}},
		Faces:    []kernel.Face{{0, 1, 2}},
	}
	if post.IsWatertight(m) {
		t.Error("single triangle should not be watertight")
	}
}

func TestTriangulateSplitsQuads(t *testing.T) {
	m := cube()
	tri := post.NewTriangulator().Triangulate(m)
	for _, f := range tri.Faces {
		if len(f) != 3 {
			t.Errorf("face has %d vertices after triangulation, want 3", len(f))
		}
	}
	if len(tri.Faces) != len(m.Faces)*2 {
		t.Errorf("triangle count = %d, want %d", len(tri.Faces), len(m.Faces)*2)
	}
}

func TestColorizeUsesPartColorAndFallsBackToWhite(t *testing.T) {
	obj := &kernel.Object{
		TriangleSourceNodes: []kernel.SourceNode{
			{PartID: "red-part", NodeID: "n1"},
			{PartID: "unknown-part", NodeID: "n2"},
		},
	}
	parts := map[string]attr.Map{
		"red-part": {"color": "#ff0000"},
	}
	post.NewColorizer().Colorize(obj, parts)

	if got := obj.TriangleColors[0]; got != [3]float64{1, 0, 0} {
		t.Errorf("red-part color = %v, want {1, 0, 0}", got)
	}
	if got := obj.TriangleColors[1]; got != post.White {
		t.Errorf("unknown-part color = %v, want white", got)
	}
}
