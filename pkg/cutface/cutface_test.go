package cutface_test

import (
	"testing"

	"github.com/nyx-lab/meshforge/pkg/attr"
	"github.com/nyx-lab/meshforge/pkg/cutface"
	"github.com/nyx-lab/meshforge/pkg/snapshot"
)

func TestResolvePresetSquare(t *testing.T) {
	s := &snapshot.Snapshot{Parts: map[string]attr.Map{}}
	idx := &snapshot.Index{}

	tmpl := cutface.Resolve(s, idx, "Square")
	if len(tmpl.Points) != 4 {
		t.Fatalf("Square preset has %d points, want 4", len(tmpl.Points))
	}
}

func TestChamferDoublesVertexCount(t *testing.T) {
	tmpl := cutface.Preset(cutface.PresetSquare)
	before := len(tmpl.Points)

	chamfered := cutface.Chamfer(tmpl)
	if len(chamfered.Points) != before*2 {
		t.Errorf("Chamfer produced %d points, want %d", len(chamfered.Points), before*2)
	}
}

func TestResolveEmptyFallsBackToSquare(t *testing.T) {
	s := &snapshot.Snapshot{Parts: map[string]attr.Map{}}
	idx := &snapshot.Index{}

	tmpl := cutface.Resolve(s, idx, "")
	if len(tmpl.Points) != 4 {
		t.Errorf("empty cutFace produced %d points, want 4 (Square fallback)", len(tmpl.Points))
	}
}

func TestResolveFromReferencedPartRing(t *testing.T) {
	const refPart = "44444444-4444-4444-4444-444444444444"
	s := &snapshot.Snapshot{
		Parts: map[string]attr.Map{refPart: {}},
		Nodes: map[string]attr.Map{
			"n1": {"partId": refPart, "x": "0", "y": "0"},
			"n2": {"partId": refPart, "x": "1", "y": "0"},
			"n3": {"partId": refPart, "x": "1", "y": "1"},
			"n4": {"partId": refPart, "x": "0", "y": "1"},
		},
		Edges: map[string]attr.Map{
			"e1": {"partId": refPart, "from": "n1", "to": "n2"},
			"e2": {"partId": refPart, "from": "n2", "to": "n3"},
			"e3": {"partId": refPart, "from": "n3", "to": "n4"},
			"e4": {"partId": refPart, "from": "n4", "to": "n1"},
		},
	}
	idx := snapshot.BuildIndex(s)

	tmpl := cutface.Resolve(s, idx, refPart)
	if len(tmpl.Points) != 4 {
		t.Fatalf("extracted ring has %d points, want 4", len(tmpl.Points))
	}
}
