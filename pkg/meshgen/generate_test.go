package meshgen_test

import (
	"testing"

	"github.com/nyx-lab/meshforge/pkg/attr"
	"github.com/nyx-lab/meshforge/pkg/cache"
	"github.com/nyx-lab/meshforge/pkg/meshgen"
	"github.com/nyx-lab/meshforge/pkg/snapshot"
)

func singleSphereSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Parts: map[string]attr.Map{
			"part1": {"target": "Model"},
		},
		Nodes: map[string]attr.Map{
			"node1": {"partId": "part1", "x": "0", "y": "0", "z": "0", "radius": "1"},
		},
		Components: map[string]attr.Map{
			"root": {"linkDataType": "partId", "linkData": "part1"},
		},
		RootComponent: "root",
	}
}

func TestGenerateSingleSphere(t *testing.T) {
	s := singleSphereSnapshot()
	obj, err := meshgen.Generate(s, cache.New(), meshgen.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !obj.IsSuccessful {
		t.Error("expected IsSuccessful=true for a single valid sphere")
	}
	if len(obj.Vertices) == 0 || len(obj.TriangleAndQuads) == 0 {
		t.Fatal("expected non-empty geometry")
	}
	for _, src := range obj.TriangleSourceNodes {
		if src.NodeID != "node1" && src.NodeID != "" {
			t.Errorf("unexpected source node %q, want node1", src.NodeID)
		}
	}
}

func TestGenerateColoredPartYieldsNonWhiteTriangle(t *testing.T) {
	s := &snapshot.Snapshot{
		Parts: map[string]attr.Map{
			"part1": {"target": "Model", "color": "#ff0000"},
		},
		Nodes: map[string]attr.Map{
			"node1": {"partId": "part1", "x": "0", "y": "0", "z": "0", "radius": "1"},
		},
		Components: map[string]attr.Map{
			"root": {"linkDataType": "partId", "linkData": "part1"},
		},
		RootComponent: "root",
	}
	obj, err := meshgen.Generate(s, cache.New(), meshgen.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(obj.TriangleColors) == 0 {
		t.Fatal("expected populated triangle colors")
	}
	white := [3]float64{1, 1, 1}
	found := false
	for _, c := range obj.TriangleColors {
		if c != white {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected at least one non-white triangle from a part with a color attribute")
	}
}

func TestGenerateTwoNodeTube(t *testing.T) {
	s := &snapshot.Snapshot{
		Parts: map[string]attr.Map{"part1": {"target": "Model"}},
		Nodes: map[string]attr.Map{
			"node1": {"partId": "part1", "x": "0", "y": "0", "z": "0", "radius": "1"},
			"node2": {"partId": "part1", "x": "2", "y": "0", "z": "0", "radius": "1"},
		},
		Edges: map[string]attr.Map{
			"edge1": {"partId": "part1", "from": "node1", "to": "node2"},
		},
		Components: map[string]attr.Map{
			"root": {"linkDataType": "partId", "linkData": "part1"},
		},
		RootComponent: "root",
	}
	obj, err := meshgen.Generate(s, cache.New(), meshgen.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !obj.IsSuccessful {
		t.Fatal("expected successful tube generation")
	}
}

func TestGenerateDirtyInvalidationClearsCombinationCache(t *testing.T) {
	s := &snapshot.Snapshot{
		Parts: map[string]attr.Map{
			"partA": {"target": "Model"},
			"partB": {"target": "Model"},
		},
		Nodes: map[string]attr.Map{
			"n1": {"partId": "partA", "x": "0", "y": "0", "z": "0", "radius": "1"},
			"n2": {"partId": "partB", "x": "0.5", "y": "0", "z": "0", "radius": "1"},
		},
		Components: map[string]attr.Map{
			"root":  {"children": "leafA,leafB"},
			"leafA": {"linkDataType": "partId", "linkData": "partA"},
			"leafB": {"linkDataType": "partId", "linkData": "partB"},
		},
		RootComponent: "root",
	}
	cc := cache.New()

	if _, err := meshgen.Generate(s, cc, meshgen.GenerateOptions{}); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if len(cc.Combinations) == 0 {
		t.Fatal("expected the first generation to populate the combination cache")
	}

	s.Parts["partA"]["__dirty"] = "true"
	if _, err := meshgen.Generate(s, cc, meshgen.GenerateOptions{}); err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	for key := range cc.Combinations {
		if containsSubstring(key, "leafA") {
			t.Errorf("combination key %q should have been evicted after marking partA (and its owning component leafA) dirty", key)
		}
	}
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
