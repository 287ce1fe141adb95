package snapshot_test

import (
	"testing"

	"github.com/nyx-lab/meshforge/pkg/attr"
	"github.com/nyx-lab/meshforge/pkg/snapshot"
)

func TestAnalyzeDirtyPropagatesToAncestors(t *testing.T) {
	s := &snapshot.Snapshot{
		Parts: map[string]attr.Map{
			"partA": {"__dirty": "true"},
			"partB": {},
		},
		Components: map[string]attr.Map{
			"root":  {"children": "group"},
			"group": {"children": "leafA,leafB"},
			"leafA": {"linkDataType": "partId", "linkData": "partA"},
			"leafB": {"linkDataType": "partId", "linkData": "partB"},
		},
		RootComponent: "root",
	}

	d := snapshot.AnalyzeDirty(s)

	for _, id := range []string{"leafA", "group", "root"} {
		if !d.Components[id] {
			t.Errorf("component %s should be dirty", id)
		}
	}
	if d.Components["leafB"] {
		t.Errorf("leafB should not be dirty")
	}
}

func TestAnalyzeDirtyCutFaceReference(t *testing.T) {
	s := &snapshot.Snapshot{
		Parts: map[string]attr.Map{
			"refPart":  {"__dirty": "true"},
			"userPart": {"cutFace": "refPart"},
		},
		Components: map[string]attr.Map{
			"root": {"children": "leaf"},
			"leaf": {"linkDataType": "partId", "linkData": "userPart"},
		},
		RootComponent: "root",
	}
	// cutFace values are UUID strings in production; use a non-UUID here to
	// confirm the non-UUID path (preset name) never registers as dirty.
	d := snapshot.AnalyzeDirty(s)
	if d.Components["leaf"] {
		t.Errorf("leaf should not be dirty when cutFace is not a UUID reference")
	}
}
