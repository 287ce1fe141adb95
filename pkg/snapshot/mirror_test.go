package snapshot_test

import (
	"testing"

	"github.com/nyx-lab/meshforge/pkg/attr"
	"github.com/nyx-lab/meshforge/pkg/meshid"
	"github.com/nyx-lab/meshforge/pkg/snapshot"
)

func TestPreprocessMirrorCreatesTwin(t *testing.T) {
	// Ids whose hex digits do not read the same backwards, so meshid.Reverse
	// yields a twin id different from the source id.
	const partID = "11111111-2222-3333-4444-555555555555"
	const compID = "22222222-3333-4444-5555-666666666666"
	const rootID = "33333333-4444-5555-6666-777777777777"

	s := &snapshot.Snapshot{
		Parts: map[string]attr.Map{
			partID: {"xMirrored": "true", "color": "#ff0000"},
		},
		Components: map[string]attr.Map{
			rootID: {"children": compID},
			compID: {"linkDataType": "partId", "linkData": partID},
		},
		RootComponent: rootID,
	}

	snapshot.PreprocessMirror(s)

	twinPartID := meshid.Reverse(partID)
	twin, ok := s.Parts[twinPartID]
	if !ok {
		t.Fatalf("expected twin part %s to exist", twinPartID)
	}
	if twin["__mirrorFromPartId"] != partID {
		t.Errorf("twin __mirrorFromPartId = %q, want %q", twin["__mirrorFromPartId"], partID)
	}
	if s.Parts[partID]["__mirroredByPartId"] != twinPartID {
		t.Errorf("original __mirroredByPartId = %q, want %q", s.Parts[partID]["__mirroredByPartId"], twinPartID)
	}

	twinCompID := meshid.Reverse(compID)
	twinComp, ok := s.Components[twinCompID]
	if !ok {
		t.Fatalf("expected twin component %s to exist", twinCompID)
	}
	if twinComp["linkData"] != twinPartID {
		t.Errorf("twin component linkData = %q, want %q", twinComp["linkData"], twinPartID)
	}

	children := snapshot.ComponentChildren(s.Components[rootID])
	found := false
	for _, c := range children {
		if c == twinCompID {
			found = true
		}
	}
	if !found {
		t.Errorf("root children %v missing twin component %s", children, twinCompID)
	}
}

func TestPreprocessMirrorIdempotent(t *testing.T) {
	const partID = "11111111-2222-3333-4444-555555555555"
	const compID = "22222222-3333-4444-5555-666666666666"
	const rootID = "33333333-4444-5555-6666-777777777777"

	s := &snapshot.Snapshot{
		Parts: map[string]attr.Map{
			partID: {"xMirrored": "true"},
		},
		Components: map[string]attr.Map{
			rootID: {"children": compID},
			compID: {"linkDataType": "partId", "linkData": partID},
		},
		RootComponent: rootID,
	}

	snapshot.PreprocessMirror(s)
	partCountAfterFirst := len(s.Parts)
	snapshot.PreprocessMirror(s)

	if len(s.Parts) != partCountAfterFirst {
		t.Errorf("second PreprocessMirror changed part count: %d -> %d", partCountAfterFirst, len(s.Parts))
	}
}
