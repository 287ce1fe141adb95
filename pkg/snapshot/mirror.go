package snapshot

import (
	"github.com/nyx-lab/meshforge/pkg/attr"
	"github.com/nyx-lab/meshforge/pkg/meshid"
)

// PreprocessMirror scans s for parts flagged xMirrored and synthesizes a
// twin part plus a twin component for each, linking originals and twins via
// the __mirrorFromPartId / __mirroredByPartId attributes. It mutates s in
// place and is idempotent: a part already carrying __mirrorFromPartId is
// never re-mirrored, and re-running against a snapshot whose twins already
// exist is a no-op because the derived twin id is deterministic.
func PreprocessMirror(s *Snapshot) {
	parentOf := componentParents(s)

	for partID, p := range s.Parts {
		if !p.Bool("xMirrored") {
			continue
		}
		if p.Has("__mirrorFromPartId") {
			continue // already a twin, do not mirror a mirror
		}
		twinPartID := meshid.Reverse(partID)
		if _, exists := s.Parts[twinPartID]; !exists {
			twin := cloneMap(p)
			twin["__mirrorFromPartId"] = partID
			twin["__dirty"] = "true"
			s.Parts[twinPartID] = twin
		}
		s.Parts[partID]["__mirroredByPartId"] = twinPartID

		for compID, c := range s.Components {
			if c.String("linkDataType", "") != "partId" || c.String("linkData", "") != partID {
				continue
			}
			twinCompID := meshid.Reverse(compID)
			if _, exists := s.Components[twinCompID]; exists {
				continue
			}
			twinComp := cloneMap(c)
			twinComp["linkData"] = twinPartID
			s.Components[twinCompID] = twinComp

			parent := parentOf[compID]
			if parent == "" {
				parent = s.RootComponent
			}
			appendChild(s.Components[parent], twinCompID)
		}
	}
}

// componentParents maps every non-root component id to its parent's id.
func componentParents(s *Snapshot) map[string]string {
	parents := make(map[string]string)
	for id, c := range s.Components {
		for _, child := range ComponentChildren(c) {
			parents[child] = id
		}
	}
	return parents
}

func appendChild(parent attr.Map, childID string) {
	if parent == nil {
		return
	}
	existing := parent["children"]
	if existing == "" {
		parent["children"] = childID
		return
	}
	parent["children"] = existing + "," + childID
}
