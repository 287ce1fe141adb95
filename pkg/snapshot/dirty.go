package snapshot

import "github.com/nyx-lab/meshforge/pkg/meshid"

// DirtySet is the closure of dirty component and part ids computed for one
// generation run.
type DirtySet struct {
	Components map[string]bool
	Parts      map[string]bool
}

// AnalyzeDirty walks the component tree rooted at s.RootComponent and
// returns every component and part id whose cached mesh can no longer be
// trusted: components flagged __dirty directly, leaf components whose part
// (or a part it references as a cut face) is dirty, and any component that
// has a dirty descendant. The root component id (and the nil id) is always
// included so the final combine step always runs.
func AnalyzeDirty(s *Snapshot) *DirtySet {
	d := &DirtySet{
		Components: make(map[string]bool),
		Parts:      make(map[string]bool),
	}
	for partID, p := range s.Parts {
		if p.Bool("__dirty") {
			d.Parts[partID] = true
		}
	}
	visited := make(map[string]bool)
	if s.RootComponent != "" {
		walkDirty(s, s.RootComponent, d, visited)
	}
	d.Components[meshid.Nil] = true
	if s.RootComponent != "" {
		d.Components[s.RootComponent] = true
	}
	return d
}

func walkDirty(s *Snapshot, compID string, d *DirtySet, visited map[string]bool) bool {
	if visited[compID] {
		return d.Components[compID]
	}
	visited[compID] = true

	c, ok := s.Components[compID]
	if !ok {
		return false
	}

	dirty := c.Bool("__dirty")

	if c.String("linkDataType", "") == "partId" {
		partID := c.String("linkData", "")
		if d.Parts[partID] {
			dirty = true
		}
		if p, ok := s.Parts[partID]; ok {
			if refID, isRef := meshid.Parse(p.String("cutFace", "")); isRef && d.Parts[refID] {
				dirty = true
			}
		}
	}

	for _, childID := range ComponentChildren(c) {
		if walkDirty(s, childID, d, visited) {
			dirty = true
		}
	}

	if dirty {
		d.Components[compID] = true
	}
	return dirty
}
