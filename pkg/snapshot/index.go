package snapshot

import (
	"sort"
	"strings"
)

// Index is the part->{nodes,edges} adjacency computed once per generation
// run, replacing linear scans over the whole snapshot.
type Index struct {
	PartNodes map[string][]string
	PartEdges map[string][]string
}

// BuildIndex scans nodes and edges once and groups them by owning part.
// Snapshot.Nodes/Edges are plain maps with no authored ordering of their
// own, and Go's map iteration order is randomized per run; every slice is
// sorted by id before being returned so the same snapshot always yields
// the same PartNodes/PartEdges order; a chain's start/end and its winding
// depend on it downstream.
func BuildIndex(s *Snapshot) *Index {
	idx := &Index{
		PartNodes: make(map[string][]string),
		PartEdges: make(map[string][]string),
	}
	for nodeID, n := range s.Nodes {
		partID := n.String("partId", "")
		if partID == "" {
			continue
		}
		idx.PartNodes[partID] = append(idx.PartNodes[partID], nodeID)
	}
	for edgeID, e := range s.Edges {
		partID := e.String("partId", "")
		if partID == "" {
			continue
		}
		idx.PartEdges[partID] = append(idx.PartEdges[partID], edgeID)
	}
	for _, ids := range idx.PartNodes {
		sort.Strings(ids)
	}
	for _, ids := range idx.PartEdges {
		sort.Strings(ids)
	}
	return idx
}

// ComponentChildren parses a component's CSV children list.
func ComponentChildren(c map[string]string) []string {
	raw := c["children"]
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
