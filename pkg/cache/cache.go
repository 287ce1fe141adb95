// Package cache owns the per-part, per-component and combination-keyed
// mesh caches that make regeneration incremental: a generation run reuses
// every cache entry whose dirty closure (see pkg/snapshot) does not touch
// it, and evicts the rest.
package cache

import (
	"strings"

	"github.com/nyx-lab/meshforge/pkg/kernel"
	"github.com/nyx-lab/meshforge/pkg/snapshot"
)

// PartEntry is the cached mesh-building result for one leaf part.
type PartEntry struct {
	Mesh        *kernel.Mesh
	PreviewMesh *kernel.Mesh
	// ErrorPreview holds a best-effort triangulated mesh built from
	// whatever raw geometry a failed build managed to produce, so a
	// failure still surfaces something (rendered red) instead of nothing.
	// Nil when the build failed before any geometry existed at all (for
	// example, a part authored with no skeleton nodes).
	ErrorPreview *kernel.Mesh
	IsSuccessful bool
	Joined       bool
}

// ComponentEntry is the cached combination result for one non-leaf
// component.
type ComponentEntry struct {
	Mesh               *kernel.Mesh
	IncombinableMeshes []*kernel.Mesh
	// Failed is true if this subtree contains a joined part that failed to
	// build, even if the rest of the subtree still combined into Mesh.
	Failed bool
	// ErrorPreviews holds the triangulated raw geometry of every failed
	// joined part in this subtree, carried up so Generate can still emit
	// something (rendered red) for a part that never produced usable
	// geometry.
	ErrorPreviews []*kernel.Mesh
}

// Context owns every cache entry live across generation runs against edits
// of the same snapshot. It is exclusively owned by at most one running
// generator at a time; nothing here is safe for concurrent use.
type Context struct {
	Parts        map[string]*PartEntry
	Components   map[string]*ComponentEntry
	Combinations map[string]*kernel.Mesh // combination string -> result, nil memoizes failure
}

// New returns an empty cache context.
func New() *Context {
	return &Context{
		Parts:        make(map[string]*PartEntry),
		Components:   make(map[string]*ComponentEntry),
		Combinations: make(map[string]*kernel.Mesh),
	}
}

// Evict drops every cache entry named directly by the dirty set, plus every
// combination-cache entry whose key contains a dirty component id as a
// substring — the cascading rule from the dirty analyzer.
func (c *Context) Evict(d *snapshot.DirtySet) {
	for id := range d.Parts {
		delete(c.Parts, id)
	}
	for id := range d.Components {
		delete(c.Components, id)
	}
	for key := range c.Combinations {
		for id := range d.Components {
			if strings.Contains(key, id) {
				delete(c.Combinations, key)
				break
			}
		}
	}
}

// EvictDangling drops cache entries whose id no longer exists in s, freeing
// meshes for parts and components that were deleted from the snapshot
// rather than merely marked dirty.
func (c *Context) EvictDangling(s *snapshot.Snapshot) {
	for id := range c.Parts {
		if _, ok := s.Parts[id]; !ok {
			delete(c.Parts, id)
		}
	}
	for id := range c.Components {
		if _, ok := s.Components[id]; !ok {
			delete(c.Components, id)
		}
	}
	for key := range c.Combinations {
		if !anyComponentIDIn(key, s.Components) {
			delete(c.Combinations, key)
		}
	}
}

// anyComponentIDIn reports whether key contains at least one of the
// snapshot's current component ids as a substring. A combination key built
// entirely from ids that no longer exist can never be reproduced, so it is
// safe to drop.
func anyComponentIDIn[V any](key string, components map[string]V) bool {
	for id := range components {
		if strings.Contains(key, id) {
			return true
		}
	}
	return false
}
