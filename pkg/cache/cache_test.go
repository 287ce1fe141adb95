package cache_test

import (
	"testing"

	"github.com/nyx-lab/meshforge/pkg/attr"
	"github.com/nyx-lab/meshforge/pkg/cache"
	"github.com/nyx-lab/meshforge/pkg/kernel"
	"github.com/nyx-lab/meshforge/pkg/snapshot"
)

func TestEvictDropsCombinationsContainingDirtyID(t *testing.T) {
	c := cache.New()
	c.Combinations["compA+compB!"] = &kernel.Mesh{}
	c.Combinations["compC+compD!"] = &kernel.Mesh{}

	d := &snapshot.DirtySet{
		Components: map[string]bool{"compA": true},
		Parts:      map[string]bool{},
	}
	c.Evict(d)

	if _, ok := c.Combinations["compA+compB!"]; ok {
		t.Error("expected combination containing dirty id compA to be evicted")
	}
	if _, ok := c.Combinations["compC+compD!"]; !ok {
		t.Error("combination not touching the dirty id should survive")
	}
}

func TestEvictDanglingRemovesDeletedParts(t *testing.T) {
	c := cache.New()
	c.Parts["gone"] = &cache.PartEntry{}
	c.Parts["stays"] = &cache.PartEntry{}

	s := &snapshot.Snapshot{
		Parts:      map[string]attr.Map{"stays": {}},
		Components: map[string]attr.Map{},
	}
	c.EvictDangling(s)

	if _, ok := c.Parts["gone"]; ok {
		t.Error("deleted part should be evicted")
	}
	if _, ok := c.Parts["stays"]; !ok {
		t.Error("surviving part should remain cached")
	}
}
