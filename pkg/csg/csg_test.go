package csg_test

import (
	"testing"

	"github.com/nyx-lab/meshforge/pkg/csg"
	"github.com/nyx-lab/meshforge/pkg/cutface"
	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
	"github.com/nyx-lab/meshforge/pkg/strokemesh"
)

func sphereAt(t *testing.T, x float64) *kernel.Mesh {
	t.Helper()
	nodes := []strokemesh.NodeInfo{{ID: "n", Position: geom.Vec3{X: x, Y: 0, Z: 0}, Radius: 1}}
	tmpl := cutface.Preset(cutface.PresetCircle)
	m, err := strokemesh.New().Build(nodes, nil, tmpl, strokemesh.Params{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestCombineUnionOfOverlappingSpheres(t *testing.T) {
	a := sphereAt(t, 0)
	b := sphereAt(t, 0.5)

	c := &csg.Combiner{Cells: 24}
	out, err := c.Combine(a, b, kernel.MethodUnion)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if out == nil || len(out.Vertices) == 0 {
		t.Fatal("expected a non-empty combined mesh")
	}
}
