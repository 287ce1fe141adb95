package export_test

import (
	"bytes"
	"testing"

	"github.com/nyx-lab/meshforge/pkg/export"
	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
)

func TestWriteThreeMFProducesOutput(t *testing.T) {
	obj := &kernel.Object{
		Vertices: []geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		TriangleAndQuads: []kernel.Face{
			{0, 1, 2},
		},
		Triangles: []kernel.Face{
			{0, 1, 2},
		},
	}
	var buf bytes.Buffer
	if err := export.WriteThreeMF(&buf, obj); err != nil {
		t.Fatalf("WriteThreeMF: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected non-empty 3mf output")
	}
}

func TestWriteCutFaceSVGProducesOutput(t *testing.T) {
	square := []geom.Vec2{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}}
	var buf bytes.Buffer
	if err := export.WriteCutFaceSVG(&buf, square); err != nil {
		t.Fatalf("WriteCutFaceSVG: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected non-empty svg output")
	}
}

func TestWriteCutFaceDXFRejectsTooFewPoints(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteCutFaceDXF(&buf, []geom.Vec2{{X: 0, Y: 0}}); err == nil {
		t.Error("expected an error for a single-point template")
	}
}
