package export

import (
	"fmt"
	"io"

	"github.com/ajstarks/svgo"
	"github.com/yofu/dxf"

	"github.com/nyx-lab/meshforge/pkg/geom"
)

// WriteCutFaceDXF writes a cut-face template as a closed loop of separate
// LINE entities (last point joined back to the first) in a DXF drawing, for
// CAD interchange.
func WriteCutFaceDXF(w io.Writer, template []geom.Vec2) error {
	if len(template) < 2 {
		return fmt.Errorf("export: cut-face template needs at least 2 points")
	}
	d := dxf.NewDrawing()
	d.Layer("cutface", false)

	pts := make([][]float64, 0, len(template)+1)
	for _, p := range template {
		pts = append(pts, []float64{p.X, p.Y, 0})
	}
	pts = append(pts, pts[0])
	for i := 0; i < len(pts)-1; i++ {
		d.Line(pts[i][0], pts[i][1], pts[i][2], pts[i+1][0], pts[i+1][1], pts[i+1][2])
	}

	if _, err := d.WriteTo(w); err != nil {
		return fmt.Errorf("export: writing dxf: %w", err)
	}
	return nil
}

// WriteCutFaceSVG renders a cut-face template as an unfilled, outlined SVG polygon,
// scaled to fit a fixed-size viewport, for debugging without a 3D viewer.
func WriteCutFaceSVG(w io.Writer, template []geom.Vec2) error {
	const size = 512
	const margin = 32

	minX, minY, maxX, maxY := bounds(template)
	scale := (size - 2*margin) / maxDim(maxX-minX, maxY-minY)

	canvas := svg.New(w)
	canvas.Start(size, size)
	xs := make([]int, len(template))
	ys := make([]int, len(template))
	for i, p := range template {
		xs[i] = int(margin + (p.X-minX)*scale)
		ys[i] = int(margin + (p.Y-minY)*scale)
	}
	canvas.Polygon(xs, ys, "fill:none;stroke:black;stroke-width:2")
	canvas.End()
	return nil
}

func bounds(pts []geom.Vec2) (minX, minY, maxX, maxY float64) {
	if len(pts) == 0 {
		return 0, 0, 1, 1
	}
	minX, minY = pts[0].X, pts[0].Y
	maxX, maxY = pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return
}

func maxDim(a, b float64) float64 {
	if a > b {
		if a == 0 {
			return 1
		}
		return a
	}
	if b == 0 {
		return 1
	}
	return b
}
