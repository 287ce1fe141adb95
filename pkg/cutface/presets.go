package cutface

import (
	"math"

	"github.com/nyx-lab/meshforge/pkg/geom"
)

// presetKind names a canonical built-in cut-face polygon, used when a part's
// cutFace attribute is not a reference to another part.
type presetKind string

const (
	PresetSquare   presetKind = "Square"
	PresetCircle   presetKind = "Circle"
	PresetTriangle presetKind = "Triangle"
	PresetHexagon  presetKind = "Hexagon"
)

var presetNames = map[presetKind]bool{
	PresetSquare: true, PresetCircle: true, PresetTriangle: true, PresetHexagon: true,
}

func parsePreset(name string) (presetKind, bool) {
	p := presetKind(name)
	return p, presetNames[p]
}

// circleSegments is the vertex count used to approximate the round presets.
const circleSegments = 24

// Preset returns the canonical polygon for a named preset.
func Preset(p presetKind) *Template {
	switch p {
	case PresetCircle:
		return &Template{Points: regularPolygon(circleSegments, 1)}
	case PresetTriangle:
		return &Template{Points: regularPolygon(3, 1)}
	case PresetHexagon:
		return &Template{Points: regularPolygon(6, 1)}
	default:
		return &Template{Points: []geom.Vec2{
			{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5},
		}}
	}
}

func regularPolygon(sides int, radius float64) []geom.Vec2 {
	pts := make([]geom.Vec2, sides)
	for i := 0; i < sides; i++ {
		theta := 2 * math.Pi * float64(i) / float64(sides)
		pts[i] = geom.Vec2{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
	}
	return pts
}
