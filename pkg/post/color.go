package post

import (
	"strconv"
	"strings"

	"github.com/nyx-lab/meshforge/pkg/attr"
	"github.com/nyx-lab/meshforge/pkg/kernel"
)

// White is the default triangle color for parts that set no color
// attribute, or whose source part can no longer be resolved.
var White = [3]float64{1, 1, 1}

// Colorizer assigns per-triangle colors by mapping each triangle's
// originating part id to that part's color attribute.
type Colorizer struct{}

func NewColorizer() *Colorizer { return &Colorizer{} }

// Colorize fills obj.TriangleColors from obj.TriangleSourceNodes, looking
// up each source part's color attribute in parts. Must run after
// ResolveTriangleSourceNodes.
func (c *Colorizer) Colorize(obj *kernel.Object, parts map[string]attr.Map) {
	cache := make(map[string][3]float64, len(parts))
	obj.TriangleColors = make([][3]float64, len(obj.TriangleSourceNodes))
	for i, src := range obj.TriangleSourceNodes {
		obj.TriangleColors[i] = colorForPart(src.PartID, parts, cache)
	}
}

// ColorForPart resolves a single part's color attribute, defaulting to
// White. Exposed for callers that annotate individual nodes (see
// kernel.ObjectNode) rather than a whole triangle array.
func ColorForPart(partID string, parts map[string]attr.Map) [3]float64 {
	return colorForPart(partID, parts, map[string][3]float64{})
}

func colorForPart(partID string, parts map[string]attr.Map, cache map[string][3]float64) [3]float64 {
	if c, ok := cache[partID]; ok {
		return c
	}
	p, ok := parts[partID]
	if !ok {
		cache[partID] = White
		return White
	}
	c := parseColor(p.String("color", ""))
	cache[partID] = c
	return c
}

// parseColor accepts a "#rrggbb" hex string and falls back to White for
// anything empty or malformed.
func parseColor(s string) [3]float64 {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return White
	}
	r, err1 := strconv.ParseUint(s[0:2], 16, 8)
	g, err2 := strconv.ParseUint(s[2:4], 16, 8)
	b, err3 := strconv.ParseUint(s[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return White
	}
	return [3]float64{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}
