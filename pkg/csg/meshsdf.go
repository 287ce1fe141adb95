// Package csg implements the kernel.Combiner contract on top of
// github.com/deadsy/sdfx: each mesh operand is wrapped as a signed distance
// field, combined with sdfx's boolean primitives, and remeshed with
// marching cubes. This is the same dependency and mesh-from-SDF technique
// pkg/kernel/sdfx used for primitive solids in the teacher, repurposed here
// to combine arbitrary triangle meshes instead of boxes and cylinders.
package csg

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
)

// meshSDF adapts a kernel.Mesh to sdf.SDF3 via nearest-triangle distance
// and a ray-parity inside test. It is only accurate away from thin
// features, which is acceptable: it exists purely to drive marching-cubes
// remeshing for a boolean, not to be a precision distance field.
type meshSDF struct {
	mesh *kernel.Mesh
	box  sdf.Box3
	tris [][3]geom.Vec3
}

func newMeshSDF(m *kernel.Mesh) *meshSDF {
	s := &meshSDF{mesh: m}
	s.tris = triangulateFaces(m)

	min := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.Vertices {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	pad := max.Sub(min).Length() * 0.05
	padV := v3.Vec{X: pad, Y: pad, Z: pad}
	s.box = sdf.Box3{Min: min.Sub(padV), Max: max.Add(padV)}
	return s
}

func triangulateFaces(m *kernel.Mesh) [][3]geom.Vec3 {
	var tris [][3]geom.Vec3
	for _, f := range m.Faces {
		if len(f) < 3 {
			continue
		}
		for i := 1; i < len(f)-1; i++ {
			tris = append(tris, [3]geom.Vec3{
				m.Vertices[f[0]], m.Vertices[f[i]], m.Vertices[f[i+1]],
			})
		}
	}
	return tris
}

// BoundingBox implements sdf.SDF3.
func (s *meshSDF) BoundingBox() sdf.Box3 { return s.box }

// Evaluate implements sdf.SDF3: unsigned nearest-triangle distance, signed
// by a ray-cast parity test along +X.
func (s *meshSDF) Evaluate(p v3.Vec) float64 {
	dist := math.Inf(1)
	for _, tri := range s.tris {
		d := pointTriangleDistance(p, tri)
		if d < dist {
			dist = d
		}
	}
	if s.inside(p) {
		return -dist
	}
	return dist
}

func (s *meshSDF) inside(p v3.Vec) bool {
	crossings := 0
	for _, tri := range s.tris {
		if rayCrossesTriangle(p, tri) {
			crossings++
		}
	}
	return crossings%2 == 1
}

func rayCrossesTriangle(p v3.Vec, tri [3]geom.Vec3) bool {
	a, b, c := tri[0], tri[1], tri[2]
	if (a.Y > p.Y) == (b.Y > p.Y) && (b.Y > p.Y) == (c.Y > p.Y) {
		return false
	}
	if (a.Z > p.Z) == (b.Z > p.Z) && (b.Z > p.Z) == (c.Z > p.Z) {
		return false
	}
	// Barycentric-ish planar test in the YZ plane, then check the
	// intersection X exceeds p.X (ray direction +X).
	denom := (b.Y-c.Y)*(a.Z-c.Z) + (c.Z-b.Z)*(a.Y-c.Y)
	if denom == 0 {
		return false
	}
	l1 := ((b.Y-c.Y)*(p.Z-c.Z) + (c.Z-b.Z)*(p.Y-c.Y)) / denom
	l2 := ((c.Y-a.Y)*(p.Z-c.Z) + (a.Z-c.Z)*(p.Y-c.Y)) / denom
	l3 := 1 - l1 - l2
	if l1 < 0 || l2 < 0 || l3 < 0 {
		return false
	}
	x := l1*a.X + l2*b.X + l3*c.X
	return x > p.X
}

func pointTriangleDistance(p v3.Vec, tri [3]geom.Vec3) float64 {
	a, b, c := tri[0], tri[1], tri[2]
	closest := closestPointOnTriangle(p, a, b, c)
	return closest.Sub(p).Length()
}

// closestPointOnTriangle finds the closest point on triangle abc to p using
// barycentric clamping.
func closestPointOnTriangle(p, a, b, c v3.Vec) v3.Vec {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.MulScalar(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.MulScalar(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).MulScalar(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.MulScalar(v)).Add(ac.MulScalar(w))
}
