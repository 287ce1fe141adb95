package post

import (
	"math"

	"github.com/samber/lo"

	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
)

// SmoothNormalGenerator is the concrete kernel.SmoothNormalGenerator: it
// averages face normals across faces sharing a vertex, except across
// creases sharper than the threshold, which keep their own face normal.
type SmoothNormalGenerator struct{}

// NewSmoothNormalGenerator returns a ready-to-use generator.
func NewSmoothNormalGenerator() *SmoothNormalGenerator { return &SmoothNormalGenerator{} }

// SmoothNormals implements kernel.SmoothNormalGenerator. obj.TriangleNormals
// must already be populated with one face normal per triangle (see
// FaceNormals) before calling this.
func (g *SmoothNormalGenerator) SmoothNormals(obj *kernel.Object, thresholdDegrees float64) {
	thresholdCos := math.Cos(thresholdDegrees * math.Pi / 180)

	byVertex := make(map[int][]int) // vertex index -> triangle indices touching it
	for ti, f := range obj.Triangles {
		for _, v := range f {
			byVertex[v] = append(byVertex[v], ti)
		}
	}

	obj.TriangleVertexNormals = make([][]geom.Vec3, len(obj.Triangles))
	for ti, f := range obj.Triangles {
		obj.TriangleVertexNormals[ti] = make([]geom.Vec3, len(f))
		faceNormal := obj.TriangleNormals[ti]
		for vi, v := range f {
			touching := byVertex[v]
			smooth := faceNormal
			count := 1
			for _, other := range touching {
				if other == ti {
					continue
				}
				dot := dot3(faceNormal, obj.TriangleNormals[other])
				if dot >= thresholdCos {
					smooth = geom.Add(smooth, obj.TriangleNormals[other])
					count++
				}
			}
			obj.TriangleVertexNormals[ti][vi] = normalizeOrFallback(geom.Scale(smooth, 1/float64(count)), faceNormal)
		}
	}
}

// FaceNormals computes one flat normal per triangle of obj.Triangles from
// its three vertices.
func FaceNormals(obj *kernel.Object) {
	obj.TriangleNormals = lo.Map(obj.Triangles, func(f kernel.Face, _ int) geom.Vec3 {
		if len(f) < 3 {
			return geom.Vec3{}
		}
		a, b, c := obj.Vertices[f[0]], obj.Vertices[f[1]], obj.Vertices[f[2]]
		ab := geom.Sub(b, a)
		ac := geom.Sub(c, a)
		n := geom.Vec3{
			X: ab.Y*ac.Z - ab.Z*ac.Y,
			Y: ab.Z*ac.X - ab.X*ac.Z,
			Z: ab.X*ac.Y - ab.Y*ac.X,
		}
		return normalizeOrFallback(n, geom.Vec3{X: 0, Y: 1, Z: 0})
	})
}

func dot3(a, b geom.Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func normalizeOrFallback(v, fallback geom.Vec3) geom.Vec3 {
	l := math.Sqrt(dot3(v, v))
	if l == 0 {
		return fallback
	}
	return geom.Scale(v, 1/l)
}
