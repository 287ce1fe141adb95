package kernel_test

import (
	"testing"

	"github.com/nyx-lab/meshforge/pkg/geom"
	"github.com/nyx-lab/meshforge/pkg/kernel"
)

func TestMeshCloneIsIndependent(t *testing.T) {
	m := &kernel.Mesh{
		Vertices: []geom.Vec3{{X: 0, Y: 0, Z: 0}},
		Faces:    []kernel.Face{{0, 0, 0}},
	}
	clone := m.Clone()
	clone.Vertices[0].X = 99

	if m.Vertices[0].X == 99 {
		t.Fatal("mutating clone affected the original mesh")
	}
}

func TestMeshIsNull(t *testing.T) {
	tests := []struct {
		name string
		m    *kernel.Mesh
		want bool
	}{
		{"nil", nil, true},
		{"empty", &kernel.Mesh{}, true},
		{"no faces", &kernel.Mesh{Vertices: []geom.Vec3{{}}}, true},
		{"populated", &kernel.Mesh{Vertices: []geom.Vec3{{}, {}, {}}, Faces: []kernel.Face{{0, 1, 2}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsNull(); got != tt.want {
				t.Errorf("IsNull() = %v, want %v", got, tt.want)
			}
		})
	}
}
