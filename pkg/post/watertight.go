package post

import "github.com/nyx-lab/meshforge/pkg/kernel"

// IsWatertight reports whether every directed half-edge of m has exactly
// one opposite half-edge and no directed half-edge repeats: the invariant
// combineTwoMeshes checks before trusting a recombined result.
func IsWatertight(m *kernel.Mesh) bool {
	type directedEdge struct{ from, to int }
	seen := make(map[directedEdge]bool)

	for _, f := range m.Faces {
		n := len(f)
		for i := 0; i < n; i++ {
			a, b := f[i], f[(i+1)%n]
			de := directedEdge{a, b}
			if seen[de] {
				return false // directed half-edge repeats
			}
			seen[de] = true
		}
	}
	for de := range seen {
		if !seen[directedEdge{de.to, de.from}] {
			return false // no matching opposite
		}
	}
	return true
}
