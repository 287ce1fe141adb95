package meshgen

import (
	"fmt"
	"strings"

	"github.com/nyx-lab/meshforge/pkg/cache"
	"github.com/nyx-lab/meshforge/pkg/kernel"
	"github.com/nyx-lab/meshforge/pkg/post"
	"github.com/nyx-lab/meshforge/pkg/snapshot"
)

// operand is one child's contribution to a combination: its mesh plus the
// combine mode that decides whether it unions or subtracts into the
// running accumulator.
type operand struct {
	id   string
	mesh *kernel.Mesh
	mode snapshot.CombineMode
}

// resolved is the result of combining one component subtree.
type resolved struct {
	mesh         *kernel.Mesh
	incombinable []*kernel.Mesh
	// failed is true if this subtree contains a joined part that failed to
	// build. A subtree can still produce a non-nil mesh from its other
	// children while failed is true.
	failed bool
	// errorPreviews holds the triangulated raw geometry of every failed
	// joined part encountered in this subtree.
	errorPreviews []*kernel.Mesh
}

type resolver struct {
	s          *snapshot.Snapshot
	idx        *snapshot.Index
	cc         *cache.Context
	combiner   kernel.Combiner
	recombiner kernel.Recombiner
}

// resolveComponent returns the combined mesh for a component subtree,
// building leaf parts and recursing into children as needed, and caching
// the result.
func (r *resolver) resolveComponent(compID string) (*resolved, error) {
	if entry, ok := r.cc.Components[compID]; ok {
		return &resolved{
			mesh:          entry.Mesh,
			incombinable:  entry.IncombinableMeshes,
			failed:        entry.Failed,
			errorPreviews: entry.ErrorPreviews,
		}, nil
	}

	c, ok := r.s.Components[compID]
	if !ok {
		return &resolved{}, nil
	}

	if c.String("linkDataType", "") == "partId" {
		partID := c.String("linkData", "")
		entry, err := buildPart(r.s, r.idx, r.cc, partID)
		if err != nil {
			return nil, err
		}
		res := &resolved{}
		if entry.IsSuccessful && entry.Joined {
			res.mesh = entry.Mesh
		}
		if entry.Joined && !entry.IsSuccessful {
			res.failed = true
			if entry.ErrorPreview != nil {
				res.errorPreviews = append(res.errorPreviews, entry.ErrorPreview)
			}
		}
		r.cc.Components[compID] = &cache.ComponentEntry{
			Mesh:          res.mesh,
			Failed:        res.failed,
			ErrorPreviews: res.errorPreviews,
		}
		return res, nil
	}

	children := snapshot.ComponentChildren(c)
	groups := groupByCombineMode(r.s, children)

	var groupOperands []operand
	var incombinable []*kernel.Mesh
	var failed bool
	var errorPreviews []*kernel.Mesh

	for _, g := range groups {
		if g.mode == snapshot.CombineUncombined {
			for _, childID := range g.children {
				childRes, err := r.resolveComponent(childID)
				if err != nil {
					return nil, err
				}
				if childRes.mesh != nil {
					incombinable = append(incombinable, childRes.mesh)
				}
				incombinable = append(incombinable, childRes.incombinable...)
				failed = failed || childRes.failed
				errorPreviews = append(errorPreviews, childRes.errorPreviews...)
			}
			continue
		}

		var subOperands []operand
		for _, childID := range g.children {
			childRes, err := r.resolveComponent(childID)
			if err != nil {
				return nil, err
			}
			if childRes.mesh != nil {
				subOperands = append(subOperands, operand{id: childID, mesh: childRes.mesh, mode: snapshot.CombineNormal})
			}
			incombinable = append(incombinable, childRes.incombinable...)
			failed = failed || childRes.failed
			errorPreviews = append(errorPreviews, childRes.errorPreviews...)
		}

		groupMesh, groupIncombinable, err := r.combineMultipleMeshes(subOperands, true)
		if err != nil {
			return nil, err
		}
		incombinable = append(incombinable, groupIncombinable...)
		if groupMesh != nil {
			groupID := "grp:" + strings.Join(g.children, "+")
			groupOperands = append(groupOperands, operand{id: groupID, mesh: groupMesh, mode: g.mode})
		}
	}

	finalMesh, finalIncombinable, err := r.combineMultipleMeshes(groupOperands, true)
	if err != nil {
		return nil, err
	}
	incombinable = append(incombinable, finalIncombinable...)

	r.cc.Components[compID] = &cache.ComponentEntry{
		Mesh:               finalMesh,
		IncombinableMeshes: incombinable,
		Failed:             failed,
		ErrorPreviews:      errorPreviews,
	}
	return &resolved{mesh: finalMesh, incombinable: incombinable, failed: failed, errorPreviews: errorPreviews}, nil
}

type group struct {
	mode     snapshot.CombineMode
	children []string
}

// groupByCombineMode partitions children into contiguous runs of the same
// combine mode, with every Inversion or Uncombined child forced into its
// own singleton group so a subtraction is never conflated with its
// neighbors.
func groupByCombineMode(s *snapshot.Snapshot, children []string) []group {
	var groups []group
	var current *group

	for _, childID := range children {
		mode := snapshot.CombineNormal
		if c, ok := s.Components[childID]; ok {
			mode = snapshot.ComponentCombineMode(c)
		}

		startNew := current == nil || current.mode != mode || mode != snapshot.CombineNormal
		if startNew {
			if current != nil {
				groups = append(groups, *current)
			}
			current = &group{mode: mode, children: []string{childID}}
		} else {
			current.children = append(current.children, childID)
		}
	}
	if current != nil {
		groups = append(groups, *current)
	}
	return groups
}

// combineMultipleMeshes folds operands into a single mesh in order:
// starting from the first non-null operand as the accumulator (null
// operands are skipped), each subsequent
// operand is unioned in unless its mode is Inversion, in which case it is
// subtracted. Non-combinable results are routed into the returned
// incombinable slice instead of aborting the fold.
func (r *resolver) combineMultipleMeshes(operands []operand, recombine bool) (*kernel.Mesh, []*kernel.Mesh, error) {
	if len(operands) == 0 {
		return nil, nil, nil
	}

	var incombinable []*kernel.Mesh
	var acc *kernel.Mesh
	var accKey string

	for _, op := range operands {
		if op.mesh.IsNull() {
			continue
		}
		if acc == nil {
			acc = op.mesh
			accKey = op.id
			continue
		}

		method := kernel.MethodUnion
		opChar := "+"
		if op.mode == snapshot.CombineInversion {
			method = kernel.MethodDiff
			opChar = "-"
		}

		key := accKey + opChar + op.id
		if recombine {
			key += "!"
		}

		if cached, ok := r.cc.Combinations[key]; ok {
			if cached == nil {
				incombinable = append(incombinable, op.mesh)
				continue
			}
			acc = cached.Clone()
			accKey = key
			continue
		}

		combined, err := r.combineTwoMeshes(acc, op.mesh, method, recombine)
		if err != nil || combined.IsNull() {
			r.cc.Combinations[key] = nil
			incombinable = append(incombinable, op.mesh)
			continue
		}
		r.cc.Combinations[key] = combined
		acc = combined
		accKey = key
	}

	return acc, incombinable, nil
}

// combineTwoMeshes runs the CSG engine and, if requested, tries to recover
// quad topology from the result, falling back to the raw CSG output if the
// recombined mesh is not watertight or not combinable.
func (r *resolver) combineTwoMeshes(a, b *kernel.Mesh, method kernel.Method, recombine bool) (*kernel.Mesh, error) {
	out, err := r.combiner.Combine(a, b, method)
	if err != nil {
		return nil, fmt.Errorf("meshgen: combine: %w", err)
	}
	if out.IsNull() {
		return out, nil
	}
	if !recombine {
		return out, nil
	}
	recombined, err := r.recombiner.Recombine(out)
	if err != nil || recombined == nil {
		return out, nil
	}
	if post.IsWatertight(recombined) && recombined.IsCombinable() {
		return recombined, nil
	}
	return out, nil
}
