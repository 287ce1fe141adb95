// Package meshid provides identifier parsing and the deterministic mirror-id
// derivation used to give mirrored parts and components stable ids across
// regenerations.
package meshid

import (
	"strings"

	"github.com/google/uuid"
)

// Nil is the canonical string form of the nil UUID. AnalyzeDirty always
// adds it to the dirty component set alongside the root component.
var Nil = uuid.Nil.String()

// Parse reports whether s is a well-formed, non-nil UUID and returns its
// canonical string form.
func Parse(s string) (id string, ok bool) {
	u, err := uuid.Parse(s)
	if err != nil || u == uuid.Nil {
		return "", false
	}
	return u.String(), true
}

// Reverse derives a stable id from source by stripping its hyphens,
// reversing the raw 32-character hex string as a whole, then re-inserting
// hyphens at the standard 8-4-4-4-12 group boundaries. It is a bijection:
// applying it twice returns the original id. The result differs from source
// unless source's 32 hex digits read the same in both directions, in which
// case Reverse returns source itself. Used to name a
// mirror twin deterministically, so regenerating the same snapshot always
// assigns the same twin id instead of minting a fresh UUID every time.
func Reverse(source string) string {
	raw := []rune(strings.ReplaceAll(source, "-", ""))
	for i, j := 0, len(raw)-1; i < j; i, j = i+1, j-1 {
		raw[i], raw[j] = raw[j], raw[i]
	}
	reversed := string(raw)
	return reversed[0:8] + "-" + reversed[8:12] + "-" + reversed[12:16] + "-" + reversed[16:20] + "-" + reversed[20:32]
}
