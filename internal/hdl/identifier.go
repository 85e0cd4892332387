package hdl

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Identifier is a case-insensitive-or-not (dialect-dependent) name for a
// design unit, carrying the position where it was first declared or
// referenced.
//
// FastHash is an xxhash of the normalized name, computed once at
// construction, so graph/index lookups can reject a mismatch in O(1)
// before falling back to the full string comparison dialect-correct
// equality requires.
type Identifier struct {
	Name     string
	Dialect  Dialect
	Pos      Position
	FastHash uint64
}

// NewIdentifier builds an Identifier, pre-computing its fast-equality hash
// over the dialect-normalized form of name.
func NewIdentifier(name string, dialect Dialect, pos Position) Identifier {
	return Identifier{
		Name:     name,
		Dialect:  dialect,
		Pos:      pos,
		FastHash: xxhash.Sum64String(normalize(name, dialect)),
	}
}

func normalize(name string, dialect Dialect) string {
	if dialect.CaseSensitive() {
		return name
	}
	return strings.ToLower(name)
}

// Key returns the canonical comparison/lookup form of the identifier: the
// name normalized per the dialect's case sensitivity rule. Two identifiers
// with equal Key and equal Dialect.CaseSensitive() refer to the same design
// unit.
func (id Identifier) Key() string {
	return normalize(id.Name, id.Dialect)
}

// Equal reports whether id and other name the same design unit, honoring
// each identifier's own dialect case-sensitivity rule. Cross-dialect
// comparison falls back to the stricter (case-sensitive) rule, since a
// Verilog module can never be the same design unit as a VHDL entity.
func (id Identifier) Equal(other Identifier) bool {
	if id.FastHash != other.FastHash {
		// Fast path note: FastHash is computed per-identifier's own
		// dialect, so a mismatch here is only conclusive when both
		// identifiers share a case-sensitivity rule. Mixed-dialect
		// comparisons fall through to the exact check below.
		if id.Dialect.CaseSensitive() == other.Dialect.CaseSensitive() {
			return false
		}
	}
	if id.Dialect.CaseSensitive() || other.Dialect.CaseSensitive() {
		return id.Name == other.Name
	}
	return strings.EqualFold(id.Name, other.Name)
}

func (id Identifier) String() string {
	return id.Name
}
