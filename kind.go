package geometry

import "math"

const (
	// Undefined is the size of a dimension that has been declared but not sized.
	Undefined int64 = -1

	// Infinite is the size of an unbounded axis. It is excluded from size products.
	Infinite int64 = math.MaxInt64

	// NonDimensional is the dimensionality of an extent that is referenced
	// but not distributed. It renders as '.' in the grammar.
	NonDimensional = -1
)

// Kind identifies the extent a dimension describes. The order is the
// scanning order of extents and must not change.
type Kind int

const (
	Numerosity Kind = iota
	Time
	Space
)

func (k Kind) String() string {
	switch k {
	case Numerosity:
		return "numerosity"
	case Time:
		return "time"
	case Space:
		return "space"
	default:
		return "unknown"
	}
}

// Granularity tells whether a geometry describes one object or many.
type Granularity int

const (
	Single Granularity = iota
	Multiple
)

func (g Granularity) String() string {
	if g == Multiple {
		return "multiple"
	}
	return "single"
}

// tag runes, indexed by [generic][regular].
var (
	spaceTags = [2][2]rune{{'s', 'S'}, {'σ', 'Σ'}}
	timeTags  = [2][2]rune{{'t', 'T'}, {'τ', 'Τ'}}
)

const infinityRune = '∞'

func tagFor(kind Kind, generic, regular bool) (rune, bool) {
	g, r := b2i(generic), b2i(regular)
	switch kind {
	case Space:
		return spaceTags[g][r], true
	case Time:
		return timeTags[g][r], true
	}
	return 0, false
}

// readTag decodes a tag rune into kind, generic and regular flags.
func readTag(c rune) (kind Kind, generic, regular, ok bool) {
	for g := 0; g < 2; g++ {
		for r := 0; r < 2; r++ {
			if spaceTags[g][r] == c {
				return Space, g == 1, r == 1, true
			}
			if timeTags[g][r] == c {
				return Time, g == 1, r == 1, true
			}
		}
	}
	return 0, false, false, false
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
