package geometry

import (
	"iter"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Offset is a position in a geometry, one coordinate per dimension. A
// negative coordinate leaves that dimension unlocked. A coordinate into a
// multi-rank dimension is the value of Dimension.Offset. Offsets are
// immutable.
type Offset struct {
	geometry *Geometry
	pos      []int64
	linear   int64
	scalar   bool
	coverage float64
}

// NewOffset returns the offset covering the whole of g: dimensions of size 1
// are locked at 0, every other dimension is unlocked.
func NewOffset(g *Geometry) *Offset {
	pos := make([]int64, len(g.dims))
	for i, d := range g.dims {
		if d.Size() == 1 {
			pos[i] = 0
		} else {
			pos[i] = -1
		}
	}
	o := &Offset{geometry: g, pos: pos, linear: -1, coverage: 1.0}
	o.scalar = !g.empty && allLocked(pos)
	if o.scalar {
		o.linear = 0
	}
	return o
}

// OffsetAt returns the offset at coords. A single coordinate into a geometry
// with more than one dimension is taken as a linear offset and expanded
// through the cursor.
func OffsetAt(g *Geometry, coords ...int64) (*Offset, error) {
	return OffsetWithCoverage(g, 1.0, coords...)
}

// OffsetWithCoverage is OffsetAt for a cell that is only partially covered.
func OffsetWithCoverage(g *Geometry, coverage float64, coords ...int64) (*Offset, error) {
	if len(coords) == 1 && len(g.dims) > 1 {
		cursor, err := g.Cursor()
		if err != nil {
			return nil, err
		}
		if coords[0] < 0 || coords[0] >= cursor.Multiplicity() {
			return nil, invalidArg("linear offset %d out of range [0,%d)", coords[0], cursor.Multiplicity())
		}
		coords = cursor.IndicesOf(coords[0])
	}
	return locate(g, slices.Clone(coords), coverage)
}

// locate validates pos against g and computes the linear offset. It takes
// ownership of pos.
func locate(g *Geometry, pos []int64, coverage float64) (*Offset, error) {
	if len(pos) != len(g.dims) {
		return nil, invalidArg("%d-dimensional geometry cannot be located with %d offsets", len(g.dims), len(pos))
	}
	for i, x := range pos {
		if x < 0 {
			continue
		}
		size := g.dims[i].Size()
		switch {
		case size == Infinite:
		case x == Infinite:
			return nil, invalidArg("%s dimension is not infinite", g.dims[i].kind)
		case size != Undefined && x >= size:
			return nil, invalidArg("offset %d out of range for %s dimension of size %d", x, g.dims[i].kind, size)
		}
	}

	o := &Offset{geometry: g, pos: pos, linear: -1, coverage: coverage}
	o.scalar = !g.empty && allLocked(pos)
	if o.scalar {
		linear, err := linearOffset(g, pos)
		if err != nil {
			return nil, err
		}
		o.linear = linear
	}
	return o, nil
}

func linearOffset(g *Geometry, pos []int64) (int64, error) {
	cursor, err := g.Cursor()
	if err != nil {
		return -1, err
	}
	coords := slices.Clone(pos)
	for i, d := range g.dims {
		if d.Size() == Infinite {
			coords[i] = 0
		}
	}
	return cursor.OffsetOf(coords...)
}

func allLocked(pos []int64) bool {
	for _, x := range pos {
		if x < 0 {
			return false
		}
	}
	return true
}

// ParseOffset reads an offset of the form "geometry@coords", or bare coords
// when g is not nil. Coordinates are comma separated; "*" leaves a dimension
// unlocked, "∞" addresses an infinite one and a parenthesized group gives
// one coordinate per axis of a multi-rank dimension.
func ParseOffset(spec string, g *Geometry) (*Offset, error) {
	coords := spec
	if at := strings.LastIndexByte(spec, '@'); at >= 0 {
		coords = spec[at+1:]
		if g == nil {
			var err error
			if g, err = Parse(spec[:at]); err != nil {
				return nil, err
			}
		}
	} else if g == nil {
		return nil, parseErr(spec, "", "offset needs a geometry followed by '@'")
	}

	pos, err := readOffsets(spec, coords, g)
	if err != nil {
		return nil, err
	}
	return locate(g, pos, 1.0)
}

func readOffsets(spec, coords string, g *Geometry) ([]int64, error) {
	var (
		pos     = make([]int64, 0, len(g.dims))
		group   []int64
		inGroup bool
	)

	push := func(v int64, fragment string) error {
		if inGroup {
			group = append(group, v)
			return nil
		}
		if len(pos) >= len(g.dims) {
			return parseErr(spec, fragment, "more offsets than the %d dimensions", len(g.dims))
		}
		pos = append(pos, v)
		return nil
	}

	rs := []rune(coords)
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch {
		case c == ',' || unicode.IsSpace(c):
		case c == '(':
			if inGroup {
				return nil, parseErr(spec, string(rs[i:]), "nested '('")
			}
			if len(pos) >= len(g.dims) {
				return nil, parseErr(spec, string(rs[i:]), "more offsets than the %d dimensions", len(g.dims))
			}
			inGroup, group = true, group[:0]
		case c == ')':
			if !inGroup {
				return nil, parseErr(spec, string(rs[:i+1]), "unbalanced ')'")
			}
			inGroup = false
			v, err := foldGroup(spec, g.dims[len(pos)], group)
			if err != nil {
				return nil, err
			}
			pos = append(pos, v)
		case c == '*':
			if err := push(-1, "*"); err != nil {
				return nil, err
			}
		case c == infinityRune:
			if err := push(Infinite, string(infinityRune)); err != nil {
				return nil, err
			}
		case c >= '0' && c <= '9':
			j := i
			for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
				j++
			}
			token := string(rs[i:j])
			v, err := strconv.ParseInt(token, 10, 64)
			if err != nil {
				return nil, parseErr(spec, token, "offset out of range")
			}
			if err := push(v, token); err != nil {
				return nil, err
			}
			i = j - 1
		default:
			return nil, parseErr(spec, string(c), "unexpected character in offsets")
		}
	}

	if inGroup {
		return nil, parseErr(spec, coords, "unbalanced '('")
	}
	if len(pos) != len(g.dims) {
		return nil, parseErr(spec, coords, "expected %d offsets, got %d", len(g.dims), len(pos))
	}
	return pos, nil
}

// foldGroup turns the per-axis coordinates of a group into the coordinate of
// the dimension. Any unlocked axis leaves the whole dimension unlocked.
func foldGroup(spec string, d *Dimension, group []int64) (int64, error) {
	if len(group) == 0 {
		return -1, nil
	}
	if slices.ContainsFunc(group, func(v int64) bool { return v < 0 }) {
		return -1, nil
	}
	if len(group) == 1 {
		return group[0], nil
	}
	if len(group) != d.dimensionality {
		return 0, parseErr(spec, "", "%d-dimensional %s addressed with %d offsets", d.dimensionality, d.kind, len(group))
	}
	return d.Offset(group...)
}

func (o *Offset) Geometry() *Geometry { return o.geometry }

// Position is the linear offset, or -1 when the offset is not scalar.
func (o *Offset) Position() int64 { return o.linear }

// Offsets returns the per-dimension coordinates.
func (o *Offset) Offsets() []int64 { return slices.Clone(o.pos) }

// Scalar reports whether every coordinate is locked.
func (o *Offset) Scalar() bool { return o.scalar }

func (o *Offset) Coverage() float64 { return o.coverage }

// OffsetOf returns the coordinate of the dimension of the given kind, or -1.
func (o *Offset) OffsetOf(kind Kind) int64 {
	if i := o.geometry.indexOf(kind); i >= 0 {
		return o.pos[i]
	}
	return -1
}

// At returns the offset with its leading coordinates replaced by coords.
func (o *Offset) At(coords ...int64) (*Offset, error) {
	if len(coords) > len(o.pos) {
		return nil, invalidArg("%d-dimensional geometry cannot be located with %d offsets", len(o.pos), len(coords))
	}
	pos := slices.Clone(o.pos)
	copy(pos, coords)
	return locate(o.geometry, pos, o.coverage)
}

// ReduceTo projects o onto target, keeping the coordinates of the dimension
// kinds target has, in order.
func (o *Offset) ReduceTo(target *Geometry) (*Offset, error) {
	pos := make([]int64, 0, len(target.dims))
	for _, d := range target.dims {
		i := o.geometry.indexOf(d.kind)
		if i < 0 {
			return nil, invalidArg("cannot reduce %s to %s: no %s dimension", o.geometry.Encode(), target.Encode(), d.kind)
		}
		pos = append(pos, o.pos[i])
	}
	return locate(target, pos, o.coverage)
}

// All yields every scalar offset within o, sweeping the unlocked dimensions in
// cursor order while the locked ones stay fixed. A scalar offset yields
// itself. Each call restarts the sweep. Nothing is yielded when the geometry
// has unsized dimensions.
func (o *Offset) All() iter.Seq[*Offset] {
	return func(yield func(*Offset) bool) {
		if o.scalar {
			yield(o)
			return
		}
		if _, err := o.geometry.Cursor(); err != nil || o.geometry.empty {
			return
		}
		locked, err := LockedCursor(o.geometry, o.pos)
		if err != nil {
			return
		}
		for k := int64(0); k < locked.Multiplicity(); k++ {
			idx := locked.IndicesOf(k)
			pos := slices.Clone(o.pos)
			for i, x := range pos {
				if x < 0 {
					pos[i] = idx[i]
				}
			}
			next, err := locate(o.geometry, pos, o.coverage)
			if err != nil {
				return
			}
			if !yield(next) {
				return
			}
		}
	}
}

// Offsets enumerates every cell of g. It fails with ErrIllegalState when a
// dimension is unsized.
func (g *Geometry) Offsets() (iter.Seq[*Offset], error) {
	if _, err := g.Cursor(); err != nil {
		return nil, err
	}
	return NewOffset(g).All(), nil
}

// Equal reports whether both offsets address the same position of equal
// geometries.
func (o *Offset) Equal(other *Offset) bool {
	return o.geometry.Equal(other.geometry) && o.linear == other.linear && slices.Equal(o.pos, other.pos)
}

// String renders o as "geometry@coords", which ParseOffset reads back.
func (o *Offset) String() string {
	return o.geometry.Encode() + "@" + offsetKey(o.pos, ",")
}

// offsetKey joins coordinates with sep, rendering unlocked ones as "*" and
// infinite ones as "∞".
func offsetKey(pos []int64, sep string) string {
	var sb strings.Builder
	for i, x := range pos {
		if i > 0 {
			sb.WriteString(sep)
		}
		switch {
		case x == Infinite:
			sb.WriteRune(infinityRune)
		case x < 0:
			sb.WriteByte('*')
		default:
			sb.WriteString(strconv.FormatInt(x, 10))
		}
	}
	return sb.String()
}
