package geometry

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"sync"
)

// keyPrefix marks strings produced by MakeKey.
const keyPrefix = "key:"

// Geometry is an immutable aggregate of at most one dimension per kind, with
// an optional child geometry. Exactly one of Empty, Scalar or "has dimensions
// or child" holds.
type Geometry struct {
	dims        []*Dimension
	child       *Geometry
	scalar      bool
	empty       bool
	generic     bool
	granularity Granularity

	encodeOnce sync.Once
	encoding   string

	cursorOnce sync.Once
	cursor     *NDCursor
	cursorErr  error
}

var (
	emptyGeometry  = &Geometry{empty: true, generic: true}
	scalarGeometry = &Geometry{scalar: true, generic: true}
)

// EmptyGeometry returns the geometry that covers nothing. It encodes as "X".
func EmptyGeometry() *Geometry { return emptyGeometry }

// ScalarGeometry returns the dimensionless single point. It encodes as "*".
func ScalarGeometry() *Geometry { return scalarGeometry }

// newGeometry takes ownership of dims. Time is moved first so that the
// dimension order always matches the encoding order.
func newGeometry(dims []*Dimension, child *Geometry, granularity Granularity) *Geometry {
	if len(dims) == 0 && child == nil {
		return emptyGeometry
	}
	g := &Geometry{
		dims:        timeFirst(dims),
		child:       child,
		granularity: granularity,
		generic:     true,
	}
	for _, d := range dims {
		if !d.generic {
			g.generic = false
			break
		}
	}
	return g
}

// Dimensions returns the dimensions, time first.
func (g *Geometry) Dimensions() []*Dimension {
	ret := make([]*Dimension, len(g.dims))
	copy(ret, g.dims)
	return ret
}

// Dimension returns the dimension of the given kind, or nil.
func (g *Geometry) Dimension(kind Kind) *Dimension {
	for _, d := range g.dims {
		if d.kind == kind {
			return d
		}
	}
	return nil
}

func (g *Geometry) indexOf(kind Kind) int {
	for i, d := range g.dims {
		if d.kind == kind {
			return i
		}
	}
	return -1
}

func (g *Geometry) Child() *Geometry         { return g.child }
func (g *Geometry) Scalar() bool             { return g.scalar }
func (g *Geometry) Empty() bool              { return g.empty }
func (g *Geometry) Granularity() Granularity { return g.granularity }

// Generic is true when every dimension is generic, and vacuously so for
// geometries without dimensions.
func (g *Geometry) Generic() bool { return g.generic }

// Size returns the number of addressable cells: zero when empty, Undefined
// when any dimension is unsized, otherwise the product of dimension sizes
// with infinite ones left out.
func (g *Geometry) Size() int64 {
	if g.empty {
		return 0
	}
	size := int64(1)
	for _, d := range g.dims {
		n := d.Size()
		switch n {
		case Undefined:
			return Undefined
		case Infinite:
		default:
			size *= n
		}
	}
	return size
}

// Encode returns the canonical encoding. With no encoders the result is
// computed once and reused.
func (g *Geometry) Encode(encoders ...Encoder) string {
	if len(encoders) > 0 {
		var sb strings.Builder
		encodeGeometry(&sb, g, encoders)
		return sb.String()
	}
	g.encodeOnce.Do(func() {
		var sb strings.Builder
		encodeGeometry(&sb, g, nil)
		g.encoding = sb.String()
	})
	return g.encoding
}

func (g *Geometry) String() string { return g.Encode() }

// Equal reports whether both geometries have the same canonical encoding.
func (g *Geometry) Equal(other *Geometry) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g == other || g.Encode() == other.Encode()
}

// Key returns the content hash of the canonical encoding.
func (g *Geometry) Key() string { return MakeKey(g.Encode()) }

// MakeKey returns the identity key for a canonical encoding.
func MakeKey(encoding string) string {
	sum := sha256.Sum256([]byte(encoding))
	return keyPrefix + base64.RawURLEncoding.EncodeToString(sum[:])
}

// IsKey reports whether s has the format produced by MakeKey.
func IsKey(s string) bool {
	rest, ok := strings.CutPrefix(s, keyPrefix)
	if !ok || len(rest) != base64.RawURLEncoding.EncodedLen(sha256.Size) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(rest)
	return err == nil
}

// Cursor returns the cursor over the dimension sizes of g. It fails with
// ErrIllegalState when a dimension is unsized.
func (g *Geometry) Cursor() (*NDCursor, error) {
	g.cursorOnce.Do(func() {
		g.cursor, g.cursorErr = newGeometryCursor(g, nil)
	})
	return g.cursor, g.cursorErr
}

// InfiniteTime reports whether the time dimension has no end.
func (g *Geometry) InfiniteTime() bool {
	t := g.Dimension(Time)
	return t != nil && t.Size() == Infinite
}
