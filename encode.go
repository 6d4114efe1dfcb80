package geometry

import (
	"slices"
	"strconv"
	"strings"
)

// Encoder overrides the rendering of one parameter of one dimension kind.
type Encoder interface {
	Kind() Kind
	Key() string
	Encode(value any) string
}

type encoderFunc struct {
	kind Kind
	key  string
	fn   func(any) string
}

func (e encoderFunc) Kind() Kind              { return e.kind }
func (e encoderFunc) Key() string             { return e.key }
func (e encoderFunc) Encode(value any) string { return e.fn(value) }

// NewEncoder returns an Encoder that renders parameter key of kind with fn.
func NewEncoder(kind Kind, key string, fn func(value any) string) Encoder {
	return encoderFunc{kind: kind, key: key, fn: fn}
}

func encodeGeometry(sb *strings.Builder, g *Geometry, encoders []Encoder) {
	if g.empty {
		sb.WriteByte('X')
		return
	}
	if g.scalar {
		sb.WriteByte('*')
		return
	}
	if g.granularity == Multiple {
		sb.WriteByte('#')
	}
	for _, d := range g.dims {
		encodeDimension(sb, d, encoders)
	}
	if g.child != nil {
		sb.WriteByte(',')
		encodeGeometry(sb, g.child, encoders)
	}
}

// timeFirst moves time before every other kind, keeping the relative order
// of the rest.
func timeFirst(dims []*Dimension) []*Dimension {
	ret := slices.Clone(dims)
	slices.SortStableFunc(ret, func(a, b *Dimension) int {
		return b2i(b.kind == Time) - b2i(a.kind == Time)
	})
	return ret
}

func encodeDimension(sb *strings.Builder, d *Dimension, encoders []Encoder) {
	tag, ok := tagFor(d.kind, d.generic, d.regular)
	if !ok {
		return
	}
	sb.WriteRune(tag)
	if d.dimensionality == NonDimensional {
		sb.WriteByte('.')
	} else {
		sb.WriteString(strconv.Itoa(d.dimensionality))
	}

	if d.hasShape() {
		sb.WriteByte('(')
		for i, n := range d.shape {
			if i > 0 {
				sb.WriteByte(',')
			}
			if n == Infinite {
				sb.WriteRune(infinityRune)
			} else {
				sb.WriteString(strconv.FormatInt(n, 10))
			}
		}
		sb.WriteByte(')')
	}

	if len(d.params) > 0 {
		sb.WriteByte('{')
		for i, key := range d.params.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(key)
			sb.WriteByte('=')
			sb.WriteString(encodeParameter(d.kind, key, d.params[key], encoders))
		}
		sb.WriteByte('}')
	}
}

func encodeParameter(kind Kind, key string, value any, encoders []Encoder) string {
	for _, e := range encoders {
		if e.Kind() == kind && e.Key() == key {
			return e.Encode(value)
		}
	}
	return encodeValue(value)
}
