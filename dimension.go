package geometry

import (
	"slices"
	"strings"
)

// Dimension is one extent of a geometry: its kind, rank, regularity, optional
// shape and parameters. Dimensions are immutable once part of a Geometry.
type Dimension struct {
	kind           Kind
	dimensionality int
	regular        bool
	generic        bool
	shape          []int64
	params         Parameters
	coverage       float64
}

func newDimension(kind Kind, dimensionality int) *Dimension {
	return &Dimension{
		kind:           kind,
		dimensionality: dimensionality,
		params:         Parameters{},
		coverage:       1.0,
	}
}

func (d *Dimension) copy() *Dimension {
	return &Dimension{
		kind:           d.kind,
		dimensionality: d.dimensionality,
		regular:        d.regular,
		generic:        d.generic,
		shape:          slices.Clone(d.shape),
		params:         d.params.clone(),
		coverage:       d.coverage,
	}
}

func (d *Dimension) Kind() Kind { return d.kind }

// Dimensionality is the rank of the extent, or NonDimensional.
func (d *Dimension) Dimensionality() int { return d.dimensionality }

// Regular tells whether subdivisions are evenly spaced.
func (d *Dimension) Regular() bool { return d.regular }

// Generic means the dimension is stated to exist but is not located.
func (d *Dimension) Generic() bool { return d.generic }

// Shape returns a copy of the per-axis sizes, or nil if the dimension is unsized.
func (d *Dimension) Shape() []int64 { return slices.Clone(d.shape) }

// Parameters returns a copy of the dimension parameters.
func (d *Dimension) Parameters() Parameters { return d.params.clone() }

// Coverage is the fraction of the extent actually populated.
func (d *Dimension) Coverage() float64 { return d.coverage }

// Size returns the product of the shape entries. It is Undefined when the
// dimension is unsized and Infinite when any axis is unbounded.
func (d *Dimension) Size() int64 {
	if d.shape == nil {
		return Undefined
	}
	size := int64(1)
	infinite := false
	for _, n := range d.shape {
		switch {
		case n == Infinite:
			infinite = true
		case n < 0:
			return Undefined
		default:
			size *= n
		}
	}
	if infinite {
		return Infinite
	}
	return size
}

func (d *Dimension) hasShape() bool {
	if d.shape == nil {
		return false
	}
	for _, n := range d.shape {
		if n < 0 {
			return false
		}
	}
	return true
}

// Offset folds a coordinate vector over this dimension's axes into a single
// offset. Two-dimensional space is addressed with the row axis flipped so
// that row 0 is the top of the raster.
func (d *Dimension) Offset(coords ...int64) (int64, error) {
	if len(coords) != d.dimensionality {
		return 0, invalidArg("cannot address a %d-dimensional extent with %d offsets", d.dimensionality, len(coords))
	}
	if d.shape == nil {
		return 0, invalidArg("cannot address a %s extent with no shape", d.kind)
	}
	for i, c := range coords {
		if i >= len(d.shape) {
			break
		}
		n := d.shape[i]
		if n < 0 || n == Infinite {
			continue
		}
		if c < 0 || c >= n {
			return 0, invalidArg("offset %d is outside axis %d of %s extent %v", c, i, d.kind, d.shape)
		}
	}
	if len(coords) == 1 {
		return coords[0], nil
	}
	if d.kind == Space && len(coords) == 2 {
		return (d.shape[1]-coords[1]-1)*d.shape[0] + coords[0], nil
	}
	return 0, unimplemented("offset of a %d-dimensional %s extent", len(coords), d.kind)
}

// Compatible reports whether other can be merged into d. A generic d only
// accepts generic dimensions, while a concrete d accepts either.
func (d *Dimension) Compatible(other *Dimension) bool {
	if d.kind != other.kind {
		return false
	}
	if d.generic && !other.generic {
		return false
	}
	return true
}

// Distributed reports whether values over this dimension depend on its
// subdivisions.
func (d *Dimension) Distributed() bool {
	if d.Size() > 1 || d.regular {
		return true
	}
	if d.kind == Time {
		if rep, ok := d.params[ParamTimeRepresentation].(string); ok {
			return strings.EqualFold(rep, TimeGrid)
		}
	}
	return false
}

// Encode returns the grammar fragment for this dimension.
func (d *Dimension) Encode(encoders ...Encoder) string {
	var sb strings.Builder
	encodeDimension(&sb, d, encoders)
	return sb.String()
}

func (d *Dimension) String() string { return d.Encode() }
