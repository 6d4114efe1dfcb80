package geometry

import (
	"iter"
	"slices"
)

// Order selects which axis varies fastest along linear offsets.
type Order int

const (
	// FirstSlowest is C order: the last axis has stride 1.
	FirstSlowest Order = iota
	// FirstFastest is Fortran order: the first axis has stride 1.
	FirstFastest
)

// NDCursor maps linear offsets to per-axis coordinates and back. It is
// immutable and safe for concurrent use.
type NDCursor struct {
	order        Order
	extents      []int64
	strides      []int64
	multiplicity int64
}

// NewNDCursor returns a cursor over the given extents. A cursor with no axes
// addresses a single element.
func NewNDCursor(order Order, extents ...int64) *NDCursor {
	c := &NDCursor{
		order:   order,
		extents: slices.Clone(extents),
	}
	c.strides, c.multiplicity = strides(c.extents, order)
	return c
}

// strides computes the stride of each axis and the product of the extents.
func strides(extents []int64, order Order) ([]int64, int64) {
	s := make([]int64, len(extents))
	stride := int64(1)
	if order == FirstFastest {
		for i := range extents {
			s[i] = stride
			stride *= extents[i]
		}
	} else {
		for i := len(extents) - 1; i >= 0; i-- {
			s[i] = stride
			stride *= extents[i]
		}
	}
	return s, stride
}

// newGeometryCursor builds a FirstSlowest cursor with one axis per dimension
// of g. Infinite dimensions and axes locked to a non-negative coordinate get
// extent 1.
func newGeometryCursor(g *Geometry, locked []int64) (*NDCursor, error) {
	if locked != nil && len(locked) != len(g.dims) {
		return nil, invalidArg("%d-dimensional geometry cannot be locked with %d offsets", len(g.dims), len(locked))
	}
	extents := make([]int64, len(g.dims))
	for i, d := range g.dims {
		size := d.Size()
		switch {
		case locked != nil && locked[i] >= 0:
			extents[i] = 1
		case size == Undefined:
			return nil, illegalState("%s dimension of %s has no shape", d.kind, g.Encode())
		case size == Infinite:
			extents[i] = 1
		default:
			extents[i] = size
		}
	}
	return NewNDCursor(FirstSlowest, extents...), nil
}

// LockedCursor returns a cursor over g in which every axis whose entry in
// locked is non-negative has extent 1. It sweeps the unlocked axes only.
func LockedCursor(g *Geometry, locked []int64) (*NDCursor, error) {
	return newGeometryCursor(g, locked)
}

func (c *NDCursor) Order() Order { return c.order }

// Multiplicity is the number of addressable positions.
func (c *NDCursor) Multiplicity() int64 { return c.multiplicity }

// Dimensions is the number of axes.
func (c *NDCursor) Dimensions() int { return len(c.extents) }

func (c *NDCursor) Extent(axis int) int64 { return c.extents[axis] }

func (c *NDCursor) Extents() []int64 { return slices.Clone(c.extents) }

func (c *NDCursor) Strides() []int64 { return slices.Clone(c.strides) }

// IndicesOf inverts OffsetOf.
func (c *NDCursor) IndicesOf(offset int64) []int64 {
	n := len(c.extents)
	ret := make([]int64, n)
	if n == 0 {
		return ret
	}
	rest := offset
	take := func(i int) {
		if c.strides[i] == 0 {
			return
		}
		ret[i] = rest / c.strides[i]
		rest -= ret[i] * c.strides[i]
	}
	if c.order == FirstFastest {
		for i := n - 1; i > 0; i-- {
			take(i)
		}
		ret[0] = rest
	} else {
		for i := 0; i < n-1; i++ {
			take(i)
		}
		ret[n-1] = rest
	}
	return ret
}

// OffsetOf returns the linear offset of a coordinate vector.
func (c *NDCursor) OffsetOf(coords ...int64) (int64, error) {
	if len(coords) != len(c.extents) {
		return 0, invalidArg("cannot address %d axes with %d coordinates", len(c.extents), len(coords))
	}
	var offset int64
	for i, x := range coords {
		offset += x * c.strides[i]
	}
	return offset, nil
}

// StridedRange describes the run along axis when every other axis is held at
// the coordinate in coords: the first offset, the offset past the end and the
// step between consecutive elements. coords[axis] is ignored.
func (c *NDCursor) StridedRange(axis int, coords []int64) (start, end, stride int64, err error) {
	if axis < 0 || axis >= len(c.extents) {
		return 0, 0, 0, invalidArg("axis %d out of range for %d axes", axis, len(c.extents))
	}
	pos := slices.Clone(coords)
	if len(pos) != len(c.extents) {
		return 0, 0, 0, invalidArg("cannot address %d axes with %d coordinates", len(c.extents), len(coords))
	}
	pos[axis] = 0
	start, _ = c.OffsetOf(pos...)
	stride = c.strides[axis]
	return start, start + c.extents[axis]*stride, stride, nil
}

// Scan yields the offsets along axis with every other axis held at coords.
// An invalid axis or coordinate count yields nothing.
func (c *NDCursor) Scan(axis int, coords []int64) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		start, end, stride, err := c.StridedRange(axis, coords)
		if err != nil || stride == 0 {
			return
		}
		for ofs := start; ofs < end; ofs += stride {
			if !yield(ofs) {
				return
			}
		}
	}
}
