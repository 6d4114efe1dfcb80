// Package batch reads the cells of an offset in fixed size batches and
// materializes them as tensors, ready to feed a model one slice of a
// geometry at a time.
package batch

import (
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/TuSKan/go-geometry"
)

// Sweep walks the scalar offsets within an offset in cursor order. The
// locked coordinates stay fixed while the unlocked ones are swept.
type Sweep struct {
	offset   *geometry.Offset
	pos      []int64
	infinite []bool
	cursor   *geometry.NDCursor
	locked   *geometry.NDCursor
	total    int64
	next     int64
}

// NewSweep prepares a sweep of o. It fails with geometry.ErrIllegalState when
// the geometry has an unsized dimension.
func NewSweep(o *geometry.Offset) (*Sweep, error) {
	g := o.Geometry()
	cursor, err := g.Cursor()
	if err != nil {
		return nil, fmt.Errorf("failed to sweep %s: %w", o, err)
	}
	pos := o.Offsets()
	locked, err := geometry.LockedCursor(g, pos)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep %s: %w", o, err)
	}

	dims := g.Dimensions()
	infinite := make([]bool, len(dims))
	for i, d := range dims {
		infinite[i] = d.Size() == geometry.Infinite
	}

	s := &Sweep{
		offset:   o,
		pos:      pos,
		infinite: infinite,
		cursor:   cursor,
		locked:   locked,
		total:    locked.Multiplicity(),
	}
	if g.Empty() {
		s.total = 0
	}
	return s, nil
}

// coordinates returns the per-dimension coordinates of the k-th cell.
func (s *Sweep) coordinates(k int64) []int64 {
	idx := s.locked.IndicesOf(k)
	coords := make([]int64, len(s.pos))
	for i, x := range s.pos {
		if x < 0 {
			coords[i] = idx[i]
		} else {
			coords[i] = x
		}
	}
	return coords
}

func (s *Sweep) position(coords []int64) int64 {
	flat := make([]int64, len(coords))
	for i, x := range coords {
		if !s.infinite[i] {
			flat[i] = x
		}
	}
	ofs, _ := s.cursor.OffsetOf(flat...)
	return ofs
}

// window returns the next [start, end) range of at most batchSize cells and
// advances the sweep. Returns io.EOF when the sweep is exhausted.
func (s *Sweep) window(batchSize int) (int64, int64, error) {
	if batchSize <= 0 {
		return 0, 0, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if s.next >= s.total {
		return 0, 0, io.EOF
	}
	start := s.next
	end := min(start+int64(batchSize), s.total)
	s.next = end
	return start, end, nil
}

// NextBatch returns the linear positions of the next batchSize cells as an
// int64 tensor of shape [k], k <= batchSize.
// Returns io.EOF if there are no more cells.
func (s *Sweep) NextBatch(batchSize int) (*tensors.Tensor, error) {
	start, end, err := s.window(batchSize)
	if err != nil {
		return nil, err
	}

	data := make([]int64, end-start)
	for k := start; k < end; k++ {
		data[k-start] = s.position(s.coordinates(k))
	}
	return tensors.FromFlatDataAndDimensions(data, len(data)), nil
}

// NextCoordinates returns the coordinates of the next batchSize cells as an
// int64 tensor of shape [k, d], one row per cell and one column per
// dimension.
// Returns io.EOF if there are no more cells.
func (s *Sweep) NextCoordinates(batchSize int) (*tensors.Tensor, error) {
	start, end, err := s.window(batchSize)
	if err != nil {
		return nil, err
	}

	d := len(s.pos)
	k := int(end - start)
	data := make([]int64, 0, k*d)
	for i := start; i < end; i++ {
		data = append(data, s.coordinates(i)...)
	}
	return tensors.FromFlatDataAndDimensions(data, k, d), nil
}

// Reset rewinds the sweep to its first cell.
func (s *Sweep) Reset() { s.next = 0 }

// Remaining is the number of cells not yet returned.
func (s *Sweep) Remaining() int64 { return s.total - s.next }

// Total is the number of cells in the sweep.
func (s *Sweep) Total() int64 { return s.total }

// Positions returns the linear position of every cell within o.
func Positions(o *geometry.Offset) ([]int64, error) {
	s, err := NewSweep(o)
	if err != nil {
		return nil, err
	}
	ret := make([]int64, 0, s.total)
	for k := int64(0); k < s.total; k++ {
		ret = append(ret, s.position(s.coordinates(k)))
	}
	return ret, nil
}
