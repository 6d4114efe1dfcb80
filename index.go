package geometry

import "iter"

// Index is a geometry whose dimensions all have a shape, so that every cell
// can be addressed. It is the resolved counterpart of a Geometry and is what
// the repository caches next to it.
type Index struct {
	geometry *Geometry
	cursor   *NDCursor
}

// NewIndex resolves g. It fails with ErrIllegalState when a dimension has no
// shape.
func NewIndex(g *Geometry) (*Index, error) {
	for _, d := range g.dims {
		if !d.hasShape() {
			return nil, illegalState("cannot index %s: %s dimension has no shape", g.Encode(), d.kind)
		}
	}
	cursor, err := g.Cursor()
	if err != nil {
		return nil, err
	}
	return &Index{geometry: g, cursor: cursor}, nil
}

func (x *Index) Geometry() *Geometry { return x.geometry }

func (x *Index) Cursor() *NDCursor { return x.cursor }

// Size is the number of addressable cells.
func (x *Index) Size() int64 { return x.cursor.Multiplicity() }

// Locate returns the offset at coords, see OffsetAt.
func (x *Index) Locate(coords ...int64) (*Offset, error) {
	return OffsetAt(x.geometry, coords...)
}

// Whole returns the offset covering every cell.
func (x *Index) Whole() *Offset { return NewOffset(x.geometry) }

// Cells yields every cell in cursor order.
func (x *Index) Cells() iter.Seq[*Offset] { return x.Whole().All() }
