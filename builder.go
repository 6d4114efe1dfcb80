package geometry

import (
	"strings"
	"time"
)

// Builder accumulates optional space and time dimensions. It is not safe for
// concurrent use. Build copies the drafts, so a Builder can keep being used
// after a geometry has been produced.
type Builder struct {
	space       *Dimension
	time        *Dimension
	granularity Granularity
	err         error
}

// NewBuilder returns an empty builder. Building it without adding any
// dimension yields the scalar geometry.
func NewBuilder() *Builder {
	return &Builder{}
}

// Space returns the space sub-builder, creating a two-dimensional space draft
// on first use.
func (b *Builder) Space() *SpaceBuilder {
	if b.space == nil {
		b.space = newDimension(Space, 2)
	}
	return &SpaceBuilder{b: b}
}

// Time returns the time sub-builder, creating a logical time draft on first use.
func (b *Builder) Time() *TimeBuilder {
	if b.time == nil {
		b.time = newDimension(Time, 1)
		b.time.params[ParamTimeRepresentation] = TimeLogical
	}
	return &TimeBuilder{b: b}
}

// Multiple marks the geometry as describing many objects.
func (b *Builder) Multiple() *Builder {
	b.granularity = Multiple
	return b
}

// Region adds a single-cell space located by a WKT shape or a resource URN.
func (b *Builder) Region(urn string) *Builder {
	s := b.Space()
	if isWKT(urn) {
		s.Shape(urn)
	} else {
		s.URN(urn)
	}
	return s.Size(1).Done()
}

// Grid adds a regular space within a bounding box.
func (b *Builder) Grid(x1, x2, y1, y2 float64) *Builder {
	return b.Space().Regular().BoundingBox(x1, x2, y1, y2).Done()
}

// GridBox adds a regular space within a bounding box at the given resolution.
func (b *Builder) GridBox(x1, x2, y1, y2 float64, resolution string) *Builder {
	return b.Space().Regular().Resolution(resolution).BoundingBox(x1, x2, y1, y2).Done()
}

// GridURN adds a regular space at the given resolution over the extent of a
// WKT shape or resource URN.
func (b *Builder) GridURN(urn, resolution string) *Builder {
	s := b.Space().Regular().Resolution(resolution)
	if isWKT(urn) {
		s.Shape(urn)
	} else {
		s.URN(urn)
	}
	return s.Done()
}

// Years adds a time extent covering one year, or a yearly grid between two
// years. Any other number of arguments makes Build fail.
func (b *Builder) Years(years ...int) *Builder {
	switch len(years) {
	case 1:
		return b.Time().Start(startOfYear(years[0])).End(startOfYear(years[0] + 1)).Size(1).Done()
	case 2:
		return b.Time().
			Start(startOfYear(years[0])).
			End(startOfYear(years[1])).
			Size(int64(years[1]-years[0])).
			Resolution("year", 1).
			Done()
	}
	if b.err == nil {
		b.err = invalidArg("years needs one or two arguments, got %d", len(years))
	}
	return b
}

// Build returns the geometry described so far, time first.
func (b *Builder) Build() (*Geometry, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.space == nil && b.time == nil {
		return ScalarGeometry(), nil
	}

	var dims []*Dimension
	if b.time != nil {
		t := b.time.copy()
		if _, ok := t.params[ParamTimeStart]; !ok {
			t.generic = true
			t.params[ParamTimeRepresentation] = TimeLogical
		}
		dims = append(dims, t)
	}
	if b.space != nil {
		dims = append(dims, b.space.copy())
	}
	for _, d := range dims {
		if d.dimensionality != NonDimensional && (d.dimensionality < 0 || d.dimensionality > 9) {
			return nil, invalidArg("%s dimensionality %d cannot be encoded", d.kind, d.dimensionality)
		}
	}
	return newGeometry(dims, nil, b.granularity), nil
}

// SpaceBuilder edits the space draft of a Builder.
type SpaceBuilder struct {
	b *Builder
}

func (s *SpaceBuilder) d() *Dimension { return s.b.space }

func (s *SpaceBuilder) Generic() *SpaceBuilder {
	s.d().generic = true
	return s
}

func (s *SpaceBuilder) Regular() *SpaceBuilder {
	s.d().regular = true
	return s
}

// Dimensionality sets the rank, NonDimensional included.
func (s *SpaceBuilder) Dimensionality(n int) *SpaceBuilder {
	s.d().dimensionality = n
	return s
}

// Size sets the shape. One value makes an irregular one-dimensional extent
// of n objects. Two values make a regular x by y grid.
func (s *SpaceBuilder) Size(n int64, more ...int64) *SpaceBuilder {
	d := s.d()
	if len(more) == 0 {
		d.shape = []int64{n}
		d.dimensionality = 1
		d.regular = false
		return s
	}
	d.shape = append([]int64{n}, more...)
	d.dimensionality = len(d.shape)
	d.regular = true
	return s
}

func (s *SpaceBuilder) BoundingBox(x1, x2, y1, y2 float64) *SpaceBuilder {
	s.d().params[ParamSpaceBoundingBox] = []float64{x1, x2, y1, y2}
	return s
}

// Shape sets the WKT or WKB shape.
func (s *SpaceBuilder) Shape(wkt string) *SpaceBuilder {
	s.d().params[ParamSpaceShape] = wkt
	return s
}

func (s *SpaceBuilder) URN(urn string) *SpaceBuilder {
	s.d().params[ParamSpaceResourceURN] = urn
	return s
}

// Resolution sets the grid resolution, e.g. "1 km", and makes space regular.
func (s *SpaceBuilder) Resolution(resolution string) *SpaceBuilder {
	s.d().regular = true
	s.d().params[ParamSpaceGridResolution] = resolution
	return s
}

// Time switches to the time sub-builder of the same Builder.
func (s *SpaceBuilder) Time() *TimeBuilder { return s.b.Time() }

func (s *SpaceBuilder) Done() *Builder { return s.b }

// TimeBuilder edits the time draft of a Builder.
type TimeBuilder struct {
	b *Builder
}

func (t *TimeBuilder) d() *Dimension { return t.b.time }

func (t *TimeBuilder) Generic() *TimeBuilder {
	t.d().generic = true
	return t
}

func (t *TimeBuilder) Regular() *TimeBuilder {
	t.d().regular = true
	return t
}

// Covering sets the coverage bounds in milliseconds.
func (t *TimeBuilder) Covering(startMs, endMs int64) *TimeBuilder {
	t.d().params[ParamTimeCoverageStart] = startMs
	t.d().params[ParamTimeCoverageEnd] = endMs
	return t
}

// Step makes time a regular grid with the given step, e.g. "1 day".
func (t *TimeBuilder) Step(step string) *TimeBuilder {
	t.d().regular = true
	t.d().params[ParamTimeRepresentation] = TimeGrid
	t.d().params[ParamTimeGridResolution] = step
	return t
}

// Between sets physical start and end times in milliseconds.
func (t *TimeBuilder) Between(startMs, endMs int64) *TimeBuilder {
	t.Start(startMs).End(endMs)
	t.d().params[ParamTimeRepresentation] = TimePhysical
	return t
}

// Year covers one calendar year in UTC.
func (t *TimeBuilder) Year(year int) *TimeBuilder {
	t.Start(startOfYear(year)).End(startOfYear(year+1)).Resolution("year", 1)
	t.d().params[ParamTimeRepresentation] = TimePhysical
	return t
}

func (t *TimeBuilder) Start(ms int64) *TimeBuilder {
	t.d().params[ParamTimeStart] = ms
	return t
}

func (t *TimeBuilder) End(ms int64) *TimeBuilder {
	t.d().params[ParamTimeEnd] = ms
	return t
}

// Resolution sets the temporal scope as multiplier times unit (year, month,
// day, ...).
func (t *TimeBuilder) Resolution(unit string, multiplier float64) *TimeBuilder {
	t.d().params[ParamTimeScope] = multiplier
	t.d().params[ParamTimeScopeUnit] = strings.ToLower(unit)
	return t
}

// Size sets the number of time steps and makes time regular.
func (t *TimeBuilder) Size(n int64) *TimeBuilder {
	t.d().shape = []int64{n}
	t.d().regular = true
	return t
}

// Space switches to the space sub-builder of the same Builder.
func (t *TimeBuilder) Space() *SpaceBuilder { return t.b.Space() }

func (t *TimeBuilder) Done() *Builder { return t.b }

func isWKT(s string) bool {
	return (strings.Contains(s, "POLYGON") || strings.Contains(s, "POINT") || strings.Contains(s, "LINESTRING")) &&
		strings.Contains(s, "(") && strings.Contains(s, ")")
}

func startOfYear(year int) int64 {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
}
