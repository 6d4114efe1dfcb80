package geometry

// The With* helpers return a modified copy and never touch the receiver.

func logicalTime() *Dimension {
	d := newDimension(Time, 1)
	d.regular = true
	return d
}

func logicalSpace() *Dimension {
	d := newDimension(Space, 2)
	d.regular = true
	return d
}

// edit copies g and applies fn to the copy of the dimension of the given kind.
// A missing dimension is created with create, or the edit is skipped when
// create is nil.
func (g *Geometry) edit(kind Kind, create func() *Dimension, fn func(d *Dimension)) *Geometry {
	dims := make([]*Dimension, 0, len(g.dims)+1)
	var target *Dimension
	for _, d := range g.dims {
		c := d.copy()
		if c.kind == kind {
			target = c
		}
		dims = append(dims, c)
	}
	if target == nil {
		if create == nil {
			return g
		}
		target = create()
		dims = append(dims, target)
	}
	fn(target)
	return newGeometry(dims, g.child, g.granularity)
}

func (g *Geometry) require(kind Kind) error {
	if g.Dimension(kind) == nil {
		return illegalState("cannot set %s parameters on a geometry without %s", kind, kind)
	}
	return nil
}

// Spatial returns g if it has space, or g with a new concrete space dimension.
func (g *Geometry) Spatial(dimensionality int, regular bool) *Geometry {
	if g.Dimension(Space) != nil {
		return g
	}
	return g.edit(Space, func() *Dimension { return newDimension(Space, dimensionality) }, func(d *Dimension) {
		d.regular = regular
	})
}

// Temporal returns g if it has time, or g with a new concrete time dimension.
func (g *Geometry) Temporal(regular bool) *Geometry {
	if g.Dimension(Time) != nil {
		return g
	}
	return g.edit(Time, func() *Dimension { return newDimension(Time, 1) }, func(d *Dimension) {
		d.regular = regular
	})
}

// WithBoundingBox sets the spatial bounding box. Space must be present.
func (g *Geometry) WithBoundingBox(minX, maxX, minY, maxY float64) (*Geometry, error) {
	if err := g.require(Space); err != nil {
		return nil, err
	}
	return g.edit(Space, nil, func(d *Dimension) {
		d.params[ParamSpaceBoundingBox] = []float64{minX, maxX, minY, maxY}
	}), nil
}

// WithShapeSpec sets the WKT/WKB shape of the space dimension, or removes it
// when wkt is empty. Geometries without space are returned unchanged.
func (g *Geometry) WithShapeSpec(wkt string) *Geometry {
	return g.edit(Space, nil, func(d *Dimension) {
		if wkt == "" {
			delete(d.params, ParamSpaceShape)
			return
		}
		d.params[ParamSpaceShape] = wkt
	})
}

// WithGridResolution sets the spatial grid resolution, adding a logical space
// dimension if needed. An empty resolution removes it and collapses the shape
// to a single cell.
func (g *Geometry) WithGridResolution(resolution string) *Geometry {
	if resolution == "" {
		return g.edit(Space, nil, func(d *Dimension) {
			delete(d.params, ParamSpaceGridResolution)
			if d.dimensionality == 2 {
				d.shape = []int64{1, 1}
			} else {
				d.shape = []int64{1}
			}
		})
	}
	return g.edit(Space, logicalSpace, func(d *Dimension) {
		d.params[ParamSpaceGridResolution] = resolution
	})
}

// WithSpatialParameter sets an arbitrary space parameter. Geometries without
// space are returned unchanged.
func (g *Geometry) WithSpatialParameter(key string, value any) *Geometry {
	return g.edit(Space, nil, func(d *Dimension) {
		d.params[key] = normalizeValue(value)
	})
}

// WithProjection sets the projection code, adding a logical space dimension
// if needed.
func (g *Geometry) WithProjection(projection string) *Geometry {
	return g.edit(Space, logicalSpace, func(d *Dimension) {
		d.params[ParamSpaceProjection] = projection
	})
}

// WithSpatialShape sets the space shape, adding a logical space dimension if
// needed. The dimensionality follows the number of entries.
func (g *Geometry) WithSpatialShape(shape ...int64) *Geometry {
	return g.edit(Space, logicalSpace, func(d *Dimension) {
		d.shape = append([]int64(nil), shape...)
		d.dimensionality = len(shape)
	})
}

// WithTemporalShape sets the number of time steps, adding a logical time
// dimension if needed.
func (g *Geometry) WithTemporalShape(n int64) *Geometry {
	return g.edit(Time, logicalTime, func(d *Dimension) {
		d.shape = []int64{n}
		d.dimensionality = 1
	})
}

// WithTemporalResolution sets the time step. An empty resolution removes it
// and collapses time to one step. Geometries without time are returned
// unchanged.
func (g *Geometry) WithTemporalResolution(resolution string) *Geometry {
	return g.edit(Time, nil, func(d *Dimension) {
		if resolution == "" {
			delete(d.params, ParamTimeGridResolution)
			d.shape = []int64{1}
			return
		}
		d.params[ParamTimeGridResolution] = resolution
	})
}

// WithTemporalBoundaries sets the time period in milliseconds. Time must be
// present.
func (g *Geometry) WithTemporalBoundaries(start, end int64) (*Geometry, error) {
	if err := g.require(Time); err != nil {
		return nil, err
	}
	return g.edit(Time, nil, func(d *Dimension) {
		d.params[ParamTimePeriod] = []int64{start, end}
	}), nil
}

func (g *Geometry) WithTemporalStart(value any) *Geometry {
	return g.edit(Time, logicalTime, func(d *Dimension) {
		d.params[ParamTimeStart] = normalizeValue(value)
	})
}

func (g *Geometry) WithTemporalEnd(value any) *Geometry {
	return g.edit(Time, logicalTime, func(d *Dimension) {
		d.params[ParamTimeEnd] = normalizeValue(value)
	})
}

// WithTimeType sets the time representation, one of the TimeXxx constants.
func (g *Geometry) WithTimeType(representation string) *Geometry {
	return g.edit(Time, logicalTime, func(d *Dimension) {
		d.params[ParamTimeRepresentation] = representation
	})
}

// WithTemporalTransitions makes time an irregular grid with the given
// transition points.
func (g *Geometry) WithTemporalTransitions(points ...int64) *Geometry {
	return g.edit(Time, logicalTime, func(d *Dimension) {
		d.params[ParamTimeRepresentation] = TimeGrid
		d.params[ParamTimeTransitions] = append([]int64(nil), points...)
	})
}
