package geometry

import "slices"

// Merge folds other into g. It returns false when a dimension of other
// cannot be merged with the one of the same kind in g; that is a normal
// outcome, not an error. The granularity and child of g are kept.
func (g *Geometry) Merge(other *Geometry) (*Geometry, bool) {
	if g.empty {
		merged, err := Parse(other.Encode())
		if err != nil {
			return nil, false
		}
		return merged, true
	}
	if other.scalar && other.generic {
		return g, true
	}

	dims := make([]*Dimension, 0, len(g.dims)+len(other.dims))
	for _, d := range g.dims {
		dims = append(dims, d.copy())
	}

	for _, theirs := range other.dims {
		i := g.indexOf(theirs.kind)
		switch {
		case i < 0:
			dims = append(dims, theirs.copy())
		case g.dims[i].generic && !theirs.generic:
			dims[i] = theirs.copy()
		case !g.dims[i].Compatible(theirs):
			return nil, false
		default:
			mine := dims[i]
			if size := mine.Size(); (size == Undefined || size == 0) && mine.Distributed() && theirs.Size() > 0 {
				mine.shape = slices.Clone(theirs.shape)
				mine.dimensionality = theirs.dimensionality
			}
			if mine.regular && !theirs.regular && theirs.Size() > 1 {
				mine.regular = false
			}
		}
	}

	return newGeometry(dims, g.child, g.granularity), true
}

// Without returns a copy of g that lacks the dimension of the given kind.
func (g *Geometry) Without(kind Kind) *Geometry {
	if g.empty || g.scalar {
		return g
	}
	dims := make([]*Dimension, 0, len(g.dims))
	for _, d := range g.dims {
		if d.kind != kind {
			dims = append(dims, d.copy())
		}
	}
	return newGeometry(dims, g.child, g.granularity)
}

// Override returns a copy of g in which every dimension of other replaces the
// one of the same kind. No compatibility check is made.
func (g *Geometry) Override(other *Geometry) *Geometry {
	dims := make([]*Dimension, 0, len(g.dims)+len(other.dims))
	for _, d := range g.dims {
		if other.Dimension(d.kind) == nil {
			dims = append(dims, d.copy())
		}
	}
	for _, d := range other.dims {
		dims = append(dims, d.copy())
	}
	if len(dims) == 0 && g.child == nil && g.scalar {
		return g
	}
	return newGeometry(dims, g.child, g.granularity)
}

// Is tests structural equivalence with the geometry in spec: same number of
// dimensions and, position by position, same kind, dimensionality and
// regularity. Shapes must match when either side has one.
func (g *Geometry) Is(spec string) (bool, error) {
	other, err := Parse(spec)
	if err != nil {
		return false, err
	}
	if len(other.dims) != len(g.dims) {
		return false, nil
	}
	for i, d := range g.dims {
		o := other.dims[i]
		if o.kind != d.kind || o.dimensionality != d.dimensionality || o.regular != d.regular {
			return false, nil
		}
		if (o.shape != nil || d.shape != nil) && !slices.Equal(o.shape, d.shape) {
			return false, nil
		}
	}
	return true, nil
}

// Label describes g for humans, e.g. "distributed spatio-temporal".
func (g *Geometry) Label() string {
	if g.scalar {
		return "scalar"
	}
	prefix := ""
	if g.Size() > 0 || slices.ContainsFunc(g.dims, (*Dimension).Regular) {
		prefix = "distributed "
	}
	space, time := g.Dimension(Space) != nil, g.Dimension(Time) != nil
	switch {
	case space && time:
		return prefix + "spatio-temporal"
	case space:
		return prefix + "spatial"
	case time:
		return prefix + "temporal"
	}
	return "empty"
}

// LocatorParameters extracts the parameters of d that locate it within a
// larger extent: the time locator for time, the lon/lat pair for space.
func LocatorParameters(d *Dimension) []any {
	switch d.kind {
	case Time:
		if v, ok := d.params[ParamTimeLocator]; ok {
			return []any{cloneValue(v)}
		}
	case Space:
		if v, ok := d.params[ParamSpaceLonLat]; ok {
			return []any{cloneValue(v)}
		}
	}
	return nil
}
