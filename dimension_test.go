package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuSKan/go-geometry"
)

func space(t *testing.T, spec string) *geometry.Dimension {
	t.Helper()
	d := geometry.MustParse(spec).Dimension(geometry.Space)
	require.NotNil(t, d, spec)
	return d
}

func timeDim(t *testing.T, spec string) *geometry.Dimension {
	t.Helper()
	d := geometry.MustParse(spec).Dimension(geometry.Time)
	require.NotNil(t, d, spec)
	return d
}

func TestDimension_Size(t *testing.T) {
	require.Equal(t, int64(12), space(t, "S2(3,4)").Size())
	require.Equal(t, geometry.Undefined, space(t, "S2").Size())
	require.Equal(t, geometry.Undefined, space(t, "S2(,4)").Size())
	require.Equal(t, geometry.Infinite, timeDim(t, "T1(∞)").Size())
	require.Equal(t, int64(0), space(t, "S1(0)").Size())
	require.Equal(t, 1.0, space(t, "S1(1)").Coverage())
}

func TestDimension_Offset(t *testing.T) {
	raster := space(t, "S2(10,10)")

	ofs, err := raster.Offset(1, 4)
	require.NoError(t, err)
	require.Equal(t, int64(51), ofs)

	// row 0 is the top row
	ofs, err = raster.Offset(0, 9)
	require.NoError(t, err)
	require.Equal(t, int64(0), ofs)

	ofs, err = timeDim(t, "T1(5)").Offset(3)
	require.NoError(t, err)
	require.Equal(t, int64(3), ofs)

	_, err = raster.Offset(1)
	require.ErrorIs(t, err, geometry.ErrInvalidArgument)

	for _, coords := range [][]int64{{12, 5}, {3, 11}, {-1, 0}, {0, 10}} {
		_, err = raster.Offset(coords...)
		require.ErrorIs(t, err, geometry.ErrInvalidArgument, coords)
	}

	_, err = timeDim(t, "T1(5)").Offset(5)
	require.ErrorIs(t, err, geometry.ErrInvalidArgument)

	ofs, err = timeDim(t, "T1(∞)").Offset(42)
	require.NoError(t, err)
	require.Equal(t, int64(42), ofs)

	_, err = space(t, "S2").Offset(1, 1)
	require.ErrorIs(t, err, geometry.ErrInvalidArgument)

	_, err = space(t, "S3(2,2,2)").Offset(1, 1, 1)
	require.ErrorIs(t, err, geometry.ErrUnimplemented)

	_, err = timeDim(t, "T2(2,2)").Offset(0, 0)
	require.ErrorIs(t, err, geometry.ErrUnimplemented)
}

// A generic dimension only accepts generic ones while a concrete dimension
// accepts both. The asymmetry is intended.
func TestDimension_CompatibleIsAsymmetric(t *testing.T) {
	generic := space(t, "σ2")
	concrete := space(t, "S2(10,10)")

	require.False(t, generic.Compatible(concrete))
	require.True(t, concrete.Compatible(generic))
	require.True(t, generic.Compatible(space(t, "Σ1")))
	require.True(t, concrete.Compatible(space(t, "s1(3)")))
	require.False(t, concrete.Compatible(timeDim(t, "T1(3)")))
}

func TestDimension_Distributed(t *testing.T) {
	tests := []struct {
		spec string
		kind geometry.Kind
		want bool
	}{
		{"s1(1)", geometry.Space, false},
		{"S1(1)", geometry.Space, true},
		{"s2(3,3)", geometry.Space, true},
		{"t1{ttype=grid}", geometry.Time, true},
		{"t1{ttype=GRID}", geometry.Time, true},
		{"t1{ttype=LOGICAL}", geometry.Time, false},
		{"t1(1)", geometry.Time, false},
		{"s1", geometry.Space, false},
	}

	for _, tt := range tests {
		d := geometry.MustParse(tt.spec).Dimension(tt.kind)
		if got := d.Distributed(); got != tt.want {
			t.Errorf("Distributed(%q) = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestDimension_AccessorsReturnCopies(t *testing.T) {
	g := geometry.MustParse("S2(3,4){proj=EPSG:4326}")
	d := g.Dimension(geometry.Space)

	shape := d.Shape()
	shape[0] = 99
	params := d.Parameters()
	params["proj"] = "EPSG:3857"

	require.Equal(t, "S2(3,4){proj=EPSG:4326}", g.Encode())
	require.Equal(t, []int64{3, 4}, d.Shape())
}

func TestGeometry_Size(t *testing.T) {
	tests := []struct {
		spec string
		want int64
	}{
		{"T1(3)S2(4,5)", 60},
		{"T1(∞)S2(4,5)", 20},
		{"T1S2(4,5)", geometry.Undefined},
		{"X", 0},
		{"*", 1},
		{"S1(0)", 0},
	}

	for _, tt := range tests {
		if got := geometry.MustParse(tt.spec).Size(); got != tt.want {
			t.Errorf("Size(%q) = %d, want %d", tt.spec, got, tt.want)
		}
	}
}
