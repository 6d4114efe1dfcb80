package geometry_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuSKan/go-geometry"
)

func TestParse_RoundTrip(t *testing.T) {
	specs := []string{
		"X",
		"*",
		"S2(200,100)",
		"σ1(866){authority=IMF.CL_AREA}",
		"#T1(12)S2(10,10){proj=EPSG:4326}",
		"τ1S2",
		"T.S2",
		"Τ1(10){ttype=LOGICAL}",
		"T1(∞)S2(3,3)",
		"S2{bbox=[-180.0 180.0 -90.0 90.0],proj=EPSG:4326}",
		"T1{period=[0 1000]}",
		"S2{x=1.0E7}",
		"S2{flags=[true false],names=[a b]}",
		"S2{shape=POLYGON((0 0&comma; 1 1&comma; 0 0))}",
		"S2{sgrid=1 km}",
		"s1(5),T1(3)",
		"Σ2{gridurn=urn:klab:grid:1}",
		"S2{id=99999999999999999999}",
	}

	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			g, err := geometry.Parse(spec)
			require.NoError(t, err)
			require.Equal(t, spec, g.Encode())

			again, err := geometry.Parse(g.Encode())
			require.NoError(t, err)
			require.True(t, g.Equal(again))
			require.Equal(t, g.Key(), again.Key())
		})
	}
}

func TestParse_Canonicalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "X"},
		{"S2(2,2)T1(3)", "T1(3)S2(2,2)"},
		{"S2{proj=EPSG:4326,bbox=[0.0 1.0 0.0 1.0]}", "S2{bbox=[0.0 1.0 0.0 1.0],proj=EPSG:4326}"},
		{"S2(,5)", "S2"},
		{"S2(3, 4){ proj = EPSG:4326 }", "S2(3,4){proj=EPSG:4326}"},
		{"S2{}", "S2"},
		{"S2{x=5.0}", "S2{x=5.0}"},
		{"S2{urn= padded}", "S2{urn=padded}"},
	}

	for _, tt := range tests {
		g, err := geometry.Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.in, err)
			continue
		}
		if got := g.Encode(); got != tt.want {
			t.Errorf("Parse(%q).Encode() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse_RegularSpace(t *testing.T) {
	g, err := geometry.Parse("S2(200,100)")
	require.NoError(t, err)

	space := g.Dimension(geometry.Space)
	require.NotNil(t, space)
	require.False(t, space.Generic())
	require.True(t, space.Regular())
	require.Equal(t, 2, space.Dimensionality())
	require.Equal(t, []int64{200, 100}, space.Shape())
	require.Equal(t, int64(20000), space.Size())
	require.Equal(t, int64(20000), g.Size())
	require.Nil(t, g.Dimension(geometry.Time))
}

func TestParse_GenericEnumeration(t *testing.T) {
	g, err := geometry.Parse("σ1(866){authority=IMF.CL_AREA}")
	require.NoError(t, err)

	space := g.Dimension(geometry.Space)
	require.NotNil(t, space)
	require.True(t, space.Generic())
	require.False(t, space.Regular())
	require.Equal(t, 1, space.Dimensionality())
	require.Equal(t, []int64{866}, space.Shape())
	require.Equal(t, "IMF.CL_AREA", space.Parameters()[geometry.ParamEnumeratedAuthority])
	require.True(t, g.Generic())
}

func TestParse_Flags(t *testing.T) {
	empty, err := geometry.Parse("X")
	require.NoError(t, err)
	require.True(t, empty.Empty())
	require.False(t, empty.Scalar())
	require.Equal(t, int64(0), empty.Size())

	scalar, err := geometry.Parse("*")
	require.NoError(t, err)
	require.True(t, scalar.Scalar())
	require.False(t, scalar.Empty())
	require.True(t, scalar.Generic())
	require.Equal(t, int64(1), scalar.Size())

	multiple, err := geometry.Parse("#S2(2,2)")
	require.NoError(t, err)
	require.Equal(t, geometry.Multiple, multiple.Granularity())
	require.False(t, multiple.Empty())
	require.False(t, multiple.Scalar())

	nondim, err := geometry.Parse("T.")
	require.NoError(t, err)
	require.Equal(t, geometry.NonDimensional, nondim.Dimension(geometry.Time).Dimensionality())
}

func TestParse_Child(t *testing.T) {
	g, err := geometry.Parse("s1(5),T1(3)")
	require.NoError(t, err)
	require.Len(t, g.Dimensions(), 1)
	require.NotNil(t, g.Child())
	require.Equal(t, "T1(3)", g.Child().Encode())
}

func TestParse_TypedParameters(t *testing.T) {
	g, err := geometry.Parse("T1{period=[0 1000],tscope=1.0,tunit=year}S2{bbox=[-180.0 180.0 -90.0 90.0],shape=POINT (1 2)}")
	require.NoError(t, err)

	tp := g.Dimension(geometry.Time).Parameters()
	require.Equal(t, []int64{0, 1000}, tp[geometry.ParamTimePeriod])
	require.Equal(t, 1.0, tp[geometry.ParamTimeScope])
	require.Equal(t, "year", tp[geometry.ParamTimeScopeUnit])

	sp := g.Dimension(geometry.Space).Parameters()
	bbox, ok := sp.Floats(geometry.ParamSpaceBoundingBox)
	require.True(t, ok)
	require.Equal(t, []float64{-180, 180, -90, 90}, bbox)
	require.Equal(t, "POINT (1 2)", sp[geometry.ParamSpaceShape])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		spec     string
		fragment string
	}{
		{"Q2", "Q"},
		{"S", "S"},
		{"Sx", "Sx"},
		{"S2(3,4", "(3,4"},
		{"S2{a=1", "{a=1"},
		{"S2{a}", "a"},
		{"S2{a=b=c}", "a=b=c"},
		{"S2(-1,2)", "-1"},
		{"S2(a,2)", "a"},
		{"S2T1S1", "S"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := geometry.Parse(tt.spec)
			require.ErrorIs(t, err, geometry.ErrParse)

			var perr *geometry.ParseError
			require.True(t, errors.As(err, &perr))
			require.Equal(t, tt.spec, perr.Spec)
			require.Equal(t, tt.fragment, perr.Fragment)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	require.Panics(t, func() { geometry.MustParse("S2(") })
	require.NotPanics(t, func() { geometry.MustParse("S2(1,1)") })
}

func TestEncode_WithEncoder(t *testing.T) {
	g := geometry.MustParse("T1{tstart=1000}S2{proj=EPSG:4326}")
	lower := geometry.NewEncoder(geometry.Space, geometry.ParamSpaceProjection, func(v any) string {
		return strings.ToLower(v.(string))
	})

	require.Equal(t, "T1{tstart=1000}S2{proj=epsg:4326}", g.Encode(lower))
	require.Equal(t, "T1{tstart=1000}S2{proj=EPSG:4326}", g.Encode())
	require.Equal(t, "S2{proj=epsg:4326}", g.Dimension(geometry.Space).Encode(lower))
}

func TestKey(t *testing.T) {
	a := geometry.MustParse("S2(2,2)T1(3)")
	b := geometry.MustParse("T1(3)S2(2,2)")
	require.Equal(t, a.Key(), b.Key())
	require.True(t, geometry.IsKey(a.Key()))
	require.Equal(t, geometry.MakeKey("T1(3)S2(2,2)"), a.Key())

	require.NotEqual(t, a.Key(), geometry.MustParse("T1(4)S2(2,2)").Key())
	require.False(t, geometry.IsKey("S2(2,2)"))
	require.False(t, geometry.IsKey("key:short"))
}
