package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuSKan/go-geometry"
)

const (
	jan2020 = int64(1577836800000)
	jan2021 = int64(1609459200000)
)

func TestBuilder_Region(t *testing.T) {
	g, err := geometry.NewBuilder().Region("urn:klab:region:alps").Build()
	require.NoError(t, err)

	require.False(t, g.Scalar())
	require.Len(t, g.Dimensions(), 1)

	space := g.Dimension(geometry.Space)
	require.NotNil(t, space)
	require.Equal(t, []int64{1}, space.Shape())
	require.Equal(t, 1, space.Dimensionality())
	require.False(t, space.Regular())
	require.Equal(t, "urn:klab:region:alps", space.Parameters()[geometry.ParamSpaceResourceURN])
	require.Equal(t, "s1(1){urn=urn:klab:region:alps}", g.Encode())
}

func TestBuilder_RegionWKT(t *testing.T) {
	wkt := "POLYGON((0 0, 1 0, 1 1, 0 0))"
	g, err := geometry.NewBuilder().Region(wkt).Build()
	require.NoError(t, err)

	params := g.Dimension(geometry.Space).Parameters()
	require.Equal(t, wkt, params[geometry.ParamSpaceShape])
	require.NotContains(t, params, geometry.ParamSpaceResourceURN)
	require.True(t, geometry.MustParse(g.Encode()).Equal(g))
}

func TestBuilder_Space(t *testing.T) {
	g, err := geometry.NewBuilder().Space().Size(200, 339).Done().Build()
	require.NoError(t, err)
	require.Equal(t, "S2(200,339)", g.Encode())

	g, err = geometry.NewBuilder().Space().Generic().Done().Build()
	require.NoError(t, err)
	require.Equal(t, "σ2", g.Encode())
	require.True(t, g.Generic())

	g, err = geometry.NewBuilder().Grid(-180, 180, -90, 90).Build()
	require.NoError(t, err)
	require.Equal(t, "S2{bbox=[-180.0 180.0 -90.0 90.0]}", g.Encode())

	g, err = geometry.NewBuilder().GridBox(0, 10, 0, 10, "1 km").Build()
	require.NoError(t, err)
	require.Equal(t, "S2{bbox=[0.0 10.0 0.0 10.0],sgrid=1 km}", g.Encode())

	g, err = geometry.NewBuilder().GridURN("urn:klab:region:alps", "100 m").Build()
	require.NoError(t, err)
	require.Equal(t, "S2{sgrid=100 m,urn=urn:klab:region:alps}", g.Encode())
}

func TestBuilder_Empty(t *testing.T) {
	g, err := geometry.NewBuilder().Build()
	require.NoError(t, err)
	require.True(t, g.Scalar())
}

func TestBuilder_TimeWithoutStartIsGeneric(t *testing.T) {
	g, err := geometry.NewBuilder().Time().Size(10).Done().Build()
	require.NoError(t, err)

	tm := g.Dimension(geometry.Time)
	require.True(t, tm.Generic())
	require.Equal(t, geometry.TimeLogical, tm.Parameters()[geometry.ParamTimeRepresentation])
	require.Equal(t, "Τ1(10){ttype=LOGICAL}", g.Encode())
}

func TestBuilder_Years(t *testing.T) {
	g, err := geometry.NewBuilder().Years(2020).Build()
	require.NoError(t, err)
	require.Equal(t, "T1(1){tend=1609459200000,tstart=1577836800000,ttype=LOGICAL}", g.Encode())
	require.False(t, g.Generic())

	g, err = geometry.NewBuilder().Years(2000, 2010).Build()
	require.NoError(t, err)
	params := g.Dimension(geometry.Time).Parameters()
	require.Equal(t, []int64{10}, g.Dimension(geometry.Time).Shape())
	require.Equal(t, 1.0, params[geometry.ParamTimeScope])
	require.Equal(t, "year", params[geometry.ParamTimeScopeUnit])

	_, err = geometry.NewBuilder().Years(2000, 2010, 2020).Build()
	require.ErrorIs(t, err, geometry.ErrInvalidArgument)

	_, err = geometry.NewBuilder().Years().Build()
	require.ErrorIs(t, err, geometry.ErrInvalidArgument)
}

func TestBuilder_SpaceAndTime(t *testing.T) {
	g, err := geometry.NewBuilder().
		Space().Size(10, 10).
		Time().Year(2020).
		Done().
		Build()
	require.NoError(t, err)

	dims := g.Dimensions()
	require.Len(t, dims, 2)
	require.Equal(t, geometry.Time, dims[0].Kind())
	require.Equal(t, geometry.Space, dims[1].Kind())

	params := dims[0].Parameters()
	require.Equal(t, jan2020, params[geometry.ParamTimeStart])
	require.Equal(t, jan2021, params[geometry.ParamTimeEnd])
	require.Equal(t, geometry.TimePhysical, params[geometry.ParamTimeRepresentation])
	require.True(t, geometry.MustParse(g.Encode()).Equal(g))
}

func TestBuilder_TimeOperations(t *testing.T) {
	g, err := geometry.NewBuilder().Time().Between(jan2020, jan2021).Covering(0, 10).Done().Build()
	require.NoError(t, err)
	params := g.Dimension(geometry.Time).Parameters()
	require.Equal(t, geometry.TimePhysical, params[geometry.ParamTimeRepresentation])
	require.Equal(t, int64(0), params[geometry.ParamTimeCoverageStart])
	require.Equal(t, int64(10), params[geometry.ParamTimeCoverageEnd])

	g, err = geometry.NewBuilder().Time().Start(jan2020).Step("1 day").Done().Build()
	require.NoError(t, err)
	tm := g.Dimension(geometry.Time)
	require.True(t, tm.Regular())
	require.True(t, tm.Distributed())
	require.Equal(t, geometry.TimeGrid, tm.Parameters()[geometry.ParamTimeRepresentation])
}

func TestBuilder_BuildDoesNotAlias(t *testing.T) {
	b := geometry.NewBuilder()
	b.Space().Size(5)
	first, err := b.Build()
	require.NoError(t, err)

	b.Space().Size(3, 3).URN("urn:x")
	second, err := b.Build()
	require.NoError(t, err)

	require.Equal(t, "s1(5)", first.Encode())
	require.Equal(t, "S2(3,3){urn=urn:x}", second.Encode())
}

func TestBuilder_Dimensionality(t *testing.T) {
	g, err := geometry.NewBuilder().Space().Dimensionality(geometry.NonDimensional).Done().Build()
	require.NoError(t, err)
	require.Equal(t, "s.", g.Encode())

	_, err = geometry.NewBuilder().Space().Dimensionality(12).Done().Build()
	require.ErrorIs(t, err, geometry.ErrInvalidArgument)
}

func TestBuilder_Multiple(t *testing.T) {
	g, err := geometry.NewBuilder().Multiple().Space().Size(4).Done().Build()
	require.NoError(t, err)
	require.Equal(t, "#s1(4)", g.Encode())
}
