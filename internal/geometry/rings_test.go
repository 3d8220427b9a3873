package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestRingsFromPolygon(t *testing.T) {
	p := geom.NewPolygonFlat(geom.XY, []float64{0, 0, 30, 0, 30, 30, 0, 30, 0, 0}, []int{10})

	rings := RingsFromGeometry(p)
	require.Len(t, rings, 1)
	assert.Equal(t, Point{Lng: 0, Lat: 0}, rings[0][0])
	assert.Equal(t, Point{Lng: 30, Lat: 30}, rings[0][2])
}

func TestRingsFromPolygonIgnoresHoles(t *testing.T) {
	// Outer 0..30 square with a 10..20 hole: only the outer ring is used.
	p := geom.NewPolygonFlat(geom.XY,
		[]float64{
			0, 0, 30, 0, 30, 30, 0, 30, 0, 0,
			10, 10, 20, 10, 20, 20, 10, 20, 10, 10,
		},
		[]int{10, 20},
	)

	rings := RingsFromGeometry(p)
	require.Len(t, rings, 1)
	assert.Len(t, rings[0], 5)
}

func TestRingsFromMultiPolygon(t *testing.T) {
	mp := geom.NewMultiPolygonFlat(geom.XY,
		[]float64{
			0, 0, 10, 0, 10, 10, 0, 10, 0, 0,
			40, 40, 50, 40, 50, 50, 40, 50, 40, 40,
		},
		[][]int{{10}, {20}},
	)

	rings := RingsFromGeometry(mp)
	require.Len(t, rings, 2)
	assert.Equal(t, Point{Lng: 40, Lat: 40}, rings[1][0])
}

func TestRingsFromOtherGeometryTypes(t *testing.T) {
	assert.Nil(t, RingsFromGeometry(geom.NewPointFlat(geom.XY, []float64{1, 2})))
	assert.Nil(t, RingsFromGeometry(geom.NewLineStringFlat(geom.XY, []float64{0, 0, 1, 1})))
	assert.Nil(t, RingsFromGeometry(geom.NewGeometryCollection()))
	assert.Nil(t, RingsFromGeometry(nil))
}

func TestRingsFromEmptyPolygon(t *testing.T) {
	assert.Nil(t, RingsFromGeometry(geom.NewPolygon(geom.XY)))
}
