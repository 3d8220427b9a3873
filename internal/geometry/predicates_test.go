package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareRing is a 30x30 degree square with corners at (0,0), (30,0),
// (30,30), (0,30) in (lng, lat) order.
var squareRing = Ring{
	{Lng: 0, Lat: 0},
	{Lng: 30, Lat: 0},
	{Lng: 30, Lat: 30},
	{Lng: 0, Lat: 30},
}

// concaveRing is a U shape: a 30x30 square with a notch cut from the top
// edge down to lat 10 between lng 10 and 20.
var concaveRing = Ring{
	{Lng: 0, Lat: 0},
	{Lng: 30, Lat: 0},
	{Lng: 30, Lat: 30},
	{Lng: 20, Lat: 30},
	{Lng: 20, Lat: 10},
	{Lng: 10, Lat: 10},
	{Lng: 10, Lat: 30},
	{Lng: 0, Lat: 30},
}

func TestPointInRing(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		ring Ring
		want bool
	}{
		{"center", Point{Lng: 15, Lat: 15}, squareRing, true},
		{"outside left", Point{Lng: -5, Lat: 15}, squareRing, false},
		{"outside above", Point{Lng: 15, Lat: 35}, squareRing, false},
		{"inside near corner", Point{Lng: 1, Lat: 1}, squareRing, true},
		{"in concave notch", Point{Lng: 15, Lat: 20}, concaveRing, false},
		{"in concave arm", Point{Lng: 5, Lat: 20}, concaveRing, true},
		{"degenerate ring", Point{Lng: 0, Lat: 0}, Ring{{Lng: 1, Lat: 1}, {Lng: 2, Lat: 2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointInRing(tt.p, tt.ring))
		})
	}
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, p3, p4 Point
		want           bool
	}{
		{
			"crossing",
			Point{0, 0}, Point{10, 10},
			Point{0, 10}, Point{10, 0},
			true,
		},
		{
			"parallel disjoint",
			Point{0, 0}, Point{10, 0},
			Point{0, 5}, Point{10, 5},
			false,
		},
		{
			"endpoint touch",
			Point{0, 0}, Point{10, 0},
			Point{10, 0}, Point{10, 10},
			true,
		},
		{
			"collinear endpoint on segment",
			Point{0, 0}, Point{10, 0},
			Point{5, 0}, Point{5, 10},
			true,
		},
		{
			"collinear disjoint",
			Point{0, 0}, Point{5, 0},
			Point{6, 0}, Point{10, 0},
			false,
		},
		{
			"near miss",
			Point{0, 0}, Point{10, 10},
			Point{11, 10}, Point{20, 10},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentsIntersect(tt.p1, tt.p2, tt.p3, tt.p4))
			// Intersection is symmetric in the two segments.
			assert.Equal(t, tt.want, SegmentsIntersect(tt.p3, tt.p4, tt.p1, tt.p2))
		})
	}
}

func TestRectContainedInRing(t *testing.T) {
	// Fixture from the pruning-correctness property: a rectangle fully
	// interior to the square is contained.
	inner := Rect{MinLng: 10, MinLat: 10, MaxLng: 20, MaxLat: 20}
	assert.True(t, RectContainedInRing(inner, squareRing))

	// A rectangle straddling the square's corner overlaps but is not
	// contained.
	straddling := Rect{MinLng: 25, MinLat: 25, MaxLng: 35, MaxLat: 35}
	assert.True(t, RectOverlapsRing(straddling, squareRing))
	assert.False(t, RectContainedInRing(straddling, squareRing))
}

func TestRectContainedConcaveDip(t *testing.T) {
	// All four corners of this rectangle are inside the concave ring's
	// arms, but the notch dips through it: the edge check must reject it.
	rect := Rect{MinLng: 5, MinLat: 12, MaxLng: 25, MaxLat: 25}
	for _, c := range rect.Corners() {
		require.True(t, PointInRing(c, concaveRing), "corner %+v should be inside", c)
	}
	assert.False(t, RectContainedInRing(rect, concaveRing))
	assert.True(t, RectOverlapsRing(rect, concaveRing))
}

func TestRectOverlapsRingWithoutVertexContainment(t *testing.T) {
	// A tall thin rectangle crossing the square: no rectangle corner is
	// inside the ring and no ring vertex is inside the rectangle, so only
	// the edge-intersection arm can detect the overlap.
	rect := Rect{MinLng: 14, MinLat: -10, MaxLng: 16, MaxLat: 40}
	for _, c := range rect.Corners() {
		require.False(t, PointInRing(c, squareRing))
	}
	for _, v := range squareRing {
		require.False(t, rect.ContainsPoint(v))
	}
	assert.True(t, RectOverlapsRing(rect, squareRing))
}

func TestRectOverlapsRingFullyInteriorRing(t *testing.T) {
	// The ring sits entirely inside the rectangle: no rectangle corner is
	// in the ring and no edges cross, so the vertex-in-rectangle arm must
	// catch it.
	rect := Rect{MinLng: -50, MinLat: -50, MaxLng: 80, MaxLat: 80}
	assert.True(t, RectOverlapsRing(rect, squareRing))
	assert.False(t, RectContainedInRing(rect, squareRing))
}

func TestContainmentImpliesOverlap(t *testing.T) {
	rects := []Rect{
		{MinLng: 10, MinLat: 10, MaxLng: 20, MaxLat: 20},
		{MinLng: 1, MinLat: 1, MaxLng: 29, MaxLat: 29},
		{MinLng: 5, MinLat: 2, MaxLng: 8, MaxLat: 6},
	}
	for _, rect := range rects {
		if RectContainedInRing(rect, squareRing) {
			assert.True(t, RectOverlapsRing(rect, squareRing),
				"contained rect %+v must also overlap", rect)
		}
	}
}

func TestRectOverlapsEmptyRing(t *testing.T) {
	rect := Rect{MinLng: 0, MinLat: 0, MaxLng: 10, MaxLat: 10}
	assert.False(t, RectOverlapsRing(rect, nil))
	assert.False(t, RectContainedInRing(rect, nil))
}
