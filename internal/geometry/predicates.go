// Package geometry implements the planar predicates the coverage engine uses
// to classify geohash cells against country boundary rings.
package geometry

// Point is a position in degrees.
type Point struct {
	Lng float64
	Lat float64
}

// Ring is a simple closed polygon ring. Closure is implicit: the edge from
// the last vertex back to the first is always tested, so repeating the first
// vertex at the end is allowed but not required.
type Ring []Point

// Rect is an axis-aligned rectangle in degrees.
type Rect struct {
	MinLng float64
	MinLat float64
	MaxLng float64
	MaxLat float64
}

// Corners returns the four rectangle corners in counter-clockwise order
// starting from the south-west corner.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{Lng: r.MinLng, Lat: r.MinLat},
		{Lng: r.MaxLng, Lat: r.MinLat},
		{Lng: r.MaxLng, Lat: r.MaxLat},
		{Lng: r.MinLng, Lat: r.MaxLat},
	}
}

// ContainsPoint reports whether p lies inside or on the rectangle.
func (r Rect) ContainsPoint(p Point) bool {
	return p.Lng >= r.MinLng && p.Lng <= r.MaxLng &&
		p.Lat >= r.MinLat && p.Lat <= r.MaxLat
}

// PointInRing reports whether p lies inside the ring, using ray casting: a
// horizontal ray from p toward +infinity crosses the ring's edges an odd
// number of times exactly when p is interior.
//
// Points exactly on an edge are resolved arbitrarily by the crossing parity.
// Callers accept that ambiguity; boundary-aligned input can classify either
// way at the exact border.
func PointInRing(p Point, ring Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := ring[i], ring[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) {
			crossLng := (vj.Lng-vi.Lng)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lng
			if p.Lng < crossLng {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// direction returns the sign of the cross product (b-a) x (c-a): positive
// when c is clockwise of the a->b segment, negative when counter-clockwise,
// zero when collinear.
func direction(a, b, c Point) float64 {
	return (c.Lng-a.Lng)*(b.Lat-a.Lat) - (b.Lng-a.Lng)*(c.Lat-a.Lat)
}

// onSegment reports whether the collinear point c lies within the bounding
// box of segment ab. Only meaningful when direction(a, b, c) == 0.
func onSegment(a, b, c Point) bool {
	return min(a.Lng, b.Lng) <= c.Lng && c.Lng <= max(a.Lng, b.Lng) &&
		min(a.Lat, b.Lat) <= c.Lat && c.Lat <= max(a.Lat, b.Lat)
}

// SegmentsIntersect reports whether segments p1p2 and p3p4 intersect,
// including endpoint touches. Fully overlapping collinear segments are only
// partially handled: the onSegment fallback catches an endpoint of one
// segment lying on the other, which covers touching and most overlap
// configurations but is not a verified-complete overlap test.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// edges calls fn for each ring edge until fn returns true. The closing edge
// from the last vertex to the first is included.
func (ring Ring) edges(fn func(a, b Point) bool) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		if fn(ring[i], ring[(i+1)%n]) {
			return true
		}
	}
	return false
}

// RectOverlapsRing reports whether the rectangle and ring share any area or
// boundary. Three tests are all required: a rectangle corner inside the ring,
// a ring vertex inside the rectangle, or any rectangle edge crossing any ring
// edge. No single test is sufficient on its own — a ring can pass straight
// through the rectangle with no vertex of either shape inside the other, and
// a ring fully interior to the rectangle crosses none of its edges.
func RectOverlapsRing(rect Rect, ring Ring) bool {
	if len(ring) == 0 {
		return false
	}

	for _, c := range rect.Corners() {
		if PointInRing(c, ring) {
			return true
		}
	}

	for _, v := range ring {
		if rect.ContainsPoint(v) {
			return true
		}
	}

	corners := rect.Corners()
	return ring.edges(func(a, b Point) bool {
		for i := 0; i < 4; i++ {
			if SegmentsIntersect(corners[i], corners[(i+1)%4], a, b) {
				return true
			}
		}
		return false
	})
}

// RectContainedInRing reports whether the rectangle lies entirely inside the
// ring: all four corners are interior AND no ring edge crosses a rectangle
// edge. The edge check guards against concave rings that dip into the
// rectangle between two corners that are themselves inside.
func RectContainedInRing(rect Rect, ring Ring) bool {
	if len(ring) < 3 {
		return false
	}

	for _, c := range rect.Corners() {
		if !PointInRing(c, ring) {
			return false
		}
	}

	corners := rect.Corners()
	crossed := ring.edges(func(a, b Point) bool {
		for i := 0; i < 4; i++ {
			if SegmentsIntersect(corners[i], corners[(i+1)%4], a, b) {
				return true
			}
		}
		return false
	})
	return !crossed
}
