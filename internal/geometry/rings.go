package geometry

import (
	"github.com/twpayne/go-geom"
)

// RingsFromGeometry resolves a GeoJSON-style geometry into the flat list of
// outer rings the coverage engine tests against. A Polygon contributes its
// outer ring, a MultiPolygon contributes each part's outer ring, and any
// other geometry type contributes nothing. Interior rings (holes) are
// ignored: an enclave sitting inside another country's hole will classify as
// contained in the host.
func RingsFromGeometry(g geom.T) []Ring {
	switch t := g.(type) {
	case *geom.Polygon:
		r := outerRing(t)
		if len(r) < 3 {
			return nil
		}
		return []Ring{r}

	case *geom.MultiPolygon:
		rings := make([]Ring, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			r := outerRing(t.Polygon(i))
			if len(r) < 3 {
				continue
			}
			rings = append(rings, r)
		}
		return rings

	default:
		return nil
	}
}

// outerRing extracts coordinates[0] of a polygon as a Ring.
func outerRing(p *geom.Polygon) Ring {
	if p == nil || p.NumLinearRings() == 0 {
		return nil
	}
	coords := p.LinearRing(0).Coords()
	ring := make(Ring, 0, len(coords))
	for _, c := range coords {
		ring = append(ring, Point{Lng: c[0], Lat: c[1]})
	}
	return ring
}
