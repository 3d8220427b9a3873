// Package coverage computes the minimal set of geohash cells covering a
// country boundary, classifying each cell as fully contained or overlapping.
package coverage

import (
	"time"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/geocover-cli/internal/geohash"
	"github.com/sells-group/geocover-cli/internal/geometry"
)

// DefaultMaxDepth bounds the subdivision when the caller does not choose one.
const DefaultMaxDepth = 3

// Status classifies a reported cell relative to the country's polygon set.
type Status string

// Reported cell statuses. Cells entirely outside the country are never
// reported.
const (
	StatusContained   Status = "contained"
	StatusOverlapping Status = "overlapping"
)

// CellResult is one classified geohash cell. Immutable once produced.
type CellResult struct {
	Geohash string `json:"geohash" yaml:"geohash"`
	Status  Status `json:"status" yaml:"status"`
	Depth   int    `json:"depth" yaml:"depth"`
}

// cellClass is the three-way classification driving the pruning policy.
type cellClass int

const (
	cellOutside cellClass = iota
	cellOverlapping
	cellContained
)

// classify relates a cell's bounding box to the country's rings. A cell is
// contained if any single ring fully swallows it (a multi-part country only
// needs one part to do so), overlapping if it shares any area or boundary
// with any ring, and outside otherwise. The vertex-in-rectangle arm of
// RectOverlapsRing covers the case where the country is fully interior to
// the cell and no ring edge crosses the cell boundary.
func classify(box geohash.BBox, rings []geometry.Ring) cellClass {
	rect := geometry.Rect{
		MinLng: box.MinLng,
		MinLat: box.MinLat,
		MaxLng: box.MaxLng,
		MaxLat: box.MaxLat,
	}

	for _, ring := range rings {
		if geometry.RectContainedInRing(rect, ring) {
			return cellContained
		}
	}
	for _, ring := range rings {
		if geometry.RectOverlapsRing(rect, ring) {
			return cellOverlapping
		}
	}
	return cellOutside
}

// explore runs the depth-bounded DFS from one prefix.
//
// Pruning relies on the codec's monotonic refinement: every descendant box is
// a subset of the prefix's box, so an outside prefix has only outside
// descendants and a contained prefix has only contained ones. Overlapping
// prefixes are reported at every depth they occur, then subdivided into all
// 32 children until maxDepth, so callers can drill down hierarchically.
func explore(prefix string, depth, maxDepth int, rings []geometry.Ring, out *[]CellResult) {
	box := geohash.Decode(prefix)

	switch classify(box, rings) {
	case cellOutside:
		return

	case cellContained:
		*out = append(*out, CellResult{Geohash: prefix, Status: StatusContained, Depth: depth})

	case cellOverlapping:
		*out = append(*out, CellResult{Geohash: prefix, Status: StatusOverlapping, Depth: depth})
		if depth < maxDepth {
			for i := 0; i < len(geohash.Base32Alphabet); i++ {
				explore(prefix+string(geohash.Base32Alphabet[i]), depth+1, maxDepth, rings, out)
			}
		}
	}
}

// FindCountryGeohashes computes the geohash coverage of a country boundary.
//
// The geometry may be a Polygon or MultiPolygon; any other geometry type
// yields zero rings and an empty zero-count result, never an error. The
// country code and name are echoed back unchanged. maxDepth values below 1
// fall back to DefaultMaxDepth.
//
// The function is pure and deterministic: identical inputs produce identical
// result lists, order included, so callers may cache results by
// (countryCode, maxDepth) indefinitely.
func FindCountryGeohashes(g geom.T, countryCode, countryName string, maxDepth int) *CountryResult {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}

	start := time.Now()
	rings := geometry.RingsFromGeometry(g)

	results := make([]CellResult, 0, 64)
	if len(rings) > 0 {
		for i := 0; i < len(geohash.Base32Alphabet); i++ {
			explore(string(geohash.Base32Alphabet[i]), 1, maxDepth, rings, &results)
		}
	}

	return aggregate(countryCode, countryName, results, time.Since(start))
}
