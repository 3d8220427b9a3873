// Package geohash decodes base-32 geohash strings into geographic bounding boxes.
package geohash

// Base32Alphabet is the geohash character set. It deliberately excludes
// a, i, l and o to avoid visual ambiguity.
const Base32Alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// charIndex maps an ASCII byte to its 5-bit alphabet index, or -1 when the
// byte is not a geohash character.
var charIndex [256]int8

func init() {
	for i := range charIndex {
		charIndex[i] = -1
	}
	for i := 0; i < len(Base32Alphabet); i++ {
		charIndex[Base32Alphabet[i]] = int8(i)
	}
}

// BBox is an axis-aligned latitude/longitude rectangle in degrees.
type BBox struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLng float64 `json:"min_lng" yaml:"min_lng"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng"`
}

// WholeEarth returns the bounding box of the empty geohash.
func WholeEarth() BBox {
	return BBox{MinLat: -90, MaxLat: 90, MinLng: -180, MaxLng: 180}
}

// Decode returns the bounding box addressed by a geohash string.
//
// Each character contributes 5 bits, most significant first. Bits bisect the
// longitude and latitude ranges alternately, starting with longitude; the
// alternation persists across character boundaries. A set bit keeps the upper
// half of the current range. Bytes outside the alphabet are skipped, and the
// empty string decodes to the whole earth.
func Decode(hash string) BBox {
	box := WholeEarth()
	lngTurn := true
	for i := 0; i < len(hash); i++ {
		idx := charIndex[hash[i]]
		if idx < 0 {
			continue
		}
		for bit := 4; bit >= 0; bit-- {
			upper := idx&(1<<uint(bit)) != 0
			if lngTurn {
				mid := (box.MinLng + box.MaxLng) / 2
				if upper {
					box.MinLng = mid
				} else {
					box.MaxLng = mid
				}
			} else {
				mid := (box.MinLat + box.MaxLat) / 2
				if upper {
					box.MinLat = mid
				} else {
					box.MaxLat = mid
				}
			}
			lngTurn = !lngTurn
		}
	}
	return box
}

// Contains reports whether b fully contains other. Bounds are compared
// non-strictly, so a box contains itself.
func (b BBox) Contains(other BBox) bool {
	return other.MinLat >= b.MinLat && other.MaxLat <= b.MaxLat &&
		other.MinLng >= b.MinLng && other.MaxLng <= b.MaxLng
}

// Center returns the midpoint of the box.
func (b BBox) Center() (lat, lng float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLng + b.MaxLng) / 2
}
