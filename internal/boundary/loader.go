// Package boundary loads country boundary geometries from GeoJSON and
// shapefile sources for the coverage engine.
package boundary

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Country pairs a boundary geometry with its identifiers. Geometry is a
// Polygon or MultiPolygon for usable entries; other geometry types are kept
// so the engine can degrade them to empty results.
type Country struct {
	Code     string
	Name     string
	Geometry geom.T
}

// Property keys probed for the country code and display name. Natural Earth
// uses the upper-case variants, most other exports the lower-case ones.
var (
	codeKeys = []string{"ISO_A2", "iso_a2", "ISO_A2_EH", "code"}
	nameKeys = []string{"ADMIN", "NAME", "admin", "name"}
)

// Load reads a boundary file, dispatching on extension: .shp is read as a
// shapefile, everything else as a GeoJSON FeatureCollection.
func Load(path string) ([]Country, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return LoadShapefile(path)
	}
	return LoadGeoJSON(path)
}

// LoadGeoJSON reads a GeoJSON FeatureCollection of country boundaries.
// Features without a recognizable country code are skipped.
func LoadGeoJSON(path string) ([]Country, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "boundary: parse geojson %s", path)
	}

	countries := make([]Country, 0, len(fc.Features))
	var skipped int
	for _, f := range fc.Features {
		code := propString(f.Properties, codeKeys)
		if code == "" {
			skipped++
			continue
		}
		countries = append(countries, Country{
			Code:     strings.ToUpper(code),
			Name:     DisplayName(propString(f.Properties, nameKeys)),
			Geometry: f.Geometry,
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped features without country code",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return countries, nil
}

// propString returns the first non-empty string property among keys.
func propString(props map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if v, ok := props[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// DisplayName normalizes an all-caps or all-lowercase country name to title
// case. Mixed-case names pass through unchanged.
func DisplayName(name string) string {
	if name == "" {
		return name
	}
	if name == strings.ToUpper(name) || name == strings.ToLower(name) {
		// cases.Caser is stateful, so build one per call.
		return cases.Title(language.English).String(strings.ToLower(name))
	}
	return name
}

// Find returns the country with the given code, case-insensitively.
func Find(countries []Country, code string) (Country, bool) {
	for _, c := range countries {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Country{}, false
}
