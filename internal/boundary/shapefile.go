package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadShapefile reads country boundaries from a polygon shapefile, such as
// the Natural Earth admin-0 countries product. Attribute lookup is
// case-insensitive; records without a country code or with an unusable shape
// are skipped.
func LoadShapefile(path string) ([]Country, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	attr := func(keys []string) string {
		for _, k := range keys {
			idx, ok := fieldIdx[strings.ToLower(k)]
			if !ok {
				continue
			}
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
			if val != "" {
				return val
			}
		}
		return ""
	}

	var countries []Country
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		g := polygonToMultiPolygon(poly)
		if g == nil {
			skipped++
			continue
		}

		code := attr(codeKeys)
		if code == "" {
			skipped++
			continue
		}

		countries = append(countries, Country{
			Code:     strings.ToUpper(code),
			Name:     DisplayName(attr(nameKeys)),
			Geometry: g,
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return countries, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon,
// one single-ring polygon per part. Shapefile part winding (holes vs outer
// rings) is not interpreted; the engine only tests outer rings.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("boundary: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
