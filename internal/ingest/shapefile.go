package ingest

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"
)

// nameField candidates in priority order; boundary shapefiles from
// different vintages label the county name column differently.
var nameFields = []string{"name", "namelsad", "county"}

// ParseBoundaries reads a county boundary shapefile and returns
// EWKB-encoded geometry keyed by county name.
func ParseBoundaries(shpPath string) (map[string][]byte, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	nameIdx, err := findNameField(reader.Fields())
	if err != nil {
		return nil, err
	}

	boundaries := make(map[string][]byte)
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}

		data, err := encodePolygon(poly)
		if err != nil || data == nil {
			skipped++
			continue
		}

		boundaries[name] = data
	}

	if skipped > 0 {
		zap.L().Debug("ingest: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return boundaries, nil
}

// findNameField locates the county name attribute column.
func findNameField(fields []shp.Field) (int, error) {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		byName[strings.ToLower(name)] = i
	}
	for _, candidate := range nameFields {
		if idx, ok := byName[candidate]; ok {
			return idx, nil
		}
	}
	return 0, eris.Errorf("ingest: no name field in shapefile (looked for %s)", strings.Join(nameFields, ", "))
}

// encodePolygon converts a shapefile Polygon to MultiPolygon EWKB with
// SRID 4326. Returns nil, nil if no usable parts remain.
func encodePolygon(p *shp.Polygon) ([]byte, error) {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil, nil
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
			zap.L().Debug("ingest: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("ingest: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil, nil
	}

	data, err := ewkb.Marshal(mp, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: encode EWKB")
	}
	return data, nil
}
