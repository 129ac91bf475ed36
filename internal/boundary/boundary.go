// Package boundary prepares county geometries for map rendering:
// EWKB decoding, MultiPolygon explosion, ring closure and winding
// normalization, and coordinate extraction.
package boundary

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/sells-group/housing-cli/internal/model"
)

// Rings decodes an EWKB county geometry and returns its renderable
// exterior rings: MultiPolygons exploded into individual polygons, each
// ring closed and wound counter-clockwise. Interior rings (holes) are
// dropped; the map widget only fills exteriors.
func Rings(name string, data []byte) ([]model.Ring, error) {
	if len(data) == 0 {
		return nil, nil
	}

	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: decode geometry for %s", name)
	}

	var rings []model.Ring
	switch t := g.(type) {
	case *geom.Polygon:
		if r := exteriorRing(t); r != nil {
			rings = append(rings, r)
		}
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			if r := exteriorRing(t.Polygon(i)); r != nil {
				rings = append(rings, r)
			}
		}
	default:
		return nil, eris.Errorf("boundary: unsupported geometry type %T for %s", g, name)
	}

	if len(rings) == 0 {
		zap.L().Warn("boundary: geometry has no usable rings", zap.String("county", name))
	}
	return rings, nil
}

// Prepare builds the renderable boundary for a county summary.
func Prepare(c *model.CountySummary) (model.Boundary, error) {
	rings, err := Rings(c.Name, c.Geometry)
	if err != nil {
		return model.Boundary{}, err
	}
	return model.Boundary{Name: c.Name, Rings: rings}, nil
}

// exteriorRing extracts polygon's outer ring, closed and CCW-oriented.
// Returns nil for degenerate rings (fewer than 3 distinct points).
func exteriorRing(p *geom.Polygon) model.Ring {
	if p == nil || p.NumLinearRings() == 0 {
		return nil
	}

	flat := p.LinearRing(0).FlatCoords()
	if len(flat) < 6 {
		return nil
	}

	ring := make(model.Ring, 0, len(flat)/2+1)
	for i := 0; i+1 < len(flat); i += 2 {
		ring = append(ring, [2]float64{flat[i], flat[i+1]})
	}

	ring = closeRing(ring)
	if len(ring) < 4 {
		// A closed triangle needs 4 points.
		return nil
	}

	if !xy.IsRingCounterClockwise(geom.XY, flatten(ring)) {
		reverse(ring)
	}
	return ring
}

// closeRing appends the first point if the ring is not already closed.
func closeRing(r model.Ring) model.Ring {
	if len(r) == 0 {
		return r
	}
	if r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}

func flatten(r model.Ring) []float64 {
	flat := make([]float64, 0, len(r)*2)
	for _, pt := range r {
		flat = append(flat, pt[0], pt[1])
	}
	return flat
}

func reverse(r model.Ring) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}
