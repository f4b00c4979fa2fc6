// Package geo implements geodesy and planar geometry helpers for
// longitude/latitude coordinates: distances, point-on-segment and
// point-in-polygon tests, centroids, meter offsets, DMS formatting, and
// WGS-84 / GCJ-02 / BD-09 datum transforms.
//
// Functions never panic on bad input. Non-finite or non-numeric values make
// them return a documented zero value or a false ok flag instead.
package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature (Point, Polygon, etc.).
// Coordinates holds positions nested to whatever depth the type requires.
type GeoJSONGeometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates interface{} `json:"coordinates" yaml:"coordinates"`
}

// NewPolygonFeature builds a Polygon feature with a single closed ring.
func NewPolygonFeature(points []Coordinate, properties map[string]interface{}) GeoJSONFeature {
	ring := make([]interface{}, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, []interface{}{p.Lon, p.Lat})
	}
	if len(points) > 0 && points[0] != points[len(points)-1] {
		ring = append(ring, []interface{}{points[0].Lon, points[0].Lat})
	}

	return GeoJSONFeature{
		Type:       "Feature",
		Properties: properties,
		Geometry: GeoJSONGeometry{
			Type:        "Polygon",
			Coordinates: []interface{}{ring},
		},
	}
}

// TransformCollection applies fn to every position in fc and returns the
// number of positions changed. Positions for which fn fails are left as is
// and counted in skipped.
func TransformCollection(fc *GeoJSONFeatureCollection, fn func(Coordinate) (Coordinate, bool)) (converted, skipped int) {
	for i := range fc.Features {
		c, s := TransformGeometry(&fc.Features[i].Geometry, fn)
		converted += c
		skipped += s
	}

	return converted, skipped
}

// TransformGeometry applies fn to every position in g.
func TransformGeometry(g *GeoJSONGeometry, fn func(Coordinate) (Coordinate, bool)) (converted, skipped int) {
	g.Coordinates = walkPositions(g.Coordinates, fn, &converted, &skipped)
	return converted, skipped
}

// walkPositions descends nested lists until it reaches a position, i.e. a
// list whose first two members are numbers.
func walkPositions(v interface{}, fn func(Coordinate) (Coordinate, bool), converted, skipped *int) interface{} {
	switch list := v.(type) {
	case []float64:
		if len(list) < 2 {
			return list
		}
		c, ok := fn(Coordinate{Lon: list[0], Lat: list[1]})
		if !ok {
			*skipped++
			return list
		}
		*converted++
		out := append([]float64{c.Lon, c.Lat}, list[2:]...)
		return out

	case []interface{}:
		if pos, ok := parsePosition(list); ok {
			c, ok := fn(pos)
			if !ok {
				*skipped++
				return list
			}
			*converted++
			out := make([]interface{}, len(list))
			copy(out, list)
			out[0], out[1] = c.Lon, c.Lat
			return out
		}

		for i := range list {
			list[i] = walkPositions(list[i], fn, converted, skipped)
		}
		return list
	}

	return v
}
