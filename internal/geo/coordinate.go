package geo

import "reflect"

// Coordinate is a longitude/latitude pair in degrees.
// It carries no datum; callers pick the function matching their datum.
type Coordinate struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// Valid reports whether both components are finite.
func (c Coordinate) Valid() bool {
	return finite(c.Lon, c.Lat)
}

// Slice returns the coordinate as [lon, lat].
func (c Coordinate) Slice() []float64 {
	return []float64{c.Lon, c.Lat}
}

// ParsePoints turns a loosely typed list of positions into coordinates.
//
// Every entry must be a list (any slice or array type) whose first two
// members pass Number; other entries are dropped. Extra members such as
// altitude are ignored. A non-list v yields nil.
func ParsePoints(v interface{}) []Coordinate {
	if v == nil {
		return nil
	}

	switch pts := v.(type) {
	case []Coordinate:
		return validPoints(pts)
	case [][]float64:
		out := make([]Coordinate, 0, len(pts))
		for _, p := range pts {
			if len(p) < 2 || !finite(p[0], p[1]) {
				continue
			}
			out = append(out, Coordinate{Lon: p[0], Lat: p[1]})
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}

	out := make([]Coordinate, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if c, ok := parsePosition(rv.Index(i).Interface()); ok {
			out = append(out, c)
		}
	}

	return out
}

func parsePosition(v interface{}) (Coordinate, bool) {
	if v == nil {
		return Coordinate{}, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Coordinate{}, false
	}
	if rv.Len() < 2 {
		return Coordinate{}, false
	}

	lon, ok := Number(rv.Index(0).Interface())
	if !ok {
		return Coordinate{}, false
	}
	lat, ok := Number(rv.Index(1).Interface())
	if !ok {
		return Coordinate{}, false
	}

	return Coordinate{Lon: lon, Lat: lat}, true
}

func validPoints(points []Coordinate) []Coordinate {
	out := make([]Coordinate, 0, len(points))
	for _, p := range points {
		if p.Valid() {
			out = append(out, p)
		}
	}

	return out
}
