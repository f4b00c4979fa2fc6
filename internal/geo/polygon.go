package geo

import "math"

// CenterPoint returns the arithmetic mean of the valid points, each
// component rounded to 6 decimals. It returns false when fewer than two
// valid points remain.
//
// The mean is taken in the plane, not on the sphere, so it is only a
// reasonable center for small areas away from the antimeridian.
func CenterPoint(points []Coordinate) (Coordinate, bool) {
	points = validPoints(points)
	if len(points) < 2 {
		return Coordinate{}, false
	}

	var lon, lat float64
	for _, p := range points {
		lon += p.Lon
		lat += p.Lat
	}

	n := float64(len(points))
	return Coordinate{
		Lon: round(lon/n, 6),
		Lat: round(lat/n, 6),
	}, true
}

// WithinBounds reports whether (lon, lat) is inside the polygon described
// by points, using ray casting along a horizontal ray to the east.
//
// Invalid points are dropped first and at least three must remain. A query
// point equal to any vertex is inside. Each edge counts only for latitudes in
// the half-open interval from its lower to its upper end, so a vertex shared
// by two edges is never counted twice.
func WithinBounds(points []Coordinate, lon, lat float64) bool {
	if !finite(lon, lat) {
		return false
	}

	points = validPoints(points)
	n := len(points)
	if n < 3 {
		return false
	}

	count := 0
	for i, p := range points {
		if lon == p.Lon && lat == p.Lat {
			return true
		}

		q := points[(i+1)%n]
		lon1, lat1 := p.Lon, p.Lat
		lon2, lat2 := q.Lon, q.Lat

		if (lat >= lat1 && lat < lat2) || (lat >= lat2 && lat < lat1) {
			if math.Abs(lat1-lat2) > 0 && lon > lon1-(lon1-lon2)*(lat1-lat)/(lat1-lat2) {
				count++
			}
		}
	}

	return count%2 != 0
}

// Bounds returns the south-west and north-east corners of the valid points.
func Bounds(points []Coordinate) (sw, ne Coordinate, ok bool) {
	points = validPoints(points)
	if len(points) == 0 {
		return Coordinate{}, Coordinate{}, false
	}

	sw, ne = points[0], points[0]
	for _, p := range points[1:] {
		sw.Lon = math.Min(sw.Lon, p.Lon)
		sw.Lat = math.Min(sw.Lat, p.Lat)
		ne.Lon = math.Max(ne.Lon, p.Lon)
		ne.Lat = math.Max(ne.Lat, p.Lat)
	}

	return sw, ne, true
}
