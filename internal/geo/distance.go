package geo

import "math"

// EarthRadius is the WGS-84 equatorial radius in meters, used as the radius
// of a spherical Earth.
const EarthRadius = 6378137.0

// Distance returns the great-circle distance in meters between two points
// using the haversine formula, rounded to 2 decimals.
// It returns 0 if any argument is not finite.
func Distance(lon1, lat1, lon2, lat2 float64) float64 {
	if !finite(lon1, lat1, lon2, lat2) {
		return 0
	}

	lonRad1, latRad1 := toRadians(lon1), toRadians(lat1)
	lonRad2, latRad2 := toRadians(lon2), toRadians(lat2)

	sinLon := math.Sin((lonRad1 - lonRad2) / 2)
	sinLat := math.Sin((latRad1 - latRad2) / 2)
	h := sinLon*sinLon*math.Cos(latRad1)*math.Cos(latRad2) + sinLat*sinLat

	return round(2*EarthRadius*math.Asin(math.Sqrt(h)), 2)
}

// DistanceBetween is Distance for two coordinates.
func DistanceBetween(a, b Coordinate) float64 {
	return Distance(a.Lon, a.Lat, b.Lon, b.Lat)
}

// OnSegment reports whether point 3 lies on the segment from point 1 to
// point 2, allowing deviation meters of slack: the sum of the distances from
// point 3 to both ends may exceed the segment length by at most deviation.
//
// When all three longitudes are equal, or all three latitudes are equal, the
// result is true without any distance check. This relaxation is kept for
// axis-aligned inputs and does not mean point 3 is between the ends.
//
// It returns false if any argument is not finite.
func OnSegment(lon1, lat1, lon2, lat2, lon3, lat3, deviation float64) bool {
	if !finite(lon1, lat1, lon2, lat2, lon3, lat3, deviation) {
		return false
	}

	if (lon1 == lon2 && lon1 == lon3) || (lat1 == lat2 && lat1 == lat3) {
		return true
	}

	d13 := Distance(lon1, lat1, lon3, lat3)
	d23 := Distance(lon2, lat2, lon3, lat3)
	d12 := Distance(lon1, lat1, lon2, lat2)

	return math.Abs(d13+d23-d12) <= deviation
}
