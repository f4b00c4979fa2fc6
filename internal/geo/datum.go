package geo

import (
	"fmt"
	"math"
	"strings"
)

const (
	// krasovskyAxis is the semi-major axis used by the GCJ-02 offset series.
	krasovskyAxis = 6378245.0
	// eccentricitySq is the first eccentricity squared used with krasovskyAxis.
	eccentricitySq = 0.00669342162296594323
	// xPi is pi * 3000 / 180, the BD-09 perturbation frequency.
	xPi = 52.35987755982988
)

// Datum names a geodetic reference frame used by map providers.
type Datum string

const (
	WGS84 Datum = "wgs84"
	GCJ02 Datum = "gcj02"
	BD09  Datum = "bd09"
)

// ParseDatum resolves a datum name case-insensitively.
// An empty name resolves to WGS84.
func ParseDatum(name string) (Datum, error) {
	switch Datum(strings.ToLower(strings.TrimSpace(name))) {
	case "", WGS84:
		return WGS84, nil
	case GCJ02:
		return GCJ02, nil
	case BD09:
		return BD09, nil
	}

	return "", fmt.Errorf("unsupported datum %q", name)
}

// WGS84ToGCJ02 applies the GCJ-02 offset to a WGS-84 coordinate.
// The result is rounded to 6 decimals; false means non-finite input.
func WGS84ToGCJ02(lon, lat float64) (Coordinate, bool) {
	if !finite(lon, lat) {
		return Coordinate{}, false
	}

	c := gcjShift(lon, lat)
	return Coordinate{Lon: round(c.Lon, 6), Lat: round(c.Lat, 6)}, true
}

// GCJ02ToWGS84 removes the GCJ-02 offset by subtracting the forward delta
// evaluated at the GCJ-02 point itself. This is a first-order inverse with an
// error of a few meters, not an exact one.
func GCJ02ToWGS84(lon, lat float64) (Coordinate, bool) {
	if !finite(lon, lat) {
		return Coordinate{}, false
	}

	c := gcjShift(lon, lat)
	return Coordinate{
		Lon: round(lon-(c.Lon-lon), 6),
		Lat: round(lat-(c.Lat-lat), 6),
	}, true
}

// GCJ02ToBD09 converts a GCJ-02 coordinate to BD-09.
func GCJ02ToBD09(lon, lat float64) (Coordinate, bool) {
	if !finite(lon, lat) {
		return Coordinate{}, false
	}

	z := math.Sqrt(lon*lon+lat*lat) + 0.00002*math.Sin(lat*xPi)
	theta := math.Atan2(lat, lon) + 0.000003*math.Cos(lon*xPi)

	return Coordinate{
		Lon: round(z*math.Cos(theta)+0.0065, 6),
		Lat: round(z*math.Sin(theta)+0.006, 6),
	}, true
}

// BD09ToGCJ02 converts a BD-09 coordinate to GCJ-02.
func BD09ToGCJ02(lon, lat float64) (Coordinate, bool) {
	if !finite(lon, lat) {
		return Coordinate{}, false
	}

	x := lon - 0.0065
	y := lat - 0.006
	z := math.Sqrt(x*x+y*y) - 0.00002*math.Sin(y*xPi)
	theta := math.Atan2(y, x) - 0.000003*math.Cos(x*xPi)

	return Coordinate{
		Lon: round(z*math.Cos(theta), 6),
		Lat: round(z*math.Sin(theta), 6),
	}, true
}

// Convert moves c from one datum to another. WGS-84 and BD-09 are linked
// through GCJ-02, so those conversions round twice.
func Convert(from, to Datum, c Coordinate) (Coordinate, bool) {
	if !c.Valid() {
		return Coordinate{}, false
	}
	if from == to {
		return c, true
	}

	var ok bool
	switch from {
	case WGS84:
		if c, ok = WGS84ToGCJ02(c.Lon, c.Lat); !ok {
			return Coordinate{}, false
		}
	case BD09:
		if c, ok = BD09ToGCJ02(c.Lon, c.Lat); !ok {
			return Coordinate{}, false
		}
	case GCJ02:
	default:
		return Coordinate{}, false
	}

	switch to {
	case GCJ02:
		return c, true
	case WGS84:
		return GCJ02ToWGS84(c.Lon, c.Lat)
	case BD09:
		return GCJ02ToBD09(c.Lon, c.Lat)
	}

	return Coordinate{}, false
}

// gcjShift returns lon/lat moved by the unrounded GCJ-02 delta.
func gcjShift(lon, lat float64) Coordinate {
	dLon := transformLongitude(lon-105.0, lat-35.0)
	dLat := transformLatitude(lon-105.0, lat-35.0)

	radLat := lat / 180.0 * math.Pi
	magic := math.Sin(radLat)
	magic = 1 - eccentricitySq*magic*magic
	sqrtMagic := math.Sqrt(magic)

	dLat = (dLat * 180.0) / ((krasovskyAxis * (1 - eccentricitySq)) / (magic * sqrtMagic) * math.Pi)
	dLon = (dLon * 180.0) / (krasovskyAxis / sqrtMagic * math.Cos(radLat) * math.Pi)

	return Coordinate{Lon: lon + dLon, Lat: lat + dLat}
}

func transformLongitude(x, y float64) float64 {
	d := 300.0 + x + 2.0*y + 0.1*x*x + 0.1*x*y + 0.1*math.Sqrt(math.Abs(x))
	d += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	d += (20.0*math.Sin(x*math.Pi) + 40.0*math.Sin(x/3.0*math.Pi)) * 2.0 / 3.0
	d += (150.0*math.Sin(x/12.0*math.Pi) + 300.0*math.Sin(x/30.0*math.Pi)) * 2.0 / 3.0
	return d
}

func transformLatitude(x, y float64) float64 {
	d := -100.0 + 2.0*x + 3.0*y + 0.2*y*y + 0.1*x*y + 0.2*math.Sqrt(math.Abs(x))
	d += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	d += (20.0*math.Sin(y*math.Pi) + 40.0*math.Sin(y/3.0*math.Pi)) * 2.0 / 3.0
	d += (160.0*math.Sin(y/12.0*math.Pi) + 320*math.Sin(y*math.Pi/30.0)) * 2.0 / 3.0
	return d
}
