package geo

import (
	"fmt"

	"github.com/wroge/wgs84"
)

// EPSG codes accepted by Project.
const (
	EPSGWebMercator = 3857
	epsgUTMNorth    = 32600
	epsgUTMSouth    = 32700
)

// ProjectionSupported reports whether code is Web Mercator or a WGS-84 UTM zone.
func ProjectionSupported(code int) bool {
	switch {
	case code == EPSGWebMercator:
		return true
	case code > epsgUTMNorth && code <= epsgUTMNorth+60:
		return true
	case code > epsgUTMSouth && code <= epsgUTMSouth+60:
		return true
	}
	return false
}

// UTMZone returns the EPSG code of the WGS-84 UTM zone containing c.
func UTMZone(c Coordinate) int {
	zone := int((c.Lon+180)/6) + 1
	if zone > 60 {
		zone = 60
	}
	if c.Lat < 0 {
		return epsgUTMSouth + zone
	}
	return epsgUTMNorth + zone
}

// Project converts a WGS-84 coordinate into easting and northing meters of
// the given EPSG projection. The result is rounded to 3 decimals.
func Project(c Coordinate, code int) (x, y float64, err error) {
	if !c.Valid() || c.Lon < -180 || c.Lon > 180 || c.Lat < -90 || c.Lat > 90 {
		return 0, 0, fmt.Errorf("invalid coordinate %v", c)
	}
	if !ProjectionSupported(code) {
		return 0, 0, fmt.Errorf("unsupported projection EPSG:%d", code)
	}

	crs := wgs84.EPSG().Code(code)
	if crs == nil {
		return 0, 0, fmt.Errorf("unknown projection EPSG:%d", code)
	}

	x, y, _ = wgs84.Transform(wgs84.WGS84().LonLat(), crs)(c.Lon, c.Lat, 0)
	if !finite(x, y) {
		return 0, 0, fmt.Errorf("EPSG:%d cannot represent %v", code, c)
	}

	return round(x, 3), round(y, 3), nil
}
