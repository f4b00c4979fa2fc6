package geo

// Degrees per meter along each axis. These are fixed linear factors, not a
// geodesic offset, and drift as the latitude moves away from the one they
// were measured at.
const (
	OneMeterLongitude = 0.000008990970143910217
	OneMeterLatitude  = 0.000008993216192195822
)

// AddLongitudeMeters shifts a longitude east by meters (west if negative).
// The result is rounded to 6 decimals; input is not validated.
func AddLongitudeMeters(lon, meters float64) float64 {
	return round(lon+meters*OneMeterLongitude, 6)
}

// AddLatitudeMeters shifts a latitude north by meters (south if negative).
// The result is rounded to 6 decimals; input is not validated.
func AddLatitudeMeters(lat, meters float64) float64 {
	return round(lat+meters*OneMeterLatitude, 6)
}
