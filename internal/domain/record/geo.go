package record

import "math"

// Coordinate is a WGS84 geocoordinate attached to a tower or call event.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance to other in kilometers,
// computed with the haversine formula.
func (c Coordinate) DistanceKm(other Coordinate) float64 {
	lat1 := c.Latitude * math.Pi / 180
	lat2 := other.Latitude * math.Pi / 180
	dLat := (other.Latitude - c.Latitude) * math.Pi / 180
	dLon := (other.Longitude - c.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// SpeedKmh returns the implied travel speed between two sightings.
// A zero or negative elapsed time implies teleportation and is reported as
// +Inf so feasibility ceilings always trip.
func SpeedKmh(distanceKm float64, elapsedHours float64) float64 {
	if distanceKm == 0 {
		return 0
	}
	if elapsedHours <= 0 {
		return math.Inf(1)
	}
	return distanceKm / elapsedHours
}
