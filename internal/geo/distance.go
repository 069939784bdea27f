package geo

import "math"

const (
	// EarthRadiusKm is Earth's radius for the Haversine calculation.
	EarthRadiusKm = 6371.0
	// ArrivalRadiusMeters is how close a livreur must be to the delivery
	// point for the portal to show the "arrived" hint.
	ArrivalRadiusMeters = 150.0
)

// Cotonou city center, the default map focus for dashboards without a
// better position.
const (
	DefaultCenterLat = 6.3703
	DefaultCenterLng = 2.3912
)

// HaversineKm calculates the great-circle distance between two points on
// Earth in kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// IsWithinRadius checks whether two coordinates are within radiusMeters of
// each other.
func IsWithinRadius(lat1, lng1, lat2, lng2, radiusMeters float64) bool {
	return HaversineKm(lat1, lng1, lat2, lng2)*1000 <= radiusMeters
}
