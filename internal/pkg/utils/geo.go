package utils

import "github.com/golang/geo/s2"

const earthRadiusMeters = 6371000.0

// DistanceMeters - расстояние по большому кругу между двумя точками в метрах
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}

// ValidateCoordinates проверяет, что широта и долгота в допустимых пределах
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
