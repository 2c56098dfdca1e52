package geo

import (
	"math"

	"github.com/Domenick1991/travelease/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometres between two
// latitude/longitude pairs given in degrees (haversine formula).
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// StationDistance is Distance between two stations.
func StationDistance(a, b domain.Station) float64 {
	return Distance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// Nearest returns the station closest to (lat, lng) and its distance in
// km. ok is false when stations is empty.
func Nearest(lat, lng float64, stations []domain.Station) (best domain.Station, km float64, ok bool) {
	km = math.MaxFloat64
	for _, s := range stations {
		d := Distance(lat, lng, s.Lat, s.Lng)
		if d < km {
			km = d
			best = s
			ok = true
		}
	}
	if !ok {
		return domain.Station{}, 0, false
	}
	return best, km, true
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
