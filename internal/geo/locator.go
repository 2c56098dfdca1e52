package geo

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/bluele/gcache"
)

var (
	ErrNoStations        = errors.New("no stations available")
	ErrInvalidCoordinate = errors.New("coordinates out of range")
)

// NearestResult is a nearest-station lookup answer.
type NearestResult struct {
	Station    domain.Station `json:"station"`
	DistanceKm float64        `json:"distance_km"`
}

// Locator answers nearest-station queries over a fixed station list and
// memoises answers per ~11m grid cell.
type Locator struct {
	stations []domain.Station
	cache    gcache.Cache
}

func NewLocator(stations []domain.Station, size int, ttl time.Duration) *Locator {
	if size <= 0 {
		size = 10000
	}
	builder := gcache.New(size).LRU()
	if ttl > 0 {
		builder = builder.Expiration(ttl)
	}
	return &Locator{stations: stations, cache: builder.Build()}
}

func (l *Locator) Nearest(lat, lng float64) (*NearestResult, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 || math.IsNaN(lat) || math.IsNaN(lng) {
		return nil, ErrInvalidCoordinate
	}

	key := cacheKey(lat, lng)
	if cached, err := l.cache.Get(key); err == nil {
		if res, ok := cached.(*NearestResult); ok {
			return res, nil
		}
	}

	station, km, ok := Nearest(quantize(lat), quantize(lng), l.stations)
	if !ok {
		return nil, ErrNoStations
	}
	res := &NearestResult{Station: station, DistanceKm: km}
	if err := l.cache.Set(key, res); err != nil {
		log.Printf("nearest station cache set %s: %v", key, err)
	}
	return res, nil
}

// quantize rounds a coordinate to 4 decimal places.
func quantize(coord float64) float64 {
	return math.Round(coord*10000) / 10000
}

func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", quantize(lat), quantize(lng))
}
