package models

import (
	"fmt"
	"math"
)

// Location is the coordinate pair of GET /weather.
type Location struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

// CacheKey rounds the coordinates to two decimals (about 1 km), so nearby
// requests share a cached forecast.
func (l Location) CacheKey() string {
	return fmt.Sprintf("%.2f:%.2f", round2(l.Lat), round2(l.Lon))
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // no "-0.00"
	}
	return r
}
