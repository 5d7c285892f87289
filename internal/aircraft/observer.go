package aircraft

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const earthRadiusNM = 3440.065

// Observer is the receiver location used for distances
type Observer struct {
	Lat float64
	Lon float64
}

// ParseObserver parses "lat,lon" in decimal degrees. Whitespace around
// either part is ignored.
func ParseObserver(s string) (*Observer, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, errors.New("coordinates should be in the format lat,lon")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, errors.New("invalid latitude")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, errors.New("invalid longitude")
	}
	return &Observer{Lat: lat, Lon: lon}, nil
}

// DistanceNM returns the great circle distance to a point in nautical miles
func (o *Observer) DistanceNM(lat, lon float64) float64 {
	lat1 := o.Lat * math.Pi / 180
	lat2 := lat * math.Pi / 180
	dLat := (lat - o.Lat) * math.Pi / 180
	dLon := (lon - o.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusNM * c
}
