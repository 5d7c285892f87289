// Package aircraft folds decoded frames into per-aircraft state.
package aircraft

import (
	"time"

	"squitterator/internal/adsb"
	"squitterator/internal/bds"
	"squitterator/internal/country"
)

// PairWindow is the longest gap between the even and odd CPR halves that
// may still be combined into a position
const PairWindow = 10 * time.Second

// Plane is the state of one aircraft, keyed by its ICAO address. Optional
// values are nil until a frame carrying them arrives. The Source runes
// record which message family produced the value they accompany.
type Plane struct {
	ICAO    uint32
	Country country.Country

	Capability       uint32
	CapabilityReport *bds.CapabilityReport
	Category         [2]uint32 // type code, subtype of the identification
	WakeCategory     byte
	Identification   string

	Altitude       *int
	AltitudeSource rune
	GNSSAltitude   *int
	Squawk         *uint32

	SurveillanceStatus byte
	ThreatEncounter    rune

	VerticalRate       *int
	VerticalRateSource rune

	CPRLat  [2]uint32
	CPRLon  [2]uint32
	CPRTime [2]time.Time
	// CPRCoeff is the airborne or surface coefficient of the stored halves
	CPRCoeff int

	Lat          float64
	Lon          float64
	PositionTime time.Time
	Distance     *float64 // nautical miles from the observer

	GroundSpeed       *int
	TrueAirspeed      *int
	IndicatedAirspeed *int
	Mach              *float64
	GroundMovement    *float64

	Track       *int
	TrackSource rune
	TrackTime   time.Time

	Heading       *int
	HeadingSource rune
	HeadingTime   time.Time

	Roll     *int
	TurnRate *int

	SelectedAltitude       *int
	SelectedAltitudeSource rune
	BaroSetting            *float64

	Temperature   *float64
	WindSpeed     *int
	WindDirection *int
	Turbulence    *int
	Humidity      *int
	Pressure      *int

	Timestamp    time.Time
	LastDF       uint32
	LastTypeCode uint32
	Version      *uint32
	Messages     uint64
}

// NewPlane creates the record for a newly heard address
func NewPlane(icao uint32) *Plane {
	return &Plane{
		ICAO:                   icao,
		Country:                country.Find(icao),
		AltitudeSource:         adsb.MarkerNone,
		VerticalRateSource:     adsb.MarkerNoRate,
		TrackSource:            adsb.MarkerNone,
		HeadingSource:          adsb.MarkerNone,
		SelectedAltitudeSource: adsb.MarkerNone,
		SurveillanceStatus:     ' ',
	}
}

// HasPosition reports whether a position fix has been committed
func (p *Plane) HasPosition() bool {
	return !p.PositionTime.IsZero()
}

// Stale reports whether the aircraft has not been heard for longer than
// maxAge
func (p *Plane) Stale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(p.Timestamp) > maxAge
}
