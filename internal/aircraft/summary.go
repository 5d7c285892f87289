package aircraft

import (
	"fmt"
	"time"

	"squitterator/internal/adsb"
)

// Summary is the exported view of a Plane. Absent values are omitted.
type Summary struct {
	ICAO           string    `json:"icao"`
	Country        string    `json:"country"`
	CountryName    string    `json:"country_name,omitempty"`
	Identification string    `json:"ident,omitempty"`
	Category       string    `json:"category,omitempty"`
	Squawk         string    `json:"squawk,omitempty"`
	Altitude       *int      `json:"altitude,omitempty"`
	GNSSAltitude   *int      `json:"altitude_gnss,omitempty"`
	VerticalRate   *int      `json:"vrate,omitempty"`
	Lat            *float64  `json:"lat,omitempty"`
	Lon            *float64  `json:"lon,omitempty"`
	Distance       *float64  `json:"distance_nm,omitempty"`
	GroundSpeed    *int      `json:"gs,omitempty"`
	TrueAirspeed   *int      `json:"tas,omitempty"`
	IAS            *int      `json:"ias,omitempty"`
	Mach           *float64  `json:"mach,omitempty"`
	Track          *int      `json:"track,omitempty"`
	Heading        *int      `json:"heading,omitempty"`
	Roll           *int      `json:"roll,omitempty"`
	SelectedAlt    *int      `json:"selected_altitude,omitempty"`
	Temperature    *float64  `json:"temperature,omitempty"`
	WindSpeed      *int      `json:"wind_speed,omitempty"`
	WindDirection  *int      `json:"wind_direction,omitempty"`
	Version        *uint32   `json:"adsb_version,omitempty"`
	LastDF         uint32    `json:"last_df"`
	Messages       uint64    `json:"messages"`
	Seen           time.Time `json:"seen"`
}

// Summary builds the exported view
func (p *Plane) Summary() Summary {
	s := Summary{
		ICAO:           adsb.FormatICAO(p.ICAO),
		Country:        p.Country.Code,
		CountryName:    p.Country.Name,
		Identification: p.Identification,
		Category:       p.CategoryString(),
		Altitude:       p.Altitude,
		GNSSAltitude:   p.GNSSAltitude,
		VerticalRate:   p.VerticalRate,
		Distance:       p.Distance,
		GroundSpeed:    p.GroundSpeed,
		TrueAirspeed:   p.TrueAirspeed,
		IAS:            p.IndicatedAirspeed,
		Mach:           p.Mach,
		Track:          p.Track,
		Heading:        p.Heading,
		Roll:           p.Roll,
		SelectedAlt:    p.SelectedAltitude,
		Temperature:    p.Temperature,
		WindSpeed:      p.WindSpeed,
		WindDirection:  p.WindDirection,
		Version:        p.Version,
		LastDF:         p.LastDF,
		Messages:       p.Messages,
		Seen:           p.Timestamp,
	}
	if p.Squawk != nil {
		s.Squawk = p.SquawkString()
	}
	if p.HasPosition() {
		lat, lon := p.Lat, p.Lon
		s.Lat, s.Lon = &lat, &lon
	}
	return s
}

// CategoryString renders the emitter category as A0-D7, empty when unknown
func (p *Plane) CategoryString() string {
	tc, sub := p.Category[0], p.Category[1]
	if tc < 1 || tc > 4 {
		return ""
	}
	return string(rune('A'+4-tc)) + string(rune('0'+sub))
}

// SquawkString renders the squawk as four octal digits
func (p *Plane) SquawkString() string {
	if p.Squawk == nil {
		return ""
	}
	return fmt.Sprintf("%04d", *p.Squawk)
}
