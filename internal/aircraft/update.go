package aircraft

import (
	"time"

	"squitterator/internal/adsb"
	"squitterator/internal/bds"
)

// targetSourceMarkers maps the BDS4,0 target altitude source to its marker
var targetSourceMarkers = map[uint32]rune{
	bds.SourceAircraft: '₁',
	bds.SourceMCP:      '₂',
	bds.SourceFMS:      '₃',
}

// Update folds one decoded frame into the record. Comm-B replies are
// classified only in relaxed mode or when the aircraft reported a
// capability above 3; the classified register is returned, or nil when no
// classification ran.
func (p *Plane) Update(frame adsb.Frame, now time.Time, relaxed bool) bds.Register {
	p.Timestamp = now
	p.LastDF = frame.Format()
	p.Messages++

	switch f := frame.(type) {
	case *adsb.ShortAirSurveillance:
		p.setAltitude(f.Altitude)
	case *adsb.LongAirSurveillance:
		p.setAltitude(f.Altitude)
	case *adsb.AltitudeReply:
		p.setAltitude(f.Altitude)
	case *adsb.IdentityReply:
		p.setSquawk(f.Squawk)
	case *adsb.AllCallReply:
		p.Capability = f.Capability
	case *adsb.ExtendedSquitter:
		p.updateExtended(f, now)
	case *adsb.CommBAltitudeReply:
		p.setAltitude(f.Altitude)
		return p.updateCommB(f.Message, now, relaxed)
	case *adsb.CommBIdentityReply:
		p.setSquawk(f.Squawk)
		return p.updateCommB(f.Message, now, relaxed)
	}
	return nil
}

func (p *Plane) setAltitude(alt *int) {
	if alt == nil {
		return
	}
	p.Altitude = alt
	p.AltitudeSource = adsb.MarkerNone
}

func (p *Plane) setSquawk(squawk uint32) {
	p.Squawk = &squawk
}

func (p *Plane) updateExtended(es *adsb.ExtendedSquitter, now time.Time) {
	if es.DF == adsb.DFExtended {
		p.Capability = es.Capability
	}
	p.LastTypeCode = es.TypeCode

	switch tc := es.TypeCode; {
	case tc >= 1 && tc <= 4:
		if es.Identification != "" {
			p.Identification = es.Identification
		}
		p.Category = [2]uint32{es.TypeCode, es.Subtype}
		p.WakeCategory = es.WakeCategory

	case es.OnSurface():
		if es.Surface != nil {
			p.GroundMovement = es.Surface.Speed
			if es.Surface.Track != nil {
				p.Track = es.Surface.Track
				p.TrackSource = adsb.MarkerNone
				p.TrackTime = now
			}
		}
		p.Altitude = nil
		p.AltitudeSource = adsb.MarkerSurface
		p.updatePosition(es.Position, now, adsb.CPRSurface)

	case es.Airborne():
		if es.Altitude != nil {
			p.Altitude = es.Altitude
			p.AltitudeSource = adsb.MarkerNone
		}
		p.SurveillanceStatus = es.SurveillanceStatus
		p.updatePosition(es.Position, now, adsb.CPRAirborne)

	case tc == 19:
		p.updateVelocity(es.Velocity, now)

	case tc >= 20 && tc <= 22:
		if es.GNSSAltitude != nil {
			p.GNSSAltitude = es.GNSSAltitude
		}
		p.SurveillanceStatus = es.SurveillanceStatus

	case tc == 31:
		if es.Version != nil {
			p.Version = es.Version
		}
	}
}

func (p *Plane) updateVelocity(v *adsb.Velocity, now time.Time) {
	if v == nil {
		return
	}

	p.VerticalRate = v.VerticalRate
	p.VerticalRateSource = adsb.MarkerNone
	if p.Altitude != nil && v.AltitudeDelta != nil {
		gnss := *p.Altitude + *v.AltitudeDelta
		p.GNSSAltitude = &gnss
	}

	switch v.Subtype {
	case 1, 2:
		if v.Track == nil {
			return
		}
		p.Track = v.Track
		p.GroundSpeed = v.GroundSpeed
		p.TrackSource = adsb.MarkerGroundSpeed
		if v.Supersonic() {
			p.TrackSource = adsb.MarkerSupersonic
		}
		p.TrackTime = now

	case 3, 4:
		if v.Heading != nil {
			p.Track = v.Heading
			p.TrackSource = adsb.MarkerHeading
			p.TrackTime = now
		}
		if v.Airspeed != nil {
			if v.AirspeedType == adsb.AirspeedTAS {
				p.TrueAirspeed = v.Airspeed
			} else {
				p.IndicatedAirspeed = v.Airspeed
			}
		}
		p.AltitudeSource = adsb.MarkerAirspeed
	}
}

// updatePosition stores one CPR half and attempts a global fix. Both halves
// must be non-zero and captured less than PairWindow apart.
func (p *Plane) updatePosition(pos *adsb.CPRPosition, now time.Time, coeff int) {
	if pos == nil || pos.Form > 1 {
		return
	}
	if coeff != p.CPRCoeff {
		p.CPRLat, p.CPRLon, p.CPRTime = [2]uint32{}, [2]uint32{}, [2]time.Time{}
		p.CPRCoeff = coeff
	}
	p.CPRLat[pos.Form] = pos.Lat
	p.CPRLon[pos.Form] = pos.Lon
	p.CPRTime[pos.Form] = now

	if p.CPRLat[0] == 0 || p.CPRLat[1] == 0 || p.CPRLon[0] == 0 || p.CPRLon[1] == 0 {
		return
	}
	gap := p.CPRTime[0].Sub(p.CPRTime[1])
	if gap < 0 {
		gap = -gap
	}
	if gap >= PairWindow {
		return
	}

	lat, lon, ok := adsb.CPRLocation(p.CPRLat, p.CPRLon, pos.Form, coeff)
	if !ok || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return
	}
	p.Lat = lat
	p.Lon = lon
	p.PositionTime = now
}

func (p *Plane) updateCommB(m adsb.Message, now time.Time, relaxed bool) bds.Register {
	if !relaxed && p.Capability <= 3 {
		return nil
	}

	reg := bds.Classify(m, bds.Options{Relaxed: relaxed, Capability: p.CapabilityReport})
	switch r := reg.(type) {
	case *bds.AircraftIdentification:
		if r.Callsign != "" {
			p.Identification = r.Callsign
		}

	case *bds.ACASResolution:
		p.ThreatEncounter = 0
		if r.HasThreat {
			p.ThreatEncounter = r.Threat
		}

	case *bds.CapabilityReport:
		p.CapabilityReport = r

	case *bds.SelectedVerticalIntention:
		p.SelectedAltitude = r.MCPAltitude
		if p.SelectedAltitude == nil {
			p.SelectedAltitude = r.FMSAltitude
		}
		p.SelectedAltitudeSource = adsb.MarkerNone
		if r.TargetSource != nil {
			if marker, ok := targetSourceMarkers[*r.TargetSource]; ok {
				p.SelectedAltitudeSource = marker
			}
		}
		if r.BaroSetting != nil {
			p.BaroSetting = r.BaroSetting
		}

	case *bds.Meteorological:
		p.Temperature = &r.Temperature
		p.WindSpeed = &r.WindSpeed
		p.WindDirection = &r.WindDirection
		p.Humidity = &r.Humidity
		p.Turbulence = &r.Turbulence
		p.Pressure = &r.Pressure

	case *bds.Hazard:
		p.Temperature = &r.Temperature

	case *bds.TrackAndTurn:
		p.Roll = &r.Roll
		p.Track = &r.Track
		p.TurnRate = &r.TurnRate
		p.GroundSpeed = &r.GroundSpeed
		p.TrueAirspeed = &r.TrueAirspeed
		p.TrackSource = adsb.MarkerTrackAndTurn
		p.TrackTime = now

	case *bds.HeadingAndSpeed:
		p.Heading = &r.Heading
		p.IndicatedAirspeed = &r.IAS
		p.Mach = &r.Mach
		switch {
		case r.BaroRate != nil:
			p.VerticalRate = r.BaroRate
			p.VerticalRateSource = adsb.MarkerHeadingSpeed
		case r.InertialRate != nil:
			p.VerticalRate = r.InertialRate
			p.VerticalRateSource = adsb.MarkerInertial
		}
		p.HeadingSource = adsb.MarkerHeadingSpeed
		p.HeadingTime = now
	}
	return reg
}
