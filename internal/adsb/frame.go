package adsb

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Frame is a decoded downlink message. The set of implementations is closed:
// ShortAirSurveillance, LongAirSurveillance, AltitudeReply, IdentityReply,
// AllCallReply, ExtendedSquitter, CommBAltitudeReply and CommBIdentityReply.
type Frame interface {
	Address() uint32
	Format() uint32
	Raw() Message
	isFrame()
}

// Header carries the fields common to every downlink format
type Header struct {
	DF      uint32
	ICAO    uint32
	Message Message
}

// Address returns the 24-bit transponder address
func (h *Header) Address() uint32 { return h.ICAO }

// Format returns the downlink format
func (h *Header) Format() uint32 { return h.DF }

// Raw returns the message the frame was decoded from
func (h *Header) Raw() Message { return h.Message }

func (*Header) isFrame() {}

// ShortAirSurveillance is a DF0 ACAS reply
type ShortAirSurveillance struct {
	Header
	Altitude *int
}

// LongAirSurveillance is a DF16 ACAS reply
type LongAirSurveillance struct {
	Header
	Altitude *int
}

// AltitudeReply is a DF4 surveillance reply
type AltitudeReply struct {
	Header
	Altitude *int
}

// IdentityReply is a DF5 surveillance reply
type IdentityReply struct {
	Header
	Squawk uint32
}

// AllCallReply is a DF11 all-call reply
type AllCallReply struct {
	Header
	Capability uint32
}

// CommBAltitudeReply is a DF20 reply carrying a 56-bit MB field
type CommBAltitudeReply struct {
	Header
	Altitude *int
}

// CommBIdentityReply is a DF21 reply carrying a 56-bit MB field
type CommBIdentityReply struct {
	Header
	Squawk uint32
}

// CPRPosition is one half of a CPR pair
type CPRPosition struct {
	Form uint32 // 0 even, 1 odd
	Lat  uint32
	Lon  uint32
}

// Velocity holds the fields of an airborne velocity message
type Velocity struct {
	Subtype            uint32
	VerticalRate       *int
	VerticalRateSource uint32
	AltitudeDelta      *int
	Track              *int
	GroundSpeed        *int
	Heading            *int
	Airspeed           *int
	AirspeedType       uint32
}

// Supersonic reports whether the subtype scales speeds by four
func (v *Velocity) Supersonic() bool {
	return v.Subtype == 2 || v.Subtype == 4
}

// SurfaceMovement holds the ground speed and track of a surface position
type SurfaceMovement struct {
	Speed *float64
	Track *int
}

// ExtendedSquitter is a DF17 or DF18 message. Which optional fields are set
// depends on the type code.
type ExtendedSquitter struct {
	Header
	Capability uint32
	TypeCode   uint32
	Subtype    uint32

	Identification     string
	WakeCategory       byte
	Altitude           *int
	SurveillanceStatus byte
	Position           *CPRPosition
	Surface            *SurfaceMovement
	Velocity           *Velocity
	GNSSAltitude       *int
	Version            *uint32
}

// Airborne reports whether the message is an airborne position
func (e *ExtendedSquitter) Airborne() bool {
	return e.TypeCode >= 9 && e.TypeCode <= 18
}

// OnSurface reports whether the message is a surface position
func (e *ExtendedSquitter) OnSurface() bool {
	return e.TypeCode >= 5 && e.TypeCode <= 8
}

// decoder turns validated messages into frames. A nil logger disables the
// plausibility messages.
type decoder struct {
	logger *logrus.Logger
}

// Decode dispatches a validated message on its downlink format and type
// code and builds the matching Frame
func Decode(m Message) (Frame, error) {
	return decoder{}.decode(m)
}

func (d decoder) decode(m Message) (Frame, error) {
	if len(m) != ShortFrameNibbles && len(m) != LongFrameNibbles {
		return nil, fmt.Errorf("%w: %d nibbles", ErrMalformed, len(m))
	}

	df := DF(m)
	if !lengthMatches(df, len(m)) {
		return nil, fmt.Errorf("%w: DF%d in a %d-bit frame", ErrMalformed, df, m.Bits())
	}
	icao, ok := ICAO(m, df)
	if !ok {
		return nil, fmt.Errorf("%w: DF%d without address", ErrMalformed, df)
	}
	h := Header{DF: df, ICAO: icao, Message: m}

	switch df {
	case DFShortAirAir:
		return &ShortAirSurveillance{Header: h, Altitude: d.altitude(m, df, icao)}, nil
	case DFLongAirAir:
		return &LongAirSurveillance{Header: h, Altitude: d.altitude(m, df, icao)}, nil
	case DFAltitudeReply:
		return &AltitudeReply{Header: h, Altitude: d.altitude(m, df, icao)}, nil
	case DFIdentityReply:
		return &IdentityReply{Header: h, Squawk: Squawk(m)}, nil
	case DFAllCall:
		return &AllCallReply{Header: h, Capability: Capability(m)}, nil
	case DFCommBAltitude:
		return &CommBAltitudeReply{Header: h, Altitude: d.altitude(m, df, icao)}, nil
	case DFCommBIdentity:
		return &CommBIdentityReply{Header: h, Squawk: Squawk(m)}, nil
	case DFExtended, DFExtendedNonXPDR:
		return d.extended(m, h), nil
	default:
		return nil, fmt.Errorf("%w: DF%d", ErrUnsupported, df)
	}
}

// altitude decodes the altitude field and reports implausible values
func (d decoder) altitude(m Message, df, icao uint32) *int {
	alt, ok := altitudeFeet(AltitudeCode(m, df))
	if !ok {
		return nil
	}
	if alt >= MaxAltitude {
		if d.logger != nil {
			d.logger.WithFields(logrus.Fields{
				"icao":     FormatICAO(icao),
				"df":       df,
				"altitude": alt,
			}).Info("Implausible altitude discarded")
		}
		return nil
	}
	return &alt
}

func (d decoder) extended(m Message, h Header) *ExtendedSquitter {
	tc, sub := TypeCode(m)
	es := &ExtendedSquitter{
		Header:     h,
		Capability: Capability(m),
		TypeCode:   tc,
		Subtype:    sub,
	}

	switch {
	case tc >= 1 && tc <= 4:
		es.Identification = Identification(m)
		es.WakeCategory = WakeCategory(tc, sub)

	case tc >= 5 && tc <= 8:
		surface := &SurfaceMovement{}
		if speed, ok := GroundMovement(m); ok {
			surface.Speed = &speed
		}
		if track, ok := GroundTrack(m); ok {
			surface.Track = &track
		}
		es.Surface = surface
		es.Position = position(m)

	case tc >= 9 && tc <= 18:
		es.Altitude = d.altitude(m, h.DF, h.ICAO)
		es.SurveillanceStatus = SurveillanceStatus(m)
		es.Position = position(m)

	case tc == 19:
		es.Velocity = velocity(m, sub)

	case tc >= 20 && tc <= 22:
		if alt, ok := GNSSAltitude(m); ok {
			es.GNSSAltitude = &alt
		}
		es.SurveillanceStatus = SurveillanceStatus(m)
		es.Position = position(m)

	case tc == 31:
		if v, ok := Version(m); ok {
			es.Version = &v
		}
	}
	return es
}

func position(m Message) *CPRPosition {
	form, lat, lon, ok := CPR(m)
	if !ok {
		return nil
	}
	return &CPRPosition{Form: form, Lat: lat, Lon: lon}
}

func velocity(m Message, sub uint32) *Velocity {
	v := &Velocity{
		Subtype:            sub,
		VerticalRateSource: VerticalRateSource(m),
	}
	if rate, ok := VerticalRate(m); ok {
		v.VerticalRate = &rate
	}
	if delta, ok := AltitudeDelta(m); ok {
		v.AltitudeDelta = &delta
	}

	switch sub {
	case 1, 2:
		if track, gs, ok := TrackAndGroundSpeed(m, v.Supersonic()); ok {
			v.Track = &track
			v.GroundSpeed = &gs
		}
	case 3, 4:
		if hdg, ok := Heading(m); ok {
			v.Heading = &hdg
		}
		if speed, kind, ok := Airspeed(m, v.Supersonic()); ok {
			v.Airspeed = &speed
			v.AirspeedType = kind
		}
	}
	return v
}
