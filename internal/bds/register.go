// Package bds classifies and decodes the Comm-B registers carried in the
// MB field of DF20 and DF21 replies.
package bds

import "fmt"

// Code identifies a Comm-B register, e.g. 0x40 for BDS4,0
type Code uint8

// Registers known to the classifier
const (
	CodeUnknown Code = 0x00
	Code10      Code = 0x10
	Code17      Code = 0x17
	Code20      Code = 0x20
	Code30      Code = 0x30
	Code40      Code = 0x40
	Code44      Code = 0x44
	Code45      Code = 0x45
	Code50      Code = 0x50
	Code60      Code = 0x60
)

// String formats the code in the usual "4,0" notation
func (c Code) String() string {
	if c == CodeUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%d,%d", c>>4, c&0xF)
}

// Register is a decoded Comm-B register. Implementations: DataLinkCapability,
// AircraftIdentification, ACASResolution, CapabilityReport,
// SelectedVerticalIntention, Meteorological, Hazard, TrackAndTurn,
// HeadingAndSpeed and Unknown.
type Register interface {
	Code() Code
	isRegister()
}

// DataLinkCapability is BDS1,0
type DataLinkCapability struct {
	ContinuationFlag bool
	OverlayCapable   bool
}

// AircraftIdentification is BDS2,0
type AircraftIdentification struct {
	Callsign string
}

// ACASResolution is BDS3,0. Threat holds the single or multiple threat
// marker when a threat is reported.
type ACASResolution struct {
	Threat    rune
	HasThreat bool
}

// CapabilityReport is BDS1,7, the common usage GICB capability report
type CapabilityReport struct {
	Mask  uint32
	BDS40 bool
	BDS44 bool
	BDS45 bool
	BDS50 bool
	BDS60 bool
}

// Supports reports whether the aircraft announced the register
func (c *CapabilityReport) Supports(code Code) bool {
	if c == nil {
		return false
	}
	switch code {
	case Code40:
		return c.BDS40
	case Code44:
		return c.BDS44
	case Code45:
		return c.BDS45
	case Code50:
		return c.BDS50
	case Code60:
		return c.BDS60
	}
	return false
}

// Target altitude sources of BDS4,0
const (
	SourceUnknown  = 0
	SourceAircraft = 1
	SourceMCP      = 2
	SourceFMS      = 3
)

// SelectedVerticalIntention is BDS4,0. Altitudes are in feet and the
// barometric setting in millibars.
type SelectedVerticalIntention struct {
	MCPAltitude  *int
	FMSAltitude  *int
	BaroSetting  *float64
	Modes        *uint32
	TargetSource *uint32
}

// Meteorological is BDS4,4, the routine air report
type Meteorological struct {
	FigureOfMerit uint32
	WindSpeed     int     // kt
	WindDirection int     // degrees
	Temperature   float64 // °C
	Pressure      int     // hPa
	Turbulence    int
	Humidity      int // percent
}

// Hazard is BDS4,5, the meteorological hazard report
type Hazard struct {
	Temperature float64
}

// TrackAndTurn is BDS5,0
type TrackAndTurn struct {
	Roll         int // degrees, negative left wing down
	Track        int // degrees true
	TurnRate     int // degrees per second
	GroundSpeed  int // kt
	TrueAirspeed int // kt
}

// HeadingAndSpeed is BDS6,0
type HeadingAndSpeed struct {
	Heading      int // degrees magnetic
	IAS          int // kt
	Mach         float64
	BaroRate     *int // ft/min, nil when not reported
	InertialRate *int // ft/min, nil when not reported
}

// Unknown is returned when no register matches
type Unknown struct{}

func (*DataLinkCapability) Code() Code        { return Code10 }
func (*AircraftIdentification) Code() Code    { return Code20 }
func (*ACASResolution) Code() Code            { return Code30 }
func (*CapabilityReport) Code() Code          { return Code17 }
func (*SelectedVerticalIntention) Code() Code { return Code40 }
func (*Meteorological) Code() Code            { return Code44 }
func (*Hazard) Code() Code                    { return Code45 }
func (*TrackAndTurn) Code() Code              { return Code50 }
func (*HeadingAndSpeed) Code() Code           { return Code60 }
func (Unknown) Code() Code                    { return CodeUnknown }

func (*DataLinkCapability) isRegister()        {}
func (*AircraftIdentification) isRegister()    {}
func (*ACASResolution) isRegister()            {}
func (*CapabilityReport) isRegister()          {}
func (*SelectedVerticalIntention) isRegister() {}
func (*Meteorological) isRegister()            {}
func (*Hazard) isRegister()                    {}
func (*TrackAndTurn) isRegister()              {}
func (*HeadingAndSpeed) isRegister()           {}
func (Unknown) isRegister()                    {}
