package adsb

// Downlink formats handled by the decoder
const (
	DFShortAirAir     = 0  // Short air-air surveillance (ACAS)
	DFAltitudeReply   = 4  // Surveillance, altitude reply
	DFIdentityReply   = 5  // Surveillance, identity reply
	DFAllCall         = 11 // All-call reply
	DFLongAirAir      = 16 // Long air-air surveillance (ACAS)
	DFExtended        = 17 // Extended squitter
	DFExtendedNonXPDR = 18 // Extended squitter, non-transponder and TIS-B
	DFCommBAltitude   = 20 // Comm-B, altitude reply
	DFCommBIdentity   = 21 // Comm-B, identity reply
)

// Frame lengths in nibbles (one hex character each)
const (
	ShortFrameNibbles = 14 // 56 bits
	LongFrameNibbles  = 28 // 112 bits

	// timestampPreamble is the 48-bit receiver timestamp that precedes the
	// frame in `@` AVR-MLAT lines.
	timestampPreamble = 12
)

// CRCGenerator is the Mode S generator polynomial, MSB aligned in 32 bits
const CRCGenerator = 0xFFFA0480

// crcGeneratorBytes is CRCGenerator split for the byte-wise remainder
var crcGeneratorBytes = [4]uint16{0xFF, 0xFA, 0x04, 0x80}

// CPR decoding constants
const (
	CPRMax = 131072.0 // 2^17

	cprEvenLatStep = 360.0 / 60.0
	cprOddLatStep  = 360.0 / 59.0

	// Zone coefficients for CPRLocation
	CPRAirborne = 1
	CPRSurface  = 4
)

// MaxAltitude bounds decoded altitudes; anything at or above it is noise
const MaxAltitude = 100000

// Source markers attached to decoded values for display
const (
	MarkerNone         = ' '
	MarkerSurface      = '⁰' // altitude cleared by a surface report
	MarkerAirspeed     = '"' // altitude seen alongside an airspeed report
	MarkerGroundSpeed  = '₁' // subsonic ground velocity
	MarkerSupersonic   = '₂' // supersonic ground velocity
	MarkerHeading      = '₃' // heading from an airspeed velocity report
	MarkerTrackAndTurn = '₅' // Comm-B track and turn report
	MarkerHeadingSpeed = '₆' // Comm-B heading and speed report
	MarkerInertial     = 'ⁱ' // inertial vertical velocity
	MarkerSingleThreat = '¹' // one ACAS threat
	MarkerMultiThreats = '²' // several ACAS threats
	MarkerNoRate       = '_'
)
