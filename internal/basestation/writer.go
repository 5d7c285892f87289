// Package basestation renders decoded frames as BaseStation (SBS-1) CSV
// lines, the format served by dump1090 on port 30003
package basestation

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"squitterator/internal/adsb"
	"squitterator/internal/aircraft"
)

// BaseStation message types
const (
	MessageSEL = "SEL" // Selection Change
	MessageID  = "ID"  // New ID
	MessageAIR = "AIR" // New Aircraft
	MessageSTA = "STA" // Status Change
	MessageCLK = "CLK" // Click
	MessageMSG = "MSG" // Transmission
)

// BaseStation transmission types
const (
	TransmissionESIdentification = 1 // Extended Squitter Aircraft ID and Category
	TransmissionESSurface        = 2 // Extended Squitter Surface Position
	TransmissionESAirborne       = 3 // Extended Squitter Airborne Position
	TransmissionESVelocity       = 4 // Extended Squitter Airborne Velocity
	TransmissionSurveillance     = 5 // Surveillance Alt, Squawk change
	TransmissionSurveillanceID   = 6 // Surveillance ID change
	TransmissionAirToAir         = 7 // Air-to-Air Message
	TransmissionAllCall          = 8 // All Call Reply
)

const (
	dateFormat = "2006/01/02"
	timeFormat = "15:04:05.000"

	flagSet   = "-1"
	flagClear = "0"
)

// Message represents a BaseStation format message
type Message struct {
	MessageType      string
	TransmissionType int
	SessionID        int
	AircraftID       int
	HexIdent         string
	FlightID         int
	DateGenerated    time.Time
	TimeGenerated    time.Time
	DateLogged       time.Time
	TimeLogged       time.Time
	Callsign         string
	Altitude         string
	GroundSpeed      string
	Track            string
	Latitude         string
	Longitude        string
	VerticalRate     string
	Squawk           string
	Alert            string
	Emergency        string
	SPI              string
	IsOnGround       string
}

// String formats the message as a 22 field CSV line
func (m *Message) String() string {
	fields := []string{
		m.MessageType,
		strconv.Itoa(m.TransmissionType),
		strconv.Itoa(m.SessionID),
		strconv.Itoa(m.AircraftID),
		m.HexIdent,
		strconv.Itoa(m.FlightID),
		m.DateGenerated.Format(dateFormat),
		m.TimeGenerated.Format(timeFormat),
		m.DateLogged.Format(dateFormat),
		m.TimeLogged.Format(timeFormat),
		m.Callsign,
		m.Altitude,
		m.GroundSpeed,
		m.Track,
		m.Latitude,
		m.Longitude,
		m.VerticalRate,
		m.Squawk,
		m.Alert,
		m.Emergency,
		m.SPI,
		m.IsOnGround,
	}

	return strings.Join(fields, ",")
}

// Writer writes frames in BaseStation format
type Writer struct {
	out    io.Writer
	logger *logrus.Logger

	mutex       sync.Mutex
	sessionID   int
	aircraftIDs map[uint32]int
	written     uint64
}

// NewWriter creates a new BaseStation writer
func NewWriter(out io.Writer, logger *logrus.Logger) *Writer {
	return &Writer{
		out:         out,
		logger:      logger,
		sessionID:   1,
		aircraftIDs: make(map[uint32]int),
	}
}

// Write renders one frame against the state of its aircraft after the
// update. Frames with no BaseStation equivalent are skipped.
func (w *Writer) Write(frame adsb.Frame, plane aircraft.Plane, now time.Time) error {
	if frame == nil {
		return errors.New("frame cannot be nil")
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	msg := w.convert(frame, plane, now)
	if msg == nil {
		return nil
	}

	if _, err := io.WriteString(w.out, msg.String()+"\n"); err != nil {
		return fmt.Errorf("failed to write to log: %w", err)
	}
	w.written++
	return nil
}

// Written returns the number of lines written
func (w *Writer) Written() uint64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.written
}

// Convert builds the BaseStation message for a frame, or nil if the
// frame has no equivalent
func (w *Writer) Convert(frame adsb.Frame, plane aircraft.Plane, now time.Time) *Message {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.convert(frame, plane, now)
}

func (w *Writer) convert(frame adsb.Frame, plane aircraft.Plane, now time.Time) *Message {
	msg := &Message{
		MessageType:   MessageMSG,
		SessionID:     w.sessionID,
		HexIdent:      adsb.FormatICAO(frame.Address()),
		DateGenerated: now,
		TimeGenerated: now,
		DateLogged:    now,
		TimeLogged:    now,
	}

	switch f := frame.(type) {
	case *adsb.ExtendedSquitter:
		if !w.extended(msg, f, plane, now) {
			return nil
		}

	case *adsb.AltitudeReply:
		msg.TransmissionType = TransmissionSurveillance
		msg.Altitude = optionalInt(f.Altitude)
		statusFlags(msg, f.Message)

	case *adsb.CommBAltitudeReply:
		msg.TransmissionType = TransmissionSurveillance
		msg.Altitude = optionalInt(f.Altitude)
		statusFlags(msg, f.Message)

	case *adsb.IdentityReply:
		msg.TransmissionType = TransmissionSurveillanceID
		squawkFields(msg, f.Squawk)
		statusFlags(msg, f.Message)

	case *adsb.CommBIdentityReply:
		msg.TransmissionType = TransmissionSurveillanceID
		squawkFields(msg, f.Squawk)
		statusFlags(msg, f.Message)

	case *adsb.ShortAirSurveillance:
		msg.TransmissionType = TransmissionAirToAir
		msg.Altitude = optionalInt(f.Altitude)

	case *adsb.LongAirSurveillance:
		msg.TransmissionType = TransmissionAirToAir
		msg.Altitude = optionalInt(f.Altitude)

	case *adsb.AllCallReply:
		msg.TransmissionType = TransmissionAllCall

	default:
		w.logger.WithField("df", frame.Format()).Debug("No BaseStation equivalent")
		return nil
	}

	id := w.aircraftID(frame.Address())
	msg.AircraftID = id
	msg.FlightID = id
	return msg
}

// extended fills the fields of an extended squitter. It returns false for
// type codes BaseStation does not carry.
func (w *Writer) extended(msg *Message, f *adsb.ExtendedSquitter, plane aircraft.Plane, now time.Time) bool {
	switch {
	case f.TypeCode >= 1 && f.TypeCode <= 4:
		msg.TransmissionType = TransmissionESIdentification
		msg.Callsign = f.Identification

	case f.OnSurface():
		msg.TransmissionType = TransmissionESSurface
		if f.Surface != nil {
			if f.Surface.Speed != nil {
				msg.GroundSpeed = strconv.FormatFloat(*f.Surface.Speed, 'f', -1, 64)
			}
			msg.Track = optionalInt(f.Surface.Track)
		}
		positionFields(msg, plane, now)
		msg.IsOnGround = flagSet

	case f.Airborne():
		msg.TransmissionType = TransmissionESAirborne
		msg.Altitude = optionalInt(f.Altitude)
		positionFields(msg, plane, now)
		msg.Alert, msg.Emergency, msg.SPI = flagClear, flagClear, flagClear
		msg.IsOnGround = flagClear

	case f.TypeCode == 19 && f.Velocity != nil:
		msg.TransmissionType = TransmissionESVelocity
		v := f.Velocity
		msg.GroundSpeed = optionalInt(v.GroundSpeed)
		msg.Track = optionalInt(v.Track)
		if v.Heading != nil {
			msg.Track = optionalInt(v.Heading)
		}
		msg.VerticalRate = optionalInt(v.VerticalRate)

	default:
		return false
	}
	return true
}

// aircraftID numbers aircraft in order of first appearance
func (w *Writer) aircraftID(icao uint32) int {
	id, ok := w.aircraftIDs[icao]
	if !ok {
		id = len(w.aircraftIDs) + 1
		w.aircraftIDs[icao] = id
	}
	return id
}

// positionFields writes the position only when this frame completed a fix
func positionFields(msg *Message, plane aircraft.Plane, now time.Time) {
	if !plane.HasPosition() || !plane.PositionTime.Equal(now) {
		return
	}
	msg.Latitude = strconv.FormatFloat(plane.Lat, 'f', 5, 64)
	msg.Longitude = strconv.FormatFloat(plane.Lon, 'f', 5, 64)
}

func squawkFields(msg *Message, squawk uint32) {
	msg.Squawk = fmt.Sprintf("%04d", squawk)
	switch squawk {
	case 7500, 7600, 7700:
		msg.Emergency = flagSet
	default:
		msg.Emergency = flagClear
	}
}

// statusFlags maps the flight status field onto the alert, SPI and
// ground flags
func statusFlags(msg *Message, m adsb.Message) {
	fs := adsb.FlightStatus(m)
	msg.Alert = flag(fs >= 2 && fs <= 4)
	msg.SPI = flag(fs == 4 || fs == 5)
	msg.IsOnGround = flag(fs == 1 || fs == 3)
}

func flag(set bool) string {
	if set {
		return flagSet
	}
	return flagClear
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
