// Package beast decodes the Beast binary framing used by Mode S receivers
package beast

import (
	"encoding/hex"
	"strings"
)

// Beast mode message types
const (
	SyncByte   = 0x1A // Beast mode sync byte, doubled when it occurs in data
	ModeAC     = 0x31 // Mode A/C
	ModeS      = 0x32 // Mode S Short (56 bits)
	ModeSLong  = 0x33 // Mode S Long (112 bits)
	ModeStatus = 0x34 // Status
)

// headerLength is the 6 byte 12 MHz timestamp plus the signal byte
const headerLength = 7

// Message is one unescaped Beast frame
type Message struct {
	MessageType byte
	Timestamp   uint64 // 48-bit counter, 12 MHz ticks
	Signal      byte
	Data        []byte
}

// payloadLength returns the data length for a message type, 0 if unknown
func payloadLength(messageType byte) int {
	switch messageType {
	case ModeAC:
		return 2
	case ModeS:
		return 7
	case ModeSLong:
		return 14
	case ModeStatus:
		return 2
	default:
		return 0
	}
}

// IsModeS reports whether the frame carries a Mode S squitter
func (msg *Message) IsModeS() bool {
	return msg.MessageType == ModeS || msg.MessageType == ModeSLong
}

// Squitter returns the Mode S payload as uppercase hex
func (msg *Message) Squitter() (string, bool) {
	if !msg.IsModeS() || len(msg.Data) != payloadLength(msg.MessageType) {
		return "", false
	}
	return strings.ToUpper(hex.EncodeToString(msg.Data)), true
}

// Encode frames the message, escaping sync bytes in the body
func (msg *Message) Encode() []byte {
	out := make([]byte, 0, 2+2*(headerLength+len(msg.Data)))
	out = append(out, SyncByte, msg.MessageType)

	body := make([]byte, 0, headerLength+len(msg.Data))
	for i := 5; i >= 0; i-- {
		body = append(body, byte(msg.Timestamp>>(8*uint(i))))
	}
	body = append(body, msg.Signal)
	body = append(body, msg.Data...)

	for _, b := range body {
		out = append(out, b)
		if b == SyncByte {
			out = append(out, SyncByte)
		}
	}
	return out
}
