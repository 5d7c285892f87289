package adsb

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrMalformed   = errors.New("malformed squitter")
	ErrParity      = errors.New("parity check failed")
	ErrUnsupported = errors.New("unsupported downlink format")
)

// Message is a Mode S frame held one nibble per element, 14 or 28 long.
// Bit positions used throughout the package are 1-based as in Annex 10.
type Message []uint32

// Long reports whether the message is a 112-bit frame
func (m Message) Long() bool {
	return len(m) == LongFrameNibbles
}

// Bits returns the frame length in bits
func (m Message) Bits() uint {
	return uint(len(m)) * 4
}

// String returns the frame as upper case hex
func (m Message) String() string {
	var sb strings.Builder
	sb.Grow(len(m))
	for _, n := range m {
		sb.WriteByte("0123456789ABCDEF"[n&0xF])
	}
	return sb.String()
}

// Bytes packs the nibbles into a byte slice
func (m Message) Bytes() []byte {
	out := make([]byte, len(m)/2)
	for i := range out {
		out[i] = byte(m[2*i]&0xF)<<4 | byte(m[2*i+1]&0xF)
	}
	return out
}

// FromBytes builds a message from a raw 7 or 14 byte frame
func FromBytes(frame []byte) (Message, error) {
	if len(frame) != ShortFrameNibbles/2 && len(frame) != LongFrameNibbles/2 {
		return nil, fmt.Errorf("%w: %d byte frame", ErrMalformed, len(frame))
	}
	m := make(Message, 0, len(frame)*2)
	for _, b := range frame {
		m = append(m, uint32(b>>4), uint32(b&0xF))
	}
	return m, nil
}

// Clean strips everything but hex digits from a receiver line and returns
// the frame part. Lines carrying a 12-digit timestamp preamble are accepted
// and the preamble is dropped.
func Clean(line string) (string, bool) {
	var sb strings.Builder
	sb.Grow(len(line))
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'F':
			sb.WriteByte(c)
		case c >= 'a' && c <= 'f':
			sb.WriteByte(c - 'a' + 'A')
		}
	}

	hex := sb.String()
	switch len(hex) {
	case ShortFrameNibbles, LongFrameNibbles:
		return hex, true
	case ShortFrameNibbles + timestampPreamble, LongFrameNibbles + timestampPreamble:
		return hex[timestampPreamble:], true
	default:
		return "", false
	}
}

// Parse cleans a receiver line, converts it into a Message and applies the
// parity admission check.
func Parse(line string) (Message, error) {
	hex, ok := Clean(line)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, line)
	}

	m := make(Message, len(hex))
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if c <= '9' {
			m[i] = uint32(c - '0')
		} else {
			m[i] = uint32(c-'A') + 10
		}
	}

	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}
