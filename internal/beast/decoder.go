package beast

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
)

// maxBuffer bounds the bytes kept while waiting for a frame to complete
const maxBuffer = 4096

type frameState int

const (
	frameComplete frameState = iota
	frameIncomplete
	frameBroken
)

// Decoder splits a Beast byte stream into messages. It keeps partial
// frames between calls, so a stream may be fed in arbitrary chunks.
type Decoder struct {
	logger  *logrus.Logger
	buffer  []byte
	skipped uint64
}

// NewDecoder creates a new Beast decoder
func NewDecoder(logger *logrus.Logger) *Decoder {
	return &Decoder{
		logger: logger,
		buffer: make([]byte, 0, maxBuffer),
	}
}

// Skipped returns how many broken or unknown frames were dropped
func (d *Decoder) Skipped() uint64 {
	return d.skipped
}

// Decode appends data to the stream and returns every complete message
func (d *Decoder) Decode(data []byte) []*Message {
	d.buffer = append(d.buffer, data...)

	var messages []*Message
	for {
		syncIndex := bytes.IndexByte(d.buffer, SyncByte)
		if syncIndex == -1 {
			d.buffer = d.buffer[:0]
			break
		}
		d.buffer = d.buffer[syncIndex:]

		if len(d.buffer) < 2 {
			break
		}

		messageType := d.buffer[1]
		if messageType == SyncByte {
			// escaped data byte seen while out of sync
			d.buffer = d.buffer[2:]
			continue
		}

		length := payloadLength(messageType)
		if length == 0 {
			d.drop(fmt.Sprintf("unknown message type 0x%02x", messageType))
			d.buffer = d.buffer[1:]
			continue
		}

		body, consumed, state := unescape(d.buffer[2:], headerLength+length)
		if state == frameIncomplete {
			break
		}
		if state == frameBroken {
			d.drop("sync byte inside frame")
			d.buffer = d.buffer[1:]
			continue
		}

		messages = append(messages, newMessage(messageType, body))
		d.buffer = d.buffer[2+consumed:]
	}

	if len(d.buffer) > maxBuffer {
		d.drop("buffer overflow")
		d.buffer = d.buffer[:0]
	}

	return messages
}

func (d *Decoder) drop(reason string) {
	d.skipped++
	if d.logger != nil {
		d.logger.WithField("reason", reason).Debug("Dropped beast frame")
	}
}

// unescape reads n unescaped bytes from src and reports how many source
// bytes they used. A single sync byte means the frame was cut short by the
// next one.
func unescape(src []byte, n int) ([]byte, int, frameState) {
	out := make([]byte, 0, n)
	i := 0
	for len(out) < n {
		if i >= len(src) {
			return nil, 0, frameIncomplete
		}
		b := src[i]
		if b == SyncByte {
			if i+1 >= len(src) {
				return nil, 0, frameIncomplete
			}
			if src[i+1] != SyncByte {
				return nil, 0, frameBroken
			}
			i++
		}
		out = append(out, b)
		i++
	}
	return out, i, frameComplete
}

func newMessage(messageType byte, body []byte) *Message {
	var timestamp uint64
	for _, b := range body[:6] {
		timestamp = timestamp<<8 | uint64(b)
	}
	return &Message{
		MessageType: messageType,
		Timestamp:   timestamp,
		Signal:      body[6],
		Data:        body[headerLength:],
	}
}
