package adsb

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Stats holds the processor counters
type Stats struct {
	Lines       uint64
	Valid       uint64
	Malformed   uint64
	BadParity   uint64
	Unsupported uint64
	ByDF        map[uint32]uint64
}

// Processor runs the parse, admission and decode pipeline over receiver
// lines and keeps counters for reporting
type Processor struct {
	logger  *logrus.Logger
	decoder decoder

	mu    sync.Mutex
	stats Stats
}

// NewProcessor creates a new squitter processor
func NewProcessor(logger *logrus.Logger) *Processor {
	return &Processor{
		logger:  logger,
		decoder: decoder{logger: logger},
		stats:   Stats{ByDF: make(map[uint32]uint64)},
	}
}

// ProcessLine parses one receiver line and decodes it. Rejected lines are
// counted and logged; the error is returned so callers can tell them apart.
func (p *Processor) ProcessLine(line string) (Frame, error) {
	p.mu.Lock()
	p.stats.Lines++
	p.mu.Unlock()

	m, err := Parse(line)
	if err != nil {
		p.reject(line, err)
		return nil, err
	}

	frame, err := p.decoder.decode(m)
	if err != nil {
		p.reject(line, err)
		return nil, err
	}

	p.mu.Lock()
	p.stats.Valid++
	p.stats.ByDF[frame.Format()]++
	p.mu.Unlock()

	p.logger.WithFields(logrus.Fields{
		"df":   frame.Format(),
		"icao": frame.Address(),
	}).Debug("Decoded squitter")
	return frame, nil
}

// reject updates the counters for a dropped line
func (p *Processor) reject(line string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case errors.Is(err, ErrParity):
		p.stats.BadParity++
		p.logger.WithError(err).WithField("squitter", line).Warn("Dropped squitter")
	case errors.Is(err, ErrUnsupported):
		p.stats.Unsupported++
		p.logger.WithError(err).WithField("squitter", line).Debug("Dropped squitter")
	default:
		p.stats.Malformed++
		p.logger.WithError(err).WithField("squitter", line).Debug("Dropped squitter")
	}
}

// GetStats returns a copy of the counters
func (p *Processor) GetStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.stats
	out.ByDF = make(map[uint32]uint64, len(p.stats.ByDF))
	for df, n := range p.stats.ByDF {
		out.ByDF[df] = n
	}
	return out
}
