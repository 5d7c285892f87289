package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"squitterator/internal/aircraft"
)

// DefaultSubjectPrefix is prepended to the ICAO address of each update
const DefaultSubjectPrefix = "squitterator.aircraft"

// NATSConfig holds the server settings
type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// natsConn is the part of *nats.Conn the publisher uses
type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes each aircraft to <prefix>.<ICAO>
type NATSPublisher struct {
	conn   natsConn
	config NATSConfig
	logger *logrus.Logger
	now    func() time.Time
}

// NewNATSPublisher connects to the server
func NewNATSPublisher(config NATSConfig, logger *logrus.Logger) (*NATSPublisher, error) {
	if config.URL == "" {
		config.URL = nats.DefaultURL
	}

	conn, err := nats.Connect(config.URL,
		nats.Name("squitterator"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.WithError(err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.WithField("url", conn.ConnectedUrl()).Info("NATS connected")

	return newNATSPublisher(conn, config, logger), nil
}

func newNATSPublisher(conn natsConn, config NATSConfig, logger *logrus.Logger) *NATSPublisher {
	if config.SubjectPrefix == "" {
		config.SubjectPrefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, config: config, logger: logger, now: time.Now}
}

// Name identifies the sink in logs and metrics
func (p *NATSPublisher) Name() string { return "nats" }

// Subject returns the subject of an aircraft
func (p *NATSPublisher) Subject(icao string) string {
	return p.config.SubjectPrefix + "." + icao
}

// Publish sends one summary. NATS publishing is buffered, so ctx is only
// checked before the write.
func (p *NATSPublisher) Publish(ctx context.Context, s aircraft.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(s, p.now())
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.Subject(s.ICAO), data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.Subject(s.ICAO), err)
	}
	return nil
}

// Close flushes pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
