// Package feed reads squitters from a file, stdin or a TCP receiver and
// delivers them as hex lines
package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"squitterator/internal/beast"
)

// Input framings
const (
	FormatRaw   = "raw"
	FormatBeast = "beast"
)

// Stdin is the source name that reads standard input
const Stdin = "-"

const (
	maxBackoff  = time.Minute
	readBufSize = 4096
	keepAlive   = time.Minute
)

// Config selects the source and its framing
type Config struct {
	Source    string
	Format    string
	Reconnect bool // keep reconnecting a TCP source after it closes
}

// Reader delivers every squitter of a source to a channel
type Reader struct {
	config Config
	logger *logrus.Logger
	dialer net.Dialer
	stdin  io.Reader
}

// NewReader validates the configuration and creates a reader
func NewReader(config Config, logger *logrus.Logger) (*Reader, error) {
	switch config.Format {
	case "":
		config.Format = FormatRaw
	case FormatRaw, FormatBeast:
	default:
		return nil, fmt.Errorf("unknown input format %q", config.Format)
	}
	if config.Source == "" {
		return nil, errors.New("no input source")
	}

	return &Reader{
		config: config,
		logger: logger,
		dialer: net.Dialer{KeepAlive: keepAlive},
		stdin:  os.Stdin,
	}, nil
}

// IsNetwork reports whether the source is a TCP address rather than a file
func (r *Reader) IsNetwork() bool {
	if r.config.Source == Stdin {
		return false
	}
	if _, err := os.Stat(r.config.Source); err == nil {
		return false
	}
	_, _, err := net.SplitHostPort(r.config.Source)
	return err == nil
}

// Run reads until the source is exhausted or ctx is done. A file ends at
// EOF; a TCP source is redialled with backoff when Reconnect is set.
func (r *Reader) Run(ctx context.Context, out chan<- string) error {
	if r.IsNetwork() {
		return r.runNetwork(ctx, out)
	}
	return r.runFile(ctx, out)
}

func (r *Reader) runFile(ctx context.Context, out chan<- string) error {
	var src io.Reader = r.stdin
	if r.config.Source != Stdin {
		file, err := os.Open(r.config.Source)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer file.Close()
		src = file
	}

	r.logger.WithFields(logrus.Fields{
		"source": r.config.Source,
		"format": r.config.Format,
	}).Info("Reading squitters")

	err := r.consume(ctx, src, out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (r *Reader) runNetwork(ctx context.Context, out chan<- string) error {
	backoff := time.Duration(0)

	for {
		if backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		r.logger.WithField("addr", r.config.Source).Info("Connecting")
		conn, err := r.dialer.DialContext(ctx, "tcp", r.config.Source)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !r.config.Reconnect {
				return fmt.Errorf("failed to connect to %s: %w", r.config.Source, err)
			}
			backoff = (time.Second + backoff) * 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			r.logger.WithError(err).WithField("retry_in", backoff).Warn("Connection failed")
			continue
		}

		r.logger.WithField("addr", conn.RemoteAddr().String()).Info("Connected")
		backoff = 0
		err = r.runConnection(ctx, conn, out)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.WithError(err).WithField("addr", r.config.Source).Warn("Disconnected")
		if !r.config.Reconnect {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		backoff = time.Second
	}
}

func (r *Reader) runConnection(ctx context.Context, conn net.Conn, out chan<- string) error {
	defer conn.Close()

	// unblock the read when the context ends
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	return r.consume(ctx, conn, out)
}

// consume reads one stream in the configured framing. It returns io.EOF
// when the stream ends.
func (r *Reader) consume(ctx context.Context, src io.Reader, out chan<- string) error {
	if r.config.Format == FormatBeast {
		return r.consumeBeast(ctx, src, out)
	}

	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		if err := send(ctx, out, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return io.EOF
}

func (r *Reader) consumeBeast(ctx context.Context, src io.Reader, out chan<- string) error {
	decoder := beast.NewDecoder(r.logger)
	buf := make([]byte, readBufSize)

	for {
		n, err := src.Read(buf)
		for _, msg := range decoder.Decode(buf[:n]) {
			squitter, ok := msg.Squitter()
			if !ok {
				continue
			}
			if err := send(ctx, out, squitter); err != nil {
				return err
			}
		}
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	}
}

func send(ctx context.Context, out chan<- string, line string) error {
	select {
	case out <- line:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
