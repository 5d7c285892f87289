package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"squitterator/internal/adsb"
	"squitterator/internal/aircraft"
	"squitterator/internal/basestation"
	"squitterator/internal/country"
	"squitterator/internal/feed"
	"squitterator/internal/logging"
	"squitterator/internal/metrics"
	"squitterator/internal/publish"
	"squitterator/internal/store"
	"squitterator/internal/web"
)

const (
	shutdownTimeout = 5 * time.Second
	lineBuffer      = 1024
	sinkBuffer      = 1024
)

// sinkEvent is one aircraft change for the websocket hub and the publishers.
// A set evicted field means the aircraft was removed.
type sinkEvent struct {
	summary aircraft.Summary
	evicted string
	now     time.Time
}

// Application represents the main application
type Application struct {
	config Config
	logger *logrus.Logger
	stdout io.Writer
	now    func() time.Time

	reader      *feed.Reader
	processor   *adsb.Processor
	tracker     *aircraft.Tracker
	metrics     *metrics.Metrics
	renderer    *Renderer
	baseStation *basestation.Writer
	logRotator  *logging.LogRotator
	store       *store.Store
	fanout      *publish.Fanout
	web         *web.Server
	logFile     *os.File

	filter map[uint32]bool
	logDF  map[uint32]bool

	outMu   sync.Mutex
	out     io.Writer
	encoder *json.Encoder

	countMu  sync.Mutex
	dfCounts map[uint32]uint64

	sinks     chan sinkEvent
	sinkDrops atomic.Uint64

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan struct{}
	readErr error
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config:   config,
		logger:   logger,
		stdout:   os.Stdout,
		now:      time.Now,
		dfCounts: make(map[uint32]uint64),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs until the input is exhausted or a shutdown signal arrives
func (app *Application) Start() error {
	if err := app.initializeComponents(); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
		"source":     app.config.Source,
		"output":     app.config.Output,
	}).Info("Starting squitterator")

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := app.run(); err != nil {
		app.logger.WithError(err).Error("Application error")
		app.shutdown()
		return err
	}

	select {
	case <-sigChan:
		app.logger.Info("Received shutdown signal")
	case <-app.done:
		app.logger.Info("Input exhausted")
	}
	app.shutdown()

	return app.readErr
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	var err error

	if err := app.config.Validate(); err != nil {
		return err
	}
	if err := app.openLogFile(); err != nil {
		return err
	}

	filter, _ := ParseDFList(app.config.Filter)
	app.filter = toSet(filter)
	logDF, _ := ParseDFList(app.config.LogDF)
	app.logDF = toSet(logDF)
	display, _ := ParseDisplay(app.config.Display)
	app.renderer = NewRenderer(display, app.config.OrderBy)

	app.reader, err = feed.NewReader(feed.Config{
		Source:    app.config.Source,
		Format:    app.config.Format,
		Reconnect: app.config.Reconnect,
	}, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize input: %w", err)
	}

	app.metrics = metrics.New()
	app.processor = adsb.NewProcessor(app.logger)

	opts := []aircraft.TrackerOption{aircraft.WithRelaxed(app.config.Relaxed)}
	if app.config.Observer != "" {
		observer, err := aircraft.ParseObserver(app.config.Observer)
		if err != nil {
			return fmt.Errorf("invalid observer: %w", err)
		}
		opts = append(opts, aircraft.WithObserver(observer))
	}
	app.tracker = aircraft.NewTracker(app.logger, opts...)

	// Output records go to stdout and, when recording, to the daily files.
	// The table is redrawn on screen so the raw squitters are recorded.
	app.out = app.stdout
	if app.config.RecordDir != "" {
		prefix := logging.DefaultPrefix
		if app.config.Output != OutputTable {
			prefix = app.config.Output
		}
		app.logRotator, err = logging.NewLogRotator(app.config.RecordDir, prefix, app.config.LogRotateUTC, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize log rotator: %w", err)
		}
		if app.config.Output != OutputTable {
			app.out = io.MultiWriter(app.stdout, app.logRotator)
		}
	}
	app.encoder = json.NewEncoder(app.out)
	if app.config.Output == OutputSBS {
		app.baseStation = basestation.NewWriter(app.out, app.logger)
	}

	if app.config.Database != "" {
		app.store, err = store.Open(app.config.Database, app.logger)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		if _, err := app.store.Begin(app.ctx, app.config.Source, app.now()); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
	}

	var publishers []publish.Publisher
	if app.config.MQTT.Broker != "" {
		p, err := publish.NewMQTTPublisher(app.config.MQTT, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize MQTT publisher: %w", err)
		}
		publishers = append(publishers, p)
	}
	if app.config.NATS.URL != "" {
		p, err := publish.NewNATSPublisher(app.config.NATS, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize NATS publisher: %w", err)
		}
		publishers = append(publishers, p)
	}
	app.fanout = publish.NewFanout(publishers, app.config.PublishInterval, app.metrics, app.logger)

	if app.config.HTTPAddr != "" {
		app.web = web.NewServer(app.config.HTTPAddr, app.tracker, app.metrics.Handler(), app.config.OrderBy, app.logger)
		if err := app.web.Listen(); err != nil {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}
	if app.web != nil || app.fanout.Len() > 0 {
		app.sinks = make(chan sinkEvent, sinkBuffer)
	}

	return nil
}

// openLogFile sends the application log to the log file, and also to stderr
// in verbose mode so the screen output stays readable otherwise. Without a
// log file the log goes to stderr.
func (app *Application) openLogFile() error {
	if app.config.LogFile == "" {
		app.logger.SetOutput(os.Stderr)
		return nil
	}

	file, err := os.OpenFile(app.config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	app.logFile = file
	if app.config.Verbose {
		app.logger.SetOutput(io.MultiWriter(file, os.Stderr))
	} else {
		app.logger.SetOutput(file)
	}
	return nil
}

// run starts the pipeline goroutines and returns immediately
func (app *Application) run() error {
	lines := make(chan string, lineBuffer)

	// Read the source
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		defer close(lines)
		if err := app.reader.Run(app.ctx, lines); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.WithError(err).Error("Input failed")
			app.readErr = err
		}
	}()

	// Decode and track
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		defer close(app.done)
		for line := range lines {
			app.processLine(line)
		}
		app.refresh()
	}()

	// Redraw and evict
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.tick(app.config.Update, app.refresh)
	}()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.tick(app.config.StatsInterval, app.reportStatistics)
	}()

	if app.logRotator != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.logRotator.Start(app.ctx)
		}()

		if app.config.RecordDays > 0 {
			app.cleanupRecords()
			app.wg.Add(1)
			go func() {
				defer app.wg.Done()
				app.tick(24*time.Hour, app.cleanupRecords)
			}()
		}
	}

	if app.store != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.tick(app.config.SaveInterval, app.saveAircraft)
		}()
	}

	if app.sinks != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.runSinks()
		}()
	}

	if app.web != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			if err := app.web.Run(app.ctx); err != nil {
				app.logger.WithError(err).Error("HTTP server failed")
			}
		}()
	}

	return nil
}

// tick calls fn every interval until the application stops
func (app *Application) tick(interval time.Duration, fn func()) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// processLine takes one squitter through decoding, tracking and the outputs
func (app *Application) processLine(line string) {
	app.metrics.LineRead()

	frame, err := app.processor.ProcessLine(line)
	if err != nil {
		app.metrics.FrameRejected(rejectReason(err))
		return
	}
	df := frame.Format()

	if app.logDF[df] {
		app.logger.WithFields(logrus.Fields{
			"df":       df,
			"length":   len(line),
			"squitter": line,
		}).Info("Logged squitter")
	}
	if len(app.filter) > 0 && !app.filter[df] {
		return
	}

	app.countMu.Lock()
	app.dfCounts[df]++
	app.countMu.Unlock()
	app.metrics.FrameDecoded(df)

	plane, register := app.tracker.Process(frame)
	if register != nil {
		app.metrics.Register(register.Code().String())
	}
	freshFix := plane.HasPosition() && plane.PositionTime.Equal(plane.Timestamp)
	if freshFix {
		app.metrics.Position()
	}

	switch app.config.Output {
	case OutputTable:
		if app.logRotator != nil {
			if _, err := io.WriteString(app.logRotator, line+"\n"); err != nil {
				app.logger.WithError(err).Error("Failed to record squitter")
			}
		}
	case OutputSBS:
		app.outMu.Lock()
		err := app.baseStation.Write(frame, plane, plane.Timestamp)
		app.outMu.Unlock()
		if err != nil {
			app.logger.WithError(err).Error("Failed to write BaseStation message")
		}
	case OutputJSON:
		app.outMu.Lock()
		err := app.encoder.Encode(plane.Summary())
		app.outMu.Unlock()
		if err != nil {
			app.logger.WithError(err).Error("Failed to write JSON")
		}
	case OutputDecode:
		app.emit(DescribeFrame(frame, register))
	case OutputICAO:
		name, code := country.Lookup(frame.Address())
		app.emit(FormatICAOLine(line, frame, name, code))
	case OutputIdent:
		if s, ok := FormatIdentLine(line, frame); ok {
			app.emit(s)
		}
	}

	if app.store != nil && freshFix {
		if err := app.store.SavePosition(app.ctx, plane); err != nil {
			app.logger.WithError(err).Warn("Failed to save position")
		}
	}

	app.queue(sinkEvent{summary: plane.Summary(), now: plane.Timestamp})
}

// queue hands an event to the sink goroutine without waiting. While the
// sinks are backed up events are dropped.
func (app *Application) queue(event sinkEvent) {
	if app.sinks == nil {
		return
	}
	select {
	case app.sinks <- event:
	default:
		if n := app.sinkDrops.Add(1); n == 1 || n%1000 == 0 {
			app.logger.WithField("dropped", n).Warn("Sinks are not keeping up, dropping updates")
		}
	}
}

// runSinks delivers queued events until the application stops
func (app *Application) runSinks() {
	for {
		select {
		case <-app.ctx.Done():
			return
		case event := <-app.sinks:
			app.deliver(event)
		}
	}
}

func (app *Application) deliver(event sinkEvent) {
	if event.evicted != "" {
		if app.web != nil {
			app.web.Hub().Remove(event.evicted)
		}
		return
	}
	if app.web != nil {
		app.web.Hub().Update(event.summary)
	}
	app.fanout.Publish(app.ctx, event.summary, event.now)
}

func (app *Application) emit(s string) {
	app.outMu.Lock()
	defer app.outMu.Unlock()
	if _, err := io.WriteString(app.out, s+"\n"); err != nil {
		app.logger.WithError(err).Error("Failed to write output")
	}
}

// refresh evicts silent aircraft and redraws the table
func (app *Application) refresh() {
	for _, icao := range app.tracker.RemoveStale(app.config.MaxAge) {
		hex := adsb.FormatICAO(icao)
		app.queue(sinkEvent{evicted: hex})
		app.fanout.Forget(hex)
		app.metrics.Evicted(1)
	}
	app.metrics.Aircraft(app.tracker.Len())

	if app.config.Output != OutputTable {
		return
	}

	app.outMu.Lock()
	defer app.outMu.Unlock()
	io.WriteString(app.out, ClearScreen)
	if err := app.renderer.Table(app.out, app.tracker.Snapshot(), app.now()); err != nil {
		app.logger.WithError(err).Error("Failed to draw table")
		return
	}
	if app.config.CountDF {
		io.WriteString(app.out, app.formatCounts()+"\n")
	}
}

func (app *Application) formatCounts() string {
	app.countMu.Lock()
	defer app.countMu.Unlock()
	return FormatDFCounts(app.dfCounts)
}

// cleanupRecords removes record files older than the retention
func (app *Application) cleanupRecords() {
	if err := app.logRotator.CleanupOldLogs(app.config.RecordDays); err != nil {
		app.logger.WithError(err).Warn("Failed to clean up record files")
	}
}

// saveAircraft stores the current state of every tracked aircraft
func (app *Application) saveAircraft() {
	planes := app.tracker.Snapshot()
	if len(planes) == 0 {
		return
	}
	if err := app.store.SaveAircraft(context.Background(), planes); err != nil {
		app.logger.WithError(err).Warn("Failed to save aircraft")
		return
	}
	app.logger.WithField("aircraft", len(planes)).Debug("Saved aircraft")
}

// reportStatistics logs the processing counters
func (app *Application) reportStatistics() {
	stats := app.processor.GetStats()
	app.logger.WithFields(logrus.Fields{
		"lines":       stats.Lines,
		"valid":       stats.Valid,
		"malformed":   stats.Malformed,
		"bad_parity":  stats.BadParity,
		"unsupported": stats.Unsupported,
		"aircraft":    app.tracker.Len(),
		"sink_drops":  app.sinkDrops.Load(),
	}).Info("Statistics")
}

// shutdown stops the goroutines and closes the outputs
func (app *Application) shutdown() {
	app.logger.Info("Shutting down...")

	app.cancel()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines finished")
	case <-time.After(shutdownTimeout):
		app.logger.Warn("Shutdown timeout, forcing exit")
	}

	if app.store != nil {
		app.saveAircraft()
		if err := app.store.Close(); err != nil {
			app.logger.WithError(err).Error("Failed to close database")
		}
	}
	if app.fanout != nil {
		if err := app.fanout.Close(); err != nil {
			app.logger.WithError(err).Error("Failed to close publishers")
		}
	}
	if app.logRotator != nil {
		if err := app.logRotator.Close(); err != nil {
			app.logger.WithError(err).Error("Failed to close log rotator")
		}
	}

	app.reportStatistics()
	app.logger.Info("Shutdown completed")

	if app.logFile != nil {
		app.logFile.Close()
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, adsb.ErrParity):
		return "parity"
	case errors.Is(err, adsb.ErrUnsupported):
		return "unsupported"
	default:
		return "malformed"
	}
}

func toSet(dfs []uint32) map[uint32]bool {
	set := make(map[uint32]bool, len(dfs))
	for _, df := range dfs {
		set[df] = true
	}
	return set
}
