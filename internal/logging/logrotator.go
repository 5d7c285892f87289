// Package logging writes output records to daily files and compresses the
// files of previous days.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
)

// DefaultPrefix names record files when no prefix is configured
const DefaultPrefix = "squitters"

// ErrClosed is returned when writing after Close
var ErrClosed = errors.New("log rotator closed")

// LogRotator is an io.Writer over a file named <prefix>_<date>.log that
// switches to a new file when the date changes
type LogRotator struct {
	logDir      string
	prefix      string
	useUTC      bool
	logger      *logrus.Logger
	currentFile *os.File
	currentDate string
	mutex       sync.RWMutex
	compressWG  sync.WaitGroup
	now         func() time.Time
}

// NewLogRotator creates the directory if needed and opens today's file
func NewLogRotator(logDir, prefix string, useUTC bool, logger *logrus.Logger) (*LogRotator, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}

	rotator := &LogRotator{
		logDir: logDir,
		prefix: prefix,
		useUTC: useUTC,
		logger: logger,
		now:    time.Now,
	}

	rotator.mutex.Lock()
	defer rotator.mutex.Unlock()
	if err := rotator.rotateLogFile(); err != nil {
		return nil, fmt.Errorf("failed to initialize log file: %w", err)
	}

	return rotator, nil
}

// Start checks for a date change every minute until ctx is done
func (r *LogRotator) Start(ctx context.Context) {
	r.logger.WithField("dir", r.logDir).Info("Starting log rotator")

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Log rotator stopping")
			return
		case <-ticker.C:
			r.checkRotation()
		}
	}
}

func (r *LogRotator) date() string {
	now := r.now()
	if r.useUTC {
		now = now.UTC()
	}
	return now.Format("2006-01-02")
}

func (r *LogRotator) fileName(date string) string {
	return filepath.Join(r.logDir, fmt.Sprintf("%s_%s.log", r.prefix, date))
}

func (r *LogRotator) checkRotation() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentFile == nil {
		return
	}
	if newDate := r.date(); r.currentDate != newDate {
		r.logger.WithFields(logrus.Fields{
			"old_date": r.currentDate,
			"new_date": newDate,
		}).Info("Rotating log file")

		if err := r.rotateLogFile(); err != nil {
			r.logger.WithError(err).Error("Failed to rotate log file")
		}
	}
}

// rotateLogFile must be called with the mutex held
func (r *LogRotator) rotateLogFile() error {
	newDate := r.date()

	if r.currentFile != nil {
		if err := r.currentFile.Close(); err != nil {
			r.logger.WithError(err).Error("Failed to close old log file")
		}
		r.currentFile = nil

		if oldDate := r.currentDate; oldDate != newDate {
			r.compressWG.Add(1)
			go func() {
				defer r.compressWG.Done()
				r.compressLogFile(oldDate)
			}()
		}
	}

	path := r.fileName(newDate)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file %s: %w", path, err)
	}

	r.currentFile = file
	r.currentDate = newDate

	r.logger.WithField("file", path).Info("Created new log file")
	return nil
}

// compressLogFile replaces a finished day's file with its gzip version
func (r *LogRotator) compressLogFile(date string) {
	logFile := r.fileName(date)
	gzipFile := logFile + ".gz"

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		r.logger.WithField("file", logFile).Debug("Log file doesn't exist, skipping compression")
		return
	}

	if err := compress(logFile, gzipFile); err != nil {
		r.logger.WithError(err).WithField("file", logFile).Error("Failed to compress log file")
		os.Remove(gzipFile)
		return
	}

	if err := os.Remove(logFile); err != nil {
		r.logger.WithError(err).WithField("file", logFile).Error("Failed to remove original log file")
		return
	}

	r.logger.WithField("file", gzipFile).Info("Log file compressed successfully")
}

func compress(source, target string) error {
	src, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create compressed file: %w", err)
	}
	defer dst.Close()

	gzWriter := gzip.NewWriter(dst)
	gzWriter.Name = filepath.Base(source)
	gzWriter.ModTime = time.Now()

	if _, err := io.Copy(gzWriter, src); err != nil {
		return fmt.Errorf("failed to copy data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return dst.Close()
}

// Write appends to the current file
func (r *LogRotator) Write(p []byte) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentFile == nil {
		return 0, ErrClosed
	}
	return r.currentFile.Write(p)
}

// Close closes the current file and waits for pending compressions
func (r *LogRotator) Close() error {
	r.mutex.Lock()
	var err error
	if r.currentFile != nil {
		err = r.currentFile.Close()
		r.currentFile = nil
	}
	r.mutex.Unlock()

	r.compressWG.Wait()
	if err != nil {
		r.logger.WithError(err).Error("Failed to close current log file")
		return err
	}
	r.logger.Info("Closed log rotator")
	return nil
}

// GetCurrentLogFile returns the path of the file being written
func (r *LogRotator) GetCurrentLogFile() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentDate == "" {
		return ""
	}
	return r.fileName(r.currentDate)
}

// GetLogFiles lists every file of this prefix, compressed or not
func (r *LogRotator) GetLogFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.logDir, r.prefix+"_*.log*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}
	return files, nil
}

// CleanupOldLogs removes files last modified more than maxDays ago
func (r *LogRotator) CleanupOldLogs(maxDays int) error {
	if maxDays <= 0 {
		return fmt.Errorf("maxDays must be positive")
	}

	files, err := r.GetLogFiles()
	if err != nil {
		return fmt.Errorf("failed to get log files: %w", err)
	}

	cutoff := r.now().AddDate(0, 0, -maxDays)
	current := r.GetCurrentLogFile()

	removed := 0
	for _, file := range files {
		if file == current {
			continue
		}

		info, err := os.Stat(file)
		if err != nil {
			r.logger.WithError(err).WithField("file", file).Warn("Failed to stat log file")
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				r.logger.WithError(err).WithField("file", file).Error("Failed to remove old log file")
			} else {
				r.logger.WithField("file", file).Debug("Removed old log file")
				removed++
			}
		}
	}

	r.logger.WithField("count", removed).Info("Cleaned up old log files")
	return nil
}
