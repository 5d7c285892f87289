package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"squitterator/internal/aircraft"
	"squitterator/internal/feed"
	"squitterator/internal/publish"
)

// Output modes
const (
	OutputTable  = "table"
	OutputSBS    = "sbs"
	OutputJSON   = "json"
	OutputDecode = "decode"
	OutputICAO   = "icao"
	OutputIdent  = "ident"
)

// Default configuration constants
const (
	DefaultSource          = "rec/squitters.txt"
	DefaultFormat          = feed.FormatRaw
	DefaultOutput          = OutputTable
	DefaultLogFile         = "log.log"
	DefaultUpdate          = time.Second
	DefaultMaxAge          = aircraft.DefaultMaxAge
	DefaultStatsInterval   = 30 * time.Second
	DefaultSaveInterval    = 30 * time.Second
	DefaultPublishInterval = 5 * time.Second
)

// Config holds application configuration
type Config struct {
	Source    string `yaml:"source"`
	Format    string `yaml:"format"`
	Reconnect bool   `yaml:"reconnect"`

	Output   string        `yaml:"output"`
	Display  string        `yaml:"display"`
	OrderBy  string        `yaml:"order_by"`
	Update   time.Duration `yaml:"update"`
	MaxAge   time.Duration `yaml:"max_age"`
	Filter   string        `yaml:"filter"`
	LogDF    string        `yaml:"log_df"`
	CountDF  bool          `yaml:"count_df"`
	Relaxed  bool          `yaml:"relaxed"`
	Observer string        `yaml:"observer"`

	LogFile      string `yaml:"log_file"`
	RecordDir    string `yaml:"record_dir"`
	RecordDays   int    `yaml:"record_days"`
	LogRotateUTC bool   `yaml:"rotate_utc"`
	Verbose      bool   `yaml:"verbose"`

	HTTPAddr        string             `yaml:"http"`
	Database        string             `yaml:"database"`
	SaveInterval    time.Duration      `yaml:"save_interval"`
	MQTT            publish.MQTTConfig `yaml:"mqtt"`
	NATS            publish.NATSConfig `yaml:"nats"`
	PublishInterval time.Duration      `yaml:"publish_interval"`
	StatsInterval   time.Duration      `yaml:"stats_interval"`

	ConfigFile  string `yaml:"-"`
	ShowVersion bool   `yaml:"-"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Source:          DefaultSource,
		Format:          DefaultFormat,
		Output:          DefaultOutput,
		Update:          DefaultUpdate,
		MaxAge:          DefaultMaxAge,
		LogFile:         DefaultLogFile,
		LogRotateUTC:    true,
		SaveInterval:    DefaultSaveInterval,
		PublishInterval: DefaultPublishInterval,
		StatsInterval:   DefaultStatsInterval,
	}
}

// LoadConfigFile overlays the YAML file at path onto config. Keys absent
// from the file keep their current value.
func LoadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings that can be wrong without failing to parse
func (c *Config) Validate() error {
	switch c.Output {
	case OutputTable, OutputSBS, OutputJSON, OutputDecode, OutputICAO, OutputIdent:
	default:
		return fmt.Errorf("unknown output %q", c.Output)
	}
	switch c.Format {
	case feed.FormatRaw, feed.FormatBeast:
	default:
		return fmt.Errorf("unknown input format %q", c.Format)
	}
	if _, err := ParseDisplay(c.Display); err != nil {
		return err
	}
	if _, err := ParseDFList(c.Filter); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	if _, err := ParseDFList(c.LogDF); err != nil {
		return fmt.Errorf("invalid log-df: %w", err)
	}
	if c.Observer != "" {
		if _, err := aircraft.ParseObserver(c.Observer); err != nil {
			return fmt.Errorf("invalid observer: %w", err)
		}
	}
	if c.Update <= 0 {
		return fmt.Errorf("update interval must be positive")
	}
	if c.RecordDays < 0 {
		return fmt.Errorf("record retention must not be negative")
	}
	if c.MaxAge <= 0 {
		return fmt.Errorf("max age must be positive")
	}
	return nil
}

// ParseDFList parses a comma separated list of downlink formats
func ParseDFList(s string) ([]uint32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var dfs []uint32
	for _, field := range strings.Split(s, ",") {
		df, err := strconv.ParseUint(strings.TrimSpace(field), 10, 5)
		if err != nil {
			return nil, fmt.Errorf("bad downlink format %q", field)
		}
		dfs = append(dfs, uint32(df))
	}
	return dfs, nil
}
