package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"squitterator/internal/app"
)

func main() {
	rootCmd := newRootCommand(func(config app.Config) error {
		return app.NewApplication(config).Start()
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand builds the command line. start receives the final
// configuration: defaults, then the config file, then explicit flags.
func newRootCommand(start func(app.Config) error) *cobra.Command {
	config := app.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "squitterator",
		Short: "Mode S and ADS-B squitter decoder",
		Long: `Mode S and ADS-B squitter decoder.

Reads hex squitters from a file, stdin or a TCP receiver (raw or Beast
framing), validates their parity, decodes every downlink format and keeps
a live table of the aircraft heard. Decoded data can also be written as
BaseStation (SBS) or JSON lines, stored in SQLite, published to MQTT or
NATS and served over HTTP.

Example usage:
  squitterator --source rec/squitters.txt --display we --order-by A
  squitterator --source 127.0.0.1:30005 --format beast --reconnect --http :8080`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion()
				return nil
			}
			if config.ConfigFile != "" {
				if err := applyConfigFile(cmd.Flags(), config.ConfigFile, &config); err != nil {
					return err
				}
			}
			if err := config.Validate(); err != nil {
				return err
			}
			return start(config)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&config.ConfigFile, "config", "c", "", "YAML configuration file; flags given explicitly take precedence")

	flags.StringVarP(&config.Source, "source", "i", app.DefaultSource, "Squitter file, - for stdin, or host:port of a receiver")
	flags.StringVar(&config.Format, "format", app.DefaultFormat, "Input framing: raw or beast")
	flags.BoolVar(&config.Reconnect, "reconnect", false, "Keep reconnecting to a network source")

	flags.StringVarP(&config.Output, "output", "o", app.DefaultOutput, "Output: table, sbs, json, decode, icao or ident")
	flags.StringVarP(&config.Display, "display", "d", "", "Extra table columns: A altitude, s speed, a angles, w weather, e extra")
	flags.StringVarP(&config.OrderBy, "order-by", "b", "", "Table order keys, last key is primary (a A c C N S W E s v V)")
	flags.DurationVarP(&config.Update, "update", "u", app.DefaultUpdate, "Table refresh interval")
	flags.DurationVar(&config.MaxAge, "max-age", app.DefaultMaxAge, "Drop aircraft not heard for this long")
	flags.StringVar(&config.Filter, "filter", "", "Only process these downlink formats, comma separated")
	flags.StringVar(&config.LogDF, "log-df", "", "Log squitters of these downlink formats, comma separated")
	flags.BoolVar(&config.CountDF, "count-df", false, "Show per downlink format counters under the table")
	flags.BoolVar(&config.Relaxed, "relaxed", false, "Decode Comm-B replies regardless of the transponder capability and the BDS1,7 report")
	flags.StringVar(&config.Observer, "observer", "", "Receiver position as lat,lon for distances")

	flags.StringVarP(&config.LogFile, "log-file", "l", app.DefaultLogFile, "Application log file")
	flags.StringVarP(&config.RecordDir, "record-dir", "r", "", "Also record output to daily files in this directory")
	flags.IntVar(&config.RecordDays, "record-days", 0, "Delete record files older than this many days, 0 keeps all")
	flags.BoolVar(&config.LogRotateUTC, "utc", true, "Use UTC for record file rotation")
	flags.BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	flags.BoolVar(&config.ShowVersion, "version", false, "Show version information")

	flags.StringVar(&config.HTTPAddr, "http", "", "Serve aircraft, websocket and metrics on this address")
	flags.StringVar(&config.Database, "db", "", "Record sessions to this SQLite database")
	flags.DurationVar(&config.SaveInterval, "save-interval", app.DefaultSaveInterval, "Interval between database snapshots")
	flags.StringVar(&config.MQTT.Broker, "mqtt-broker", "", "Publish aircraft to this MQTT broker")
	flags.StringVar(&config.MQTT.Username, "mqtt-user", "", "MQTT username")
	flags.StringVar(&config.MQTT.Password, "mqtt-password", "", "MQTT password")
	flags.StringVar(&config.MQTT.TopicPrefix, "mqtt-topic", "", "MQTT topic prefix")
	flags.StringVar(&config.NATS.URL, "nats-url", "", "Publish aircraft to this NATS server")
	flags.StringVar(&config.NATS.SubjectPrefix, "nats-subject", "", "NATS subject prefix")
	flags.DurationVar(&config.PublishInterval, "publish-interval", app.DefaultPublishInterval, "Minimum interval between publishes of one aircraft")

	return rootCmd
}

// applyConfigFile loads the file over config, then replays the flags that
// were set on the command line so they win over the file
func applyConfigFile(flags *pflag.FlagSet, path string, config *app.Config) error {
	changed := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := app.LoadConfigFile(path, config); err != nil {
		return err
	}

	for name, value := range changed {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("failed to apply --%s: %w", name, err)
		}
	}
	return nil
}
