package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squitterator/internal/app"
)

// execute runs the command with args and returns the configuration it
// would start with
func execute(t *testing.T, args ...string) (app.Config, bool, error) {
	t.Helper()
	var got app.Config
	started := false
	cmd := newRootCommand(func(config app.Config) error {
		got = config
		started = true
		return nil
	})
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return got, started, err
}

// TestRootCommand_Defaults tests the configuration without flags
func TestRootCommand_Defaults(t *testing.T) {
	config, started, err := execute(t)
	require.NoError(t, err)
	require.True(t, started)

	expected := app.DefaultConfig()
	assert.Equal(t, expected, config)
}

// TestRootCommand_Flags tests that flags reach the configuration
func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, c app.Config)
	}{
		{
			name: "Source and format",
			args: []string{"-i", "127.0.0.1:30005", "--format", "beast", "--reconnect"},
			check: func(t *testing.T, c app.Config) {
				assert.Equal(t, "127.0.0.1:30005", c.Source)
				assert.Equal(t, "beast", c.Format)
				assert.True(t, c.Reconnect)
			},
		},
		{
			name: "Table options",
			args: []string{"-d", "we", "-b", "aA", "-u", "500ms", "--filter", "17,20", "--count-df"},
			check: func(t *testing.T, c app.Config) {
				assert.Equal(t, "we", c.Display)
				assert.Equal(t, "aA", c.OrderBy)
				assert.Equal(t, 500*time.Millisecond, c.Update)
				assert.Equal(t, "17,20", c.Filter)
				assert.True(t, c.CountDF)
			},
		},
		{
			name: "Sinks",
			args: []string{"--http", ":8080", "--db", "squitters.db", "--mqtt-broker", "tcp://localhost:1883", "--nats-url", "nats://localhost:4222"},
			check: func(t *testing.T, c app.Config) {
				assert.Equal(t, ":8080", c.HTTPAddr)
				assert.Equal(t, "squitters.db", c.Database)
				assert.Equal(t, "tcp://localhost:1883", c.MQTT.Broker)
				assert.Equal(t, "nats://localhost:4222", c.NATS.URL)
			},
		},
		{
			name: "Logging",
			args: []string{"-v", "-l", "debug.log", "-r", "rec", "--utc=false"},
			check: func(t *testing.T, c app.Config) {
				assert.True(t, c.Verbose)
				assert.Equal(t, "debug.log", c.LogFile)
				assert.Equal(t, "rec", c.RecordDir)
				assert.False(t, c.LogRotateUTC)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, started, err := execute(t, tt.args...)
			require.NoError(t, err)
			require.True(t, started)
			tt.check(t, config)
		})
	}
}

// TestRootCommand_ConfigFile tests that explicit flags win over the file
func TestRootCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "squitterator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: 127.0.0.1:30002
output: sbs
update: 3s
http: ":9090"
`), 0644))

	config, started, err := execute(t, "--config", path, "--output", "json")
	require.NoError(t, err)
	require.True(t, started)

	assert.Equal(t, "127.0.0.1:30002", config.Source)
	assert.Equal(t, "json", config.Output, "flag overrides the file")
	assert.Equal(t, 3*time.Second, config.Update)
	assert.Equal(t, ":9090", config.HTTPAddr)
	assert.Equal(t, path, config.ConfigFile)
}

// TestRootCommand_Errors tests rejected command lines
func TestRootCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "Unknown output", args: []string{"--output", "xml"}},
		{name: "Bad display", args: []string{"--display", "z"}},
		{name: "Bad duration", args: []string{"--update", "soon"}},
		{name: "Missing config file", args: []string{"--config", "/nonexistent/squitterator.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, started, err := execute(t, tt.args...)
			assert.Error(t, err)
			assert.False(t, started)
		})
	}
}

// TestRootCommand_Version tests that --version does not start decoding
func TestRootCommand_Version(t *testing.T) {
	_, started, err := execute(t, "--version")
	require.NoError(t, err)
	assert.False(t, started)
}

// TestRootCommand_RelaxedUsage tests that --relaxed is described as the
// capability override it is
func TestRootCommand_RelaxedUsage(t *testing.T) {
	cmd := newRootCommand(func(app.Config) error { return nil })
	flag := cmd.Flags().Lookup("relaxed")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Usage, "capability")
	assert.Contains(t, flag.Usage, "BDS1,7")
	assert.Equal(t, "false", flag.DefValue)
}
