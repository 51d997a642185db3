package config

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkahng/ludo"
)

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return Parse(fs, args)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ludo.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParse(t *testing.T) {
	file := writeConfig(t, `{"bots": 2, "save_path": "from-file.sav", "log_level": "debug", "color": false}`)

	tests := []struct {
		name    string
		args    []string
		want    func(*Config)
		wantErr bool
	}{
		{
			name: "defaults",
			want: func(*Config) {},
		},
		{
			name: "flags",
			args: []string{"-bots", "1", "-strategies", "jorgen", "-seed", "9", "-spectate", ":8080", "-autopilot"},
			want: func(c *Config) {
				c.Bots = 1
				c.Seed = 9
				c.Spectate = ":8080"
				c.Autopilot = true
			},
		},
		{
			name: "file",
			args: []string{"-config", file},
			want: func(c *Config) {
				c.Bots = 2
				c.SavePath = "from-file.sav"
				c.LogLevel = "debug"
				c.Color = false
			},
		},
		{
			name: "flags win over file",
			args: []string{"-config", file, "-bots", "3", "-save", "flag.sav"},
			want: func(c *Config) {
				c.Bots = 3
				c.SavePath = "flag.sav"
				c.LogLevel = "debug"
				c.Color = false
			},
		},
		{
			name:    "missing file",
			args:    []string{"-config", filepath.Join(t.TempDir(), "nope.json")},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"-players", "4"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parse(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			want := Default()
			tt.want(&want)
			assert.Equal(t, want, got)
		})
	}
}

func TestParse_StrategiesUsage(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_, err := Parse(fs, nil)
	require.NoError(t, err)

	f := fs.Lookup("strategies")
	require.NotNil(t, f)
	assert.Contains(t, f.Usage, ludo.StrategyJorgen)
}

func TestParse_BadFile(t *testing.T) {
	_, err := parse(t, "-config", writeConfig(t, `{"bots": "three"}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "no bots", mutate: func(c *Config) { c.Bots = 0 }, wantErr: ErrInvalidBotCount},
		{name: "four bots", mutate: func(c *Config) { c.Bots = 4 }, wantErr: ErrInvalidBotCount},
		{name: "more strategies than bots", mutate: func(c *Config) {
			c.Bots = 1
			c.Strategies = []string{"jorgen", "jorgen"}
		}, wantErr: ErrInvalidConfig},
		{name: "unknown strategy", mutate: func(c *Config) { c.Strategies = []string{"bob"} }, wantErr: ludo.ErrUnknownStrategy},
		{name: "reserved strategy", mutate: func(c *Config) { c.Strategies = []string{"jorgen", "muller"} }, wantErr: ludo.ErrStrategyNotImplemented},
		{name: "empty save path", mutate: func(c *Config) { c.SavePath = "" }, wantErr: ErrInvalidConfig},
		{name: "negative delay", mutate: func(c *Config) { c.BotDelayMS = -1 }, wantErr: ErrInvalidConfig},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBotStrategies(t *testing.T) {
	c := Default()
	c.Strategies = []string{"jorgen", "Jörgen"}
	assert.Equal(t, []string{"jorgen", "Jörgen", "Jörgen"}, c.BotStrategies())

	c.Strategies = nil
	c.Bots = 2
	assert.Equal(t, []string{ludo.StrategyJorgen, ludo.StrategyJorgen}, c.BotStrategies())
}

func TestLevel(t *testing.T) {
	c := Default()
	level, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	c.LogLevel = "DEBUG"
	level, err = c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}
