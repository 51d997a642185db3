package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tkahng/ludo"
)

var (
	ErrInvalidBotCount = errors.New("invalid bot count")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Config holds the settings for one run of the program. A zero Seed picks
// one from the clock.
type Config struct {
	Bots       int      `json:"bots"`
	Strategies []string `json:"strategies"`
	SavePath   string   `json:"save_path"`
	Seed       int64    `json:"seed"`
	Spectate   string   `json:"spectate"`
	LogLevel   string   `json:"log_level"`
	BotDelayMS int      `json:"bot_delay_ms"`
	Color      bool     `json:"color"`
	Autopilot  bool     `json:"autopilot"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Bots:       3,
		Strategies: []string{ludo.StrategyJorgen},
		SavePath:   "ludo.sav",
		LogLevel:   "warn",
		BotDelayMS: 400,
		Color:      true,
	}
}

// LoadFile overlays the JSON file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// Parse reads flags from args. When -config names a file it is loaded
// first and flags given on the command line win over it.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()
	flags := Default()

	configPath := fs.String("config", "", "JSON config file")
	fs.IntVar(&flags.Bots, "bots", flags.Bots, "number of computer opponents (1-3)")
	strategies := fs.String("strategies", strings.Join(flags.Strategies, ","), "comma separated bot strategies, one per bot (last one repeats); one of "+strings.Join(ludo.StrategyNames(), ", "))
	fs.StringVar(&flags.SavePath, "save", flags.SavePath, "save file path")
	fs.Int64Var(&flags.Seed, "seed", flags.Seed, "random seed (0 = clock)")
	fs.StringVar(&flags.Spectate, "spectate", flags.Spectate, "listen address for the spectator server, empty to disable")
	fs.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "debug, info, warn or error")
	fs.IntVar(&flags.BotDelayMS, "bot-delay", flags.BotDelayMS, "pause after each bot move in milliseconds")
	fs.BoolVar(&flags.Color, "color", flags.Color, "draw the board with ANSI colors")
	fs.BoolVar(&flags.Autopilot, "autopilot", flags.Autopilot, "let the reference bot play the human seat")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	flags.Strategies = splitList(*strategies)

	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bots":
			cfg.Bots = flags.Bots
		case "strategies":
			cfg.Strategies = flags.Strategies
		case "save":
			cfg.SavePath = flags.SavePath
		case "seed":
			cfg.Seed = flags.Seed
		case "spectate":
			cfg.Spectate = flags.Spectate
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "bot-delay":
			cfg.BotDelayMS = flags.BotDelayMS
		case "color":
			cfg.Color = flags.Color
		case "autopilot":
			cfg.Autopilot = flags.Autopilot
		}
	})
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// BotStrategies returns one strategy tag per bot. A short list repeats its
// last entry; an empty list uses the reference bot.
func (c Config) BotStrategies() []string {
	tags := make([]string, c.Bots)
	for i := range tags {
		switch {
		case i < len(c.Strategies):
			tags[i] = c.Strategies[i]
		case len(c.Strategies) > 0:
			tags[i] = c.Strategies[len(c.Strategies)-1]
		default:
			tags[i] = ludo.StrategyJorgen
		}
	}
	return tags
}

// Validate reports configuration errors before any play starts.
func (c Config) Validate() error {
	if c.Bots < 1 || c.Bots > ludo.MaxBots {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidBotCount, c.Bots, ludo.MaxBots)
	}
	if len(c.Strategies) > c.Bots {
		return fmt.Errorf("%w: %d strategies for %d bots", ErrInvalidConfig, len(c.Strategies), c.Bots)
	}
	for _, tag := range c.BotStrategies() {
		if _, err := ludo.NewStrategy(tag); err != nil {
			return err
		}
	}
	if c.SavePath == "" {
		return fmt.Errorf("%w: empty save path", ErrInvalidConfig)
	}
	if c.BotDelayMS < 0 {
		return fmt.Errorf("%w: negative bot delay", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}
