package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tkahng/ludo"
	"github.com/tkahng/ludo/config"
	"github.com/tkahng/ludo/save"
	"github.com/tkahng/ludo/server"
	"github.com/tkahng/ludo/terminal"
	"github.com/tkahng/ludo/websocket"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitConfig      = 2
	exitPersistence = 3
)

const usage = `usage: ludo <command> [flags]

commands:
  play      start a new match against 1-3 computer players
  resume    continue the match stored in the save file
  simulate  run many automated matches and print statistics
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitConfig
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "play", "resume":
		return runMatch(cmd == "resume", args, stdin, stdout, stderr)
	case "simulate":
		return runSimulate(args, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", cmd, usage)
		return exitConfig
	}
}

func setup(fs *flag.FlagSet, args []string, stderr io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Parse(fs, args)
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, logger, nil
}

func runMatch(resume bool, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ludo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg, logger, err := setup(fs, args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	roller := ludo.NewRoller(cfg.Seed)
	console := terminal.New(stdin, stdout, roller,
		terminal.WithColor(cfg.Color),
		terminal.WithBotDelay(time.Duration(cfg.BotDelayMS)*time.Millisecond))
	defer console.Close()

	var input ludo.Input = console
	if cfg.Autopilot {
		auto := ludo.NewAutoInput(ludo.NewRoller(cfg.Seed + 1))
		auto.OnPause = func() ludo.PauseChoice { return ludo.PauseSaveAndExit }
		input = auto
	}

	renderers := ludo.Renderers{console}
	if cfg.Spectate != "" {
		hub := websocket.NewHub(logger)
		defer hub.Close()
		stop := serveSpectators(cfg.Spectate, hub, logger)
		defer stop()
		renderers = append(renderers, hub)
	}

	store := save.NewFile(cfg.SavePath, logger)
	opts := ludo.Options{
		Logger:   logger,
		Rand:     roller,
		Renderer: renderers,
		Saver:    store,
	}

	var m *ludo.Match
	if resume {
		snap, err := store.Load()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitPersistence
		}
		m, err = ludo.Restore(snap, input, opts)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitPersistence
		}
	} else {
		m, err = ludo.NewMatch(input, cfg.BotStrategies(), opts)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitConfig
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(ctx, m, cancel, logger)

	res, err := m.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ludo.ErrExitRequested):
		fmt.Fprintln(stdout, "bye")
		return exitOK
	case errors.Is(err, save.ErrUnwritable):
		fmt.Fprintln(stderr, err)
		return exitPersistence
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "interrupted")
		return exitFailure
	default:
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	winner := m.Players()[res.Winner]
	if res.HumanWon {
		fmt.Fprintf(stdout, "You won as %s in %d turns.\n", winner.Color, res.Turns)
	} else {
		fmt.Fprintf(stdout, "The computer players finished first after %d turns; %s was last to finish.\n", res.Turns, winner.Name())
	}
	return exitOK
}

// watchSignals turns the first interrupt into a pause request and the second
// into cancellation.
func watchSignals(ctx context.Context, m *ludo.Match, cancel context.CancelFunc, logger *slog.Logger) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	paused := false
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigs:
			if sig == syscall.SIGTERM || paused {
				logger.Info("exiting on signal", "signal", sig.String())
				cancel()
				return
			}
			paused = true
			logger.Info("pause requested")
			m.RequestPause()
		}
	}
}

func serveSpectators(addr string, hub *websocket.Hub, logger *slog.Logger) func() {
	srv := server.NewSpectatorServer(hub, nil, logger)
	// nolint:exhaustruct
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Cors(nil, srv.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("spectator server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("spectator server failed", "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Warn("spectator server shutdown", "error", err)
		}
	}
}

func runSimulate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ludo simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	matches := fs.Int("n", 100, "number of matches")
	workers := fs.Int("workers", 4, "matches played at once")
	timeout := fs.Duration("timeout", 30*time.Second, "time limit per match")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	cfg, logger, err := setup(fs, args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	arena, err := ludo.NewArena(ludo.ArenaOptions{
		Matches:              *matches,
		MaxConcurrentMatches: *workers,
		Bots:                 cfg.BotStrategies(),
		Seed:                 cfg.Seed,
		MatchTimeout:         *timeout,
		Logger:               logger,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	report, err := arena.Run(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		return exitOK
	}
	played := report.Matches - report.Failed
	fmt.Fprintf(stdout, "matches: %d (failed %d)\n", report.Matches, report.Failed)
	if played > 0 {
		fmt.Fprintf(stdout, "human seat wins: %d (%.1f%%)\n", report.HumanWins, 100*float64(report.HumanWins)/float64(played))
		fmt.Fprintf(stdout, "bot sweeps: %d (%.1f%%)\n", report.BotSweeps, 100*float64(report.BotSweeps)/float64(played))
	}
	for _, c := range ludo.Colors {
		fmt.Fprintf(stdout, "  %-6s %d\n", c, report.WinsByColor[c.String()])
	}
	fmt.Fprintf(stdout, "turns: mean %.1f, stddev %.1f\n", report.MeanTurns, report.StdDevTurns)
	fmt.Fprintf(stdout, "moves: mean %.1f\n", report.MeanMoves)
	return exitOK
}
