package ludo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ArenaOptions configures a batch of fully automated matches.
type ArenaOptions struct {
	Matches int
	// MaxConcurrentMatches bounds how many matches run at once.
	MaxConcurrentMatches int
	Bots                 []string
	Seed                 int64
	MatchTimeout         time.Duration
	Logger               *slog.Logger
}

// ArenaReport aggregates the results of an arena run.
type ArenaReport struct {
	Matches     int              `json:"matches"`
	Failed      int              `json:"failed"`
	HumanWins   int              `json:"humanWins"`
	BotSweeps   int              `json:"botSweeps"`
	WinsByColor map[string]int   `json:"winsByColor"`
	MeanTurns   float64          `json:"meanTurns"`
	StdDevTurns float64          `json:"stdDevTurns"`
	MeanMoves   float64          `json:"meanMoves"`
	Results     []ArenaMatchLine `json:"-"`
}

// ArenaMatchLine is the outcome of one arena match.
type ArenaMatchLine struct {
	Seed        int64
	Result      Result
	WinnerColor Color
	Moves       int
	Err         error
}

// Arena runs matches with the human slot on autopilot. Each match is owned
// by exactly one goroutine; a semaphore caps how many run together.
type Arena struct {
	opts      ArenaOptions
	semaphore chan struct{}
	log       *slog.Logger
}

func NewArena(opts ArenaOptions) (*Arena, error) {
	if opts.Matches < 1 {
		return nil, fmt.Errorf("arena needs at least one match, got %d", opts.Matches)
	}
	if len(opts.Bots) < 1 || len(opts.Bots) > MaxBots {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBots, len(opts.Bots))
	}
	for _, tag := range opts.Bots {
		if _, err := NewStrategy(tag); err != nil {
			return nil, err
		}
	}
	if opts.MaxConcurrentMatches <= 0 {
		opts.MaxConcurrentMatches = 4
	}
	if opts.MatchTimeout <= 0 {
		opts.MatchTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Arena{
		opts:      opts,
		semaphore: make(chan struct{}, opts.MaxConcurrentMatches),
		log:       opts.Logger,
	}, nil
}

// Run plays every match and aggregates the results. It stops scheduling new
// matches once ctx is cancelled.
func (a *Arena) Run(ctx context.Context) (ArenaReport, error) {
	start := time.Now()
	lines := make([]ArenaMatchLine, a.opts.Matches)
	wg := new(sync.WaitGroup)

	a.log.Info("arena started", "matches", a.opts.Matches, "max_concurrent", a.opts.MaxConcurrentMatches)

schedule:
	for i := range lines {
		select {
		case a.semaphore <- struct{}{}:
		case <-ctx.Done():
			break schedule
		}
		wg.Add(1)
		go func(i int) {
			defer func() {
				<-a.semaphore
				wg.Done()
			}()
			lines[i] = a.playOne(ctx, a.opts.Seed+int64(i))
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return ArenaReport{}, err
	}
	report := summarize(lines)
	a.log.Info("arena finished", "elapsed", time.Since(start).String(),
		"failed", report.Failed, "mean_turns", report.MeanTurns)
	return report, nil
}

func (a *Arena) playOne(ctx context.Context, seed int64) ArenaMatchLine {
	ctx, cancel := context.WithTimeout(ctx, a.opts.MatchTimeout)
	defer cancel()

	line := ArenaMatchLine{Seed: seed}
	roller := NewRoller(seed)
	m, err := NewMatch(NewAutoInput(NewRoller(seed+1)), a.opts.Bots, Options{
		Logger: a.log,
		Rand:   roller,
	})
	if err != nil {
		line.Err = err
		return line
	}
	res, err := m.Run(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			a.log.Warn("arena match timed out", "seed", seed)
		}
		line.Err = err
		return line
	}
	line.Result = res
	line.WinnerColor = m.players[res.Winner].Color
	for _, p := range m.players {
		line.Moves += p.MoveCount
	}
	return line
}

func summarize(lines []ArenaMatchLine) ArenaReport {
	report := ArenaReport{
		Matches:     len(lines),
		WinsByColor: map[string]int{},
		Results:     lines,
	}
	var turns, moves []float64
	for _, l := range lines {
		if l.Err != nil {
			report.Failed++
			continue
		}
		if l.Result.HumanWon {
			report.HumanWins++
		} else {
			report.BotSweeps++
		}
		report.WinsByColor[l.WinnerColor.String()]++
		turns = append(turns, float64(l.Result.Turns))
		moves = append(moves, float64(l.Moves))
	}
	switch len(turns) {
	case 0:
	case 1:
		report.MeanTurns, report.MeanMoves = turns[0], moves[0]
	default:
		report.MeanTurns, report.StdDevTurns = stat.MeanStdDev(turns, nil)
		report.MeanMoves = stat.Mean(moves, nil)
	}
	return report
}
