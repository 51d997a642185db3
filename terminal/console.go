// Package terminal plays the human seat and draws the board on a single
// terminal session.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tkahng/ludo"
)

var ErrInputClosed = errors.New("input closed")

const clearScreen = "\x1b[H\x1b[2J"

// Console reads answers line by line from in and writes prompts and the
// board to out.
type Console struct {
	out      io.Writer
	dice     ludo.DiceSource
	color    bool
	clear    bool
	botDelay time.Duration

	lines chan string
	done  chan struct{}
	once  sync.Once
	last  ludo.Snapshot
}

var (
	_ ludo.Input    = (*Console)(nil)
	_ ludo.Renderer = (*Console)(nil)
)

type Option func(*Console)

// WithColor turns ANSI colors and screen clearing on or off.
func WithColor(on bool) Option {
	return func(c *Console) {
		c.color = on
		c.clear = on
	}
}

// WithBotDelay pauses after every computer move so it can be followed.
func WithBotDelay(d time.Duration) Option {
	return func(c *Console) { c.botDelay = d }
}

func New(in io.Reader, out io.Writer, dice ludo.DiceSource, opts ...Option) *Console {
	c := &Console{
		out:   out,
		dice:  dice,
		lines: make(chan string, 1),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLines(in)
	return c
}

func (c *Console) readLines(in io.Reader) {
	defer close(c.lines)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case c.lines <- strings.TrimSpace(sc.Text()):
		case <-c.done:
			return
		}
	}
}

// Close stops handing input lines to the match. A read already blocked on
// the underlying reader finishes on its own.
func (c *Console) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Console) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", ErrInputClosed
		}
		return line, nil
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) RollDice(ctx context.Context, p ludo.Player) (ludo.Dice, error) {
	c.printf("%s: press Enter to roll ", p.Name())
	if _, err := c.readLine(ctx); err != nil {
		return ludo.Dice{}, err
	}
	return c.dice.Roll(), nil
}

func (c *Console) ChooseToken(ctx context.Context, p ludo.Player, d ludo.Dice, legal [ludo.TokensPerPlayer]ludo.Legality, tokens [ludo.TokensPerPlayer]ludo.Token) (int, error) {
	c.printf("You rolled %d.\n", d.Value())
	for i, t := range tokens {
		plan := ludo.PlanMove(t, d)
		c.printf("  %d) %s  %-12s %s\n", i+1, t.Label(), describe(t), describePlan(plan))
	}
	c.printf("Move which token? ")
	line, err := c.readLine(ctx)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return -1, nil
	}
	return n - 1, nil
}

func describe(t ludo.Token) string {
	switch {
	case t.Finished():
		return "finished"
	case t.InSafeZone:
		return fmt.Sprintf("lane %d/%d", t.Position, ludo.LaneLength)
	case t.AtHome():
		return "home"
	}
	return fmt.Sprintf("cell %d", t.Position)
}

func describePlan(p ludo.Plan) string {
	switch p.Kind {
	case ludo.ExitHome:
		return fmt.Sprintf("-> leave home to cell %d", p.To)
	case ludo.EnterSafeZone:
		return fmt.Sprintf("-> enter lane %d", p.To)
	case ludo.Move:
		if p.Lane {
			return fmt.Sprintf("-> lane %d", p.To)
		}
		return fmt.Sprintf("-> cell %d", p.To)
	}
	return "(stuck)"
}

func (c *Console) ChooseSymbol(ctx context.Context, p ludo.Player, defender ludo.Token) (ludo.Symbol, error) {
	for {
		c.printf("Confrontation with %s! [p]aper, [s]cissors or [r]ock? ", defender.Label())
		line, err := c.readLine(ctx)
		if err != nil {
			return 0, err
		}
		if s, ok := parseSymbol(line); ok {
			return s, nil
		}
		c.printf("Please answer p, s or r.\n")
	}
}

func parseSymbol(s string) (ludo.Symbol, bool) {
	switch strings.ToLower(s) {
	case "p", "paper":
		return ludo.Paper, true
	case "s", "scissors":
		return ludo.Scissors, true
	case "r", "rock":
		return ludo.Rock, true
	}
	return 0, false
}

func (c *Console) Reject(_ ludo.Player, reason error) {
	c.printf("Not allowed: %v.\n", reason)
}

func (c *Console) Pause(ctx context.Context) (ludo.PauseChoice, error) {
	for {
		c.printf("\nPaused. 1) resume  2) save  3) save and exit  4) exit: ")
		line, err := c.readLine(ctx)
		if err != nil {
			return ludo.PauseResume, err
		}
		switch line {
		case "1", "":
			return ludo.PauseResume, nil
		case "2":
			return ludo.PauseSave, nil
		case "3":
			return ludo.PauseSaveAndExit, nil
		case "4":
			return ludo.PauseExit, nil
		}
	}
}

func (c *Console) Render(s ludo.Snapshot) {
	c.last = s
	if c.clear {
		c.printf("%s", clearScreen)
	}
	c.printf("%s", Draw(s, c.color))
}

func (c *Console) Notify(e ludo.Event) {
	p, _ := c.last.Player(e.Color)
	switch e.Kind {
	case ludo.EventDiceRolled:
		if p.Computer {
			c.printf("%s rolled %d\n", p.Name(), e.Dice)
		}
	case ludo.EventNoMove:
		c.printf("%s cannot move with %d\n", p.Name(), e.Dice)
	case ludo.EventTurnSkipped:
		c.printf("%s has finished and passes\n", p.Name())
	case ludo.EventConfrontation:
		payload := e.Payload.(ludo.ConfrontationPayload)
		cf := payload.Confrontation
		for _, r := range cf.Rounds {
			c.printf("  %s %v vs %s %v\n", cf.Mover.Label(), r.Mover, cf.Defender.Label(), r.Defender)
		}
	case ludo.EventTokenCaptured:
		payload := e.Payload.(ludo.TokenCapturedPayload)
		c.printf("%s sent %s home\n", payload.By.Label(), payload.Captured.Label())
	case ludo.EventTokenMoved:
		if p.Computer && c.botDelay > 0 {
			time.Sleep(c.botDelay)
		}
	case ludo.EventPlayerFinished:
		c.printf("%s has brought all tokens home!\n", p.Name())
	case ludo.EventMatchOver:
		payload := e.Payload.(ludo.MatchOverPayload)
		if payload.Result.HumanWon {
			c.printf("You win!\n")
		} else {
			c.printf("Every bot finished. Finish order:")
			for _, slot := range payload.Result.FinishOrder {
				c.printf(" %s", c.last.Players[slot].Name())
			}
			c.printf("\n")
		}
	case ludo.EventSaved:
		c.printf("Game saved.\n")
	}
}
