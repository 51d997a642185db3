package ludo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMatchOver     = errors.New("match is over")
	ErrExitRequested = errors.New("exit requested")
	ErrInvalidBots   = errors.New("invalid bot count")
	ErrInvalidSetup  = errors.New("invalid match setup")
	ErrNoSaveTarget  = errors.New("no save target configured")

	errStuckToken = errors.New("token cannot move with this roll")
	errOutOfRange = errors.New("token index out of range")
)

// Input is the blocking collaborator that speaks for the human player.
type Input interface {
	// RollDice waits for the player to roll and returns the value.
	RollDice(ctx context.Context, p Player) (Dice, error)
	// ChooseToken asks which token to move. Invalid answers are rejected
	// and asked again.
	ChooseToken(ctx context.Context, p Player, d Dice, legal [TokensPerPlayer]Legality, tokens [TokensPerPlayer]Token) (int, error)
	// ChooseSymbol asks for a confrontation symbol.
	ChooseSymbol(ctx context.Context, p Player, defender Token) (Symbol, error)
	// Reject tells the player why the last answer was refused.
	Reject(p Player, reason error)
	// Pause offers the pause menu.
	Pause(ctx context.Context) (PauseChoice, error)
}

// Renderer receives the full state after each change, plus the event that
// caused it.
type Renderer interface {
	Render(Snapshot)
	Notify(Event)
}

// Saver persists snapshots.
type Saver interface {
	Save(Snapshot) error
}

// PauseChoice is the answer to the pause menu.
type PauseChoice uint8

const (
	PauseResume PauseChoice = iota
	PauseSave
	PauseSaveAndExit
	PauseExit
)

func (c PauseChoice) String() string {
	switch c {
	case PauseResume:
		return "resume"
	case PauseSave:
		return "save"
	case PauseSaveAndExit:
		return "save and exit"
	case PauseExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Options wires the collaborators of a match. Zero fields get defaults.
type Options struct {
	Logger *slog.Logger
	// Rand seeds dice, symbols and seating when the specific sources are nil.
	Rand     *Roller
	Dice     DiceSource
	Symbols  SymbolSource
	Renderer Renderer
	Saver    Saver
	// Colors fixes the seating instead of drawing it: Colors[0] is the
	// human's color, the rest go to the bots in order.
	Colors []Color
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Rand == nil {
		o.Rand = NewRoller(time.Now().UnixNano())
	}
	if o.Dice == nil {
		o.Dice = o.Rand
	}
	if o.Symbols == nil {
		o.Symbols = NewRandomSymbols(o.Rand)
	}
	if o.Renderer == nil {
		o.Renderer = Renderers(nil)
	}
	return o
}

// Result describes how a match ended.
type Result struct {
	// Winner is the slot whose finish ended the match.
	Winner      int   `json:"winner"`
	HumanWon    bool  `json:"humanWon"`
	FinishOrder []int `json:"finishOrder"`
	Turns       int   `json:"turns"`
}

// Match owns the complete state of one game and runs the turn state
// machine. It is driven from a single goroutine; only RequestPause may be
// called concurrently.
type Match struct {
	ID          uuid.UUID
	players     []Player
	strategies  map[int]Strategy
	board       *Board
	state       TurnState
	finishOrder []int
	lastDice    int
	result      *Result

	input  Input
	opts   Options
	log    *slog.Logger
	paused atomic.Bool
}

// NewMatch seats the human and one bot per strategy tag. Colors are drawn
// at random without repeats unless opts.Colors fixes them.
func NewMatch(input Input, bots []string, opts Options) (*Match, error) {
	if len(bots) < 1 || len(bots) > MaxBots {
		return nil, fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidBots, len(bots), MaxBots)
	}
	opts = opts.withDefaults()

	colors, err := seatColors(opts, len(bots)+1)
	if err != nil {
		return nil, err
	}
	players := []Player{NewHuman(colors[0])}
	for i, tag := range bots {
		players = append(players, NewBot(i+1, colors[i+1], normalizeTag(tag)))
	}

	m, err := newMatch(uuid.New(), input, players, NewBoard(), NewTurnState(), opts)
	if err != nil {
		return nil, err
	}
	m.log.Info("match created", "players", len(players), "human_color", colors[0].String())
	return m, nil
}

func seatColors(opts Options, n int) ([]Color, error) {
	if opts.Colors == nil {
		var colors []Color
		for _, i := range opts.Rand.Perm(NumColors)[:n] {
			colors = append(colors, Color(i))
		}
		return colors, nil
	}
	if len(opts.Colors) != n {
		return nil, fmt.Errorf("%w: %d colors for %d players", ErrInvalidSetup, len(opts.Colors), n)
	}
	seen := map[Color]bool{}
	for _, c := range opts.Colors {
		if !c.Valid() || seen[c] {
			return nil, fmt.Errorf("%w: color %v repeated or invalid", ErrInvalidSetup, c)
		}
		seen[c] = true
	}
	return opts.Colors, nil
}

func newMatch(id uuid.UUID, input Input, players []Player, board *Board, state TurnState, opts Options) (*Match, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: no input", ErrInvalidSetup)
	}
	m := &Match{
		ID:         id,
		players:    players,
		strategies: map[int]Strategy{},
		board:      board,
		state:      state,
		input:      input,
		opts:       opts,
		log:        opts.Logger.With("match_id", id.String()),
	}
	for _, p := range players {
		if !p.Computer {
			continue
		}
		s, err := NewStrategy(p.Strategy)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", p.Slot, err)
		}
		m.strategies[p.Slot] = s
	}
	return m, nil
}

// Players returns the seated players in turn order.
func (m *Match) Players() []Player {
	return append([]Player(nil), m.players...)
}

func (m *Match) State() TurnState {
	return m.state
}

func (m *Match) Board() *Board {
	return m.board
}

// Over reports whether the match has reached MatchOver.
func (m *Match) Over() bool {
	return m.result != nil
}

// Result returns the outcome once the match is over.
func (m *Match) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// RequestPause asks for the pause menu at the next safe point.
func (m *Match) RequestPause() {
	m.paused.Store(true)
}

// IsPlayerFinished reports whether all four tokens of the slot's player
// are on their finish cell.
func (m *Match) IsPlayerFinished(slot int) bool {
	return m.board.PlayerFinished(m.players[slot].Color)
}

// Run plays turns until the match ends, the context is cancelled or the
// player exits from the pause menu.
func (m *Match) Run(ctx context.Context) (Result, error) {
	m.render()
	m.emit(Event{Kind: EventMatchStarted, Slot: m.state.ActiveSlot, Color: m.active().Color})
	for !m.Over() {
		if err := m.PlayTurn(ctx); err != nil {
			return Result{}, err
		}
	}
	return *m.result, nil
}

// PlayTurn runs one visit of the active player: up to three rolls while
// sixes keep coming.
func (m *Match) PlayTurn(ctx context.Context) error {
	if m.Over() {
		return ErrMatchOver
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p := m.active()
	log := m.log.With("slot", p.Slot, "color", p.Color.String())

	if m.board.PlayerFinished(p.Color) {
		log.Debug("finished player passes")
		m.emit(Event{Kind: EventTurnSkipped, Slot: p.Slot, Color: p.Color})
		m.state = m.state.EndTurn(len(m.players))
		return nil
	}

	for {
		if err := m.safePoint(ctx); err != nil {
			return err
		}
		d, err := m.roll(ctx, p)
		if err != nil {
			return fmt.Errorf("roll dice: %w", err)
		}
		m.state = m.state.Rolled()
		m.lastDice = d.Value()
		log.Debug("dice rolled", "dice", d.Value(), "roll", m.state.RollsThisTurn)
		m.emit(Event{Kind: EventDiceRolled, Slot: p.Slot, Color: p.Color, Dice: d.Value()})

		tokens := m.board.Tokens(p.Color)
		legal := Legalities(tokens, d)
		if AllStuck(legal) {
			m.emit(Event{Kind: EventNoMove, Slot: p.Slot, Color: p.Color, Dice: d.Value()})
		} else {
			idx, err := m.choose(ctx, p, d, legal, tokens)
			if err != nil {
				return err
			}
			if err := m.moveToken(ctx, p, idx, d); err != nil {
				return err
			}
			m.players[p.Slot].MoveCount++
			m.state = m.state.Moved()
			m.render()
			if m.checkWins(p) {
				return nil
			}
		}

		if !m.state.RollAgain(d) || m.board.PlayerFinished(p.Color) {
			break
		}
		m.state = m.state.Next(d, len(m.players))
	}

	m.state = m.state.EndTurn(len(m.players))
	m.render()
	return nil
}

func (m *Match) active() Player {
	return m.players[m.state.ActiveSlot]
}

func (m *Match) roll(ctx context.Context, p Player) (Dice, error) {
	if p.Computer {
		return m.opts.Dice.Roll(), nil
	}
	return m.input.RollDice(ctx, p)
}

func (m *Match) choose(ctx context.Context, p Player, d Dice, legal [TokensPerPlayer]Legality, tokens [TokensPerPlayer]Token) (int, error) {
	if p.Computer {
		idx, err := m.strategies[p.Slot].ChooseToken(legal, tokens)
		if err != nil {
			return 0, fmt.Errorf("slot %d strategy: %w", p.Slot, err)
		}
		if idx < 0 || idx >= TokensPerPlayer || legal[idx] == Stuck {
			return 0, fmt.Errorf("slot %d strategy picked token %d: %w", p.Slot, idx, errStuckToken)
		}
		return idx, nil
	}
	for {
		idx, err := m.input.ChooseToken(ctx, p, d, legal, tokens)
		if err != nil {
			return 0, fmt.Errorf("choose token: %w", err)
		}
		switch {
		case idx < 0 || idx >= TokensPerPlayer:
			m.input.Reject(p, errOutOfRange)
		case legal[idx] == Stuck:
			m.input.Reject(p, errStuckToken)
		default:
			return idx, nil
		}
	}
}

// moveToken applies the chosen move. When the destination is a ring cell
// held by other colors the mover confronts each of them in turn; losing
// sends the mover home and ends the move.
func (m *Match) moveToken(ctx context.Context, p Player, idx int, d Dice) error {
	t := m.board.token(p.Color, idx)
	plan := PlanMove(*t, d)

	if plan.Contested() {
		for _, opp := range m.board.Opponents(plan.To, p.Color) {
			c, err := Confront(ctx, *t, *opp, m.symbolPicker(p, *opp), m.opts.Symbols)
			if err != nil {
				return err
			}
			m.emit(Event{Kind: EventConfrontation, Slot: p.Slot, Color: p.Color, Token: idx, Dice: d.Value(),
				Payload: ConfrontationPayload{Confrontation: c}})
			m.log.Debug("confrontation", "slot", p.Slot, "defender", opp.Label(), "mover_won", c.MoverWon, "draws", c.Draws())

			if !c.MoverWon {
				loser := *t
				t.sendHome()
				m.emit(Event{Kind: EventTokenCaptured, Slot: p.Slot, Color: p.Color, Token: idx,
					Payload: TokenCapturedPayload{Captured: loser, By: *opp}})
				return nil
			}
			captured := *opp
			opp.sendHome()
			m.emit(Event{Kind: EventTokenCaptured, Slot: m.slotOf(captured.Color), Color: captured.Color, Token: captured.Index,
				Payload: TokenCapturedPayload{Captured: captured, By: *t}})
		}
	}

	plan.apply(t)
	m.emit(Event{Kind: EventTokenMoved, Slot: p.Slot, Color: p.Color, Token: idx, Dice: d.Value(),
		Payload: TokenMovedPayload{Plan: plan}})
	return nil
}

func (m *Match) symbolPicker(p Player, defender Token) func(context.Context) (Symbol, error) {
	if p.Computer {
		return func(context.Context) (Symbol, error) { return m.opts.Symbols.Symbol(), nil }
	}
	return func(ctx context.Context) (Symbol, error) {
		return m.input.ChooseSymbol(ctx, p, defender)
	}
}

func (m *Match) slotOf(c Color) int {
	for _, p := range m.players {
		if p.Color == c {
			return p.Slot
		}
	}
	return -1
}

// checkWins records a newly finished player and decides whether the match
// is over: it ends when the human finishes, or when every bot has.
func (m *Match) checkWins(p Player) bool {
	if !m.board.PlayerFinished(p.Color) || m.hasFinished(p.Slot) {
		return false
	}
	m.finishOrder = append(m.finishOrder, p.Slot)
	m.log.Info("player finished", "slot", p.Slot, "color", p.Color.String(), "place", len(m.finishOrder))
	m.emit(Event{Kind: EventPlayerFinished, Slot: p.Slot, Color: p.Color})

	humanWon := !p.Computer
	if !humanWon && !m.allBotsFinished() {
		return false
	}
	m.result = &Result{
		Winner:      p.Slot,
		HumanWon:    humanWon,
		FinishOrder: append([]int(nil), m.finishOrder...),
		Turns:       m.state.TurnCounter + 1,
	}
	m.state = m.state.Finish()
	m.log.Info("match over", "winner", p.Slot, "human_won", humanWon)
	m.render()
	m.emit(Event{Kind: EventMatchOver, Slot: p.Slot, Color: p.Color, Payload: MatchOverPayload{Result: *m.result}})
	return true
}

func (m *Match) hasFinished(slot int) bool {
	for _, s := range m.finishOrder {
		if s == slot {
			return true
		}
	}
	return false
}

func (m *Match) allBotsFinished() bool {
	for _, p := range m.players {
		if p.Computer && !m.board.PlayerFinished(p.Color) {
			return false
		}
	}
	return true
}

// safePoint serves a pending pause request before the next roll.
func (m *Match) safePoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.paused.Swap(false) {
		return nil
	}
	for {
		choice, err := m.input.Pause(ctx)
		if err != nil {
			return fmt.Errorf("pause menu: %w", err)
		}
		m.log.Info("pause menu", "choice", choice.String())
		switch choice {
		case PauseResume:
			return nil
		case PauseSave:
			if err := m.Save(); err != nil {
				return err
			}
			return nil
		case PauseSaveAndExit:
			if err := m.Save(); err != nil {
				return err
			}
			return ErrExitRequested
		case PauseExit:
			return ErrExitRequested
		}
	}
}

// Save hands the current snapshot to the configured saver.
func (m *Match) Save() error {
	if m.opts.Saver == nil {
		return ErrNoSaveTarget
	}
	if err := m.opts.Saver.Save(m.Snapshot()); err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	m.emit(Event{Kind: EventSaved, Slot: m.state.ActiveSlot, Color: m.active().Color})
	return nil
}

func (m *Match) render() {
	m.opts.Renderer.Render(m.Snapshot())
}

func (m *Match) emit(e Event) {
	m.opts.Renderer.Notify(e)
}

// Renderers fans snapshots and events out to several renderers.
type Renderers []Renderer

func (rs Renderers) Render(s Snapshot) {
	for _, r := range rs {
		r.Render(s)
	}
}

func (rs Renderers) Notify(e Event) {
	for _, r := range rs {
		r.Notify(e)
	}
}
