package ludo

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is a flat copy of everything a match needs to be drawn or
// resumed. Tokens is indexed by Color.
type Snapshot struct {
	MatchID     uuid.UUID                         `json:"matchId"`
	Players     []Player                          `json:"players"`
	Tokens      [NumColors][TokensPerPlayer]Token `json:"tokens"`
	Turn        TurnState                         `json:"turn"`
	Dice        int                               `json:"dice,omitempty"`
	FinishOrder []int                             `json:"finishOrder,omitempty"`
	Result      *Result                           `json:"result,omitempty"`
}

// Snapshot copies the current state.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		MatchID:     m.ID,
		Players:     m.Players(),
		Turn:        m.state,
		Dice:        m.lastDice,
		FinishOrder: append([]int(nil), m.finishOrder...),
	}
	for _, c := range Colors {
		s.Tokens[c] = m.board.Tokens(c)
	}
	if m.result != nil {
		r := *m.result
		s.Result = &r
	}
	return s
}

// Player returns the player seated on the color, if any.
func (s Snapshot) Player(c Color) (Player, bool) {
	for _, p := range s.Players {
		if p.Color == c {
			return p, true
		}
	}
	return Player{}, false
}

// Validate checks the invariants a resumed match relies on.
func (s Snapshot) Validate() error {
	n := len(s.Players)
	if n < 2 || n > NumColors {
		return fmt.Errorf("%w: %d players", ErrInvalidSnapshot, n)
	}
	seen := map[Color]bool{}
	for i, p := range s.Players {
		if p.Slot != i {
			return fmt.Errorf("%w: player %d has slot %d", ErrInvalidSnapshot, i, p.Slot)
		}
		if !p.Color.Valid() || seen[p.Color] {
			return fmt.Errorf("%w: slot %d color %v", ErrInvalidSnapshot, i, p.Color)
		}
		seen[p.Color] = true
		if p.Computer != (i != HumanSlot) {
			return fmt.Errorf("%w: slot %d computer flag", ErrInvalidSnapshot, i)
		}
	}
	for _, c := range Colors {
		for i, t := range s.Tokens[c] {
			if err := validToken(t, c, i); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
			}
			if !seen[c] && !t.AtHome() {
				return fmt.Errorf("%w: token %s of an unseated color is in play", ErrInvalidSnapshot, t.Label())
			}
		}
	}
	// A decided match is never saved: the human finishing ends it, and so
	// does the last bot finishing.
	botsLeft := 0
	for _, p := range s.Players {
		done := allFinished(s.Tokens[p.Color])
		switch {
		case !p.Computer && done:
			return fmt.Errorf("%w: human player already finished", ErrInvalidSnapshot)
		case p.Computer && !done:
			botsLeft++
		}
	}
	if botsLeft == 0 {
		return fmt.Errorf("%w: every computer player already finished", ErrInvalidSnapshot)
	}
	if s.Turn.ActiveSlot < 0 || s.Turn.ActiveSlot >= n || s.Turn.TurnCounter < 0 {
		return fmt.Errorf("%w: turn %+v", ErrInvalidSnapshot, s.Turn)
	}
	return nil
}

func validToken(t Token, c Color, i int) error {
	switch {
	case t.Color != c || t.Index != i:
		return fmt.Errorf("token %s stored as %v/%d", t.Label(), c, i)
	case t.InSafeZone && (t.Position < 1 || t.Position > LaneLength):
		return fmt.Errorf("token %s lane cell %d", t.Label(), t.Position)
	case !t.InSafeZone && (t.Position < 0 || t.Position > TrackLength):
		return fmt.Errorf("token %s track cell %d", t.Label(), t.Position)
	case t.Position == 0 && t.Progress != 0:
		return fmt.Errorf("token %s at home with progress %d", t.Label(), t.Progress)
	case t.InSafeZone && t.Progress != laneThreshold+t.Position:
		return fmt.Errorf("token %s on lane cell %d with progress %d", t.Label(), t.Position, t.Progress)
	case t.OnTrack() && (t.Progress < 1 || t.Progress > laneThreshold):
		return fmt.Errorf("token %s on the ring with progress %d", t.Label(), t.Progress)
	case t.OnTrack() && t.Position != WrapTrack(c.EntryCell()+t.Progress-1):
		return fmt.Errorf("token %s on cell %d does not match progress %d", t.Label(), t.Position, t.Progress)
	}
	return nil
}

func allFinished(tokens [TokensPerPlayer]Token) bool {
	for _, t := range tokens {
		if !t.Finished() {
			return false
		}
	}
	return true
}

// Restore rebuilds a match from a snapshot taken between turns.
func Restore(s Snapshot, input Input, opts Options) (*Match, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	board := NewBoard()
	board.tokens = s.Tokens
	players := append([]Player(nil), s.Players...)
	state := s.Turn
	state.RollsThisTurn = 0
	state.Phase = PhaseAwaitingRoll

	id := s.MatchID
	if id == uuid.Nil {
		id = uuid.New()
	}
	m, err := newMatch(id, input, players, board, state, opts)
	if err != nil {
		return nil, err
	}
	// The save does not keep the finishing order; finished players are
	// listed in slot order.
	for _, p := range players {
		if board.PlayerFinished(p.Color) {
			m.finishOrder = append(m.finishOrder, p.Slot)
		}
	}
	m.log.Info("match restored", "turn", state.TurnCounter, "active_slot", state.ActiveSlot)
	return m, nil
}
