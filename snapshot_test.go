package ludo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSnapshot() Snapshot {
	s := Snapshot{
		MatchID: uuid.New(),
		Players: []Player{NewHuman(Yellow), NewBot(1, Red, StrategyJorgen), NewBot(2, Blue, StrategyJorgen)},
		Turn:    TurnState{ActiveSlot: 2, TurnCounter: 17, Phase: PhaseAwaitingRoll},
	}
	b := NewBoard()
	for _, c := range Colors {
		s.Tokens[c] = b.Tokens(c)
	}
	s.Tokens[Yellow][1] = Token{Color: Yellow, Index: 1, Position: 33, Progress: 7}
	s.Tokens[Red][3] = Token{Color: Red, Index: 3, Position: 2, Progress: 53, InSafeZone: true}
	return s
}

func finishTokens(s *Snapshot, c Color) {
	for i := range s.Tokens[c] {
		s.Tokens[c][i] = Token{Color: c, Index: i, Position: FinishCell, Progress: laneThreshold + FinishCell, InSafeZone: true}
	}
}

func TestSnapshot_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
		ok     bool
	}{
		{name: "valid", mutate: func(*Snapshot) {}, ok: true},
		{name: "one player", mutate: func(s *Snapshot) { s.Players = s.Players[:1] }},
		{name: "slot mismatch", mutate: func(s *Snapshot) { s.Players[1].Slot = 2 }},
		{name: "repeated color", mutate: func(s *Snapshot) { s.Players[2].Color = Red }},
		{name: "human marked computer", mutate: func(s *Snapshot) { s.Players[0].Computer = true }},
		{name: "lane cell out of range", mutate: func(s *Snapshot) { s.Tokens[Red][3].Position = 7 }},
		{name: "track cell out of range", mutate: func(s *Snapshot) { s.Tokens[Yellow][1].Position = 53 }},
		{name: "home with progress", mutate: func(s *Snapshot) { s.Tokens[Green][0].Progress = 4 }},
		{name: "token stored under wrong color", mutate: func(s *Snapshot) { s.Tokens[Green][0].Color = Blue }},
		{name: "active slot out of range", mutate: func(s *Snapshot) { s.Turn.ActiveSlot = 3 }},
		{name: "human already finished", mutate: func(s *Snapshot) { finishTokens(s, Yellow) }},
		{name: "every bot already finished", mutate: func(s *Snapshot) {
			finishTokens(s, Red)
			finishTokens(s, Blue)
		}},
		{name: "one bot finished", mutate: func(s *Snapshot) { finishTokens(s, Blue) }, ok: true},
		{name: "unseated color on the ring", mutate: func(s *Snapshot) {
			s.Tokens[Green][0] = Token{Color: Green, Index: 0, Position: 20, Progress: 7}
		}},
		{name: "ring cell does not match progress", mutate: func(s *Snapshot) { s.Tokens[Yellow][1].Progress = 8 }},
		{name: "ring token without progress", mutate: func(s *Snapshot) {
			s.Tokens[Red][0] = Token{Color: Red, Index: 0, Position: 10}
		}},
		{name: "ring progress past the lane turn", mutate: func(s *Snapshot) {
			s.Tokens[Red][0] = Token{Color: Red, Index: 0, Position: 1, Progress: 53}
		}},
		{name: "lane cell does not match progress", mutate: func(s *Snapshot) { s.Tokens[Red][3].Progress = 52 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSnapshot()
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestSnapshot_Player(t *testing.T) {
	s := validSnapshot()
	p, ok := s.Player(Blue)
	require.True(t, ok)
	assert.Equal(t, 2, p.Slot)
	_, ok = s.Player(Green)
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	s := validSnapshot()
	s.Turn.RollsThisTurn = 2
	s.Turn.Phase = PhaseMoveApplied
	for i := range s.Tokens[Red] {
		s.Tokens[Red][i] = Token{Color: Red, Index: i, Position: FinishCell, Progress: 57, InSafeZone: true}
	}

	m, err := Restore(s, &scriptInput{}, Options{Rand: NewRoller(1)})
	require.NoError(t, err)

	assert.Equal(t, s.MatchID, m.ID)
	assert.Equal(t, s.Players, m.Players())
	assert.Equal(t, TurnState{ActiveSlot: 2, TurnCounter: 17, Phase: PhaseAwaitingRoll}, m.State())
	assert.Equal(t, s.Tokens[Yellow], m.Board().Tokens(Yellow))
	assert.True(t, m.IsPlayerFinished(1))
	assert.Equal(t, []int{1}, m.Snapshot().FinishOrder)

	_, err = Restore(Snapshot{}, &scriptInput{}, Options{})
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestRestore_ContinuesPlay(t *testing.T) {
	src, _ := newTestMatch(t, &scriptInput{rolls: []int{6, 4}, choices: []int{1, 1}}, []Color{Red, Green}, Options{})
	require.NoError(t, src.PlayTurn(context.Background()))
	snap := src.Snapshot()

	in := &scriptInput{}
	m, err := Restore(snap, in, Options{Dice: NewFixedDice(6, 3), Rand: NewRoller(2)})
	require.NoError(t, err)
	require.NoError(t, m.PlayTurn(context.Background()))

	assert.Equal(t, 5, m.Board().Tokens(Red)[1].Position)
	assert.Equal(t, Green.EntryCell()+3, m.Board().Tokens(Green)[0].Position)
	assert.Equal(t, HumanSlot, m.State().ActiveSlot)
	assert.Equal(t, 2, m.State().TurnCounter)
}
