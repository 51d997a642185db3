package ludo

// Phase is where the turn state machine currently stands.
type Phase string

const (
	PhaseAwaitingRoll   Phase = "awaiting_roll"
	PhaseTokenSelection Phase = "token_selection"
	PhaseMoveApplied    Phase = "move_applied"
	PhaseTurnComplete   Phase = "turn_complete"
	PhaseMatchOver      Phase = "match_over"
)

// MaxRollsPerTurn caps the extra rolls granted for sixes.
const MaxRollsPerTurn = 3

// TurnState holds the turn counters. Transitions return a new value.
type TurnState struct {
	ActiveSlot    int   `json:"activeSlot"`
	TurnCounter   int   `json:"turnCounter"`
	RollsThisTurn int   `json:"rollsThisTurn"`
	Phase         Phase `json:"phase"`
}

// NewTurnState starts the match on the human's slot.
func NewTurnState() TurnState {
	return TurnState{ActiveSlot: HumanSlot, Phase: PhaseAwaitingRoll}
}

// Rolled records a roll for the active player.
func (s TurnState) Rolled() TurnState {
	s.RollsThisTurn++
	s.Phase = PhaseTokenSelection
	return s
}

// Moved marks the chosen move as applied.
func (s TurnState) Moved() TurnState {
	s.Phase = PhaseMoveApplied
	return s
}

// RollAgain reports whether d earns the active player another roll.
func (s TurnState) RollAgain(d Dice) bool {
	return d.IsSix() && s.RollsThisTurn < MaxRollsPerTurn
}

// Next follows a roll with either another roll for the same player or the
// end of the turn.
func (s TurnState) Next(d Dice, players int) TurnState {
	if s.RollAgain(d) {
		s.Phase = PhaseAwaitingRoll
		return s
	}
	return s.EndTurn(players)
}

// EndTurn hands the dice to the next slot in round-robin order.
func (s TurnState) EndTurn(players int) TurnState {
	s.TurnCounter++
	s.ActiveSlot = s.TurnCounter % players
	s.RollsThisTurn = 0
	s.Phase = PhaseAwaitingRoll
	return s
}

// Finish moves the state machine into its terminal phase.
func (s TurnState) Finish() TurnState {
	s.Phase = PhaseMatchOver
	return s
}
