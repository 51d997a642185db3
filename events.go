package ludo

// EventKind identifies what happened on the board.
type EventKind string

const (
	EventMatchStarted   EventKind = "match_started"
	EventDiceRolled     EventKind = "dice_rolled"
	EventNoMove         EventKind = "no_move"
	EventTokenMoved     EventKind = "token_moved"
	EventConfrontation  EventKind = "confrontation"
	EventTokenCaptured  EventKind = "token_captured"
	EventTurnSkipped    EventKind = "turn_skipped"
	EventPlayerFinished EventKind = "player_finished"
	EventMatchOver      EventKind = "match_over"
	EventSaved          EventKind = "saved"
)

// Event is emitted to the renderer as the match progresses. Payload is
// one of the *Payload types below, or nil.
type Event struct {
	Kind    EventKind `json:"kind"`
	Slot    int       `json:"slot"`
	Color   Color     `json:"color"`
	Token   int       `json:"token"`
	Dice    int       `json:"dice,omitempty"`
	Payload any       `json:"payload,omitempty"`
}

type TokenMovedPayload struct {
	Plan Plan `json:"plan"`
}

type TokenCapturedPayload struct {
	Captured Token `json:"captured"`
	By       Token `json:"by"`
}

type ConfrontationPayload struct {
	Confrontation Confrontation `json:"confrontation"`
}

type MatchOverPayload struct {
	Result Result `json:"result"`
}
