package ludo

// HumanSlot is the turn-order slot reserved for the human player.
const HumanSlot = 0

// MaxBots is the largest number of computer opponents.
const MaxBots = NumColors - 1

type Player struct {
	Slot      int    `json:"slot"`
	Color     Color  `json:"color"`
	Computer  bool   `json:"computer"`
	Strategy  string `json:"strategy,omitempty"`
	MoveCount int    `json:"moveCount"`
}

func (p Player) Name() string {
	if p.Computer {
		return p.Color.String() + " bot (" + p.Strategy + ")"
	}
	return p.Color.String() + " (you)"
}

// NewHuman seats the human player.
func NewHuman(c Color) Player {
	return Player{Slot: HumanSlot, Color: c}
}

// NewBot seats a computer player using the named strategy.
func NewBot(slot int, c Color, strategy string) Player {
	return Player{Slot: slot, Color: c, Computer: true, Strategy: strategy}
}
