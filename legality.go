package ludo

// Legality classifies what a token can do with a dice value.
type Legality uint8

const (
	Stuck Legality = iota
	ExitHome
	Move
	// EnterSafeZone is a Move that crosses from the ring into the lane.
	EnterSafeZone
)

func (l Legality) String() string {
	switch l {
	case Stuck:
		return "stuck"
	case ExitHome:
		return "exit_home"
	case Move:
		return "move"
	case EnterSafeZone:
		return "enter_safe_zone"
	default:
		return "unknown"
	}
}

// Legal applies the move rules in precedence order: home tokens need a six,
// ring tokens always move, lane tokens may not overshoot the finish cell.
func Legal(d Dice, position int, inSafeZone bool) Legality {
	switch {
	case position == 0 && !inSafeZone:
		if d.IsSix() {
			return ExitHome
		}
		return Stuck
	case !inSafeZone:
		return Move
	case d.Value() > FinishCell-position:
		return Stuck
	default:
		return Move
	}
}

// Legality is Legal for the token's own state.
func (t Token) Legality(d Dice) Legality {
	return Legal(d, t.Position, t.InSafeZone)
}

// Legalities classifies all four tokens of a player.
func Legalities(tokens [TokensPerPlayer]Token, d Dice) [TokensPerPlayer]Legality {
	var out [TokensPerPlayer]Legality
	for i, t := range tokens {
		out[i] = t.Legality(d)
	}
	return out
}

// AllStuck reports whether none of the codes allows a move.
func AllStuck(legal [TokensPerPlayer]Legality) bool {
	for _, l := range legal {
		if l != Stuck {
			return false
		}
	}
	return true
}

// Plan is the outcome of moving one token by one dice value, before any
// confrontation is played.
type Plan struct {
	Kind     Legality `json:"kind"`
	From     int      `json:"from"`
	To       int      `json:"to"`
	Progress int      `json:"progress"`
	Lane     bool     `json:"lane"`
}

// PlanMove works out where t ends up with d. Kind is EnterSafeZone when
// the Position Model's transition test fires for a ring move.
func PlanMove(t Token, d Dice) Plan {
	p := Plan{Kind: t.Legality(d), From: t.Position, To: t.Position, Progress: t.Progress, Lane: t.InSafeZone}
	switch p.Kind {
	case ExitHome:
		p.To = t.Color.EntryCell()
		p.Progress = 1
	case Move:
		p.Progress = t.Progress + d.Value()
		switch {
		case t.InSafeZone:
			p.To = t.Position + d.Value()
		case EntersSafeZone(t.Progress, d):
			p.Kind = EnterSafeZone
			p.To = LanePosition(t.Progress, d)
			p.Lane = true
		default:
			p.To = WrapTrack(t.Position + d.Value())
		}
	}
	return p
}

// Contested reports whether the destination is a shared ring cell where a
// confrontation could happen.
func (p Plan) Contested() bool {
	return p.Kind != Stuck && !p.Lane
}

func (p Plan) apply(t *Token) {
	if p.Kind == Stuck {
		return
	}
	t.Position = p.To
	t.Progress = p.Progress
	t.InSafeZone = p.Lane
}
