package ludo

import (
	"context"
	"fmt"
)

// Symbol is a rock-paper-scissors hand.
type Symbol uint8

const (
	Paper Symbol = iota
	Scissors
	Rock
)

// NumSymbols is the number of distinct symbols.
const NumSymbols = 3

func (s Symbol) String() string {
	switch s {
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	case Rock:
		return "rock"
	default:
		return fmt.Sprintf("symbol(%d)", uint8(s))
	}
}

func (s Symbol) Valid() bool {
	return s < NumSymbols
}

// beats returns the symbol s defeats.
func (s Symbol) beats() Symbol {
	switch s {
	case Scissors:
		return Paper
	case Rock:
		return Scissors
	default:
		return Rock
	}
}

// Outcome of a single confrontation round.
type Outcome uint8

const (
	Draw Outcome = iota
	FirstWins
	SecondWins
)

func (o Outcome) String() string {
	switch o {
	case FirstWins:
		return "first"
	case SecondWins:
		return "second"
	default:
		return "draw"
	}
}

// Resolve compares two symbols: Scissors beats Paper, Rock beats Scissors,
// Paper beats Rock.
func Resolve(a, b Symbol) Outcome {
	switch {
	case a == b:
		return Draw
	case a.beats() == b:
		return FirstWins
	default:
		return SecondWins
	}
}

// SymbolSource picks symbols without consulting a player.
type SymbolSource interface {
	Symbol() Symbol
}

type intner interface {
	Intn(n int) int
}

// RandomSymbols draws uniformly from the three symbols.
type RandomSymbols struct {
	rng intner
}

func NewRandomSymbols(rng intner) *RandomSymbols {
	return &RandomSymbols{rng: rng}
}

func (r *RandomSymbols) Symbol() Symbol {
	return Symbol(r.rng.Intn(NumSymbols))
}

// FixedSymbols replays a scripted sequence, cycling when exhausted.
type FixedSymbols struct {
	symbols []Symbol
	next    int
}

func NewFixedSymbols(symbols ...Symbol) *FixedSymbols {
	return &FixedSymbols{symbols: symbols}
}

func (f *FixedSymbols) Symbol() Symbol {
	if len(f.symbols) == 0 {
		return Paper
	}
	s := f.symbols[f.next%len(f.symbols)]
	f.next++
	return s
}

// Round is one exchange of symbols.
type Round struct {
	Mover    Symbol `json:"mover"`
	Defender Symbol `json:"defender"`
}

// Confrontation is the record of a settled contest over a cell.
type Confrontation struct {
	Mover    Token   `json:"mover"`
	Defender Token   `json:"defender"`
	Rounds   []Round `json:"rounds"`
	MoverWon bool    `json:"moverWon"`
}

// Draws is the number of rounds that had to be replayed.
func (c Confrontation) Draws() int {
	return len(c.Rounds) - 1
}

// Confront plays rounds until one side wins. The mover's symbol comes from
// pick, the defender's from an independent source. Draws change nothing
// and are simply replayed.
func Confront(ctx context.Context, mover, defender Token, pick func(context.Context) (Symbol, error), other SymbolSource) (Confrontation, error) {
	c := Confrontation{Mover: mover, Defender: defender}
	for {
		if err := ctx.Err(); err != nil {
			return c, err
		}
		m, err := pick(ctx)
		if err != nil {
			return c, fmt.Errorf("choose symbol: %w", err)
		}
		if !m.Valid() {
			return c, fmt.Errorf("choose symbol: %v is not a symbol", m)
		}
		d := other.Symbol()
		c.Rounds = append(c.Rounds, Round{Mover: m, Defender: d})
		switch Resolve(m, d) {
		case FirstWins:
			c.MoverWon = true
			return c, nil
		case SecondWins:
			return c, nil
		}
	}
}
