package ludo

import "context"

// AutoInput plays the human slot with a bot strategy. It never blocks and
// never needs rejecting.
type AutoInput struct {
	Strategy Strategy
	Dice     DiceSource
	Symbols  SymbolSource
	// OnPause answers the pause menu; nil resumes.
	OnPause func() PauseChoice
}

var _ Input = (*AutoInput)(nil)

// NewAutoInput drives the human slot with the reference strategy.
func NewAutoInput(r *Roller) *AutoInput {
	return &AutoInput{Strategy: Jorgen{}, Dice: r, Symbols: NewRandomSymbols(r)}
}

func (a *AutoInput) RollDice(ctx context.Context, _ Player) (Dice, error) {
	if err := ctx.Err(); err != nil {
		return Dice{}, err
	}
	return a.Dice.Roll(), nil
}

func (a *AutoInput) ChooseToken(_ context.Context, _ Player, _ Dice, legal [TokensPerPlayer]Legality, tokens [TokensPerPlayer]Token) (int, error) {
	return a.Strategy.ChooseToken(legal, tokens)
}

func (a *AutoInput) ChooseSymbol(context.Context, Player, Token) (Symbol, error) {
	return a.Symbols.Symbol(), nil
}

func (a *AutoInput) Reject(Player, error) {}

func (a *AutoInput) Pause(context.Context) (PauseChoice, error) {
	if a.OnPause == nil {
		return PauseResume, nil
	}
	return a.OnPause(), nil
}
