package ludo

// Board is the authoritative record of every token, keyed by color.
type Board struct {
	tokens [NumColors][TokensPerPlayer]Token
}

// NewBoard returns a board with all sixteen tokens at home.
func NewBoard() *Board {
	b := &Board{}
	for _, c := range Colors {
		for i := range b.tokens[c] {
			b.tokens[c][i] = NewToken(c, i)
		}
	}
	return b
}

// Tokens returns a copy of the color's four tokens.
func (b *Board) Tokens(c Color) [TokensPerPlayer]Token {
	return b.tokens[c]
}

func (b *Board) token(c Color, index int) *Token {
	return &b.tokens[c][index]
}

// Opponents returns the tokens of other colors that can be captured on the
// shared track cell, in color then index order.
func (b *Board) Opponents(cell int, mover Color) []*Token {
	var out []*Token
	for _, c := range Colors {
		if c == mover {
			continue
		}
		for i := range b.tokens[c] {
			t := &b.tokens[c][i]
			if t.OnTrack() && t.Position == cell {
				out = append(out, t)
			}
		}
	}
	return out
}

// PlayerFinished reports whether all four of the color's tokens have
// reached the last lane cell.
func (b *Board) PlayerFinished(c Color) bool {
	return allFinished(b.tokens[c])
}
