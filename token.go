package ludo

import "fmt"

// TokensPerPlayer is the number of tokens each color owns.
const TokensPerPlayer = 4

// Token is one playing piece.
//
// Position 0 means the token is still at home. On the shared ring Position
// is the absolute track cell 1-52; once InSafeZone is set it is the cell
// 1-6 of the color's private lane instead. Progress counts the steps taken
// since leaving home and only drops back to 0 when the token is captured.
type Token struct {
	Color      Color `json:"color"`
	Index      int   `json:"index"`
	Position   int   `json:"position"`
	Progress   int   `json:"progress"`
	InSafeZone bool  `json:"inSafeZone"`
}

func NewToken(c Color, index int) Token {
	return Token{Color: c, Index: index}
}

func (t Token) AtHome() bool {
	return t.Position == 0 && !t.InSafeZone
}

// OnTrack reports whether the token sits on the shared ring where it can
// be captured.
func (t Token) OnTrack() bool {
	return t.Position != 0 && !t.InSafeZone
}

func (t Token) Finished() bool {
	return t.InSafeZone && t.Position == FinishCell
}

// Cell returns the grid cell the token is drawn on.
func (t Token) Cell() Coord {
	switch {
	case t.InSafeZone:
		return LaneCoord(t.Color, t.Position)
	case t.Position == 0:
		return YardCoord(t.Color, t.Index)
	}
	return TrackCoord(t.Position)
}

// Label is the short name used on the board, e.g. "R2".
func (t Token) Label() string {
	return fmt.Sprintf("%c%d", t.Color.Letter(), t.Index+1)
}

func (t *Token) sendHome() {
	t.Position = 0
	t.Progress = 0
	t.InSafeZone = false
}
