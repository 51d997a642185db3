package ludo

import "fmt"

// Color identifies a player and the four tokens it owns.
type Color uint8

const (
	Red Color = iota
	Green
	Yellow
	Blue
)

// NumColors is the number of colors on the board.
const NumColors = 4

// Colors lists every color in turn order around the board.
var Colors = [NumColors]Color{Red, Green, Yellow, Blue}

type colorInfo struct {
	name   string
	letter byte
	entry  int      // shared track cell a token lands on when leaving home
	yard   [4]Coord // where the four home tokens are drawn
	lane   Coord    // safe lane cell 1
	step   [2]int   // row/col step from one lane cell to the next
}

var colorTable = [NumColors]colorInfo{
	Red: {
		name:   "red",
		letter: 'R',
		entry:  1,
		yard:   [4]Coord{{1, 1}, {1, 4}, {4, 1}, {4, 4}},
		lane:   Coord{7, 1},
		step:   [2]int{0, 1},
	},
	Green: {
		name:   "green",
		letter: 'G',
		entry:  14,
		yard:   [4]Coord{{1, 10}, {1, 13}, {4, 10}, {4, 13}},
		lane:   Coord{1, 7},
		step:   [2]int{1, 0},
	},
	Yellow: {
		name:   "yellow",
		letter: 'Y',
		entry:  27,
		yard:   [4]Coord{{10, 10}, {10, 13}, {13, 10}, {13, 13}},
		lane:   Coord{7, 13},
		step:   [2]int{0, -1},
	},
	Blue: {
		name:   "blue",
		letter: 'B',
		entry:  40,
		yard:   [4]Coord{{10, 1}, {10, 4}, {13, 1}, {13, 4}},
		lane:   Coord{13, 7},
		step:   [2]int{-1, 0},
	},
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorTable[c].name
}

// Letter returns the single character used to draw the color's tokens.
func (c Color) Letter() byte {
	if !c.Valid() {
		return '?'
	}
	return colorTable[c].letter
}

// EntryCell returns the shared track cell the color's tokens enter on.
func (c Color) EntryCell() int {
	return colorTable[c].entry
}

func (c Color) Valid() bool {
	return c < NumColors
}

// ParseColor maps a color name back to its Color.
func ParseColor(s string) (Color, error) {
	for _, c := range Colors {
		if colorTable[c].name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte(colorTable[c].name), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
