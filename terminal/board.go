package terminal

import (
	"fmt"
	"strings"

	"github.com/tkahng/ludo"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
)

var ansiColors = [ludo.NumColors]string{
	ludo.Red:    "\x1b[31m",
	ludo.Green:  "\x1b[32m",
	ludo.Yellow: "\x1b[33m",
	ludo.Blue:   "\x1b[34m",
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellTrack
	cellEntry
	cellLane
	cellYard
	cellCenter
)

type gridCell struct {
	kind  cellKind
	color ludo.Color
}

// layout is the static board without tokens.
var layout = buildLayout()

func buildLayout() [ludo.BoardSize][ludo.BoardSize]gridCell {
	var g [ludo.BoardSize][ludo.BoardSize]gridCell
	for r := 6; r <= 8; r++ {
		for c := 6; c <= 8; c++ {
			g[r][c] = gridCell{kind: cellCenter}
		}
	}
	for cell := 1; cell <= ludo.TrackLength; cell++ {
		at := ludo.TrackCoord(cell)
		g[at.Row][at.Col] = gridCell{kind: cellTrack}
	}
	for _, c := range ludo.Colors {
		at := ludo.TrackCoord(c.EntryCell())
		g[at.Row][at.Col] = gridCell{kind: cellEntry, color: c}
		for n := 1; n <= ludo.LaneLength; n++ {
			at := ludo.LaneCoord(c, n)
			g[at.Row][at.Col] = gridCell{kind: cellLane, color: c}
		}
		for i := 0; i < ludo.TokensPerPlayer; i++ {
			at := ludo.YardCoord(c, i)
			g[at.Row][at.Col] = gridCell{kind: cellYard, color: c}
		}
	}
	return g
}

// Draw renders the board and a status block for the snapshot. Every grid
// cell is three characters wide.
func Draw(s ludo.Snapshot, color bool) string {
	var occupants [ludo.BoardSize][ludo.BoardSize][]ludo.Token
	for _, c := range ludo.Colors {
		if _, seated := s.Player(c); !seated {
			continue
		}
		for _, t := range s.Tokens[c] {
			at := t.Cell()
			occupants[at.Row][at.Col] = append(occupants[at.Row][at.Col], t)
		}
	}

	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < ludo.BoardSize; c++ {
		fmt.Fprintf(&sb, "%3d", c)
	}
	sb.WriteString("\n")
	for r := 0; r < ludo.BoardSize; r++ {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := 0; c < ludo.BoardSize; c++ {
			sb.WriteString(drawCell(layout[r][c], occupants[r][c], color))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(status(s))
	return sb.String()
}

func drawCell(g gridCell, tokens []ludo.Token, color bool) string {
	if len(tokens) > 0 {
		t := tokens[0]
		text := t.Label()
		if len(tokens) > 1 {
			text += "+"
		} else {
			text += " "
		}
		return paint(text, t.Color, color, true)
	}
	switch g.kind {
	case cellTrack:
		return " . "
	case cellEntry:
		return paint(" o ", g.color, color, false)
	case cellLane:
		return paint(" = ", g.color, color, false)
	case cellYard:
		return paint("( )", g.color, color, false)
	case cellCenter:
		return "###"
	}
	return "   "
}

func paint(text string, c ludo.Color, color, bold bool) string {
	if !color {
		return text
	}
	prefix := ansiColors[c]
	if bold {
		prefix += ansiBold
	}
	return prefix + text + ansiReset
}

func status(s ludo.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("\n")
	for _, p := range s.Players {
		marker := "  "
		if p.Slot == s.Turn.ActiveSlot && s.Result == nil {
			marker = "> "
		}
		finished := 0
		for _, t := range s.Tokens[p.Color] {
			if t.Finished() {
				finished++
			}
		}
		fmt.Fprintf(&sb, "%s%-22s finished %d/4  moves %d\n", marker, p.Name(), finished, p.MoveCount)
	}
	fmt.Fprintf(&sb, "turn %d", s.Turn.TurnCounter+1)
	if s.Dice > 0 {
		fmt.Fprintf(&sb, "  last roll %d", s.Dice)
	}
	sb.WriteString("\n")
	return sb.String()
}
