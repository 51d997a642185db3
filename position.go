package ludo

const (
	// BoardSize is the width and height of the logical grid.
	BoardSize = 15
	// TrackLength is the number of cells on the shared ring.
	TrackLength = 52
	// LaneLength is the number of cells in each private safe lane.
	LaneLength = 6
	// FinishCell is the safe lane cell a token has to stop on to finish.
	FinishCell = LaneLength
	// laneThreshold is the last step a token takes on the shared ring.
	laneThreshold = TrackLength - 1
)

// Coord is a row/column pair on the 15x15 grid.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// trackCells maps shared track cells 1-52 to the grid. Index 0 is unused.
var trackCells = buildTrack()

// The ring is four rotations of the same run: five cells out along an arm,
// six cells up the next arm, two cells across its tip.
func buildTrack() [TrackLength + 1]Coord {
	type segment struct {
		start  Coord
		dr, dc int
		n      int
	}
	segments := []segment{
		{Coord{6, 1}, 0, 1, 5},
		{Coord{5, 6}, -1, 0, 6},
		{Coord{0, 7}, 0, 1, 2},
		{Coord{1, 8}, 1, 0, 5},
		{Coord{6, 9}, 0, 1, 6},
		{Coord{7, 14}, 1, 0, 2},
		{Coord{8, 13}, 0, -1, 5},
		{Coord{9, 8}, 1, 0, 6},
		{Coord{14, 7}, 0, -1, 2},
		{Coord{13, 6}, -1, 0, 5},
		{Coord{8, 5}, 0, -1, 6},
		{Coord{7, 0}, -1, 0, 2},
	}

	var cells [TrackLength + 1]Coord
	cell := 1
	for _, s := range segments {
		for i := 0; i < s.n; i++ {
			cells[cell] = Coord{s.start.Row + i*s.dr, s.start.Col + i*s.dc}
			cell++
		}
	}
	return cells
}

// TrackCoord returns the grid cell of shared track position 1-52.
func TrackCoord(cell int) Coord {
	return trackCells[cell]
}

// LaneCoord returns the grid cell of the color's safe lane position 1-6.
func LaneCoord(c Color, n int) Coord {
	info := colorTable[c]
	return Coord{
		Row: info.lane.Row + (n-1)*info.step[0],
		Col: info.lane.Col + (n-1)*info.step[1],
	}
}

// YardCoord returns where a home token of the color is drawn.
func YardCoord(c Color, index int) Coord {
	return colorTable[c].yard[index]
}

// WrapTrack folds a forward step past cell 52 back onto the ring.
func WrapTrack(cell int) int {
	for cell > TrackLength {
		cell -= TrackLength
	}
	return cell
}

// EntersSafeZone reports whether moving d steps carries a token with the
// given progress past its 51st step and into its safe lane.
func EntersSafeZone(progress int, d Dice) bool {
	return progress+d.Value() > laneThreshold
}

// LanePosition is the safe lane cell reached from the shared ring.
func LanePosition(progress int, d Dice) int {
	n := progress + d.Value() - laneThreshold
	switch {
	case n < 1:
		return 1
	case n > LaneLength:
		return LaneLength
	}
	return n
}
