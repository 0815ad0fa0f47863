package timetrack

import "fmt"

const (
	// LayoutWidth and LayoutHeight size the printed track, which spirals
	// clockwise from the north-west corner to the centre.
	LayoutWidth  = 9
	LayoutHeight = 6
)

// Each leg moves the token one step in a direction for a number of steps.
var spiral = []struct {
	dx, dy, steps int
}{
	{1, 0, 8}, {0, 1, 5}, {-1, 0, 8}, {0, -1, 4},
	{1, 0, 7}, {0, 1, 3}, {-1, 0, 6}, {0, -1, 2},
	{1, 0, 5}, {0, 1, 1}, {-1, 0, 4},
}

var layout = buildLayout()

func buildLayout() [End + 1]Coord {
	var out [End + 1]Coord
	pos, x, y := 0, 0, 0
	out[0] = Coord{}
	for _, leg := range spiral {
		for i := 0; i < leg.steps && pos < End; i++ {
			x += leg.dx
			y += leg.dy
			pos++
			out[pos] = Coord{X: x, Y: y}
		}
	}
	return out
}

// Coord is a cell of the printed track grid.
type Coord struct {
	X, Y int
}

// CoordOf maps a track position onto the 9x6 spiral grid.
func CoordOf(position int) (Coord, error) {
	if err := checkPosition(position); err != nil {
		return Coord{}, fmt.Errorf("timetrack: layout: %w", err)
	}
	return layout[position], nil
}
