package patch

import (
	"fmt"
	"strings"
)

// Point is a cell coordinate. X grows to the right, Y grows downward.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns the translated point.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Axis selects the mirror direction.
type Axis int

const (
	// AxisHorizontal swaps left and right.
	AxisHorizontal Axis = iota
	// AxisVertical swaps top and bottom.
	AxisVertical
)

// Shape is an immutable occupancy matrix. Cells are stored row-major.
type Shape struct {
	width  int
	height int
	cells  []bool
}

// NewShape builds a shape from rows of occupancy flags. Every row must have the
// same length and at least one cell must be covered.
func NewShape(rows [][]bool) (Shape, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Shape{}, fmt.Errorf("patch: shape must have at least one row and column")
	}
	width := len(rows[0])
	cells := make([]bool, 0, width*len(rows))
	covered := 0
	for y, row := range rows {
		if len(row) != width {
			return Shape{}, fmt.Errorf("patch: shape row %d has %d cells, want %d", y, len(row), width)
		}
		for _, c := range row {
			if c {
				covered++
			}
			cells = append(cells, c)
		}
	}
	if covered == 0 {
		return Shape{}, fmt.Errorf("patch: shape covers no cell")
	}
	return Shape{width: width, height: len(rows), cells: cells}, nil
}

// ParseShape reads rows drawn with '#' (covered) and '.' (empty).
func ParseShape(rows []string) (Shape, error) {
	grid := make([][]bool, 0, len(rows))
	for y, row := range rows {
		row = strings.TrimSpace(row)
		line := make([]bool, 0, len(row))
		for x, r := range row {
			switch r {
			case '#', 'X', 'x', '1':
				line = append(line, true)
			case '.', '0', '_':
				line = append(line, false)
			default:
				return Shape{}, fmt.Errorf("patch: shape row %d col %d: unexpected %q", y, x, r)
			}
		}
		grid = append(grid, line)
	}
	return NewShape(grid)
}

// MustParseShape is ParseShape for literals known to be valid.
func MustParseShape(rows ...string) Shape {
	s, err := ParseShape(rows)
	if err != nil {
		panic(err)
	}
	return s
}

// Width is the number of columns.
func (s Shape) Width() int { return s.width }

// Height is the number of rows.
func (s Shape) Height() int { return s.height }

// Covered reports whether the cell at (x, y) of the matrix is part of the shape.
func (s Shape) Covered(x, y int) bool {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return false
	}
	return s.cells[y*s.width+x]
}

// Count returns the number of covered cells.
func (s Shape) Count() int {
	n := 0
	for _, c := range s.cells {
		if c {
			n++
		}
	}
	return n
}

// Cells lists covered offsets in row-major order.
func (s Shape) Cells() []Point {
	out := make([]Point, 0, len(s.cells))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			if s.cells[y*s.width+x] {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Rotate turns the shape clockwise by the given number of quarter turns.
// Negative values turn counter-clockwise.
func (s Shape) Rotate(quarterTurns int) Shape {
	q := ((quarterTurns % 4) + 4) % 4
	out := s
	for i := 0; i < q; i++ {
		out = out.rotateOnce()
	}
	return out
}

func (s Shape) rotateOnce() Shape {
	w, h := s.height, s.width
	cells := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cells[y*w+x] = s.cells[(s.height-1-x)*s.width+y]
		}
	}
	return Shape{width: w, height: h, cells: cells}
}

// Mirror reflects the shape along the given axis.
func (s Shape) Mirror(axis Axis) Shape {
	cells := make([]bool, len(s.cells))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			sx, sy := x, y
			if axis == AxisVertical {
				sy = s.height - 1 - y
			} else {
				sx = s.width - 1 - x
			}
			cells[y*s.width+x] = s.cells[sy*s.width+sx]
		}
	}
	return Shape{width: s.width, height: s.height, cells: cells}
}

// Equal reports whether both shapes have the same dimensions and cells.
func (s Shape) Equal(o Shape) bool {
	if s.width != o.width || s.height != o.height || len(s.cells) != len(o.cells) {
		return false
	}
	for i := range s.cells {
		if s.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows renders the shape with '#' and '.'.
func (s Shape) Rows() []string {
	rows := make([]string, s.height)
	var b strings.Builder
	for y := 0; y < s.height; y++ {
		b.Reset()
		for x := 0; x < s.width; x++ {
			if s.cells[y*s.width+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

func (s Shape) String() string {
	return strings.Join(s.Rows(), "\n")
}
