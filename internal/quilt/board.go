// Package quilt implements a player's 9x9 quilt board: placement legality,
// the placed-patch ledger and the 7x7 bonus square detection.
package quilt

import (
	"errors"
	"fmt"

	"github.com/kingrea/patchwork/internal/patch"
)

const (
	// Size is the side of the square quilt board.
	Size = 9
	// BonusSquare is the side of the square that earns the special tile.
	BonusSquare = 7
	// Cells is the total number of squares on a board.
	Cells = Size * Size
)

// ErrIllegalPlacement reports a patch that leaves the board or overlaps.
var ErrIllegalPlacement = errors.New("quilt: illegal placement")

// Board is a quilt board. Each grid cell holds 0 when empty, otherwise the
// 1-based index of the placed patch that covers it.
type Board struct {
	grid   [Size][Size]int
	placed []patch.Placed
	income int
}

// New returns an empty board.
func New() *Board {
	return &Board{}
}

// CanPlacePatch reports whether every covered cell of p lands inside the board
// on an empty square when its matrix origin sits on anchor.
func (b *Board) CanPlacePatch(p patch.Patch, anchor patch.Point) bool {
	return b.checkPlacement(p, anchor) == nil
}

func (b *Board) checkPlacement(p patch.Patch, anchor patch.Point) error {
	cells := p.Cells()
	if len(cells) == 0 {
		return fmt.Errorf("%w: %s covers no cell", ErrIllegalPlacement, p.ID)
	}
	for _, off := range cells {
		c := anchor.Add(off)
		if c.X < 0 || c.Y < 0 || c.X >= Size || c.Y >= Size {
			return fmt.Errorf("%w: %s at %s leaves the board at %s", ErrIllegalPlacement, p.ID, anchor, c)
		}
		if b.grid[c.Y][c.X] != 0 {
			return fmt.Errorf("%w: %s at %s overlaps %s", ErrIllegalPlacement, p.ID, anchor, c)
		}
	}
	return nil
}

// PlacePatch sews p on the board. Nothing changes when the placement is
// illegal.
func (b *Board) PlacePatch(p patch.Patch, anchor patch.Point) error {
	if err := b.checkPlacement(p, anchor); err != nil {
		return err
	}
	placed := patch.Placed{Patch: p, Anchor: anchor}
	b.placed = append(b.placed, placed)
	owner := len(b.placed)
	for _, c := range placed.Cells() {
		b.grid[c.Y][c.X] = owner
	}
	b.income += p.Income
	return nil
}

// FitsAnywhere reports whether some orientation of p can be placed somewhere.
func (b *Board) FitsAnywhere(p patch.Patch) bool {
	_, _, ok := b.FirstFit(p)
	return ok
}

// FirstFit returns the first legal orientation and anchor for p, scanning
// orientations in patch.Orientations order and anchors row by row.
func (b *Board) FirstFit(p patch.Patch) (patch.Patch, patch.Point, bool) {
	for _, oriented := range p.DistinctOrientations() {
		for y := 0; y+oriented.Height() <= Size; y++ {
			for x := 0; x+oriented.Width() <= Size; x++ {
				anchor := patch.Point{X: x, Y: y}
				if b.CanPlacePatch(oriented, anchor) {
					return oriented, anchor, true
				}
			}
		}
	}
	return patch.Patch{}, patch.Point{}, false
}

// HasSevenBySevenSquare slides a 7x7 window over the board and reports whether
// any window is fully covered.
func (b *Board) HasSevenBySevenSquare() bool {
	for oy := 0; oy <= Size-BonusSquare; oy++ {
		for ox := 0; ox <= Size-BonusSquare; ox++ {
			if b.windowCovered(ox, oy) {
				return true
			}
		}
	}
	return false
}

func (b *Board) windowCovered(ox, oy int) bool {
	for y := oy; y < oy+BonusSquare; y++ {
		for x := ox; x < ox+BonusSquare; x++ {
			if b.grid[y][x] == 0 {
				return false
			}
		}
	}
	return true
}

// Covered returns the number of covered squares.
func (b *Board) Covered() int {
	n := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.grid[y][x] != 0 {
				n++
			}
		}
	}
	return n
}

// EmptySquare returns the number of uncovered squares.
func (b *Board) EmptySquare() int {
	return Cells - b.Covered()
}

// NbPatchPlaced returns how many patches were sewn on the board.
func (b *Board) NbPatchPlaced() int {
	return len(b.placed)
}

// Buttons returns the board income: the sum of placed patches' income.
func (b *Board) Buttons() int {
	return b.income
}

// Grid returns the occupancy matrix indexed [y][x].
func (b *Board) Grid() [Size][Size]bool {
	var out [Size][Size]bool
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			out[y][x] = b.grid[y][x] != 0
		}
	}
	return out
}

// Owner returns the placed patch covering (x, y).
func (b *Board) Owner(x, y int) (patch.Placed, bool) {
	if x < 0 || y < 0 || x >= Size || y >= Size {
		return patch.Placed{}, false
	}
	idx := b.grid[y][x]
	if idx == 0 {
		return patch.Placed{}, false
	}
	return b.placed[idx-1], true
}

// Placed returns the placed patches in placement order.
func (b *Board) Placed() []patch.Placed {
	return append([]patch.Placed(nil), b.placed...)
}
