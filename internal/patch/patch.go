// Package patch describes quilt patches: polyomino shapes with a button price,
// a time cost and the button income they add to the quilt they are sewn on.
//
// Patches are values. Rotating or mirroring returns a new Patch and never
// touches the catalog entry it came from.
package patch

import "fmt"

// SpecialID identifies the 1x1 patches handed out by the time track.
const SpecialID = "special"

// Patch is a purchasable tile.
type Patch struct {
	ID      string `json:"id"`
	Shape   Shape  `json:"-"`
	Price   int    `json:"price"`
	Time    int    `json:"time"`
	Income  int    `json:"income"`
	Special bool   `json:"special,omitempty"`
}

// New validates the fields and returns the patch.
func New(id string, shape Shape, price, time, income int) (Patch, error) {
	p := Patch{ID: id, Shape: shape, Price: price, Time: time, Income: income}
	if err := p.Validate(); err != nil {
		return Patch{}, err
	}
	return p, nil
}

// Special returns the free 1x1 patch granted by special-patch track spaces.
func Special() Patch {
	return Patch{
		ID:      SpecialID,
		Shape:   MustParseShape("#"),
		Special: true,
	}
}

// Validate checks that costs are non-negative and the shape is usable.
func (p Patch) Validate() error {
	if p.Shape.Width() <= 0 || p.Shape.Height() <= 0 || p.Shape.Count() == 0 {
		return fmt.Errorf("patch %s: empty shape", p.ID)
	}
	if p.Price < 0 {
		return fmt.Errorf("patch %s: price < 0", p.ID)
	}
	if p.Time < 0 {
		return fmt.Errorf("patch %s: time < 0", p.ID)
	}
	if p.Income < 0 {
		return fmt.Errorf("patch %s: income < 0", p.ID)
	}
	return nil
}

// Width of the current orientation.
func (p Patch) Width() int { return p.Shape.Width() }

// Height of the current orientation.
func (p Patch) Height() int { return p.Shape.Height() }

// Cells lists covered offsets of the current orientation.
func (p Patch) Cells() []Point { return p.Shape.Cells() }

// Area is the number of covered cells. It does not change with orientation.
func (p Patch) Area() int { return p.Shape.Count() }

// Rotate returns the patch turned clockwise by quarterTurns.
func (p Patch) Rotate(quarterTurns int) Patch {
	p.Shape = p.Shape.Rotate(quarterTurns)
	return p
}

// Mirror returns the patch reflected along axis.
func (p Patch) Mirror(axis Axis) Patch {
	p.Shape = p.Shape.Mirror(axis)
	return p
}

// Oriented applies o to the patch.
func (p Patch) Oriented(o Orientation) Patch {
	if o.Mirrored {
		p = p.Mirror(AxisHorizontal)
	}
	return p.Rotate(o.Rotation)
}

// DistinctOrientations returns every orientation that yields a different
// shape, in Orientations() order. Symmetric patches return fewer than 8.
func (p Patch) DistinctOrientations() []Patch {
	out := make([]Patch, 0, 8)
	for _, o := range Orientations() {
		candidate := p.Oriented(o)
		dup := false
		for _, seen := range out {
			if seen.Shape.Equal(candidate.Shape) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, candidate)
		}
	}
	return out
}

// Equal reports whether every field matches, shape included.
func (p Patch) Equal(o Patch) bool {
	return p.ID == o.ID &&
		p.Price == o.Price &&
		p.Time == o.Time &&
		p.Income == o.Income &&
		p.Special == o.Special &&
		p.Shape.Equal(o.Shape)
}

// SameIdentity reports whether both values describe the same catalog patch,
// whatever the orientation.
func (p Patch) SameIdentity(o Patch) bool {
	if p.ID != o.ID || p.Price != o.Price || p.Time != o.Time || p.Income != o.Income || p.Special != o.Special {
		return false
	}
	for _, candidate := range o.DistinctOrientations() {
		if p.Shape.Equal(candidate.Shape) {
			return true
		}
	}
	return false
}

func (p Patch) String() string {
	return fmt.Sprintf("%s[%dx%d price=%d time=%d income=%d]", p.ID, p.Width(), p.Height(), p.Price, p.Time, p.Income)
}

// Orientation is one of the 8 rotation/mirror combinations.
type Orientation struct {
	Rotation int  `json:"rotation" yaml:"rotation"`
	Mirrored bool `json:"mirrored,omitempty" yaml:"mirrored,omitempty"`
}

// Orientations enumerates the 4 rotations for each mirror state.
func Orientations() []Orientation {
	out := make([]Orientation, 0, 8)
	for _, mirrored := range []bool{false, true} {
		for r := 0; r < 4; r++ {
			out = append(out, Orientation{Rotation: r, Mirrored: mirrored})
		}
	}
	return out
}

// Placed is a patch sewn on a board at an anchor. The anchor is the board
// cell matching the top-left corner of the patch matrix.
type Placed struct {
	Patch  Patch `json:"patch"`
	Anchor Point `json:"anchor"`
}

// Cells returns the absolute board cells covered by the placed patch.
func (pp Placed) Cells() []Point {
	offsets := pp.Patch.Cells()
	out := make([]Point, len(offsets))
	for i, off := range offsets {
		out[i] = pp.Anchor.Add(off)
	}
	return out
}

// Equal compares anchor and patch.
func (pp Placed) Equal(o Placed) bool {
	return pp.Anchor == o.Anchor && pp.Patch.Equal(o.Patch)
}
