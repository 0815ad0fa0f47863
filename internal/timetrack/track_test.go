package timetrack

import "testing"

func TestVariantLayouts(t *testing.T) {
	basic := NewBasic()
	full := NewFull()
	if basic.Size() != End+1 || full.Size() != End+1 {
		t.Fatalf("sizes = %d/%d, want %d", basic.Size(), full.Size(), End+1)
	}
	if got := basic.Remaining(Button); got != 9 {
		t.Fatalf("basic buttons = %d, want 9", got)
	}
	if got := basic.Remaining(SpecialPatch); got != 0 {
		t.Fatalf("basic special patches = %d, want 0", got)
	}
	if got := full.Remaining(SpecialPatch); got != 5 {
		t.Fatalf("full special patches = %d, want 5", got)
	}
	for _, pos := range []int{5, 11, 53} {
		if e, _ := full.At(pos); e != Button {
			t.Fatalf("position %d = %s, want button", pos, e)
		}
	}
	for _, pos := range []int{26, 50} {
		if e, _ := full.At(pos); e != SpecialPatch {
			t.Fatalf("position %d = %s, want special-patch", pos, e)
		}
	}
	if _, err := New("huge"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}

func TestElementCrossedAggregatesAndConsumes(t *testing.T) {
	tr := NewFull()
	got, err := tr.ElementCrossed(20, 30)
	if err != nil {
		t.Fatalf("crossed: %v", err)
	}
	// buttons at 23 and 29, special patch at 26
	if got.Buttons != 2 || got.SpecialPatches != 1 {
		t.Fatalf("crossing = %+v, want 2 buttons and 1 special patch", got)
	}
	want := []int{23, 26, 29}
	for i, pos := range want {
		if got.Positions[i] != pos {
			t.Fatalf("positions = %v, want %v", got.Positions, want)
		}
	}
	again, err := tr.ElementCrossed(20, 30)
	if err != nil {
		t.Fatalf("crossed again: %v", err)
	}
	if !again.Empty() {
		t.Fatalf("consumed elements re-triggered: %+v", again)
	}
}

func TestElementCrossedBoundaries(t *testing.T) {
	tr := NewBasic()
	if got, err := tr.ElementCrossed(5, 5); err != nil || !got.Empty() {
		t.Fatalf("zero move = %+v, %v", got, err)
	}
	if got, _ := tr.ElementCrossed(4, 5); got.Buttons != 1 {
		t.Fatalf("landing on a button must trigger it, got %+v", got)
	}
	if got, _ := tr.ElementCrossed(11, 12); got.Buttons != 0 {
		t.Fatalf("start position is exclusive, got %+v", got)
	}
	if _, err := tr.ElementCrossed(10, 9); err == nil {
		t.Fatalf("expected backward move error")
	}
	if _, err := tr.ElementCrossed(0, End+1); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestSetEmpty(t *testing.T) {
	tr := NewFull()
	if err := tr.SetEmpty(26); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	if got, _ := tr.ElementCrossed(25, 26); !got.Empty() {
		t.Fatalf("cleared position triggered: %+v", got)
	}
	if err := tr.SetEmpty(-1); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestPathIsACopy(t *testing.T) {
	tr := NewBasic()
	path := tr.Path()
	path[5] = Empty
	if e, _ := tr.At(5); e != Button {
		t.Fatalf("Path exposed internal state")
	}
}

func TestLayoutIsABijection(t *testing.T) {
	seen := map[Coord]int{}
	for pos := 0; pos <= End; pos++ {
		c, err := CoordOf(pos)
		if err != nil {
			t.Fatalf("coord %d: %v", pos, err)
		}
		if c.X < 0 || c.X >= LayoutWidth || c.Y < 0 || c.Y >= LayoutHeight {
			t.Fatalf("position %d maps outside the grid: %+v", pos, c)
		}
		if prev, ok := seen[c]; ok {
			t.Fatalf("positions %d and %d share %+v", prev, pos, c)
		}
		seen[c] = pos
	}
	if c, _ := CoordOf(8); c != (Coord{X: 8, Y: 0}) {
		t.Fatalf("position 8 = %+v, want north-east corner", c)
	}
}

func TestParseVariant(t *testing.T) {
	if v, err := ParseVariant(" Full "); err != nil || v != Full {
		t.Fatalf("ParseVariant = %q, %v", v, err)
	}
	if _, err := ParseVariant("mini"); err == nil {
		t.Fatalf("expected error")
	}
}
