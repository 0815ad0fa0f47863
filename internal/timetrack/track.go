// Package timetrack models the shared time track both players race along.
// Button and special-patch spaces trigger once: the first crossing by either
// player consumes them.
package timetrack

import (
	"fmt"
	"strings"
)

// Element tags a track position.
type Element int

const (
	Empty Element = iota
	Button
	SpecialPatch
)

func (e Element) String() string {
	switch e {
	case Button:
		return "button"
	case SpecialPatch:
		return "special-patch"
	default:
		return "empty"
	}
}

// Variant selects the track layout.
type Variant string

const (
	Basic Variant = "basic"
	Full  Variant = "full"
)

// ParseVariant accepts "basic" or "full", case-insensitively.
func ParseVariant(raw string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(raw))) {
	case Basic:
		return Basic, nil
	case Full:
		return Full, nil
	default:
		return "", fmt.Errorf("timetrack: unknown variant %q", raw)
	}
}

const (
	// End is the last position; a player standing on it is finished.
	End = 53

	buttonCount       = 9
	buttonFirst       = 5
	specialPatchCount = 5
	specialPatchFirst = 26
	spacing           = 6
)

// Crossing aggregates the effects consumed by a single move.
type Crossing struct {
	Buttons        int
	SpecialPatches int
	Positions      []int
}

// Empty reports whether the move consumed nothing.
func (c Crossing) Empty() bool {
	return c.Buttons == 0 && c.SpecialPatches == 0
}

// Track is the shared time track. The engine is its only writer.
type Track struct {
	variant Variant
	path    [End + 1]Element
}

// New builds a track for the variant. Both variants carry the nine button
// spaces; the full variant adds the five special-patch spaces.
func New(variant Variant) (*Track, error) {
	if variant != Basic && variant != Full {
		return nil, fmt.Errorf("timetrack: unknown variant %q", variant)
	}
	t := &Track{variant: variant}
	for i := 0; i < buttonCount; i++ {
		t.path[buttonFirst+spacing*i] = Button
	}
	if variant == Full {
		for i := 0; i < specialPatchCount; i++ {
			t.path[specialPatchFirst+spacing*i] = SpecialPatch
		}
	}
	return t, nil
}

// NewBasic returns the basic track.
func NewBasic() *Track {
	t, _ := New(Basic)
	return t
}

// NewFull returns the full track.
func NewFull() *Track {
	t, _ := New(Full)
	return t
}

func (t *Track) Variant() Variant { return t.variant }

// Size returns the number of positions, End+1.
func (t *Track) Size() int { return len(t.path) }

// End returns the finishing position.
func (t *Track) End() int { return End }

// Path returns every position with its current tag.
func (t *Track) Path() []Element {
	out := make([]Element, len(t.path))
	copy(out, t.path[:])
	return out
}

// At returns the tag at position.
func (t *Track) At(position int) (Element, error) {
	if err := checkPosition(position); err != nil {
		return Empty, err
	}
	return t.path[position], nil
}

// ElementCrossed consumes every button and special-patch element in
// (from, to] and returns the aggregate. from == to is a no-op.
func (t *Track) ElementCrossed(from, to int) (Crossing, error) {
	if err := checkPosition(from); err != nil {
		return Crossing{}, err
	}
	if err := checkPosition(to); err != nil {
		return Crossing{}, err
	}
	if to < from {
		return Crossing{}, fmt.Errorf("timetrack: cannot move backward from %d to %d", from, to)
	}
	var crossing Crossing
	for pos := from + 1; pos <= to; pos++ {
		switch t.path[pos] {
		case Button:
			crossing.Buttons++
		case SpecialPatch:
			crossing.SpecialPatches++
		default:
			continue
		}
		crossing.Positions = append(crossing.Positions, pos)
		t.path[pos] = Empty
	}
	return crossing, nil
}

// SetEmpty consumes position directly.
func (t *Track) SetEmpty(position int) error {
	if err := checkPosition(position); err != nil {
		return err
	}
	t.path[position] = Empty
	return nil
}

// Remaining counts the unconsumed elements of kind.
func (t *Track) Remaining(kind Element) int {
	n := 0
	for _, e := range t.path {
		if e == kind && kind != Empty {
			n++
		}
	}
	return n
}

func checkPosition(position int) error {
	if position < 0 || position > End {
		return fmt.Errorf("timetrack: position %d out of range [0,%d]", position, End)
	}
	return nil
}
