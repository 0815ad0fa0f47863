// Package circle models the ring of patches laid out around the table and the
// neutral token that marks where the next offer starts. Buying a patch removes
// it from the ring and moves the token just past it; the token never moves
// backward and the ring only shrinks.
package circle

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/kingrea/patchwork/internal/patch"
)

// OfferSize is how many patches ahead of the neutral token may be bought.
const OfferSize = 3

var (
	// ErrInvalidSelection reports an offset or patch outside the current offer.
	ErrInvalidSelection = errors.New("circle: invalid selection")
	// ErrEmpty reports an operation on an exhausted circle. Errors carrying it
	// also match ErrInvalidSelection.
	ErrEmpty = errors.New("circle: no patch left")

	errEmptySelection = fmt.Errorf("%w: %w", ErrInvalidSelection, ErrEmpty)
)

// Circle is the shared pool of purchasable patches.
type Circle struct {
	patches []patch.Patch
	cursor  int
}

// New lays out patches in order with the neutral token at cursor.
func New(patches []patch.Patch, cursor int) (*Circle, error) {
	for i, p := range patches {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("circle: patches[%d]: %w", i, err)
		}
	}
	c := &Circle{patches: append([]patch.Patch(nil), patches...), cursor: -1}
	if len(c.patches) > 0 {
		if cursor < 0 || cursor >= len(c.patches) {
			return nil, fmt.Errorf("circle: cursor %d out of range [0,%d)", cursor, len(c.patches))
		}
		c.cursor = cursor
	}
	return c, nil
}

// FromSet shuffles the set with rng. When startAfterSmallest is set the neutral
// token starts immediately after the smallest patch, otherwise at index 0.
// A nil rng keeps the set order.
func FromSet(set patch.Set, rng *rand.Rand, startAfterSmallest bool) (*Circle, error) {
	patches := append([]patch.Patch(nil), set.Patches...)
	if rng != nil {
		rng.Shuffle(len(patches), func(i, j int) { patches[i], patches[j] = patches[j], patches[i] })
	}
	cursor := 0
	if startAfterSmallest && len(patches) > 0 {
		cursor = (patch.Smallest(patches) + 1) % len(patches)
	}
	return New(patches, cursor)
}

// NewBasic builds the simplified circle.
func NewBasic(rng *rand.Rand) (*Circle, error) {
	return FromSet(patch.BasicSet(), rng, false)
}

// NewFull builds the 33-patch circle with the token after the smallest patch.
func NewFull(rng *rand.Rand) (*Circle, error) {
	set, err := patch.FullSet()
	if err != nil {
		return nil, err
	}
	return FromSet(set, rng, true)
}

// Size returns how many patches remain.
func (c *Circle) Size() int { return len(c.patches) }

// Cursor returns the neutral token index, or -1 once the circle is empty.
func (c *Circle) Cursor() int { return c.cursor }

// Patches returns the remaining patches in circle order.
func (c *Circle) Patches() []patch.Patch {
	return append([]patch.Patch(nil), c.patches...)
}

// Trio returns the patches offered at the current token position.
func (c *Circle) Trio() []patch.Patch {
	return c.TrioAt(c.cursor)
}

// TrioAt returns up to three patches starting at cursor, wrapping around the
// end of the ring. It returns fewer than three only when fewer remain.
func (c *Circle) TrioAt(cursor int) []patch.Patch {
	n := len(c.patches)
	if n == 0 || cursor < 0 {
		return nil
	}
	count := OfferSize
	if n < count {
		count = n
	}
	out := make([]patch.Patch, count)
	for i := 0; i < count; i++ {
		out[i] = c.patches[(cursor+i)%n]
	}
	return out
}

// ChoiceIsValid reports whether offset designates one of the offered patches
// when available patches remain in the circle.
func ChoiceIsValid(offset, available int) bool {
	limit := OfferSize
	if available < limit {
		limit = available
	}
	return offset >= 0 && offset < limit
}

// Valid reports whether offset is selectable in the current circle.
func (c *Circle) Valid(offset int) bool {
	return ChoiceIsValid(offset, len(c.patches))
}

// Peek returns the offered patch at offset without removing it.
func (c *Circle) Peek(offset int) (patch.Patch, error) {
	if len(c.patches) == 0 {
		return patch.Patch{}, errEmptySelection
	}
	if !c.Valid(offset) {
		return patch.Patch{}, fmt.Errorf("%w: offset %d", ErrInvalidSelection, offset)
	}
	return c.patches[(c.cursor+offset)%len(c.patches)], nil
}

// ChoosePatch removes the offered patch at offset and moves the token to the
// patch that followed it.
func (c *Circle) ChoosePatch(offset int) (patch.Patch, error) {
	chosen, err := c.Peek(offset)
	if err != nil {
		return patch.Patch{}, err
	}
	c.removeAt((c.cursor + offset) % len(c.patches))
	return chosen, nil
}

// Choose removes the offered patch identified by chosen. Orientation is
// ignored so a front end may pass back a rotated copy.
func (c *Circle) Choose(chosen patch.Patch) (patch.Patch, error) {
	offset, err := c.OffsetOf(chosen)
	if err != nil {
		return patch.Patch{}, err
	}
	return c.ChoosePatch(offset)
}

// OffsetOf finds chosen in the current offer.
func (c *Circle) OffsetOf(chosen patch.Patch) (int, error) {
	if len(c.patches) == 0 {
		return -1, errEmptySelection
	}
	for offset, candidate := range c.Trio() {
		if candidate.SameIdentity(chosen) {
			return offset, nil
		}
	}
	return -1, fmt.Errorf("%w: %s is not offered", ErrInvalidSelection, chosen.ID)
}

func (c *Circle) removeAt(idx int) {
	c.patches = append(c.patches[:idx], c.patches[idx+1:]...)
	if len(c.patches) == 0 {
		c.cursor = -1
		return
	}
	c.cursor = idx % len(c.patches)
}
