package patch

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sets/full.yaml
var fullSetYAML []byte

const (
	basicSetID    = "basic"
	basicPerShape = 20
)

// Spec is the serialized form of one patch inside a set file.
type Spec struct {
	ID      string   `yaml:"id"`
	Buttons int      `yaml:"buttons"`
	Price   int      `yaml:"price"`
	Time    int      `yaml:"time"`
	Shape   []string `yaml:"shape"`
}

// Build converts the spec into a validated Patch.
func (s Spec) Build() (Patch, error) {
	shape, err := ParseShape(s.Shape)
	if err != nil {
		return Patch{}, fmt.Errorf("patch %s: %w", s.ID, err)
	}
	return New(strings.TrimSpace(s.ID), shape, s.Price, s.Time, s.Buttons)
}

// SetFile is the YAML document describing a patch set.
type SetFile struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name,omitempty"`
	Patches []Spec `yaml:"patches"`
}

// Set is a named, ordered collection of patches.
type Set struct {
	ID      string
	Name    string
	Patches []Patch
}

// Build validates every spec and checks that patch ids are unique.
func (f SetFile) Build() (Set, error) {
	id := strings.TrimSpace(f.ID)
	if id == "" {
		return Set{}, fmt.Errorf("patch set: id is required")
	}
	if len(f.Patches) == 0 {
		return Set{}, fmt.Errorf("patch set %s: at least one patch is required", id)
	}
	set := Set{ID: id, Name: strings.TrimSpace(f.Name), Patches: make([]Patch, 0, len(f.Patches))}
	seen := map[string]struct{}{}
	for idx, spec := range f.Patches {
		p, err := spec.Build()
		if err != nil {
			return Set{}, fmt.Errorf("patch set %s patches[%d]: %w", id, idx, err)
		}
		if p.ID == "" {
			return Set{}, fmt.Errorf("patch set %s patches[%d]: id is required", id, idx)
		}
		if _, dup := seen[p.ID]; dup {
			return Set{}, fmt.Errorf("patch set %s: duplicate patch id %s", id, p.ID)
		}
		seen[p.ID] = struct{}{}
		set.Patches = append(set.Patches, p)
	}
	if set.Name == "" {
		set.Name = set.ID
	}
	return set, nil
}

// ParseSetYAML decodes and validates a patch set document.
func ParseSetYAML(data []byte) (Set, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Set{}, fmt.Errorf("patch set: payload is empty")
	}
	var file SetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Set{}, fmt.Errorf("patch set: decode: %w", err)
	}
	return file.Build()
}

// FullSet returns the 33-patch set used by the full game.
func FullSet() (Set, error) {
	return ParseSetYAML(fullSetYAML)
}

// BasicSet returns the simplified set: 20 copies each of two 2x2 squares.
func BasicSet() Set {
	square := MustParseShape("##", "##")
	set := Set{ID: basicSetID, Name: "Basic game", Patches: make([]Patch, 0, 2*basicPerShape)}
	for i := 0; i < basicPerShape; i++ {
		set.Patches = append(set.Patches,
			Patch{ID: fmt.Sprintf("b%02d", 2*i+1), Shape: square, Price: 3, Time: 4, Income: 1},
			Patch{ID: fmt.Sprintf("b%02d", 2*i+2), Shape: square, Price: 2, Time: 2, Income: 0},
		)
	}
	return set
}

// Smallest returns the index of the patch with the fewest cells, preferring the
// lowest price on ties. It returns -1 for an empty slice.
func Smallest(patches []Patch) int {
	best := -1
	for i, p := range patches {
		if best < 0 {
			best = i
			continue
		}
		b := patches[best]
		if p.Area() < b.Area() || (p.Area() == b.Area() && p.Price < b.Price) {
			best = i
		}
	}
	return best
}
