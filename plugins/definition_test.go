package plugins

import (
	"testing"

	"github.com/kingrea/patchwork/internal/patch"
)

func TestNormalizedTrimsAndDefaults(t *testing.T) {
	def := PatchSetDefinition{
		ID:      "  odd  ",
		Version: " 2 ",
		Patches: []patch.Spec{{ID: " p1 ", Price: 1, Time: 1, Shape: []string{" #. ", "##"}}},
	}
	got := def.Normalized()
	if got.ID != "odd" || got.Version != "2" || got.Token != TokenStart {
		t.Fatalf("unexpected normalized definition: %+v", got)
	}
	if got.Patches[0].ID != "p1" || got.Patches[0].Shape[0] != "#." {
		t.Fatalf("patch spec not trimmed: %+v", got.Patches[0])
	}
	if def.Patches[0].ID != " p1 " {
		t.Fatalf("Normalized mutated the source definition")
	}
	if got.StartAfterSmallest() {
		t.Fatalf("default token must start at the first patch")
	}
}

func TestValidateRejectsDuplicatePatchIDs(t *testing.T) {
	def := PatchSetDefinition{
		ID:      "dup",
		Version: "1",
		Patches: []patch.Spec{
			{ID: "a", Shape: []string{"#"}},
			{ID: "a", Shape: []string{"##"}},
		},
	}
	if err := def.Validate(); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidateRequiresID(t *testing.T) {
	def := PatchSetDefinition{Version: "1", Patches: []patch.Spec{{ID: "a", Shape: []string{"#"}}}}
	if err := def.Validate(); err == nil {
		t.Fatalf("expected missing id error")
	}
}
