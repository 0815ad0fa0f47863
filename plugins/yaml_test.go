package plugins

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleDefinition = `id: tiny
version: 1.0.0
name: Tiny Set
token: After-Smallest
patches:
  - id: t1
    buttons: 1
    price: 2
    time: 3
    shape: ["##", "#."]
  - id: t2
    price: 1
    time: 1
    shape: [" # "]
`

func TestParseDefinitionYAML(t *testing.T) {
	def, err := ParseDefinitionYAML([]byte(sampleDefinition))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if def.ID != "tiny" || len(def.Patches) != 2 || !def.StartAfterSmallest() {
		t.Fatalf("unexpected definition: %+v", def)
	}
	set, err := def.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if set.Name != "Tiny Set" || set.Patches[0].Income != 1 || set.Patches[1].Area() != 1 {
		t.Fatalf("unexpected set: %+v", set)
	}
}

func TestParseDefinitionYAMLErrors(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"no version":       "id: x\npatches:\n  - id: a\n    shape: ['#']",
		"bad token":        "id: x\nversion: 1\ntoken: middle\npatches:\n  - id: a\n    shape: ['#']",
		"bad shape":        "id: x\nversion: 1\npatches:\n  - id: a\n    shape: ['..']",
		"no patches":       "id: x\nversion: 1",
		"misspelled":       "id: x\nversion: 1\npatches:\n  - id: a\n    prise: 3\n    shape: ['#']",
		"wider than quilt": "id: x\nversion: 1\npatches:\n  - id: a\n    shape: ['##########']",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseDefinitionYAML([]byte(body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadDefinitionDir(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "tiny.yaml")
	if err := os.WriteFile(path, []byte(sampleDefinition), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	defs, err := LoadDefinitionDir(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}
	if defs[0].Path != path {
		t.Fatalf("expected path %s, got %s", path, defs[0].Path)
	}
	if defs[0].Definition.ID != "tiny" {
		t.Fatalf("unexpected id: %+v", defs[0].Definition)
	}
}

func TestLoadDefinitionDirMissing(t *testing.T) {
	defs, err := LoadDefinitionDir(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if defs != nil {
		t.Fatalf("expected nil slice for missing dir, got %v", defs)
	}
}
