package plugins

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kingrea/patchwork/internal/quilt"
	"gopkg.in/yaml.v3"
)

// DefinitionFile pairs a parsed patch set definition with its on-disk source.
type DefinitionFile struct {
	Definition PatchSetDefinition
	Path       string
}

// ParseDefinitionYAML decodes and validates a single patch set payload.
func ParseDefinitionYAML(data []byte) (PatchSetDefinition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return PatchSetDefinition{}, fmt.Errorf("plugin: definition payload is empty")
	}
	var def PatchSetDefinition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	// unknown keys are errors
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return PatchSetDefinition{}, fmt.Errorf("plugin: decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return PatchSetDefinition{}, err
	}
	normalized := def.Normalized()
	if err := checkFitsQuilt(normalized); err != nil {
		return PatchSetDefinition{}, err
	}
	return normalized, nil
}

// checkFitsQuilt rejects patches that could never be sewn on an empty board.
func checkFitsQuilt(def PatchSetDefinition) error {
	set, err := def.Build()
	if err != nil {
		return fmt.Errorf("plugin %s: %w", def.ID, err)
	}
	for _, p := range set.Patches {
		if p.Width() > quilt.Size || p.Height() > quilt.Size {
			return fmt.Errorf("plugin %s: patch %s is %dx%d, larger than the %dx%d quilt",
				def.ID, p.ID, p.Width(), p.Height(), quilt.Size, quilt.Size)
		}
	}
	return nil
}

// LoadDefinitionFile reads a YAML file from disk and returns the parsed set.
func LoadDefinitionFile(path string) (DefinitionFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("plugin: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DefinitionFile{}, fmt.Errorf("plugin: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	def, err := ParseDefinitionYAML(data)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	return DefinitionFile{Definition: def, Path: filepath.Clean(path)}, nil
}

// LoadDefinitionDir scans a directory for *.yaml patch sets.
// Missing directories are treated as "no plugins" to simplify startup.
func LoadDefinitionDir(dir string) ([]DefinitionFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: read %s: %w", trimmed, err)
	}
	var defs []DefinitionFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isYAMLFile(name) {
			continue
		}
		def, err := LoadDefinitionFile(filepath.Join(trimmed, name))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, nil
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Path < defs[j].Path })
	return defs, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
