package plugins

import (
	"fmt"
	"strings"

	"github.com/kingrea/patchwork/internal/patch"
)

// Token placement values for PatchSetDefinition.Token.
const (
	TokenStart         = "start"
	TokenAfterSmallest = "after-smallest"
)

// PatchSetDefinition describes a custom patch set loaded from YAML or a Go
// script under .patchwork/patches.
//
// The struct mirrors the on-disk schema and stays narrow so sets can be
// validated before a game is wired from them.
type PatchSetDefinition struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string       `json:"version" yaml:"version"`
	Token       string       `json:"token,omitempty" yaml:"token,omitempty"`
	Patches     []patch.Spec `json:"patches" yaml:"patches"`
}

// Normalized returns a trimmed copy of the definition.
func (def PatchSetDefinition) Normalized() PatchSetDefinition {
	clone := PatchSetDefinition{
		ID:          strings.TrimSpace(def.ID),
		Name:        strings.TrimSpace(def.Name),
		Description: strings.TrimSpace(def.Description),
		Version:     strings.TrimSpace(def.Version),
		Token:       strings.ToLower(strings.TrimSpace(def.Token)),
	}
	if clone.Token == "" {
		clone.Token = TokenStart
	}
	if len(def.Patches) > 0 {
		clone.Patches = make([]patch.Spec, len(def.Patches))
		for i, spec := range def.Patches {
			spec.ID = strings.TrimSpace(spec.ID)
			rows := make([]string, len(spec.Shape))
			for r, row := range spec.Shape {
				rows[r] = strings.TrimSpace(row)
			}
			spec.Shape = rows
			clone.Patches[i] = spec
		}
	}
	return clone
}

// Validate ensures the definition is well-formed and every patch builds.
func (def PatchSetDefinition) Validate() error {
	normalized := def.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("plugin: id is required")
	}
	if normalized.Version == "" {
		return fmt.Errorf("plugin %s: version is required", normalized.ID)
	}
	switch normalized.Token {
	case TokenStart, TokenAfterSmallest:
	default:
		return fmt.Errorf("plugin %s: token must be '%s' or '%s'", normalized.ID, TokenStart, TokenAfterSmallest)
	}
	if _, err := normalized.Build(); err != nil {
		return fmt.Errorf("plugin %s: %w", normalized.ID, err)
	}
	return nil
}

// Build converts the definition into a patch set.
func (def PatchSetDefinition) Build() (patch.Set, error) {
	file := patch.SetFile{ID: def.ID, Name: def.Name, Patches: def.Patches}
	return file.Build()
}

// StartAfterSmallest reports whether the neutral token starts after the
// smallest patch.
func (def PatchSetDefinition) StartAfterSmallest() bool {
	return def.Normalized().Token == TokenAfterSmallest
}
