package plugins

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kingrea/patchwork/internal/config"
	"github.com/kingrea/patchwork/internal/patch"
)

// Entry is one patch set available to a game.
type Entry struct {
	Set                patch.Set
	StartAfterSmallest bool
	Source             string
}

// Catalog indexes patch sets by id.
type Catalog struct {
	entries map[string]Entry
}

// NewCatalog returns a catalog holding the built-in basic and full sets.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{entries: map[string]Entry{}}
	full, err := patch.FullSet()
	if err != nil {
		return nil, fmt.Errorf("plugin: built-in full set: %w", err)
	}
	c.entries[config.VariantBasic] = Entry{Set: patch.BasicSet(), Source: "builtin"}
	c.entries[config.VariantFull] = Entry{Set: full, StartAfterSmallest: true, Source: "builtin"}
	return c, nil
}

// Register adds a definition loaded from path. Ids are unique across the
// catalog, built-ins included.
func (c *Catalog) Register(def PatchSetDefinition, path string) error {
	normalized := def.Normalized()
	if existing, ok := c.entries[normalized.ID]; ok {
		return fmt.Errorf("plugin: duplicate patch set id %s (%s and %s)", normalized.ID, existing.Source, path)
	}
	set, err := normalized.Build()
	if err != nil {
		return fmt.Errorf("plugin: build %s from %s: %w", normalized.ID, path, err)
	}
	c.entries[normalized.ID] = Entry{Set: set, StartAfterSmallest: normalized.StartAfterSmallest(), Source: path}
	return nil
}

// Lookup returns the set registered under id.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	entry, ok := c.entries[strings.TrimSpace(id)]
	return entry, ok
}

// IDs lists every registered set id in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Discover builds a catalog from the built-ins plus every YAML and Go patch set
// under .patchwork/patches.
func Discover(cfg *config.Config) (*Catalog, error) {
	catalog, err := NewCatalog()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return catalog, nil
	}
	defs, err := loadAllDefinitionFiles(cfg.PatchesDir())
	if err != nil {
		return nil, err
	}
	for _, file := range defs {
		if err := catalog.Register(file.Definition, file.Path); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func loadAllDefinitionFiles(dir string) ([]DefinitionFile, error) {
	yamlDefs, err := LoadDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	goDefs, err := LoadGoDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	return append(yamlDefs, goDefs...), nil
}
