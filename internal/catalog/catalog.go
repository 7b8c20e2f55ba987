// Package catalog loads named roll definitions from YAML files. Each file
// defines one entry, given either as a dice expression or as an explicit
// outcome table.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/diceroller/internal/dice"
)

// Entry is a single named roll definition.
//
// Precondition: exactly one of Expression and Outcomes is set after loading.
type Entry struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Expression  string       `yaml:"expression"`
	Outcomes    []dice.Event `yaml:"outcomes"`
}

// Validate reports an error if the entry is missing required fields or holds
// an invalid outcome table.
//
// Postcondition: Returns nil iff the entry is well-formed.
func (e *Entry) Validate() error {
	var errs []string
	if e.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	hasExpr, hasTable := e.Expression != "", len(e.Outcomes) > 0
	switch {
	case hasExpr && hasTable:
		errs = append(errs, "expression and outcomes are mutually exclusive")
	case !hasExpr && !hasTable:
		errs = append(errs, "one of expression or outcomes is required")
	}
	seen := make(map[float64]bool, len(e.Outcomes))
	for i, o := range e.Outcomes {
		if o.Weight < 0 {
			errs = append(errs, fmt.Sprintf("outcomes[%d].weight must be >= 0, got %g", i, o.Weight))
		}
		if seen[o.Outcome] {
			errs = append(errs, fmt.Sprintf("outcomes[%d].outcome %g is duplicated", i, o.Outcome))
		}
		seen[o.Outcome] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("catalog entry %q validation failed: %s", e.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Distribution builds the entry's distribution. Outcome tables keep file order.
//
// Precondition: e passed Validate.
// Postcondition: Returns a non-nil Distribution or a parse error.
func (e *Entry) Distribution() (*dice.Distribution, error) {
	if e.Expression != "" {
		return dice.Parse(e.Expression)
	}
	return dice.FromEvents(e.Outcomes...), nil
}

// Catalog is an immutable set of entries indexed by ID.
type Catalog struct {
	entries map[string]*Entry
}

// Get returns the entry with the given id.
func (c *Catalog) Get(id string) (*Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// IDs returns all entry ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Distribution looks up id and builds its distribution.
func (c *Catalog) Distribution(id string) (*dice.Distribution, error) {
	e, ok := c.entries[id]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown entry %q", id)
	}
	return e.Distribution()
}

// LoadDir reads all .yaml/.yml files in dir, in lexicographic order, and
// parses each as an Entry. Expressions are parsed eagerly so that malformed
// entries fail at load time.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns a Catalog whose entries all pass Validate, or a non-nil error.
func LoadDir(dir string) (*Catalog, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	c := &Catalog{entries: make(map[string]*Entry, len(files))}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var e Entry
		if err := yaml.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if _, err := e.Distribution(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if _, dup := c.entries[e.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate catalog id %q", path, e.ID)
		}
		c.entries[e.ID] = &e
	}
	return c, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
