// Package catalog holds the startup-loaded mapping from chemical
// identifiers to storefront product handles. The catalog is read-only
// after load.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Catalog maps normalized identifiers (names, CAS numbers, SMILES) to the
// storefront product handle that sells the compound.
type Catalog struct {
	handles map[string]string
}

// Load reads the catalog JSON file: a flat object of identifier → handle.
// An empty path yields an empty catalog.
func Load(path string) (*Catalog, error) {
	c := &Catalog{handles: make(map[string]string)}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	for id, handle := range raw {
		key := normalize(id)
		if key == "" || handle == "" {
			continue
		}
		c.handles[key] = handle
	}
	return c, nil
}

// FromMap builds a catalog directly from a map. Used by tests and callers
// that embed their catalog.
func FromMap(m map[string]string) *Catalog {
	c := &Catalog{handles: make(map[string]string, len(m))}
	for id, handle := range m {
		if key := normalize(id); key != "" && handle != "" {
			c.handles[key] = handle
		}
	}
	return c
}

// Lookup returns the product handle for an identifier, if the store sells it.
func (c *Catalog) Lookup(identifier string) (string, bool) {
	handle, ok := c.handles[normalize(identifier)]
	return handle, ok
}

// Len reports how many identifiers the catalog maps.
func (c *Catalog) Len() int { return len(c.handles) }

// normalize folds case and trims whitespace. Catalog keys are matched
// loosely: "mPEG4-OH" and "mpeg4-oh" are the same product.
func normalize(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
