package catalog

import "fmt"

// Entry is one recognized country as supplied by the boot-time catalog.
// Identity never mutates once loaded.
type Entry struct {
	Code      string `yaml:"code"`      // ISO-2, uppercase
	Name      string `yaml:"name"`      // display name
	Continent string `yaml:"continent"` // e.g. "Europe", "Asia"
}

// Catalog is the ordered list of catalog entries as read at boot.
// Order is whatever the config file declared; the manager re-sorts its
// own presentation view independently (see internal/manager.sortRecords).
type Catalog struct {
	entries []Entry
	byCode  map[string]Entry
}

// New validates and indexes a list of catalog entries.
//
// Returns an error if any entry has an empty code/name, or if two
// entries share a country code — the manager's state machine depends on
// country code being a unique identity, since no two CountryStatus
// records may ever share one.
func New(entries []Entry) (*Catalog, error) {
	byCode := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if e.Code == "" {
			return nil, fmt.Errorf("catalog entry with empty code (name=%q)", e.Name)
		}
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry %s: empty name", e.Code)
		}
		if _, dup := byCode[e.Code]; dup {
			return nil, fmt.Errorf("catalog entry %s: duplicate country code", e.Code)
		}
		byCode[e.Code] = e
	}

	out := make([]Entry, len(entries))
	copy(out, entries)
	return &Catalog{entries: out, byCode: byCode}, nil
}

// All returns the catalog entries in declaration order. The returned
// slice is a copy; callers may not mutate the catalog through it.
func (c *Catalog) All() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup returns the entry for a country code and whether it exists.
func (c *Catalog) Lookup(code string) (Entry, bool) {
	e, ok := c.byCode[code]
	return e, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
