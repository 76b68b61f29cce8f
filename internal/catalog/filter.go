package catalog

import "strings"

// Filters holds the current filter predicates. Dimensions combine with AND;
// selected tags combine with OR. All fields are transient, never persisted.
type Filters struct {
	// Name is a substring predicate, matched case- and diacritic-insensitively.
	Name string
	// Country is a country code, empty for any.
	Country string
	// Tags is the set of selected tag keys.
	Tags map[string]bool
}

// NewFilters returns an empty filter set.
func NewFilters() Filters {
	return Filters{Tags: make(map[string]bool)}
}

// Active reports whether any predicate is set.
func (f Filters) Active() bool {
	return f.Name != "" || f.Country != "" || len(f.Tags) > 0
}

// Matches reports whether a station passes every filter dimension.
func (f Filters) Matches(st Station) bool {
	if f.Country != "" && st.Country != f.Country {
		return false
	}
	if len(f.Tags) > 0 {
		match := false
		for _, t := range st.Tags {
			if f.Tags[t] {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	if f.Name != "" {
		if !strings.Contains(Fold(st.Name), Fold(f.Name)) {
			return false
		}
	}
	return true
}

// Apply returns the stations passing the filters, in catalog order.
func (f Filters) Apply(c *Catalog) []Station {
	if !f.Active() {
		out := make([]Station, len(c.Stations))
		copy(out, c.Stations)
		return out
	}
	var out []Station
	for _, st := range c.Stations {
		if f.Matches(st) {
			out = append(out, st)
		}
	}
	return out
}
