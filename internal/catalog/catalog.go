package catalog

import (
	"slices"
	"strings"
)

// Catalog holds the full station list plus the filter metadata, with a
// by-identifier lookup built once per load. The index is rebuilt wholesale on
// reload, never patched incrementally.
type Catalog struct {
	Stations  []Station
	Countries map[string]Country
	Tags      map[string]Tag

	byID map[string]Station
}

// New builds a catalog and its identifier lookup from loaded data.
// Duplicate identifiers keep the first occurrence.
func New(stations []Station, countries map[string]Country, tags map[string]Tag) *Catalog {
	c := &Catalog{
		Stations:  stations,
		Countries: countries,
		Tags:      tags,
		byID:      make(map[string]Station, len(stations)),
	}
	for _, st := range stations {
		if _, ok := c.byID[st.ID]; !ok {
			c.byID[st.ID] = st
		}
	}
	return c
}

// Lookup returns the station with the given identifier.
func (c *Catalog) Lookup(id string) (Station, bool) {
	st, ok := c.byID[id]
	return st, ok
}

// Len returns the number of stations in the catalog.
func (c *Catalog) Len() int {
	return len(c.Stations)
}

// CountryEntry pairs a country code with its display metadata.
type CountryEntry struct {
	Code string
	Country
}

// TagEntry pairs a tag key with its display metadata.
type TagEntry struct {
	Key string
	Tag
}

// CountryList returns the catalog countries ordered by display name.
func (c *Catalog) CountryList() []CountryEntry {
	out := make([]CountryEntry, 0, len(c.Countries))
	for code, country := range c.Countries {
		out = append(out, CountryEntry{Code: code, Country: country})
	}
	slices.SortFunc(out, func(a, b CountryEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// TagList returns the catalog tags ordered by label.
func (c *Catalog) TagList() []TagEntry {
	out := make([]TagEntry, 0, len(c.Tags))
	for key, tag := range c.Tags {
		out = append(out, TagEntry{Key: key, Tag: tag})
	}
	slices.SortFunc(out, func(a, b TagEntry) int {
		return strings.Compare(a.Label, b.Label)
	})
	return out
}
