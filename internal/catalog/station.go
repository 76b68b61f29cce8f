// Package catalog loads the station catalog and derives filtered, paginated
// views of it.
package catalog

// Station is a single streamable radio source. Records are immutable once
// loaded; every other package holds them by value and never mutates them.
type Station struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Image   string   `json:"image"`
	Stream  string   `json:"stream"`
	Country string   `json:"country"`
	Tags    []string `json:"tags"`
}

// Country is display metadata for a country filter entry.
type Country struct {
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// Tag is display metadata for a tag filter entry.
type Tag struct {
	Label string `json:"label"`
}

// HasTag reports whether the station carries the given tag key.
func (s Station) HasTag(key string) bool {
	for _, t := range s.Tags {
		if t == key {
			return true
		}
	}
	return false
}
