package catalog

import "testing"

func testCatalog() *Catalog {
	return New([]Station{
		{ID: "st1", Name: "Radio Améthyste", Country: "fr", Tags: []string{"jazz", "chill"}},
		{ID: "st2", Name: "Berlin Techno", Country: "de", Tags: []string{"electronic"}},
		{ID: "st3", Name: "Café del Mar", Country: "es", Tags: []string{"chill"}},
		{ID: "st4", Name: "Jazz FM", Country: "de", Tags: []string{"jazz"}},
	}, map[string]Country{
		"fr": {Name: "France", Flag: "🇫🇷"},
		"de": {Name: "Germany", Flag: "🇩🇪"},
		"es": {Name: "Spain", Flag: "🇪🇸"},
	}, map[string]Tag{
		"jazz": {Label: "Jazz"}, "chill": {Label: "Chill"}, "electronic": {Label: "Electronic"},
	})
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Améthyste", "amethyste"},
		{"CAFÉ", "cafe"},
		{"  plain  ", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilters_Matches(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name    string
		filters Filters
		wantIDs []string
	}{
		{
			name:    "no filters keeps everything",
			filters: NewFilters(),
			wantIDs: []string{"st1", "st2", "st3", "st4"},
		},
		{
			name:    "country equality",
			filters: Filters{Country: "de", Tags: map[string]bool{}},
			wantIDs: []string{"st2", "st4"},
		},
		{
			name:    "tags combine with OR",
			filters: Filters{Tags: map[string]bool{"jazz": true, "electronic": true}},
			wantIDs: []string{"st1", "st2", "st4"},
		},
		{
			name:    "dimensions combine with AND",
			filters: Filters{Country: "de", Tags: map[string]bool{"jazz": true}},
			wantIDs: []string{"st4"},
		},
		{
			name:    "name is diacritic and case insensitive",
			filters: Filters{Name: "amethyste", Tags: map[string]bool{}},
			wantIDs: []string{"st1"},
		},
		{
			name:    "accented query matches plain name",
			filters: Filters{Name: "JÁZZ", Tags: map[string]bool{}},
			wantIDs: []string{"st4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filters.Apply(c)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Apply() returned %d stations, want %d", len(got), len(tt.wantIDs))
			}
			for i, st := range got {
				if st.ID != tt.wantIDs[i] {
					t.Errorf("result[%d] = %q, want %q", i, st.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestView_ApplyResetsPage(t *testing.T) {
	v := NewView(testCatalog(), 2, nil)
	v.SetPage(2)

	v.Apply(Filters{Country: "de", Tags: map[string]bool{}})

	if v.PageNumber() != 1 {
		t.Errorf("PageNumber() after Apply = %d, want 1", v.PageNumber())
	}
	if v.FilteredCount() != 2 {
		t.Errorf("FilteredCount() = %d, want 2", v.FilteredCount())
	}
}

func TestView_PageIsIdempotent(t *testing.T) {
	v := NewView(testCatalog(), 2, nil)
	v.SetPage(2)

	first := v.Page()
	second := v.Page()

	if len(first) != len(second) {
		t.Fatalf("repeated Page() lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("repeated Page()[%d] differ: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
	if got, want := v.TotalPages(), 2; got != want {
		t.Errorf("TotalPages() = %d, want %d", got, want)
	}
}

func TestView_ChangesFireInvalidate(t *testing.T) {
	calls := 0
	v := NewView(testCatalog(), 2, func() { calls++ })

	v.Apply(NewFilters())
	v.SetPage(2)
	v.SetPageSize(4)
	v.NextPage()
	v.PrevPage()

	if calls != 5 {
		t.Errorf("invalidate fired %d times, want 5", calls)
	}
}
