package catalog

// View derives a filtered, paginated page of the catalog from the current
// predicates and page state. Recomputation is idempotent: with unchanged
// inputs, Page and Pages return identical results on every call.
//
// Any filter, page or page-size change invalidates direct-interaction state
// elsewhere (an active preview must not outlive the rows it was started
// from), so View fires the invalidate hook on every such change.
type View struct {
	catalog  *Catalog
	filters  Filters
	filtered []Station
	page     int
	pageSize int

	invalidate func()
}

// NewView creates a view over a loaded catalog. The initial page shows the
// whole catalog unfiltered. invalidate may be nil.
func NewView(c *Catalog, pageSize int, invalidate func()) *View {
	v := &View{
		catalog:    c,
		filters:    NewFilters(),
		page:       1,
		pageSize:   pageSize,
		invalidate: invalidate,
	}
	v.filtered = v.filters.Apply(c)
	return v
}

// Apply replaces the filter predicates, recomputes the filtered sequence and
// resets the current page to 1.
func (v *View) Apply(f Filters) {
	v.fireInvalidate()
	v.filters = f
	v.filtered = f.Apply(v.catalog)
	v.page = 1
}

// Filters returns the current predicates.
func (v *View) Filters() Filters {
	return v.filters
}

// SetPage moves to the given 1-based page, clamped into range.
func (v *View) SetPage(page int) {
	v.fireInvalidate()
	v.page = ClampPage(page, len(v.filtered), v.pageSize)
}

// NextPage advances one page if possible.
func (v *View) NextPage() {
	v.SetPage(v.page + 1)
}

// PrevPage goes back one page if possible.
func (v *View) PrevPage() {
	v.SetPage(v.page - 1)
}

// SetPageSize changes the page size and resets to page 1.
func (v *View) SetPageSize(size int) {
	v.fireInvalidate()
	v.pageSize = size
	v.page = 1
}

// Page returns the currently visible slice of stations.
func (v *View) Page() []Station {
	v.page = ClampPage(v.page, len(v.filtered), v.pageSize)
	return PageSlice(v.filtered, v.page, v.pageSize)
}

// PageNumber returns the current 1-based page number, clamped.
func (v *View) PageNumber() int {
	v.page = ClampPage(v.page, len(v.filtered), v.pageSize)
	return v.page
}

// PageSize returns the current page size.
func (v *View) PageSize() int {
	return v.pageSize
}

// TotalPages returns the page count for the filtered sequence.
func (v *View) TotalPages() int {
	return PageCount(len(v.filtered), v.pageSize)
}

// FilteredCount returns the size of the filtered sequence.
func (v *View) FilteredCount() int {
	return len(v.filtered)
}

// Pages returns the smart page-number list for the pagination bar.
func (v *View) Pages() []int {
	return SmartPages(v.PageNumber(), v.TotalPages())
}

func (v *View) fireInvalidate() {
	if v.invalidate != nil {
		v.invalidate()
	}
}
