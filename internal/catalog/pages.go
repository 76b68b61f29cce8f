package catalog

// Ellipsis is the gap marker in a smart page list.
const Ellipsis = -1

// smartThreshold is the page count up to which all page numbers are shown.
const smartThreshold = 10

// PageCount returns the number of pages for n items at the given page size,
// never less than 1.
func PageCount(n, size int) int {
	if size <= 0 {
		return 1
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage clamps a 1-based page number into [1, PageCount(n, size)].
func ClampPage(page, n, size int) int {
	total := PageCount(n, size)
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// PageSlice returns the slice of items visible on the given page. The page is
// clamped first, so the result is identical on repeated calls with unchanged
// inputs.
func PageSlice(items []Station, page, size int) []Station {
	if size <= 0 {
		return nil
	}
	page = ClampPage(page, len(items), size)
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// SmartPages produces the page-number list for the pagination bar. Up to
// smartThreshold pages every number is listed. Beyond that the list is
// 1, a window of current±1 clamped to the interior, and the last page, with
// Ellipsis wherever the window gaps from an edge: 1 … 5 6 7 … 20.
func SmartPages(current, total int) []int {
	if total <= smartThreshold {
		pages := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	left := current - 1
	if left < 2 {
		left = 2
	}
	right := current + 1
	if right > total-1 {
		right = total - 1
	}

	pages := []int{1}
	if left > 2 {
		pages = append(pages, Ellipsis)
	}
	for i := left; i <= right; i++ {
		pages = append(pages, i)
	}
	if right < total-1 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, total)
}
