package listing

// Paginate slices items into 1-indexed pages. The page is clamped to the
// valid range and the returned slice is a copy: recomputing a page never
// mutates the source. The second return value is the page count.
func Paginate[T any](items []T, pageSize, page int) ([]T, int) {
	if pageSize <= 0 || len(items) == 0 {
		return nil, 0
	}
	pageCount := (len(items) + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, pageCount
}
