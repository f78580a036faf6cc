package catalog

const DefaultPageSize = 10

// PageSizes are the page sizes a browse view accepts.
var PageSizes = []int{10, 20, 40}

type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// Paginate returns the 1-indexed page number of items. Out of range page
// numbers are clamped to [1, max(1, ceil(len/size))].
func Paginate[T any](items []T, size, number int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := total / size
	if total%size != 0 {
		pages++
	}

	last := pages
	if last < 1 {
		last = 1
	}
	switch {
	case number < 1:
		number = 1
	case number > last:
		number = last
	}

	start := (number - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end:end],
		Number:     number,
		Size:       size,
		TotalPages: pages,
		TotalItems: total,
	}
}

// View is the browse state of one session: the active criteria and the
// page position.
type View struct {
	Criteria Criteria
	PageSize int
	Page     int
}

func DefaultView() View {
	return View{Criteria: DefaultCriteria(), PageSize: DefaultPageSize, Page: 1}
}

// WithCriteria moves back to page 1 whenever the criteria change.
func (v View) WithCriteria(c Criteria) View {
	if c != v.Criteria {
		v.Page = 1
	}
	v.Criteria = c
	return v
}

// WithPageSize keeps the first item of the current page on screen.
// Unsupported sizes fall back to DefaultPageSize. The resulting page may be
// past the end of a shorter result list; Paginate clamps it.
func (v View) WithPageSize(size int) View {
	size = normalizePageSize(size)
	if size == v.PageSize {
		return v
	}
	oldSize := v.PageSize
	if oldSize < 1 {
		oldSize = DefaultPageSize
	}
	page := v.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * oldSize
	v.Page = start/size + 1
	v.PageSize = size
	return v
}

// WithPage jumps to an explicit page number.
func (v View) WithPage(page int) View {
	if page < 1 {
		page = 1
	}
	v.Page = page
	return v
}

func normalizePageSize(size int) int {
	for _, s := range PageSizes {
		if s == size {
			return size
		}
	}
	return DefaultPageSize
}
