package catalog

const (
	// DefaultPageSize is the page size used when none is given.
	DefaultPageSize = 20

	// MaxPageSize is the largest page size callers should request.
	MaxPageSize = 100
)

// Page is one window of a larger result set. Page numbers start at 1.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool {
	return p.Page > 1
}

// Paginate returns page number page of items. A page below 1 is treated
// as 1 and a size below 1 as DefaultPageSize. Pages past the end are
// empty.
func Paginate[T any](items []T, page, size int) Page[T] {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}

	total := len(items)
	pages := total / size
	if total%size != 0 {
		pages++
	}
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		Limit:      size,
		Total:      total,
		TotalPages: pages,
	}

	// Past the last page; also keeps (page-1)*size from overflowing.
	if page > pages {
		return p
	}
	start := (page - 1) * size
	end := min(start+size, total)
	p.Items = items[start:end]
	return p
}
