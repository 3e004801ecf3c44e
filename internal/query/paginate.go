package query

// Paginator slices a collection into fixed-size pages. Pages are 1-based.
// Page jumps are clamped rather than rejected, so a shrinking collection can
// never leave the paginator pointing past the end.
type Paginator[T any] struct {
	items []T
	page  int
	size  int
}

// NewPaginator creates a paginator on page 1. Sizes below 1 are raised to 1.
func NewPaginator[T any](items []T, size int) *Paginator[T] {
	if size < 1 {
		size = 1
	}
	return &Paginator[T]{items: items, page: 1, size: size}
}

// Page returns the current 1-based page index.
func (p *Paginator[T]) Page() int { return p.page }

// PageSize returns the current page size.
func (p *Paginator[T]) PageSize() int { return p.size }

// Total returns the number of items across all pages.
func (p *Paginator[T]) Total() int { return len(p.items) }

// TotalPages returns ceil(total/size), never less than 1: an empty
// collection still has one (empty) page.
func (p *Paginator[T]) TotalPages() int {
	n := (len(p.items) + p.size - 1) / p.size
	if n < 1 {
		return 1
	}
	return n
}

// Items returns the slice of entities on the current page.
func (p *Paginator[T]) Items() []T {
	start := (p.page - 1) * p.size
	if start >= len(p.items) {
		return nil
	}

	end := start + p.size
	if end > len(p.items) {
		end = len(p.items)
	}

	return p.items[start:end]
}

// SetPage jumps to the given page, clamped to [1, TotalPages].
func (p *Paginator[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	if max := p.TotalPages(); page > max {
		page = max
	}
	p.page = page
}

// SetPageSize changes the page size and resets to page 1.
func (p *Paginator[T]) SetPageSize(size int) {
	if size < 1 {
		size = 1
	}
	p.size = size
	p.page = 1
}

// SetItems replaces the underlying collection, clamping the current page
// back into range if the collection shrank.
func (p *Paginator[T]) SetItems(items []T) {
	p.items = items
	p.SetPage(p.page)
}
