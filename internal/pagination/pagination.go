// Package pagination computes page windows over in-memory and upstream
// result sets.
package pagination

// Page describes one window of a result set. Start and End are 1-based and
// inclusive; both are 0 when the set is empty.
type Page struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	PerPage     int  `json:"perPage"`
	TotalPages  int  `json:"totalPages"`
	Start       int  `json:"start"`
	End         int  `json:"end"`
	HasNext     bool `json:"hasNextPage"`
	HasPrevious bool `json:"hasPreviousPage"`
}

// Result is a page of items together with its window.
type Result[T any] struct {
	Items []T `json:"items"`
	Page
}

// Normalize clamps page to >= 1 and replaces a non-positive perPage with def.
func Normalize(page, perPage, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	return page, perPage
}

// New computes the window for page over total items.
func New(total, page, perPage int) Page {
	page, perPage = Normalize(page, perPage, 1)
	if total < 0 {
		total = 0
	}

	p := Page{
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
	p.TotalPages = total / perPage
	if total%perPage != 0 {
		p.TotalPages++
	}
	p.HasNext = page < p.TotalPages
	p.HasPrevious = page > 1

	// Past the last page the window is empty; page is bounded by TotalPages
	// from here on, so the products below cannot overflow.
	if total == 0 || page > p.TotalPages {
		return p
	}
	p.Start = (page-1)*perPage + 1
	p.End = min(page*perPage, total)
	return p
}

// Slice returns the items of page. Items is never nil.
func Slice[T any](items []T, page, perPage int) Result[T] {
	p := New(len(items), page, perPage)
	out := make([]T, 0, max(p.End-p.Start+1, 0))
	if p.Start > 0 {
		out = append(out, items[p.Start-1:p.End]...)
	}
	return Result[T]{Items: out, Page: p}
}
