package models

// Page is the list envelope shared by every collection endpoint.
type Page[T any] struct {
	Items      []T `json:"items"`
	PageNr     int `json:"pageNr"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

func NewPage[T any](items []T, pageNr, pageSize, totalCount int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		PageNr:     pageNr,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}

// TotalPages is the ceiling of TotalCount / PageSize. A non-positive page
// size yields zero pages.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// HasNext reports whether a page follows PageNr (0-based).
func (p Page[T]) HasNext() bool {
	return p.PageNr+1 < p.TotalPages()
}

func (p Page[T]) HasPrevious() bool {
	return p.PageNr > 0
}
