package model

// ListQuery carries pagination and free-text search for list operations.
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
}

// Offset returns the row offset of the requested page.
func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// PageMeta describes a page of results.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// NewPageMeta builds the page description for q given total matching rows.
func NewPageMeta(q ListQuery, total int64) PageMeta {
	last := 1
	if q.PerPage > 0 && total > 0 {
		last = int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return PageMeta{CurrentPage: page, PerPage: q.PerPage, Total: total, LastPage: last}
}
