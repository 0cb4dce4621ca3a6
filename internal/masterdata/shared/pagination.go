package shared

import (
	"net/http"
	"strconv"
	"strings"
)

// ListFilters represents standard list filters. A zero Limit returns every row.
type ListFilters struct {
	Page   int
	Limit  int
	Search string
}

// Offset returns the number of rows to skip for the current page.
func (f ListFilters) Offset() int {
	if f.Limit <= 0 || f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Matches reports whether name satisfies the search filter.
func (f ListFilters) Matches(name string) bool {
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(f.Search))
}

// FiltersFromRequest reads page, limit and search from the query string.
func FiltersFromRequest(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 0 {
		limit = 0
	}
	return ListFilters{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(q.Get("search")),
	}
}

// Window applies the page window of f to n rows and returns the slice bounds.
func (f ListFilters) Window(n int) (int, int) {
	if f.Limit <= 0 {
		return 0, n
	}
	start := f.Offset()
	if start > n {
		start = n
	}
	end := start + f.Limit
	if end > n {
		end = n
	}
	return start, end
}
