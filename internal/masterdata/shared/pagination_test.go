package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFiltersFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/suppliers?page=3&limit=10&search=%20soft%20", nil)
	f := FiltersFromRequest(req)
	assert.Equal(t, ListFilters{Page: 3, Limit: 10, Search: "soft"}, f)
	assert.Equal(t, 20, f.Offset())

	req = httptest.NewRequest("GET", "/suppliers?page=-1&limit=abc", nil)
	f = FiltersFromRequest(req)
	assert.Equal(t, ListFilters{Page: DefaultPage}, f)
	assert.Equal(t, 0, f.Offset())
}

func TestWindow(t *testing.T) {
	all := ListFilters{Page: 4}
	start, end := all.Window(7)
	assert.Equal(t, 0, start)
	assert.Equal(t, 7, end)

	second := ListFilters{Page: 2, Limit: 3}
	start, end = second.Window(7)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)

	last := ListFilters{Page: 3, Limit: 3}
	start, end = last.Window(7)
	assert.Equal(t, 6, start)
	assert.Equal(t, 7, end)

	past := ListFilters{Page: 9, Limit: 3}
	start, end = past.Window(7)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)
}

func TestMatches(t *testing.T) {
	assert.True(t, ListFilters{}.Matches("anything"))
	assert.True(t, ListFilters{Search: "SOFT"}.Matches("Priority Soft"))
	assert.False(t, ListFilters{Search: "kenya"}.Matches("Anastasia"))
}
