package items

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *memoryRepo) http.Handler {
	r := chi.NewRouter()
	r.Route("/items", NewHandler(nil, newTestService(repo)).MountRoutes)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerItemLifecycle(t *testing.T) {
	h := newTestRouter(newMemoryRepo(1))

	rec := do(t, h, http.MethodPost, "/items", `{"name":"Code","description":"Interview code 1","price":10,"suppliers":[1]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Code","description":"Interview code 1","price":"10.00","created_at":"2024-06-03","suppliers":[1]}`, rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/items/1", `{"name":"books"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"books","description":"Interview code 1","price":"10.00","created_at":"2024-06-03","suppliers":[1]}`, rec.Body.String())

	rec = do(t, h, http.MethodPut, "/items/1", `{"name":"books","description":"Interview code 1","price":"11"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"books","description":"Interview code 1","price":"11.00","created_at":"2024-06-03","suppliers":[]}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/items/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/items/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerItemValidation(t *testing.T) {
	h := newTestRouter(newMemoryRepo(1))

	rec := do(t, h, http.MethodPost, "/items", `{"name":"Code","description":"x","price":-3,"suppliers":[1,42]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":["Ensure this value is greater than or equal to 0."]`)
	assert.Contains(t, rec.Body.String(), `Invalid pk \"42\" - object does not exist.`)

	rec = do(t, h, http.MethodPost, "/items", `{"name":"Code","description":"x","price":1,"suppliers":["a"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"suppliers"`)

	rec = do(t, h, http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandlerItemRejectsNull(t *testing.T) {
	h := newTestRouter(newMemoryRepo(1))
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/items", `{"name":"Code","description":"x","price":1,"suppliers":[1]}`).Code)

	rec := do(t, h, http.MethodPatch, "/items/1", `{"suppliers":null}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"suppliers":["This field may not be null."]`)

	rec = do(t, h, http.MethodPut, "/items/1", `{"name":"Code","description":"x","price":null,"suppliers":null}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":["This field may not be null."]`)
	assert.Contains(t, rec.Body.String(), `"suppliers":["This field may not be null."]`)

	rec = do(t, h, http.MethodPatch, "/items/1", `{"name":null}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":["This field may not be null."]`)

	rec = do(t, h, http.MethodGet, "/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Code"`)
	assert.Contains(t, rec.Body.String(), `"suppliers":[1]`)
}

func TestHandlerItemMalformedIdentifier(t *testing.T) {
	h := newTestRouter(newMemoryRepo())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/items/one", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPut, "/items/1.5", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPatch, "/items/7", `{"name":"x"}`).Code)
}
