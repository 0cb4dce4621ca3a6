package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetail {
	t.Helper()
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestRespondErrorValidation(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("email", "Enter a valid email address.")
	fe.Add("name", "This field is required.")

	rec := httptest.NewRecorder()
	RespondError(rec, fmt.Errorf("create supplier: %w", fe.Err()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, "Validation Failed", p.Title)
	assert.Equal(t, []string{"Enter a valid email address."}, p.Errors["email"])
	assert.Equal(t, []string{"This field is required."}, p.Errors["name"])
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("item 4: %w", ErrNotFound), http.StatusNotFound},
		{"conflict", ErrConflict, http.StatusConflict},
		{"bare validation", ErrValidation, http.StatusBadRequest},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)
			require.Equal(t, tc.status, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, tc.status, p.Status)
		})
	}
}

func TestRespondErrorHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("pq: password authentication failed"))
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestIsServerError(t *testing.T) {
	assert.False(t, IsServerError(FieldError("name", "x")))
	assert.False(t, IsServerError(fmt.Errorf("wrap: %w", ErrNotFound)))
	assert.False(t, IsServerError(ErrConflict))
	assert.True(t, IsServerError(errors.New("boom")))
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	require.NoError(t, fe.Err())

	fe.Add("price", "A valid number is required.")
	other := FieldErrors{}
	other.Add("price", "second")
	other.Add("name", "This field may not be blank.")
	fe.Merge(other)

	err := fe.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: name: This field may not be blank.; price: A valid number is required. second", err.Error())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields["price"], 2)
}

func TestJSONAndNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name  *string `json:"name"`
		Count int     `json:"count"`
	}

	t.Run("ok", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Code","count":2}`))
		require.NoError(t, DecodeJSON(req, &p))
		require.NotNil(t, p.Name)
		assert.Equal(t, "Code", *p.Name)
		assert.Equal(t, 2, p.Count)
	})

	t.Run("empty body", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		err := DecodeJSON(req, &p)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Request body must be a JSON object."}, verr.Fields["non_field_errors"])
	})

	t.Run("wrong type", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":"two"}`))
		err := DecodeJSON(req, &p)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Incorrect type. Expected int."}, verr.Fields["count"])
	})

	t.Run("malformed", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		err := DecodeJSON(req, &p)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields["non_field_errors"], 1)
		assert.True(t, strings.HasPrefix(verr.Fields["non_field_errors"][0], "Malformed JSON"))
	})
}
