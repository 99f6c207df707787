package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/binder"
)

type updateRequest struct {
	ID     int64    `path:"id" json:"-"`
	Name   string   `json:"name"`
	Limit  int      `query:"limit" json:"-"`
	Tags   []string `query:"tag" json:"-"`
	Active *bool    `query:"active" json:"-"`
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/companies", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	bind := binder.JSON()

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()

		var req updateRequest
		require.NoError(t, bind(jsonRequest(`{"name":"acme"}`), &req))
		assert.Equal(t, "acme", req.Name)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		t.Parallel()

		tests := map[string]string{
			"unknown field":  `{"name":"acme","owner":1}`,
			"trailing data":  `{"name":"acme"} {}`,
			"invalid syntax": `{"name":`,
			"wrong type":     `{"name":1}`,
		}
		for name, body := range tests {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				var req updateRequest
				assert.ErrorIs(t, bind(jsonRequest(body), &req), binder.ErrInvalidJSON)
			})
		}
	})

	t.Run("checks content type", func(t *testing.T) {
		t.Parallel()

		r := jsonRequest(`{"name":"acme"}`)
		r.Header.Set("Content-Type", "text/plain")
		assert.ErrorIs(t, bind(r, &updateRequest{}), binder.ErrUnsupportedMediaType)

		r.Header.Del("Content-Type")
		assert.ErrorIs(t, bind(r, &updateRequest{}), binder.ErrMissingContentType)
	})

	t.Run("skips requests without body", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/companies", nil)
		assert.ErrorIs(t, bind(r, &updateRequest{}), binder.ErrBinderNotApplicable)
	})
}

func TestPathAndQuery(t *testing.T) {
	t.Parallel()

	params := map[string]string{"id": "42"}
	extract := func(_ *http.Request, name string) string { return params[name] }

	t.Run("binds tagged fields only", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/companies/42?limit=10&tag=a,b&tag=c&active=true&name=ignored", nil)
		var req updateRequest
		require.NoError(t, binder.Path(extract)(r, &req))
		require.NoError(t, binder.Query()(r, &req))

		assert.Equal(t, int64(42), req.ID)
		assert.Equal(t, 10, req.Limit)
		assert.Equal(t, []string{"a", "b", "c"}, req.Tags)
		require.NotNil(t, req.Active)
		assert.True(t, *req.Active)
		assert.Empty(t, req.Name)
	})

	t.Run("reports invalid values", func(t *testing.T) {
		t.Parallel()

		bad := func(_ *http.Request, _ string) string { return "abc" }
		r := httptest.NewRequest(http.MethodGet, "/companies/abc?limit=x", nil)

		assert.ErrorIs(t, binder.Path(bad)(r, &updateRequest{}), binder.ErrInvalidPath)
		assert.ErrorIs(t, binder.Query()(r, &updateRequest{}), binder.ErrInvalidQuery)
	})

	t.Run("requires struct pointer", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		var n int
		assert.ErrorIs(t, binder.Query()(r, &n), binder.ErrInvalidQuery)
	})
}
