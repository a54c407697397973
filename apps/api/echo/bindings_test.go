package echoapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/leonsilipetar/cadenza/core"
)

func Test_orderingBind(t *testing.T) {
	bind := func(raw string, allowed ...string) []core.DBOrdering {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/?ordering="+url.QueryEscape(raw), nil)
		ctx := e.NewContext(req, httptest.NewRecorder())

		ord := new(Ordering)
		ord.Bind(ctx, allowed...)
		return ord.Orderings
	}

	t.Run("fields and directions", func(t *testing.T) {
		got := bind("-created_at,name", "name", "created_at")
		assert.Equal(t, []core.DBOrdering{
			{Field: "created_at", Ascending: false},
			{Field: "name", Ascending: true},
		}, got)
	})

	t.Run("empty segments skipped", func(t *testing.T) {
		got := bind("name,, ", "name")
		assert.Equal(t, []core.DBOrdering{{Field: "name", Ascending: true}}, got)
	})

	t.Run("unknown fields dropped", func(t *testing.T) {
		got := bind("name,secret_col", "name")
		assert.Equal(t, []core.DBOrdering{{Field: "name", Ascending: true}}, got)
	})

	t.Run("sql fragments dropped", func(t *testing.T) {
		got := bind("created_at; DROP TABLE enrollment; --", "created_at")
		assert.Empty(t, got)
	})
}
