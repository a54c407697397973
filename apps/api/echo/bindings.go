package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/leonsilipetar/cadenza/core"
)

const orderingParam = "ordering"

// Ordering binds the `ordering` query param, a comma-separated field
// list where a "-" prefix means descending, eg. `?ordering=-created_at,name`.
// Fields end up in ORDER BY clauses; anything not in allowed is dropped.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context, allowed ...string) {
	raw := ctx.QueryParam(orderingParam)
	if raw == "" {
		return
	}

	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:]
		}
		if !fieldAllowed(field, allowed) {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

func fieldAllowed(field string, allowed []string) bool {
	for _, a := range allowed {
		if field == a {
			return true
		}
	}
	return false
}
