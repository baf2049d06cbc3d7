package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind parses the "ordering" query param ("field,-other") into DB orderings.
// Field names are looked up in sortable (exposed name -> column); anything
// else is dropped, so user input never reaches the ORDER BY clause verbatim.
func (ord *Ordering) Bind(ctx echo.Context, sortable map[string]string) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		column, ok := sortable[field]
		if !ok {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: column, Ascending: !descending})
	}
}

// intParam parses a numeric path parameter; unparseable values read as 0
// and fall through to the not-found paths downstream.
func intParam(ctx echo.Context, name string) int {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0
	}
	return id
}
