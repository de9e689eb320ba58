package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-records/core"
	"github.com/trezcool/masomo-records/core/student"
	"github.com/trezcool/masomo-records/core/table"
)

var (
	orderingParam = "ordering"
	searchParam   = "search"
	pageParam     = "page"
	perPageParam  = "per_page"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	ord.Orderings = core.ParseOrderings(ctx.QueryParam(orderingParam))
}

// bindTableQuery reads search, ordering, page and per_page. Out of range pages are left for the engine to clamp.
func bindTableQuery(ctx echo.Context, conf *core.Config) (table.Query, error) {
	q := table.NewQuery(conf.Table.DefaultPageSize)
	q.Search = core.CleanString(ctx.QueryParam(searchParam))

	ordering := new(Ordering)
	ordering.Bind(ctx)
	q.ApplyOrderings(ordering.Orderings)

	var flds []core.FieldError
	intParam := func(name string, dst *int) {
		val := core.CleanString(ctx.QueryParam(name))
		if val == "" {
			return
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			flds = append(flds, core.FieldError{Field: name, Error: name + " must be an integer"})
			return
		}
		*dst = n
	}
	intParam(pageParam, &q.Page)
	intParam(perPageParam, &q.PageSize)
	if flds != nil {
		return q, core.NewValidationError(table.ErrInvalidQuery, flds...)
	}
	return q, q.Validate(conf.Table.MaxPageSize)
}

func bindFilter(ctx echo.Context) (student.Filter, error) {
	var f student.Filter
	if err := ctx.Bind(&f); err != nil {
		return f, err
	}
	f.Clean()
	return f, nil
}

// pageURLs returns the link builder of the current request: same URL, other page.
func pageURLs(ctx echo.Context) func(page int) string {
	return func(page int) string {
		u := *ctx.Request().URL
		query := u.Query()
		query.Set(pageParam, strconv.Itoa(page))
		u.RawQuery = query.Encode()
		return u.RequestURI()
	}
}

// pageResponse is a table page with its header state.
type pageResponse struct {
	table.PageResult
	Columns  []table.Column `json:"columns"`
	Search   string         `json:"search"`
	Ordering string         `json:"ordering"`
	Filter   student.Filter `json:"filter"`
}

func newPageResponse(ctx echo.Context, res table.PageResult, defs []table.ColumnDef, f student.Filter, q table.Query) pageResponse {
	return pageResponse{
		PageResult: res.WithURLs(pageURLs(ctx)),
		Columns:    table.Columns(q, defs...),
		Search:     q.Search,
		Ordering:   q.Ordering(),
		Filter:     f,
	}
}
