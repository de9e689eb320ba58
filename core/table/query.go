package table

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-records/core"
)

// DefaultPageSize is used when a query reaches the engine without a usable page size.
var DefaultPageSize = 10

// ErrInvalidQuery is the cause of every Query.Validate failure.
var ErrInvalidQuery = errors.New("invalid table query")

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Query is what a table view asks for: search, then sort, then paginate.
type Query struct {
	Search        string    `json:"search"`
	SortKey       string    `json:"sort_key,omitempty"` // "" means unsorted
	SortDirection Direction `json:"sort_direction"`
	Page          int       `json:"page"`
	PageSize      int       `json:"per_page"`
}

func NewQuery(pageSize int) Query {
	return Query{SortDirection: Asc, Page: 1, PageSize: pageSize}
}

// Validate checks the caller preconditions: a positive page size (at most maxPageSize when set) and a known direction.
// Out of range pages are not an error; the engine clamps them.
func (q Query) Validate(maxPageSize int) error {
	var flds []core.FieldError
	if q.PageSize <= 0 {
		flds = append(flds, core.FieldError{Field: "per_page", Error: "page size must be greater than 0"})
	} else if maxPageSize > 0 && q.PageSize > maxPageSize {
		flds = append(flds, core.FieldError{Field: "per_page", Error: fmt.Sprintf("page size must be at most %d", maxPageSize)})
	}
	if q.SortDirection != "" && q.SortDirection != Asc && q.SortDirection != Desc {
		flds = append(flds, core.FieldError{Field: "sort_direction", Error: "sort direction must be one of asc, desc"})
	}
	if flds != nil {
		return core.NewValidationError(ErrInvalidQuery, flds...)
	}
	return nil
}

// ToggleSort returns the query after a click on the header of column key:
// another column -> (key, asc), (key, asc) -> (key, desc), (key, desc) -> unsorted.
func (q Query) ToggleSort(key string) Query {
	switch {
	case q.SortKey != key:
		q.SortKey, q.SortDirection = key, Asc
	case q.SortDirection == Desc:
		q.SortKey, q.SortDirection = "", Asc
	default:
		q.SortDirection = Desc
	}
	return q
}

// Ordering renders the sort as an "ordering" parameter value: "name", "-name" or "".
func (q Query) Ordering() string {
	if q.SortKey == "" {
		return ""
	}
	if q.SortDirection == Desc {
		return "-" + q.SortKey
	}
	return q.SortKey
}

// ApplyOrderings sorts the query by the first ordering; tables sort on a single column.
func (q *Query) ApplyOrderings(orderings []core.DBOrdering) {
	if len(orderings) == 0 {
		q.SortKey, q.SortDirection = "", Asc
		return
	}
	q.SortKey, q.SortDirection = orderings[0].Field, Asc
	if !orderings[0].Ascending {
		q.SortDirection = Desc
	}
}
