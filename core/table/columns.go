package table

// ColumnDef declares a sortable column of a view.
type ColumnDef struct {
	Key   string
	Label string
}

// Column is the header state of a column for the current query.
type Column struct {
	Key          string    `json:"key"`
	Label        string    `json:"label"`
	Active       bool      `json:"active"`
	Direction    Direction `json:"direction,omitempty"`
	NextOrdering string    `json:"next_ordering"` // ordering to request when the header is clicked
}

func Columns(q Query, defs ...ColumnDef) []Column {
	cols := make([]Column, 0, len(defs))
	for _, def := range defs {
		col := Column{
			Key:          def.Key,
			Label:        def.Label,
			NextOrdering: q.ToggleSort(def.Key).Ordering(),
		}
		if q.SortKey == def.Key {
			col.Active = true
			col.Direction = q.SortDirection
		}
		cols = append(cols, col)
	}
	return cols
}
