package core

import "strings"

type DBOrdering struct {
	Field     string
	Ascending bool
}

// ParseOrderings parses a comma separated "ordering" value; a leading "-" sorts descending ("-name,year_level").
func ParseOrderings(val string) []DBOrdering {
	var orderings []DBOrdering
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = strings.TrimSpace(field[1:]) // drop "-"
		}
		if field == "" {
			continue
		}
		orderings = append(orderings, DBOrdering{Field: field, Ascending: !descending})
	}
	return orderings
}
