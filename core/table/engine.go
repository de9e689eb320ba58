package table

import (
	"sort"
	"strings"
)

// Run filters, sorts and paginates rows, in that order. It never fails and never modifies rows.
func Run(rows []Row, q Query) PageResult {
	return Paginate(Sort(Filter(rows, q.Search), q.SortKey, q.SortDirection), q.Page, q.PageSize)
}

// Filter keeps the rows having any value that contains search, case-insensitively.
// Search is matched as given, surrounding spaces included. Nested maps are searched
// value by value; nulls never match.
func Filter(rows []Row, search string) []Row {
	if search == "" {
		return rows
	}
	needle := strings.ToLower(search)
	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if matches(row, needle) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func matches(v interface{}, needle string) bool {
	if m, ok := asMap(v); ok {
		for _, val := range m {
			if matches(val, needle) {
				return true
			}
		}
		return false
	}
	if s, ok := v.([]interface{}); ok {
		for _, val := range s {
			if matches(val, needle) {
				return true
			}
		}
		return false
	}
	s, ok := Text(v)
	return ok && strings.Contains(strings.ToLower(s), needle)
}

// Sort returns a stably sorted copy of rows, or rows themselves when key is empty.
// Nulls and missing values go last whatever the direction.
func Sort(rows []Row, key string, dir Direction) []Row {
	if key == "" {
		return rows
	}
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j], key, dir)
	})
	return sorted
}

func less(a, b Row, key string, dir Direction) bool {
	va, aok := a.Value(key)
	vb, bok := b.Value(key)
	aNull, bNull := !aok || isNull(va), !bok || isNull(vb)
	switch {
	case aNull:
		return false
	case bNull:
		return true
	}
	c := Compare(va, vb)
	if dir == Desc {
		return c > 0
	}
	return c < 0
}

// Compare orders two non null values. Numbers (and numeric strings) come before text;
// numbers compare numerically, text case-insensitively.
func Compare(a, b interface{}) int {
	fa, aNum := number(a)
	fb, bNum := number(b)
	switch {
	case aNum && bNum:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	sa, _ := Text(a)
	sb, _ := Text(b)
	return strings.Compare(strings.ToLower(sa), strings.ToLower(sb))
}

// Paginate cuts the page out of rows; page is clamped into range.
func Paginate(rows []Row, page, perPage int) PageResult {
	p := NewPagination(len(rows), page, perPage)
	end := p.Offset() + p.PerPage
	if end > len(rows) {
		end = len(rows)
	}
	pageRows := make([]Row, end-p.Offset())
	copy(pageRows, rows[p.Offset():end])
	return NewPageResult(pageRows, p)
}
