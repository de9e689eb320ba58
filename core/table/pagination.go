package table

import "strconv"

const (
	PreviousLabel = "&laquo;"
	NextLabel     = "&raquo;"
)

// Pagination is the page arithmetic shared by the in-memory engine and server-driven sources.
type Pagination struct {
	Total       int
	PerPage     int
	CurrentPage int
	LastPage    int
	From        int // 1-based index of the first row on the page; 0 when there are no rows
	To          int
}

// NewPagination clamps page into [1, lastPage]. A non positive perPage falls back to DefaultPageSize.
func NewPagination(total, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	if page < 1 {
		page = 1
	} else if page > lastPage {
		page = lastPage
	}

	p := Pagination{Total: total, PerPage: perPage, CurrentPage: page, LastPage: lastPage}
	if total > 0 {
		p.From = p.Offset() + 1
	}
	p.To = p.Offset() + perPage
	if p.To > total {
		p.To = total
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}

func (p Pagination) Limit() int {
	return p.PerPage
}

// Link is one entry of the page navigation. Disabled links keep their label but carry no target page.
type Link struct {
	Label   string `json:"label"`
	Page    int    `json:"page"`
	Active  bool   `json:"active"`
	Enabled bool   `json:"enabled"`
	URL     string `json:"url,omitempty"`
}

// Links returns previous, one link per page, then next.
func (p Pagination) Links() []Link {
	links := make([]Link, 0, p.LastPage+2)

	prev := Link{Label: PreviousLabel, Enabled: p.CurrentPage > 1}
	if prev.Enabled {
		prev.Page = p.CurrentPage - 1
	}
	links = append(links, prev)

	for i := 1; i <= p.LastPage; i++ {
		links = append(links, Link{Label: strconv.Itoa(i), Page: i, Active: i == p.CurrentPage, Enabled: true})
	}

	next := Link{Label: NextLabel, Enabled: p.CurrentPage < p.LastPage}
	if next.Enabled {
		next.Page = p.CurrentPage + 1
	}
	return append(links, next)
}

// PageResult is the visible page of a table and its navigation metadata.
type PageResult struct {
	Rows        []Row  `json:"data"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	PerPage     int    `json:"per_page"`
	From        int    `json:"from"`
	To          int    `json:"to"`
	Total       int    `json:"total"`
	Links       []Link `json:"links"`
}

// NewPageResult builds the result for rows already cut to the page described by p.
func NewPageResult(rows []Row, p Pagination) PageResult {
	if rows == nil {
		rows = []Row{}
	}
	return PageResult{
		Rows:        rows,
		CurrentPage: p.CurrentPage,
		LastPage:    p.LastPage,
		PerPage:     p.PerPage,
		From:        p.From,
		To:          p.To,
		Total:       p.Total,
		Links:       p.Links(),
	}
}

// WithURLs sets the URL of every enabled link. URLs are opaque to the engine.
func (res PageResult) WithURLs(pageURL func(page int) string) PageResult {
	links := make([]Link, len(res.Links))
	for i, l := range res.Links {
		if l.Enabled {
			l.URL = pageURL(l.Page)
		}
		links[i] = l
	}
	res.Links = links
	return res
}
