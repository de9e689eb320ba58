package filter

import (
	"strconv"
	"strings"
)

// Values maps field names to their selected value. Unset fields are absent or "".
type Values map[string]string

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Source produces the options of a field.
// Sources with parents are derived: their options are a function of the parents' selected values.
type Source interface {
	Parents() []string
	Options(g *OptionsGraph, values Values) []Option
}

func isDerived(src Source) bool {
	return src != nil && len(src.Parents()) > 0
}

type staticList struct {
	name string
}

// StaticList draws the options from the graph list called name.
func StaticList(name string) Source {
	return staticList{name: name}
}

func (src staticList) Parents() []string { return nil }

func (src staticList) Options(g *OptionsGraph, _ Values) []Option {
	return g.List(src.name)
}

type fixed []Option

// Fixed always offers opts.
func Fixed(opts ...Option) Source {
	return fixed(opts)
}

func (src fixed) Parents() []string { return nil }

func (src fixed) Options(*OptionsGraph, Values) []Option {
	return src
}

type keyedList struct {
	name    string
	parents []string
}

// KeyedList looks up the graph entry name with the parents' values joined by "-" ("BSIT-4").
func KeyedList(name string, parents ...string) Source {
	return keyedList{name: name, parents: parents}
}

func (src keyedList) Parents() []string { return src.parents }

func (src keyedList) Options(g *OptionsGraph, values Values) []Option {
	parts := make([]string, 0, len(src.parents))
	for _, p := range src.parents {
		if values[p] == "" {
			return nil
		}
		parts = append(parts, values[p])
	}
	return g.KeyedList(src.name, strings.Join(parts, "-"))
}

type yearRange struct {
	name   string
	parent string
	def    int
}

// YearRange offers 1..N where N is the count of the graph entry name for the parent's value, or def when unknown.
func YearRange(name, parent string, def int) Source {
	return yearRange{name: name, parent: parent, def: def}
}

func (src yearRange) Parents() []string { return []string{src.parent} }

func (src yearRange) Options(g *OptionsGraph, values Values) []Option {
	val := values[src.parent]
	if val == "" {
		return nil
	}
	n, ok := g.Count(src.name, val)
	if !ok || n <= 0 {
		n = src.def
	}
	return numberedOptions(n)
}

type atLeast struct {
	name   string
	parent string
}

// AtLeast offers the numeric entries of the graph list name not lower than the parent's value (end year >= start year).
func AtLeast(name, parent string) Source {
	return atLeast{name: name, parent: parent}
}

func (src atLeast) Parents() []string { return []string{src.parent} }

func (src atLeast) Options(g *OptionsGraph, values Values) []Option {
	min, err := strconv.Atoi(values[src.parent])
	if err != nil {
		return nil
	}
	var opts []Option
	for _, opt := range g.List(src.name) {
		if n, err := strconv.Atoi(opt.Value); err == nil && n >= min {
			opts = append(opts, opt)
		}
	}
	return opts
}
