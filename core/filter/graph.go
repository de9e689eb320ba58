package filter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Well known entries of an options graph.
const (
	AcademicYears = "academicYears"
	Semesters     = "semesters"
	Batches       = "batches"
	BoardBatches  = "boardBatches"
	BatchYears    = "batchYears"
	StatYears     = "statYears"
	Colleges      = "colleges"
	Programs      = "programs" // keyed by college
	Years         = "years"    // program duration, keyed by program
	Sections      = "sections" // keyed by "program-year"
)

//go:embed options.json
var demoOptions []byte

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionsGraph holds every option list the filter forms draw from:
// plain lists, lists keyed by the selected value(s) of parent fields, and counts keyed the same way.
type OptionsGraph struct {
	Lists  map[string][]Option
	Keyed  map[string]map[string][]Option
	Counts map[string]map[string]int
}

func NewOptionsGraph() *OptionsGraph {
	return &OptionsGraph{
		Lists:  make(map[string][]Option),
		Keyed:  make(map[string]map[string][]Option),
		Counts: make(map[string]map[string]int),
	}
}

// LoadGraph decodes a JSON document such as
//   {"colleges": [{"value": "CAS", "label": "..."}], "programs": {"CAS": [...]}, "years": {"BSIT": 4}}
func LoadGraph(r io.Reader) (*OptionsGraph, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding options graph")
	}

	g := NewOptionsGraph()
	for name, raw := range doc {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		if raw[0] == '[' {
			var list []Option
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, errors.Wrapf(err, "decoding %q", name)
			}
			g.Lists[name] = list
			continue
		}

		var keyed map[string][]Option
		if err := json.Unmarshal(raw, &keyed); err == nil {
			g.Keyed[name] = keyed
			continue
		}
		var counts map[string]int
		if err := json.Unmarshal(raw, &counts); err != nil {
			return nil, errors.Errorf("decoding %q: expected a list, a map of lists or a map of counts", name)
		}
		g.Counts[name] = counts
	}
	return g, nil
}

// DemoGraph returns the bundled sample options.
func DemoGraph() *OptionsGraph {
	g, err := LoadGraph(bytes.NewReader(demoOptions))
	if err != nil {
		panic(err) // bundled file
	}
	return g
}

func (g *OptionsGraph) List(name string) []Option {
	if g == nil {
		return nil
	}
	return g.Lists[name]
}

func (g *OptionsGraph) KeyedList(name, key string) []Option {
	if g == nil {
		return nil
	}
	return g.Keyed[name][key]
}

func (g *OptionsGraph) Count(name, key string) (int, bool) {
	if g == nil {
		return 0, false
	}
	n, ok := g.Counts[name][key]
	return n, ok
}

// Label returns the label of value in options, or value itself when it is not listed.
func Label(options []Option, value string) string {
	for _, opt := range options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// MarshalJSON writes the graph back in the document shape LoadGraph reads.
func (g *OptionsGraph) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(g.Lists)+len(g.Keyed)+len(g.Counts))
	for name, list := range g.Lists {
		doc[name] = list
	}
	for name, keyed := range g.Keyed {
		doc[name] = keyed
	}
	for name, counts := range g.Counts {
		doc[name] = counts
	}
	return json.Marshal(doc)
}

func numberedOptions(n int) []Option {
	opts := make([]Option, 0, n)
	for i := 1; i <= n; i++ {
		s := strconv.Itoa(i)
		opts = append(opts, Option{Value: s, Label: s})
	}
	return opts
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
