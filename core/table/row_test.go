package table

import (
	"testing"
	"time"
)

func TestRow_Value(t *testing.T) {
	grade := "1.25"
	row := Row{
		"name":         "SANTOS, MARIA",
		"grades":       map[string]interface{}{"1Y-1S": "1.50", "1Y-2S": nil},
		"ratings":      map[string]*string{"Attendance": &grade},
		"dotted.key":   "verbatim",
		"review_hours": 12,
	}
	tests := []struct {
		key    string
		want   interface{}
		wantOk bool
	}{
		{key: "name", want: "SANTOS, MARIA", wantOk: true},
		{key: "grades.1Y-1S", want: "1.50", wantOk: true},
		{key: "grades.1Y-2S", want: nil, wantOk: true},
		{key: "grades.2Y-1S", wantOk: false},
		{key: "dotted.key", want: "verbatim", wantOk: true},
		{key: "name.first", wantOk: false},
		{key: "missing", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := row.Value(tt.key)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("Value() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOk)
			}
		})
	}

	got, ok := row.Value("ratings.Attendance")
	if p, isPtr := got.(*string); !ok || !isPtr || *p != grade {
		t.Errorf("Value(ratings.Attendance) = %v, %v", got, ok)
	}
}

func TestCompare(t *testing.T) {
	day := time.Date(2004, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b interface{}
		want int
	}{
		{name: "numbers", a: 9, b: 88, want: -1},
		{name: "numeric strings", a: "10", b: "9", want: 1},
		{name: "mixed numbers", a: 1.5, b: "1.50", want: 0},
		{name: "mixed number & text", a: 10, b: "abc", want: -1},
		{name: "numbers before text", a: "1a", b: 3, want: 1},
		{name: "text after numbers", a: "10", b: "1a", want: -1},
		{name: "case-insensitive", a: "alpha", b: "Bravo", want: -1},
		{name: "equal ignoring case", a: "Alpha", b: "alpha", want: 0},
		{name: "scores are text", a: "88/100", b: "9/100", want: -1},
		{name: "dates", a: day, b: day.AddDate(0, 0, 1), want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare() = %v, want %v", got, tt.want)
			}
		})
	}
}
