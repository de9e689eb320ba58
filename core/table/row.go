package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is one record of a table: column key -> scalar, or a nested map of scalars (e.g. "grades").
type Row map[string]interface{}

// Value returns the value stored under key.
// Keys not present verbatim are resolved through nested maps using dots ("grades.1Y-1S").
func (r Row) Value(key string) (interface{}, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}
	var cur interface{} = r
	for _, part := range strings.Split(key, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case Row:
		return m, true
	case map[string]interface{}:
		return m, true
	case map[string]string:
		out := make(map[string]interface{}, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	case map[string]*string:
		out := make(map[string]interface{}, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func isNull(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case *string:
		return val == nil
	case *int:
		return val == nil
	case *float64:
		return val == nil
	case *time.Time:
		return val == nil
	}
	return false
}

// Text renders a scalar the way it is displayed; ok is false for nulls and nested maps.
func Text(v interface{}) (string, bool) {
	if isNull(v) {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case *string:
		return *val, true
	case bool:
		return strconv.FormatBool(val), true
	case time.Time:
		return val.Format("2006-01-02"), true
	case *time.Time:
		return val.Format("2006-01-02"), true
	case fmt.Stringer:
		return val.String(), true
	}
	if f, ok := number(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	if _, ok := asMap(v); ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

// number reports the numeric value of v; numeric strings ("1.25", " 88 ") count as numbers.
func number(v interface{}) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case float32:
		f = float64(val)
	case float64:
		f = val
	case *int:
		if val == nil {
			return 0, false
		}
		f = float64(*val)
	case *float64:
		if val == nil {
			return 0, false
		}
		f = *val
	case *string:
		if val == nil {
			return 0, false
		}
		return number(*val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
