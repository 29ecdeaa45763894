package frame

import (
	"strconv"
	"strings"
)

// Filter is a single (column, operator, value) row predicate. It is an
// optional decoration on chart requests, not request validation: anything
// unresolvable (missing parts, unknown column, unsupported operator, a
// numeric column with an unparsable literal) degrades to no filter at all
// and returns the input frame unchanged.
type Filter struct {
	Column   string
	Operator string
	Value    string
}

// Apply narrows f to the rows matching the filter. The result is always a
// copy or the original frame itself; f is never mutated.
func (flt *Filter) Apply(f *Frame) *Frame {
	if flt == nil || flt.Column == "" || flt.Operator == "" || flt.Value == "" {
		return f
	}
	col := f.Column(flt.Column)
	if col == nil {
		return f
	}

	if col.IsNumeric() {
		switch flt.Operator {
		case ">", "<", ">=", "<=", "==", "!=":
		default:
			// contains and anything unrecognized do not apply to
			// numeric columns.
			return f
		}
		want, err := strconv.ParseFloat(flt.Value, 64)
		if err != nil {
			// Lenient on a bad numeric literal: behave as if no filter
			// was sent. See DESIGN.md before changing this.
			return f
		}
		return f.Take(matchRows(col.Len(), func(i int) bool {
			v, ok := col.Float(i)
			return ok && compareFloat(v, flt.Operator, want)
		}))
	}

	want := flt.Value
	switch flt.Operator {
	case "contains":
		needle := strings.ToLower(want)
		return f.Take(matchRows(col.Len(), func(i int) bool {
			return col.Valid(i) && strings.Contains(strings.ToLower(col.Str(i)), needle)
		}))
	case ">", "<", ">=", "<=", "==", "!=":
		return f.Take(matchRows(col.Len(), func(i int) bool {
			return col.Valid(i) && compareString(col.Str(i), flt.Operator, want)
		}))
	}
	return f
}

func matchRows(n int, keep func(int) bool) []int {
	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return rows
}

func compareFloat(v float64, op string, want float64) bool {
	switch op {
	case ">":
		return v > want
	case "<":
		return v < want
	case ">=":
		return v >= want
	case "<=":
		return v <= want
	case "==":
		return v == want
	case "!=":
		return v != want
	}
	return false
}

// Ordering operators on text columns compare lexicographically.
func compareString(v, op, want string) bool {
	switch op {
	case ">":
		return v > want
	case "<":
		return v < want
	case ">=":
		return v >= want
	case "<=":
		return v <= want
	case "==":
		return v == want
	case "!=":
		return v != want
	}
	return false
}
