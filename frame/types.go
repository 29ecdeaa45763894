package frame

import "time"

// Kind is the inferred semantic type of a column, used to pick which
// aggregations apply. It is derived fresh per analysis call, never stored.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindUnknown     Kind = "unknown"
)

// dateSampleSize bounds datetime sniffing. A text column whose valid dates
// start beyond this many values classifies as categorical; known limitation.
const dateSampleSize = 100

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// ParseTime tries the supported datetime layouts in a fixed order.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Classify infers the column kind. Float-stored columns are numeric. Text
// columns are datetime when every sampled non-missing value parses as a
// date, categorical otherwise. A column with no non-missing values at all
// is unknown. Parse failures only degrade the result, they never propagate.
func Classify(c *Column) Kind {
	if c.IsNumeric() {
		return KindNumeric
	}
	sampled := 0
	for i := 0; i < c.Len() && sampled < dateSampleSize; i++ {
		if !c.Valid(i) {
			continue
		}
		sampled++
		if _, ok := ParseTime(c.Str(i)); !ok {
			return KindCategorical
		}
	}
	if sampled == 0 {
		return KindUnknown
	}
	return KindDatetime
}
