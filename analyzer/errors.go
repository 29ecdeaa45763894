package analyzer

import "fmt"

// ColumnNotFoundError reports a chart selector naming no column of the
// table. The boundary maps it to a client error.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %s", e.Column)
}

// NotNumericError reports a column that yielded no numeric values where the
// aggregation required them.
type NotNumericError struct {
	Column string
}

func (e *NotNumericError) Error() string {
	return fmt.Sprintf("column %q is not numeric", e.Column)
}
