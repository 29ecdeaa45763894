package model

type ProfileShape struct {
	RowCount    int `json:"row_count"`
	ColumnCount int `json:"column_count"`
}

type ColumnProfile struct {
	Name              string  `json:"name"`
	DetectedType      string  `json:"detected_type"`
	MissingCount      int     `json:"missing_count"`
	MissingPercentage float64 `json:"missing_percentage"`
}

type NumericStats struct {
	Column    string         `json:"column"`
	Mean      *float64       `json:"mean"`
	Std       *float64       `json:"std"`
	Min       *float64       `json:"min"`
	Max       *float64       `json:"max"`
	Histogram *HistogramData `json:"histogram,omitempty"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type CategoricalStats struct {
	Column        string       `json:"column"`
	DistinctCount int          `json:"distinct_count"`
	TopValues     []ValueCount `json:"top_values"`
}

// DatasetProfile is the per-column descriptive summary of one dataset.
// SampleRows maps column name to cell value, missing cells as null.
type DatasetProfile struct {
	Shape            ProfileShape       `json:"shape"`
	Columns          []ColumnProfile    `json:"columns"`
	NumericStats     []NumericStats     `json:"numeric_stats"`
	CategoricalStats []CategoricalStats `json:"categorical_stats"`
	SampleRows       []map[string]any   `json:"sample_rows"`
}
