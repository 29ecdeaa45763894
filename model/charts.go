package model

// Chart payloads. These are terminal, self-describing structures: whatever
// the aggregation dropped or bucketed is not recoverable from the payload.
// Numeric fields that can legitimately be undefined (zero variance, empty
// input) are pointers so they serialize as null, never as NaN.

type HistogramData struct {
	Column string    `json:"column"`
	Bins   []float64 `json:"bins"`
	Counts []int     `json:"counts"`
}

type BarData struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
	Counts     []int    `json:"counts"`
}

type ScatterData struct {
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

type CorrelationData struct {
	Columns []string     `json:"columns"`
	Matrix  [][]*float64 `json:"matrix"`
}

type LinePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type LineSeries struct {
	Name string      `json:"name"`
	Data []LinePoint `json:"data"`
}

// LineData carries either a single series (Data) or one series per group
// (Series), depending on whether a group column was requested.
type LineData struct {
	DateColumn  string       `json:"date_column"`
	ValueColumn string       `json:"value_column"`
	Data        []LinePoint  `json:"data,omitempty"`
	Series      []LineSeries `json:"series,omitempty"`
}

type PieData struct {
	Column     string    `json:"column"`
	Categories []string  `json:"categories"`
	Values     []float64 `json:"values"`
}

type AreaSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type AreaData struct {
	DateColumn  string       `json:"date_column"`
	ValueColumn string       `json:"value_column"`
	StackColumn string       `json:"stack_column"`
	Dates       []string     `json:"dates"`
	Series      []AreaSeries `json:"series"`
}

type BoxplotStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

type BoxplotData struct {
	Column   string        `json:"column"`
	Stats    *BoxplotStats `json:"stats"`
	Outliers []float64     `json:"outliers"`
}

type TreemapNode struct {
	Path  []string `json:"path"`
	Value float64  `json:"value"`
}

type TreemapData struct {
	GroupColumns []string      `json:"group_columns"`
	ValueColumn  string        `json:"value_column"`
	Nodes        []TreemapNode `json:"nodes"`
}

type StackedBarData struct {
	CategoryColumn string       `json:"category_column"`
	StackColumn    string       `json:"stack_column"`
	ValueColumn    string       `json:"value_column,omitempty"`
	Categories     []string     `json:"categories"`
	Stacks         []string     `json:"stacks"`
	Data           []AreaSeries `json:"data"`
}
