package model

type DatasetOverview struct {
	RowCount           int      `json:"row_count"`
	ColumnCount        int      `json:"column_count"`
	NumericColumns     []string `json:"numeric_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
	DatetimeColumns    []string `json:"datetime_columns"`
	DuplicateRows      int      `json:"duplicate_rows"`
}

type MissingColumn struct {
	Column            string  `json:"column"`
	MissingCount      int     `json:"missing_count"`
	MissingPercentage float64 `json:"missing_percentage"`
}

type MissingDataInsights struct {
	Columns                  []MissingColumn `json:"columns"`
	ColumnsAbove30PctMissing []string        `json:"columns_above_30_percent_missing"`
}

type KeyDistributions struct {
	PrimaryNumericHistogram *HistogramData `json:"primary_numeric_histogram,omitempty"`
	PrimaryCategoricalBar   *BarData       `json:"primary_categorical_bar,omitempty"`
}

// CorrelationPair is one ranked entry of the pairwise Pearson sweep.
// Correlation is rounded to 4 decimals; NaN pairs are never emitted.
type CorrelationPair struct {
	ColumnA     string  `json:"column_a"`
	ColumnB     string  `json:"column_b"`
	Correlation float64 `json:"correlation"`
}

type OutlierInfo struct {
	Column            string  `json:"column"`
	OutlierCount      int     `json:"outlier_count"`
	OutlierPercentage float64 `json:"outlier_percentage"`
}

type MLReadiness struct {
	ReadinessScore int    `json:"readiness_score"`
	ReadinessLevel string `json:"readiness_level"`
}

type ChartBundle struct {
	Histograms         []*HistogramData `json:"histograms"`
	Bars               []*BarData       `json:"bars"`
	CorrelationHeatmap *CorrelationData `json:"correlation_heatmap"`
}

type ScatterRecommendation struct {
	X           string  `json:"x"`
	Y           string  `json:"y"`
	Correlation float64 `json:"correlation"`
	Insight     string  `json:"insight"`
}

type QualityIssue struct {
	Type            string   `json:"type"`
	Severity        string   `json:"severity"`
	Message         string   `json:"message"`
	AffectedColumns []string `json:"affected_columns"`
}

type DataQuality struct {
	OverallScore int            `json:"overall_score"`
	Level        string         `json:"level"`
	Issues       []QualityIssue `json:"issues"`
}

// QuickAnalysisReport is fully derived from one table snapshot; nothing in
// it is persisted. AIInsights stays null unless the caller layer attaches
// advisor output.
type QuickAnalysisReport struct {
	DatasetOverview        DatasetOverview         `json:"dataset_overview"`
	MissingDataInsights    MissingDataInsights     `json:"missing_data_insights"`
	KeyDistributions       KeyDistributions        `json:"key_distributions"`
	StrongestCorrelations  []CorrelationPair       `json:"strongest_correlations"`
	OutlierDetection       []OutlierInfo           `json:"outlier_detection"`
	MLReadiness            MLReadiness             `json:"ml_readiness"`
	ChartPayloads          ChartBundle             `json:"chart_payloads"`
	ScatterRecommendations []ScatterRecommendation `json:"scatter_recommendations"`
	DataQuality            DataQuality             `json:"data_quality"`
	AIInsights             map[string]any          `json:"ai_insights"`
}
