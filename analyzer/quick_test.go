package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickAnalyzeOverview(t *testing.T) {
	f := mustFrame(t, "age,city,day\n25,A,2024-01-01\n30,B,2024-01-02\n25,A,2024-01-01\n")
	got := QuickAnalyze(f)
	assert.Equal(t, 3, got.DatasetOverview.RowCount)
	assert.Equal(t, []string{"age"}, got.DatasetOverview.NumericColumns)
	assert.Equal(t, []string{"city"}, got.DatasetOverview.CategoricalColumns)
	assert.Equal(t, []string{"day"}, got.DatasetOverview.DatetimeColumns)
	assert.Equal(t, 1, got.DatasetOverview.DuplicateRows)
}

func TestQuickAnalyzeDuplicatesTreatMissingAsEqual(t *testing.T) {
	f := mustFrame(t, "a,b\n1,\n1,\n1,x\n")
	got := QuickAnalyze(f)
	assert.Equal(t, 1, got.DatasetOverview.DuplicateRows)
}

func TestQuickAnalyzeMissingInsights(t *testing.T) {
	f := mustFrame(t, "a,b\n1,\n2,\n3,\n4,x\n5,x\n")
	got := QuickAnalyze(f)
	// One entry per column, complete columns included with 0.0.
	require.Len(t, got.MissingDataInsights.Columns, 2)
	a := got.MissingDataInsights.Columns[0]
	assert.Equal(t, "a", a.Column)
	assert.Equal(t, 0, a.MissingCount)
	assert.Equal(t, 0.0, a.MissingPercentage)
	b := got.MissingDataInsights.Columns[1]
	assert.Equal(t, "b", b.Column)
	assert.Equal(t, 3, b.MissingCount)
	assert.Equal(t, 60.0, b.MissingPercentage)
	assert.Equal(t, []string{"b"}, got.MissingDataInsights.ColumnsAbove30PctMissing)
}

func TestQuickAnalyzeCleanTableScoresHigh(t *testing.T) {
	f := mustFrame(t, "a,b\n1,x\n2,y\n3,z\n")
	got := QuickAnalyze(f)
	assert.Equal(t, 100, got.MLReadiness.ReadinessScore)
	assert.Equal(t, "High", got.MLReadiness.ReadinessLevel)
	assert.Equal(t, 100, got.DataQuality.OverallScore)
	assert.Equal(t, "Good", got.DataQuality.Level)
	assert.Empty(t, got.DataQuality.Issues)
	assert.Nil(t, got.AIInsights)
}

func TestQuickAnalyzeKeyDistributions(t *testing.T) {
	f := mustFrame(t, "a,c\n1,x\n2,x\n3,y\n")
	got := QuickAnalyze(f)
	require.NotNil(t, got.KeyDistributions.PrimaryNumericHistogram)
	assert.Equal(t, "a", got.KeyDistributions.PrimaryNumericHistogram.Column)
	require.NotNil(t, got.KeyDistributions.PrimaryCategoricalBar)
	assert.Equal(t, "c", got.KeyDistributions.PrimaryCategoricalBar.Column)
}

func TestQuickAnalyzeBarPayloadsKeepAllCategories(t *testing.T) {
	rows := "c\n"
	for i := 0; i < 15; i++ {
		rows += string(rune('a'+i)) + "\n"
	}
	got := QuickAnalyze(mustFrame(t, rows))
	require.NotNil(t, got.KeyDistributions.PrimaryCategoricalBar)
	assert.Len(t, got.KeyDistributions.PrimaryCategoricalBar.Categories, 15)
	require.Len(t, got.ChartPayloads.Bars, 1)
	assert.Len(t, got.ChartPayloads.Bars[0].Categories, 15)
}

func TestQuickAnalyzeCorrelations(t *testing.T) {
	f := mustFrame(t, "a,b,c\n1,2,9\n2,4,1\n3,6,5\n4,8,7\n")
	got := QuickAnalyze(f)
	require.NotEmpty(t, got.StrongestCorrelations)
	first := got.StrongestCorrelations[0]
	assert.Equal(t, "a", first.ColumnA)
	assert.Equal(t, "b", first.ColumnB)
	assert.InDelta(t, 1.0, first.Correlation, 1e-9)
	require.NotEmpty(t, got.ScatterRecommendations)
	assert.Equal(t, "Strong positive correlation", got.ScatterRecommendations[0].Insight)
}

func TestQuickAnalyzeChartBundle(t *testing.T) {
	f := mustFrame(t, "a,b,c,d,e\n1,2,3,x,y\n4,5,6,x,z\n7,8,9,y,z\n")
	got := QuickAnalyze(f)
	assert.Len(t, got.ChartPayloads.Histograms, 3)
	assert.Len(t, got.ChartPayloads.Bars, 2)
	require.NotNil(t, got.ChartPayloads.CorrelationHeatmap)
	assert.Equal(t, []string{"a", "b", "c"}, got.ChartPayloads.CorrelationHeatmap.Columns)
}

func TestQuickAnalyzeOutlierDetection(t *testing.T) {
	f := mustFrame(t, "v\n1\n2\n3\n4\n5\n6\n7\n8\n9\n1000\n")
	got := QuickAnalyze(f)
	require.Len(t, got.OutlierDetection, 1)
	o := got.OutlierDetection[0]
	assert.Equal(t, "v", o.Column)
	assert.Equal(t, 1, o.OutlierCount)
	assert.Equal(t, 10.0, o.OutlierPercentage)
}

func TestQuickAnalyzeOutlierDetectionCoversCleanColumns(t *testing.T) {
	f := mustFrame(t, "a,b\n1,10\n2,20\n3,30\n")
	got := QuickAnalyze(f)
	// Every numeric column gets an entry, clean ones included.
	require.Len(t, got.OutlierDetection, 2)
	for _, o := range got.OutlierDetection {
		assert.Equal(t, 0, o.OutlierCount)
		assert.Equal(t, 0.0, o.OutlierPercentage)
	}
	assert.Equal(t, "a", got.OutlierDetection[0].Column)
	assert.Equal(t, "b", got.OutlierDetection[1].Column)
}

func TestQuickAnalyzeEmptyTable(t *testing.T) {
	f := mustFrame(t, "a,b\n")
	got := QuickAnalyze(f)
	assert.Equal(t, 0, got.DatasetOverview.RowCount)
	assert.Equal(t, 2, got.DatasetOverview.ColumnCount)
	assert.Empty(t, got.DatasetOverview.NumericColumns)
	require.Len(t, got.MissingDataInsights.Columns, 2)
	for _, m := range got.MissingDataInsights.Columns {
		assert.Equal(t, 0.0, m.MissingPercentage)
	}
	assert.Equal(t, 100, got.MLReadiness.ReadinessScore)
	assert.Equal(t, "High", got.MLReadiness.ReadinessLevel)
}

func TestQuickAnalyzeScoresStayInBounds(t *testing.T) {
	// Heavily broken table: all columns mostly missing, all rows duplicated.
	f := mustFrame(t, "a,b\n,\n,\n,\n,\n1,\n1,\n")
	got := QuickAnalyze(f)
	assert.GreaterOrEqual(t, got.MLReadiness.ReadinessScore, 0)
	assert.LessOrEqual(t, got.MLReadiness.ReadinessScore, 100)
	assert.GreaterOrEqual(t, got.DataQuality.OverallScore, 0)
	assert.LessOrEqual(t, got.DataQuality.OverallScore, 100)
}
