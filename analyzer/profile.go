package analyzer

import (
	"dambo/frame"
	"dambo/model"
)

const (
	profileBins      = 10
	profileSampleLen = 5
	topValueLimit    = 10
)

// Profile builds the descriptive summary of a table: shape, per-column type
// and missingness, numeric and categorical stats, and a head sample. A
// column that cannot produce stats is simply left out of the stats lists;
// it still appears in the column roster.
func Profile(f *frame.Frame) *model.DatasetProfile {
	out := &model.DatasetProfile{
		Shape: model.ProfileShape{
			RowCount:    f.RowCount(),
			ColumnCount: f.ColumnCount(),
		},
		Columns:          []model.ColumnProfile{},
		NumericStats:     []model.NumericStats{},
		CategoricalStats: []model.CategoricalStats{},
		SampleRows:       []map[string]any{},
	}

	for _, c := range f.Columns() {
		out.Columns = append(out.Columns, model.ColumnProfile{
			Name:              c.Name,
			DetectedType:      string(frame.Classify(c)),
			MissingCount:      c.MissingCount(),
			MissingPercentage: missingPct(c),
		})
		if c.IsNumeric() {
			out.NumericStats = append(out.NumericStats, numericStats(c))
		} else {
			out.CategoricalStats = append(out.CategoricalStats, categoricalStats(c))
		}
	}

	rows := f.RowCount()
	if rows > profileSampleLen {
		rows = profileSampleLen
	}
	for i := 0; i < rows; i++ {
		row := make(map[string]any, f.ColumnCount())
		for _, c := range f.Columns() {
			row[c.Name] = c.Value(i)
		}
		out.SampleRows = append(out.SampleRows, row)
	}
	return out
}

func missingPct(c *frame.Column) float64 {
	if c.Len() == 0 {
		return 0
	}
	return round2(float64(c.MissingCount()) / float64(c.Len()) * 100)
}

func numericStats(c *frame.Column) model.NumericStats {
	vals := c.Floats()
	stats := model.NumericStats{
		Column:    c.Name,
		Mean:      finite(mean(vals)),
		Std:       finite(sampleStd(vals)),
		Histogram: histogramOf(c.Name, vals, profileBins),
	}
	if lo, hi, ok := c.MinMax(); ok {
		stats.Min = finite(lo)
		stats.Max = finite(hi)
	}
	return stats
}

func categoricalStats(c *frame.Column) model.CategoricalStats {
	cats, counts := valueCounts(c)
	stats := model.CategoricalStats{
		Column:        c.Name,
		DistinctCount: len(cats),
		TopValues:     []model.ValueCount{},
	}
	for i := range cats {
		if i == topValueLimit {
			break
		}
		stats.TopValues = append(stats.TopValues, model.ValueCount{Value: cats[i], Count: counts[i]})
	}
	return stats
}
