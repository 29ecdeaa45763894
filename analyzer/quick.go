package analyzer

import (
	"sort"

	"github.com/go-faster/city"

	"dambo/frame"
	"dambo/model"
)

const (
	bundleChartLimit = 3
	topPairLimit     = 5
)

// QuickAnalyze derives the full first-look report from one table snapshot:
// column roles, duplicates, missingness, key distributions, correlation
// ranking, outliers, readiness and quality scores, plus chart payloads the
// client can render without further calls. AIInsights stays nil here; the
// boundary attaches advisor output when asked to.
func QuickAnalyze(f *frame.Frame) *model.QuickAnalysisReport {
	var numeric, categorical, datetime []*frame.Column
	for _, c := range f.Columns() {
		switch frame.Classify(c) {
		case frame.KindNumeric:
			numeric = append(numeric, c)
		case frame.KindDatetime:
			datetime = append(datetime, c)
		case frame.KindCategorical:
			categorical = append(categorical, c)
		}
	}

	dupes := duplicateRowCount(f)
	report := &model.QuickAnalysisReport{
		DatasetOverview: model.DatasetOverview{
			RowCount:           f.RowCount(),
			ColumnCount:        f.ColumnCount(),
			NumericColumns:     columnNames(numeric),
			CategoricalColumns: columnNames(categorical),
			DatetimeColumns:    columnNames(datetime),
			DuplicateRows:      dupes,
		},
	}

	report.MissingDataInsights = missingInsights(f)
	report.KeyDistributions = keyDistributions(numeric, categorical)

	pairs := correlationPairs(numeric)
	top := pairs
	if len(top) > topPairLimit {
		top = top[:topPairLimit]
	}
	report.StrongestCorrelations = top

	report.OutlierDetection = outlierDetection(numeric)
	report.MLReadiness = mlReadiness(f, numeric, dupes, report.OutlierDetection)
	report.ChartPayloads = chartBundle(f, numeric, categorical)
	report.ScatterRecommendations = ScatterRecommendations(pairs, columnNames(numeric))
	report.DataQuality = ComputeDataQuality(f, report.MissingDataInsights.Columns, dupes, report.OutlierDetection)
	return report
}

func columnNames(cols []*frame.Column) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names
}

// duplicateRowCount counts every occurrence of a row beyond its first.
// Rows are hashed cell-by-cell; missing cells compare equal to each other.
// Hash buckets are confirmed against the full signature, so a 64-bit
// collision cannot inflate the count.
func duplicateRowCount(f *frame.Frame) int {
	cols := f.Columns()
	if len(cols) == 0 {
		return 0
	}
	seen := make(map[uint64][]string, f.RowCount())
	dupes := 0
	for i := 0; i < f.RowCount(); i++ {
		sig := rowSignature(cols, i)
		h := city.CH64([]byte(sig))
		bucket := seen[h]
		found := false
		for _, s := range bucket {
			if s == sig {
				found = true
				break
			}
		}
		if found {
			dupes++
			continue
		}
		seen[h] = append(bucket, sig)
	}
	return dupes
}

func rowSignature(cols []*frame.Column, i int) string {
	sig := make([]byte, 0, 16*len(cols))
	for _, c := range cols {
		if c.Valid(i) {
			sig = append(sig, 'v')
			sig = append(sig, c.Str(i)...)
		} else {
			sig = append(sig, 'm')
		}
		sig = append(sig, 0x1f)
	}
	return string(sig)
}

func missingInsights(f *frame.Frame) model.MissingDataInsights {
	out := model.MissingDataInsights{
		Columns:                  []model.MissingColumn{},
		ColumnsAbove30PctMissing: []string{},
	}
	for _, c := range f.Columns() {
		n := c.MissingCount()
		pct := missingPct(c)
		out.Columns = append(out.Columns, model.MissingColumn{
			Column:            c.Name,
			MissingCount:      n,
			MissingPercentage: pct,
		})
		if pct > 30 {
			out.ColumnsAbove30PctMissing = append(out.ColumnsAbove30PctMissing, c.Name)
		}
	}
	return out
}

func keyDistributions(numeric, categorical []*frame.Column) model.KeyDistributions {
	out := model.KeyDistributions{}
	if len(numeric) > 0 {
		out.PrimaryNumericHistogram = histogramOf(numeric[0].Name, numeric[0].Floats(), profileBins)
	}
	if len(categorical) > 0 {
		out.PrimaryCategoricalBar = barOf(categorical[0])
	}
	return out
}

// barOf is the full frequency table; the top-10 cut applies only to the
// profiler's top_values, never to chart payloads.
func barOf(c *frame.Column) *model.BarData {
	cats, counts := valueCounts(c)
	return &model.BarData{Column: c.Name, Categories: cats, Counts: counts}
}

// correlationPairs sweeps the upper triangle of the numeric columns and
// returns every finite pair, strongest absolute correlation first.
func correlationPairs(numeric []*frame.Column) []model.CorrelationPair {
	pairs := []model.CorrelationPair{}
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r := finite(pairwisePearson(numeric[i], numeric[j]))
			if r == nil {
				continue
			}
			pairs = append(pairs, model.CorrelationPair{
				ColumnA:     numeric[i].Name,
				ColumnB:     numeric[j].Name,
				Correlation: round4(*r),
			})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return abs(pairs[a].Correlation) > abs(pairs[b].Correlation)
	})
	return pairs
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// outlierDetection reports every numeric column, clean ones with a zero
// count, so the table in the report is complete.
func outlierDetection(numeric []*frame.Column) []model.OutlierInfo {
	out := []model.OutlierInfo{}
	for _, c := range numeric {
		vals := c.Floats()
		n := iqrOutlierCount(vals)
		pct := 0.0
		if len(vals) > 0 {
			pct = round2(float64(n) / float64(len(vals)) * 100)
		}
		out = append(out, model.OutlierInfo{
			Column:            c.Name,
			OutlierCount:      n,
			OutlierPercentage: pct,
		})
	}
	return out
}

// mlReadiness scores the table for modeling: full marks minus capped
// penalties for missingness, duplication and outliers.
func mlReadiness(f *frame.Frame, numeric []*frame.Column, dupes int, outliers []model.OutlierInfo) model.MLReadiness {
	avgMissing := 0.0
	if f.ColumnCount() > 0 {
		for _, c := range f.Columns() {
			avgMissing += missingPct(c)
		}
		avgMissing /= float64(f.ColumnCount())
	}

	dupPct := 0.0
	if f.RowCount() > 0 {
		dupPct = float64(dupes) / float64(f.RowCount()) * 100
	}

	avgOutlier := 0.0
	if len(numeric) > 0 {
		for _, o := range outliers {
			avgOutlier += o.OutlierPercentage
		}
		avgOutlier /= float64(len(numeric))
	}

	score := 100.0
	score -= capAt(avgMissing*0.5, 30)
	score -= capAt(dupPct*0.3, 15)
	score -= capAt(avgOutlier*0.2, 10)

	out := model.MLReadiness{ReadinessScore: clampScore(score)}
	switch {
	case out.ReadinessScore >= 80:
		out.ReadinessLevel = "High"
	case out.ReadinessScore >= 50:
		out.ReadinessLevel = "Moderate"
	default:
		out.ReadinessLevel = "Low"
	}
	return out
}

func capAt(x, limit float64) float64 {
	if x > limit {
		return limit
	}
	return x
}

func chartBundle(f *frame.Frame, numeric, categorical []*frame.Column) model.ChartBundle {
	bundle := model.ChartBundle{
		Histograms: []*model.HistogramData{},
		Bars:       []*model.BarData{},
	}
	for i, c := range numeric {
		if i == bundleChartLimit {
			break
		}
		bundle.Histograms = append(bundle.Histograms, histogramOf(c.Name, c.Floats(), profileBins))
	}
	for i, c := range categorical {
		if i == bundleChartLimit {
			break
		}
		bundle.Bars = append(bundle.Bars, barOf(c))
	}
	if len(numeric) >= 2 {
		heatmap, err := Correlation(f, nil)
		if err == nil {
			bundle.CorrelationHeatmap = heatmap
		}
	}
	return bundle
}
