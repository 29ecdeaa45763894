package analyzer

import (
	"sort"
	"time"

	"dambo/frame"
	"dambo/model"
)

// Chart aggregators. Every aggregator filters first, validates its column
// selectors against the filtered table, drops rows that are missing in the
// columns it needs, then reduces. They are pure: the input frame is never
// mutated and nothing is cached between calls.

const dateFormat = "2006-01-02T15:04:05"

// numericValues resolves a column and coerces it to numbers. Missing and
// unconvertible cells are dropped. A text column that yields no numbers at
// all is reported as not numeric; an empty numeric column is fine.
func numericValues(f *frame.Frame, column string) ([]float64, error) {
	col := f.Column(column)
	if col == nil {
		return nil, &ColumnNotFoundError{Column: column}
	}
	vals := col.Floats()
	if !col.IsNumeric() && len(vals) == 0 {
		return nil, &NotNumericError{Column: column}
	}
	return vals, nil
}

// Histogram computes equal-width bins over the span of the usable values.
// Returns bins+1 edges and bins counts; empty input gives empty slices.
func Histogram(f *frame.Frame, column string, bins int, flt *frame.Filter) (*model.HistogramData, error) {
	f = flt.Apply(f)
	vals, err := numericValues(f, column)
	if err != nil {
		return nil, err
	}
	return histogramOf(column, vals, bins), nil
}

func histogramOf(column string, vals []float64, bins int) *model.HistogramData {
	out := &model.HistogramData{Column: column, Bins: []float64{}, Counts: []int{}}
	if len(vals) == 0 || bins < 1 {
		return out
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		// Degenerate span: widen by half a unit each side so the
		// single value lands in a real bin.
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := 0; i < bins; i++ {
		edges[i] = lo + width*float64(i)
	}
	edges[bins] = hi
	counts := make([]int, bins)
	for _, v := range vals {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	out.Bins = edges
	out.Counts = counts
	return out
}

// BarCounts returns the frequency of each distinct value, most frequent
// first. Ties keep first-appearance order.
func BarCounts(f *frame.Frame, column string, flt *frame.Filter) (*model.BarData, error) {
	f = flt.Apply(f)
	col := f.Column(column)
	if col == nil {
		return nil, &ColumnNotFoundError{Column: column}
	}
	cats, counts := valueCounts(col)
	return &model.BarData{Column: column, Categories: cats, Counts: counts}, nil
}

func valueCounts(col *frame.Column) ([]string, []int) {
	byValue := map[string]int{}
	order := []string{}
	for i := 0; i < col.Len(); i++ {
		if !col.Valid(i) {
			continue
		}
		s := col.Str(i)
		if _, ok := byValue[s]; !ok {
			order = append(order, s)
		}
		byValue[s]++
	}
	sort.SliceStable(order, func(a, b int) bool {
		return byValue[order[a]] > byValue[order[b]]
	})
	counts := make([]int, len(order))
	for i, s := range order {
		counts[i] = byValue[s]
	}
	return order, counts
}

// Scatter pairs two numeric columns, keeping only rows usable in both.
func Scatter(f *frame.Frame, x, y string, flt *frame.Filter) (*model.ScatterData, error) {
	f = flt.Apply(f)
	colX := f.Column(x)
	if colX == nil {
		return nil, &ColumnNotFoundError{Column: x}
	}
	colY := f.Column(y)
	if colY == nil {
		return nil, &ColumnNotFoundError{Column: y}
	}
	out := &model.ScatterData{XLabel: x, YLabel: y, X: []float64{}, Y: []float64{}}
	for i := 0; i < f.RowCount(); i++ {
		vx, okX := colX.Float(i)
		vy, okY := colY.Float(i)
		if okX && okY {
			out.X = append(out.X, vx)
			out.Y = append(out.Y, vy)
		}
	}
	return out, nil
}

// Correlation computes the pairwise Pearson matrix over numeric columns.
// Pairs use rows valid on both sides; zero-variance results serialize as
// null. Fewer than two numeric columns yields an empty matrix.
func Correlation(f *frame.Frame, flt *frame.Filter) (*model.CorrelationData, error) {
	f = flt.Apply(f)
	var numeric []*frame.Column
	for _, c := range f.Columns() {
		if c.IsNumeric() {
			numeric = append(numeric, c)
		}
	}
	out := &model.CorrelationData{Columns: []string{}, Matrix: [][]*float64{}}
	if len(numeric) == 0 || f.RowCount() == 0 {
		return out, nil
	}
	for _, c := range numeric {
		out.Columns = append(out.Columns, c.Name)
	}
	if len(numeric) < 2 {
		return out, nil
	}
	n := len(numeric)
	out.Matrix = make([][]*float64, n)
	for i := range out.Matrix {
		out.Matrix[i] = make([]*float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := finite(pairwisePearson(numeric[i], numeric[j]))
			out.Matrix[i][j] = r
			out.Matrix[j][i] = r
		}
	}
	return out, nil
}

func pairwisePearson(a, b *frame.Column) float64 {
	xs := make([]float64, 0, a.Len())
	ys := make([]float64, 0, a.Len())
	for i := 0; i < a.Len(); i++ {
		va, okA := a.Float(i)
		vb, okB := b.Float(i)
		if okA && okB {
			xs = append(xs, va)
			ys = append(ys, vb)
		}
	}
	return pearson(xs, ys)
}

// Line sums the value column per parsed date, optionally per group. Rows
// with unparsable dates or unusable values are dropped. Dates ascend.
func Line(f *frame.Frame, dateCol, valueCol, groupCol string, flt *frame.Filter) (*model.LineData, error) {
	f = flt.Apply(f)
	dc := f.Column(dateCol)
	if dc == nil {
		return nil, &ColumnNotFoundError{Column: dateCol}
	}
	vc := f.Column(valueCol)
	if vc == nil {
		return nil, &ColumnNotFoundError{Column: valueCol}
	}
	out := &model.LineData{DateColumn: dateCol, ValueColumn: valueCol}

	gc := f.Column(groupCol) // nil means single series, by design

	type key struct {
		t     time.Time
		group string
	}
	sums := map[key]float64{}
	for i := 0; i < f.RowCount(); i++ {
		t, ok := parseCellTime(dc, i)
		if !ok {
			continue
		}
		v, ok := vc.Float(i)
		if !ok {
			continue
		}
		k := key{t: t}
		if gc != nil {
			if !gc.Valid(i) {
				continue
			}
			k.group = gc.Str(i)
		}
		sums[k] += v
	}

	if gc == nil {
		keys := make([]time.Time, 0, len(sums))
		for k := range sums {
			keys = append(keys, k.t)
		}
		sort.Slice(keys, func(a, b int) bool { return keys[a].Before(keys[b]) })
		out.Data = []model.LinePoint{}
		for _, t := range keys {
			out.Data = append(out.Data, model.LinePoint{
				Date:  t.Format(dateFormat),
				Value: sums[key{t: t}],
			})
		}
		return out, nil
	}

	groups := map[string]bool{}
	for k := range sums {
		groups[k.group] = true
	}
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)
	out.Series = []model.LineSeries{}
	for _, g := range names {
		keys := make([]time.Time, 0)
		for k := range sums {
			if k.group == g {
				keys = append(keys, k.t)
			}
		}
		sort.Slice(keys, func(a, b int) bool { return keys[a].Before(keys[b]) })
		series := model.LineSeries{Name: g, Data: []model.LinePoint{}}
		for _, t := range keys {
			series.Data = append(series.Data, model.LinePoint{
				Date:  t.Format(dateFormat),
				Value: sums[key{t: t, group: g}],
			})
		}
		out.Series = append(out.Series, series)
	}
	return out, nil
}

func parseCellTime(c *frame.Column, i int) (time.Time, bool) {
	if !c.Valid(i) {
		return time.Time{}, false
	}
	return frame.ParseTime(c.Str(i))
}

// Pie keeps the top limit-1 categories and buckets everything else into a
// single "Other" slice whose value conserves the remaining mass.
func Pie(f *frame.Frame, column string, limit int, flt *frame.Filter) (*model.PieData, error) {
	f = flt.Apply(f)
	col := f.Column(column)
	if col == nil {
		return nil, &ColumnNotFoundError{Column: column}
	}
	cats, counts := valueCounts(col)
	out := &model.PieData{Column: column, Categories: []string{}, Values: []float64{}}
	if len(cats) > limit && limit > 0 {
		other := 0
		for _, c := range counts[limit-1:] {
			other += c
		}
		cats = cats[:limit-1]
		counts = counts[:limit-1]
		out.Categories = append(out.Categories, cats...)
		for _, c := range counts {
			out.Values = append(out.Values, float64(c))
		}
		out.Categories = append(out.Categories, "Other")
		out.Values = append(out.Values, float64(other))
		return out, nil
	}
	out.Categories = append(out.Categories, cats...)
	for _, c := range counts {
		out.Values = append(out.Values, float64(c))
	}
	return out, nil
}

// Area pivots to a date-by-stack grid of summed values, absent combinations
// filled with zero. One named series per stack value, dates ascending.
func Area(f *frame.Frame, dateCol, valueCol, stackCol string, flt *frame.Filter) (*model.AreaData, error) {
	f = flt.Apply(f)
	dc := f.Column(dateCol)
	if dc == nil {
		return nil, &ColumnNotFoundError{Column: dateCol}
	}
	vc := f.Column(valueCol)
	if vc == nil {
		return nil, &ColumnNotFoundError{Column: valueCol}
	}
	sc := f.Column(stackCol)
	if sc == nil {
		return nil, &ColumnNotFoundError{Column: stackCol}
	}

	type cell struct {
		t     time.Time
		stack string
	}
	sums := map[cell]float64{}
	dateSet := map[time.Time]bool{}
	stackSet := map[string]bool{}
	for i := 0; i < f.RowCount(); i++ {
		t, ok := parseCellTime(dc, i)
		if !ok {
			continue
		}
		v, ok := vc.Float(i)
		if !ok {
			continue
		}
		if !sc.Valid(i) {
			continue
		}
		s := sc.Str(i)
		sums[cell{t, s}] += v
		dateSet[t] = true
		stackSet[s] = true
	}

	dates := make([]time.Time, 0, len(dateSet))
	for t := range dateSet {
		dates = append(dates, t)
	}
	sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })
	stacks := make([]string, 0, len(stackSet))
	for s := range stackSet {
		stacks = append(stacks, s)
	}
	sort.Strings(stacks)

	out := &model.AreaData{
		DateColumn:  dateCol,
		ValueColumn: valueCol,
		StackColumn: stackCol,
		Dates:       []string{},
		Series:      []model.AreaSeries{},
	}
	for _, t := range dates {
		out.Dates = append(out.Dates, t.Format(dateFormat))
	}
	for _, s := range stacks {
		series := model.AreaSeries{Name: s, Values: make([]float64, len(dates))}
		for i, t := range dates {
			series.Values[i] = sums[cell{t, s}]
		}
		out.Series = append(out.Series, series)
	}
	return out, nil
}

// Boxplot reports the five-number summary, mean and IQR-fence outliers.
// Empty input gives null stats and an empty outlier list.
func Boxplot(f *frame.Frame, column string, flt *frame.Filter) (*model.BoxplotData, error) {
	f = flt.Apply(f)
	vals, err := numericValues(f, column)
	if err != nil {
		return nil, err
	}
	out := &model.BoxplotData{Column: column, Outliers: []float64{}}
	if len(vals) == 0 {
		return out, nil
	}
	q1 := quantile(vals, 0.25)
	q3 := quantile(vals, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		if v < lower || v > upper {
			out.Outliers = append(out.Outliers, v)
		}
	}
	out.Stats = &model.BoxplotStats{
		Min:    lo,
		Q1:     q1,
		Median: quantile(vals, 0.5),
		Q3:     q3,
		Max:    hi,
		Mean:   mean(vals),
	}
	return out, nil
}

// Treemap groups by the full tuple of group columns and sums the value
// column per group. Rows missing any group cell are dropped; rows with an
// unusable value still count toward the group with zero contribution.
func Treemap(f *frame.Frame, groupCols []string, valueCol string, flt *frame.Filter) (*model.TreemapData, error) {
	f = flt.Apply(f)
	gcs := make([]*frame.Column, len(groupCols))
	for i, name := range groupCols {
		c := f.Column(name)
		if c == nil {
			return nil, &ColumnNotFoundError{Column: name}
		}
		gcs[i] = c
	}
	vc := f.Column(valueCol)
	if vc == nil {
		return nil, &ColumnNotFoundError{Column: valueCol}
	}

	sums := map[string]float64{}
	paths := map[string][]string{}
	for i := 0; i < f.RowCount(); i++ {
		path := make([]string, len(gcs))
		ok := true
		for j, gc := range gcs {
			if !gc.Valid(i) {
				ok = false
				break
			}
			path[j] = gc.Str(i)
		}
		if !ok {
			continue
		}
		key := joinPath(path)
		if _, seen := sums[key]; !seen {
			sums[key] = 0
			paths[key] = path
		}
		if v, ok := vc.Float(i); ok {
			sums[key] += v
		}
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := &model.TreemapData{
		GroupColumns: groupCols,
		ValueColumn:  valueCol,
		Nodes:        []model.TreemapNode{},
	}
	for _, k := range keys {
		out.Nodes = append(out.Nodes, model.TreemapNode{Path: paths[k], Value: sums[k]})
	}
	return out, nil
}

func joinPath(parts []string) string {
	key := ""
	for _, p := range parts {
		key += p + "\x00"
	}
	return key
}

// StackedBar pivots category by stack. With a resolvable value column it
// sums values, otherwise it counts rows; absent combinations are zero.
func StackedBar(f *frame.Frame, categoryCol, stackCol, valueCol string, flt *frame.Filter) (*model.StackedBarData, error) {
	f = flt.Apply(f)
	cc := f.Column(categoryCol)
	if cc == nil {
		return nil, &ColumnNotFoundError{Column: categoryCol}
	}
	sc := f.Column(stackCol)
	if sc == nil {
		return nil, &ColumnNotFoundError{Column: stackCol}
	}
	// An unknown value column degrades to row counting rather than
	// failing, matching the lenient selector policy of stacked bars.
	vc := f.Column(valueCol)

	type cell struct{ cat, stack string }
	sums := map[cell]float64{}
	catSet := map[string]bool{}
	stackSet := map[string]bool{}
	for i := 0; i < f.RowCount(); i++ {
		if !cc.Valid(i) || !sc.Valid(i) {
			continue
		}
		k := cell{cc.Str(i), sc.Str(i)}
		catSet[k.cat] = true
		stackSet[k.stack] = true
		if vc != nil {
			if v, ok := vc.Float(i); ok {
				sums[k] += v
			} else {
				sums[k] += 0
			}
		} else {
			sums[k]++
		}
	}

	cats := make([]string, 0, len(catSet))
	for c := range catSet {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	stacks := make([]string, 0, len(stackSet))
	for s := range stackSet {
		stacks = append(stacks, s)
	}
	sort.Strings(stacks)

	out := &model.StackedBarData{
		CategoryColumn: categoryCol,
		StackColumn:    stackCol,
		Categories:     cats,
		Stacks:         stacks,
		Data:           []model.AreaSeries{},
	}
	if vc != nil {
		out.ValueColumn = valueCol
	}
	for _, s := range stacks {
		series := model.AreaSeries{Name: s, Values: make([]float64, len(cats))}
		for i, c := range cats {
			series.Values[i] = sums[cell{c, s}]
		}
		out.Data = append(out.Data, series)
	}
	return out, nil
}
