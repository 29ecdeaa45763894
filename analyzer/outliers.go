package analyzer

// iqrOutlierCount counts values outside the 1.5*IQR fences.
func iqrOutlierCount(vals []float64) int {
	if len(vals) == 0 {
		return 0
	}
	q1 := quantile(vals, 0.25)
	q3 := quantile(vals, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	n := 0
	for _, v := range vals {
		if v < lower || v > upper {
			n++
		}
	}
	return n
}
