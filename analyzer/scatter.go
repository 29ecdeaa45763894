package analyzer

import "dambo/model"

const scatterLimit = 5

// ScatterRecommendations picks up to five column pairs worth plotting.
// pairs must already be sorted by absolute correlation, strongest first.
// With no usable correlations it falls back to unscored combinations of the
// leading numeric columns so the client always has something to suggest.
func ScatterRecommendations(pairs []model.CorrelationPair, numericColumns []string) []model.ScatterRecommendation {
	out := []model.ScatterRecommendation{}
	for _, p := range pairs {
		if abs(p.Correlation) < 0.1 {
			continue
		}
		out = append(out, model.ScatterRecommendation{
			X:           p.ColumnA,
			Y:           p.ColumnB,
			Correlation: p.Correlation,
			Insight:     correlationInsight(p.Correlation),
		})
		if len(out) == scatterLimit {
			return out
		}
	}
	if len(out) > 0 || len(numericColumns) < 2 {
		return out
	}

	head := numericColumns
	if len(head) > 4 {
		head = head[:4]
	}
	for i := 0; i < len(head) && len(out) < scatterLimit; i++ {
		for j := i + 1; j < len(head) && len(out) < scatterLimit; j++ {
			out = append(out, model.ScatterRecommendation{
				X:       head[i],
				Y:       head[j],
				Insight: "Explore relationship",
			})
		}
	}
	return out
}

func correlationInsight(r float64) string {
	switch {
	case r > 0.7:
		return "Strong positive correlation"
	case r > 0.3:
		return "Moderate positive correlation"
	case r > 0.1:
		return "Weak positive correlation"
	case r < -0.7:
		return "Strong negative correlation"
	case r < -0.3:
		return "Moderate negative correlation"
	default:
		return "Weak negative correlation"
	}
}
