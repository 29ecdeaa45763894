package analyzer

import (
	"fmt"

	"dambo/frame"
	"dambo/model"
)

// ComputeDataQuality scores the table out of 100 with capped deductions per
// problem class, and records one issue entry per triggered condition.
func ComputeDataQuality(f *frame.Frame, missing []model.MissingColumn, dupes int, outliers []model.OutlierInfo) model.DataQuality {
	score := 100.0
	issues := []model.QualityIssue{}

	var heavy, moderate []string
	for _, m := range missing {
		switch {
		case m.MissingPercentage > 30:
			heavy = append(heavy, m.Column)
		case m.MissingPercentage > 10:
			moderate = append(moderate, m.Column)
		}
	}
	if len(heavy) > 0 {
		score -= capAt(float64(len(heavy))*10, 30)
		severity := "warning"
		if len(heavy) > 2 {
			severity = "critical"
		}
		issues = append(issues, model.QualityIssue{
			Type:            "missing_data",
			Severity:        severity,
			Message:         fmt.Sprintf("%d column(s) have >30%% missing values", len(heavy)),
			AffectedColumns: heavy,
		})
	}
	if len(moderate) > 0 {
		score -= capAt(float64(len(moderate))*3, 15)
		issues = append(issues, model.QualityIssue{
			Type:            "missing_data",
			Severity:        "info",
			Message:         fmt.Sprintf("%d column(s) have 10-30%% missing values", len(moderate)),
			AffectedColumns: moderate,
		})
	}

	dupPct := 0.0
	if f.RowCount() > 0 {
		dupPct = float64(dupes) / float64(f.RowCount()) * 100
	}
	if dupPct > 5 {
		score -= capAt(dupPct, 20)
		severity := "warning"
		if dupPct > 20 {
			severity = "critical"
		}
		issues = append(issues, model.QualityIssue{
			Type:            "duplicates",
			Severity:        severity,
			Message:         fmt.Sprintf("%d duplicate rows (%.1f%%)", dupes, dupPct),
			AffectedColumns: []string{},
		})
	}

	var heavyOutliers []string
	for _, o := range outliers {
		if o.OutlierPercentage > 5 {
			heavyOutliers = append(heavyOutliers, o.Column)
		}
	}
	if len(heavyOutliers) > 0 {
		score -= capAt(float64(len(heavyOutliers))*2, 10)
		issues = append(issues, model.QualityIssue{
			Type:            "outliers",
			Severity:        "info",
			Message:         fmt.Sprintf("%d column(s) have >5%% outliers", len(heavyOutliers)),
			AffectedColumns: heavyOutliers,
		})
	}

	out := model.DataQuality{OverallScore: clampScore(score), Issues: issues}
	switch {
	case out.OverallScore >= 80:
		out.Level = "Good"
	case out.OverallScore >= 60:
		out.Level = "Fair"
	case out.OverallScore >= 40:
		out.Level = "Needs Work"
	default:
		out.Level = "Poor"
	}
	return out
}
