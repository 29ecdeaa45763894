package insight

import (
	"context"

	"dambo/model"
)

// Advisor produces optional AI commentary. Implementations must be safe to
// skip: every caller treats a nil Advisor or an error as "no insights",
// never as a failed request.
type Advisor interface {
	AnalysisInsights(ctx context.Context, report *model.QuickAnalysisReport) (map[string]any, error)
	CompareCharts(ctx context.Context, chart1, chart2 model.ChartConfig, profile *model.DatasetProfile) (map[string]any, error)
}
