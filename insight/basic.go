package insight

import (
	"fmt"
	"strings"

	"dambo/model"
)

// BasicComparison is the deterministic stand-in used when no advisor is
// configured or the model call fails. Same shape as the AI result so the
// client renders both identically.
func BasicComparison(chart1, chart2 model.ChartConfig) map[string]any {
	col1 := propString(chart1, "column", "data")
	col2 := propString(chart2, "column", "data")
	type1 := chartTypeName(chart1)
	type2 := chartTypeName(chart2)

	suggestion := "none"
	if col1 != col2 {
		suggestion = "scatter_chart"
	}
	return map[string]any{
		"comparison_title": fmt.Sprintf("%s vs %s", col1, col2),
		"relationship_type": "mixed",
		"key_insights": []string{
			fmt.Sprintf("Comparing %s of %s", type1, col1),
			fmt.Sprintf("With %s of %s", type2, col2),
		},
		"statistical_notes": "Connect charts to explore relationships",
		"recommendation":    "Consider creating a scatter plot to visualize the relationship",
		"visualization_suggestion": map[string]any{
			"type":   suggestion,
			"reason": "Scatter plots reveal correlations between variables",
		},
	}
}

func propString(chart model.ChartConfig, key, fallback string) string {
	if v, ok := chart.Props[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func chartTypeName(chart model.ChartConfig) string {
	if chart.Type == "" {
		return "chart"
	}
	return strings.ReplaceAll(chart.Type, "_", " ")
}
