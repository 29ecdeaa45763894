package handler

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"dambo/analyzer"
	"dambo/frame"
	"dambo/insight"
	"dambo/model"
	"dambo/router"
)

// resolveFrame loads the dataset's table and applies the optional `where`
// expression. The filter triple is handed to the aggregators separately.
func (h *Handler) resolveFrame(r *http.Request) (*frame.Frame, error) {
	datasetID := mux.Vars(r)["dataset_id"]
	_, f, err := h.Source.Resolve(r.Context(), datasetID)
	if err != nil {
		return nil, err
	}
	return applyWhere(r, f)
}

func requireQuery(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", router.BadRequest("missing required parameter: " + name)
	}
	return v, nil
}

func (h *Handler) DatasetProfile(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, analyzer.Profile(f))
}

func (h *Handler) HistogramChart(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	column, err := requireQuery(r, "column")
	if err != nil {
		return err
	}
	bins := intQuery(r, "bins", 10, 1, 100)
	result, err := analyzer.Histogram(f, column, bins, parseFilter(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *Handler) BarChart(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	column, err := requireQuery(r, "column")
	if err != nil {
		return err
	}
	result, err := analyzer.BarCounts(f, column, parseFilter(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ScatterChart(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	x, err := requireQuery(r, "x")
	if err != nil {
		return err
	}
	y, err := requireQuery(r, "y")
	if err != nil {
		return err
	}
	result, err := analyzer.Scatter(f, x, y, parseFilter(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *Handler) CorrelationChart(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	result, err := analyzer.Correlation(f, parseFilter(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *Handler) LineChart(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	dateCol, err := requireQuery(r, "date_col")
	if err != nil {
		return err
	}
	valueCol, err := requireQuery(r, "value_col")
	if err != nil {
		return err
	}
	groupCol := r.URL.Query().Get("group_col")
	result, err := analyzer.Line(f, dateCol, valueCol, groupCol, parseFilter(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *Handler) PieChart(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	column, err := requireQuery(r, "column")
	if err != nil {
		return err
	}
	limit := intQuery(r, "limit", 10, 1, 100)
	result, err := analyzer.Pie(f, column, limit, parseFilter(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *Handler) AreaChart(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	dateCol, err := requireQuery(r, "date_col")
	if err != nil {
		return err
	}
	valueCol, err := requireQuery(r, "value_col")
	if err != nil {
		return err
	}
	stackCol, err := requireQuery(r, "stack_col")
	if err != nil {
		return err
	}
	result, err := analyzer.Area(f, dateCol, valueCol, stackCol, parseFilter(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *Handler) BoxplotChart(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	column, err := requireQuery(r, "column")
	if err != nil {
		return err
	}
	result, err := analyzer.Boxplot(f, column, parseFilter(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *Handler) TreemapChart(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	groupParam, err := requireQuery(r, "group_cols")
	if err != nil {
		return err
	}
	valueCol, err := requireQuery(r, "value_col")
	if err != nil {
		return err
	}
	groupCols := []string{}
	for _, g := range strings.Split(groupParam, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groupCols = append(groupCols, g)
		}
	}
	if len(groupCols) == 0 {
		return router.BadRequest("group_cols must name at least one column")
	}
	result, err := analyzer.Treemap(f, groupCols, valueCol, parseFilter(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *Handler) StackedBarChart(w http.ResponseWriter, r *http.Request) error {
	f, err := h.resolveFrame(r)
	if err != nil {
		return err
	}
	categoryCol, err := requireQuery(r, "category_col")
	if err != nil {
		return err
	}
	stackCol, err := requireQuery(r, "stack_col")
	if err != nil {
		return err
	}
	valueCol := r.URL.Query().Get("value_col")
	result, err := analyzer.StackedBar(f, categoryCol, stackCol, valueCol, parseFilter(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *Handler) QuickAnalysis(w http.ResponseWriter, r *http.Request) error {
	datasetID := mux.Vars(r)["dataset_id"]
	_, f, err := h.Source.Resolve(r.Context(), datasetID)
	if err != nil {
		return err
	}
	report := analyzer.QuickAnalyze(f)
	if h.Advisor != nil && boolQuery(r, "use_ai", true) {
		insights, err := h.Advisor.AnalysisInsights(r.Context(), report)
		if err != nil {
			// Advisor failures never fail the analysis.
			log.Printf("ai insights failed for dataset %s: %v", datasetID, err)
		} else {
			report.AIInsights = insights
		}
	}
	return writeJSON(w, http.StatusOK, report)
}

func (h *Handler) CompareCharts(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	var payload struct {
		Chart1    model.ChartConfig `json:"chart1"`
		Chart2    model.ChartConfig `json:"chart2"`
		DatasetID string            `json:"datasetId"`
	}
	if err := jsoniter.Unmarshal(body, &payload); err != nil {
		return router.BadRequest("invalid comparison payload")
	}
	if payload.Chart1.Type == "" || payload.Chart2.Type == "" {
		return router.BadRequest("both chart1 and chart2 are required")
	}

	var profile *model.DatasetProfile
	if payload.DatasetID != "" {
		if _, f, err := h.Source.Resolve(r.Context(), payload.DatasetID); err == nil {
			profile = analyzer.Profile(f)
		}
	}

	comparison := insight.BasicComparison(payload.Chart1, payload.Chart2)
	if h.Advisor != nil {
		aiComparison, err := h.Advisor.CompareCharts(r.Context(), payload.Chart1, payload.Chart2, profile)
		if err != nil {
			log.Printf("chart comparison advisor failed: %v", err)
		} else {
			comparison = aiComparison
		}
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"comparison": comparison,
		"charts": map[string]any{
			"chart1": payload.Chart1,
			"chart2": payload.Chart2,
		},
	})
}
