package handler

import (
	"database/sql"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"dambo/frame"
	"dambo/insight"
	"dambo/router"
	"dambo/service"
	"dambo/storage"
)

// Handler bundles the shared dependencies of all HTTP endpoints. Advisor
// may be nil; AI-backed endpoints then degrade to their deterministic path.
type Handler struct {
	DB      *sql.DB
	Store   storage.Store
	Source  *service.DatasetSource
	Advisor insight.Advisor
}

// Register adds every route to the router registry. Call once before
// router.NewRouter.
func (h *Handler) Register() {
	routes := []*router.Route{
		{Path: "/projects", Methods: []string{http.MethodPost}, Handler: h.CreateProject},
		{Path: "/projects/{project_id}/datasets", Methods: []string{http.MethodPost}, Handler: h.UploadDataset},
		{Path: "/projects/{project_id}/datasets", Methods: []string{http.MethodGet}, Handler: h.ListDatasets},
		{Path: "/projects/{project_id}/canvas", Methods: []string{http.MethodGet}, Handler: h.GetCanvas},
		{Path: "/projects/{project_id}/canvas", Methods: []string{http.MethodPut}, Handler: h.SaveCanvas},
		{Path: "/projects/{project_id}/canvas", Methods: []string{http.MethodDelete}, Handler: h.ClearCanvas},
		{Path: "/projects/{project_id}/chats", Methods: []string{http.MethodGet}, Handler: h.GetChats},
		{Path: "/projects/{project_id}/chats", Methods: []string{http.MethodPut}, Handler: h.SaveChats},
		{Path: "/datasets/{dataset_id}", Methods: []string{http.MethodDelete}, Handler: h.DeleteDataset},
		{Path: "/datasets/{dataset_id}/export", Methods: []string{http.MethodGet}, Handler: h.ExportDataset},
		{Path: "/datasets/{dataset_id}/profile", Methods: []string{http.MethodGet}, Handler: h.DatasetProfile},
		{Path: "/datasets/{dataset_id}/histogram", Methods: []string{http.MethodGet}, Handler: h.HistogramChart},
		{Path: "/datasets/{dataset_id}/bar", Methods: []string{http.MethodGet}, Handler: h.BarChart},
		{Path: "/datasets/{dataset_id}/scatter", Methods: []string{http.MethodGet}, Handler: h.ScatterChart},
		{Path: "/datasets/{dataset_id}/correlation", Methods: []string{http.MethodGet}, Handler: h.CorrelationChart},
		{Path: "/datasets/{dataset_id}/line", Methods: []string{http.MethodGet}, Handler: h.LineChart},
		{Path: "/datasets/{dataset_id}/pie", Methods: []string{http.MethodGet}, Handler: h.PieChart},
		{Path: "/datasets/{dataset_id}/area", Methods: []string{http.MethodGet}, Handler: h.AreaChart},
		{Path: "/datasets/{dataset_id}/boxplot", Methods: []string{http.MethodGet}, Handler: h.BoxplotChart},
		{Path: "/datasets/{dataset_id}/treemap", Methods: []string{http.MethodGet}, Handler: h.TreemapChart},
		{Path: "/datasets/{dataset_id}/stacked-bar", Methods: []string{http.MethodGet}, Handler: h.StackedBarChart},
		{Path: "/datasets/{dataset_id}/quick-analysis", Methods: []string{http.MethodGet}, Handler: h.QuickAnalysis},
		{Path: "/charts/compare", Methods: []string{http.MethodPost}, Handler: h.CompareCharts},
		{Path: "/health", Methods: []string{http.MethodGet}, Handler: h.Health},
		{Path: "/ping", Methods: []string{http.MethodGet}, Handler: h.Ping},
	}
	for _, r := range routes {
		router.RegisterRoute(r)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) error {
	body, err := jsoniter.Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

// parseFilter reads the optional filter triple off the query string. An
// incomplete triple still builds; Filter.Apply treats it as identity.
func parseFilter(r *http.Request) *frame.Filter {
	q := r.URL.Query()
	return &frame.Filter{
		Column:   q.Get("filter_column"),
		Operator: q.Get("filter_operator"),
		Value:    q.Get("filter_value"),
	}
}

// applyWhere narrows the frame by the optional `where` expression. Unlike
// the filter triple, a malformed expression is the client's error.
func applyWhere(r *http.Request, f *frame.Frame) (*frame.Frame, error) {
	src := r.URL.Query().Get("where")
	if src == "" {
		return f, nil
	}
	flt, err := frame.CompileWhere(src)
	if err != nil {
		return nil, router.BadRequest(err.Error())
	}
	return flt.Apply(f), nil
}

func intQuery(r *http.Request, name string, fallback, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return fallback
	}
	return n
}

func boolQuery(r *http.Request, name string, fallback bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) error {
	if err := h.DB.Ping(); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"ping": "pong"})
}
