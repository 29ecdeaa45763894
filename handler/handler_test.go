package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dambo/config"
	"dambo/model"
	"dambo/repository"
	"dambo/router"
	"dambo/service"
	"dambo/service/db"
	"dambo/storage"
)

// The route registry is package-global, so all tests share one handler and
// swap its dependencies per test instead of registering twice.
var (
	testHandler  = &Handler{}
	registerOnce sync.Once
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	conn, err := db.ConnectDuckDB(filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repository.CreateTables(conn))

	config.Config = &config.Configuration{}
	config.Config.Storage.Root = t.TempDir()
	store, err := storage.New()
	require.NoError(t, err)

	testHandler.DB = conn
	testHandler.Store = store
	testHandler.Source = &service.DatasetSource{DB: conn, Store: store}
	testHandler.Advisor = nil
	registerOnce.Do(testHandler.Register)
	srv := httptest.NewServer(router.NewRouter(nil))
	t.Cleanup(srv.Close)
	return srv
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(out))
}

func createProject(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/projects", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	require.Len(t, body["project_id"], 6)
	return body["project_id"]
}

func uploadCSV(t *testing.T, srv *httptest.Server, projectID, filename, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/projects/"+projectID+"/datasets", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

const sampleCSV = "age,city\n25,A\n30,B\nNaN,A\n40,C\n"

func TestUploadAndListDatasets(t *testing.T) {
	srv := testServer(t)
	projectID := createProject(t, srv)

	resp := uploadCSV(t, srv, projectID, "people.csv", sampleCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ds model.Dataset
	decodeBody(t, resp, &ds)
	assert.Equal(t, projectID, ds.ProjectID)
	assert.Equal(t, "people.csv", ds.Filename)
	assert.Len(t, ds.DatasetID, 6)
	assert.Equal(t, int64(len(sampleCSV)), ds.FileSize)

	listResp, err := http.Get(srv.URL + "/projects/" + projectID + "/datasets")
	require.NoError(t, err)
	var list []model.Dataset
	decodeBody(t, listResp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, ds.DatasetID, list[0].DatasetID)
}

func TestUploadValidation(t *testing.T) {
	srv := testServer(t)
	projectID := createProject(t, srv)

	resp := uploadCSV(t, srv, "zzzzzz", "a.csv", sampleCSV)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = uploadCSV(t, srv, projectID, "a.txt", sampleCSV)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = uploadCSV(t, srv, projectID, "a.csv", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = uploadCSV(t, srv, projectID, "a.csv", "age,city\n")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func uploadSample(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	projectID := createProject(t, srv)
	resp := uploadCSV(t, srv, projectID, "people.csv", sampleCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ds model.Dataset
	decodeBody(t, resp, &ds)
	return ds.DatasetID
}

func TestHistogramEndpoint(t *testing.T) {
	srv := testServer(t)
	datasetID := uploadSample(t, srv)

	resp, err := http.Get(srv.URL + "/datasets/" + datasetID + "/histogram?column=age&bins=2")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist model.HistogramData
	decodeBody(t, resp, &hist)
	assert.Equal(t, []float64{25, 32.5, 40}, hist.Bins)
	assert.Equal(t, []int{2, 1}, hist.Counts)
}

func TestHistogramEndpointErrors(t *testing.T) {
	srv := testServer(t)
	datasetID := uploadSample(t, srv)

	resp, err := http.Get(srv.URL + "/datasets/" + datasetID + "/histogram")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/datasets/" + datasetID + "/histogram?column=nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "column not found: nope", body["detail"])

	resp, err = http.Get(srv.URL + "/datasets/zzzzzz/histogram?column=age")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBarEndpointWithFilter(t *testing.T) {
	srv := testServer(t)
	datasetID := uploadSample(t, srv)

	resp, err := http.Get(srv.URL + "/datasets/" + datasetID +
		"/bar?column=city&filter_column=age&filter_operator=%3E&filter_value=26")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bar model.BarData
	decodeBody(t, resp, &bar)
	assert.Equal(t, []string{"B", "C"}, bar.Categories)
	assert.Equal(t, []int{1, 1}, bar.Counts)
}

func TestChartEndpointWhereExpression(t *testing.T) {
	srv := testServer(t)
	datasetID := uploadSample(t, srv)

	resp, err := http.Get(srv.URL + "/datasets/" + datasetID +
		"/bar?column=city&where=" + "age%20%3E%3D%2030")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bar model.BarData
	decodeBody(t, resp, &bar)
	assert.Equal(t, []string{"B", "C"}, bar.Categories)

	resp, err = http.Get(srv.URL + "/datasets/" + datasetID + "/bar?column=city&where=age%20%3E")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestQuickAnalysisEndpoint(t *testing.T) {
	srv := testServer(t)
	datasetID := uploadSample(t, srv)

	resp, err := http.Get(srv.URL + "/datasets/" + datasetID + "/quick-analysis")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report model.QuickAnalysisReport
	decodeBody(t, resp, &report)
	assert.Equal(t, 4, report.DatasetOverview.RowCount)
	assert.Equal(t, []string{"age"}, report.DatasetOverview.NumericColumns)
	assert.Nil(t, report.AIInsights)
}

func TestDeleteDataset(t *testing.T) {
	srv := testServer(t)
	datasetID := uploadSample(t, srv)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/datasets/"+datasetID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	getResp, err := http.Get(srv.URL + "/datasets/" + datasetID + "/profile")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	getResp.Body.Close()
}

func TestExportDatasetProducesParquet(t *testing.T) {
	srv := testServer(t)
	datasetID := uploadSample(t, srv)

	resp, err := http.Get(srv.URL + "/datasets/" + datasetID + "/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), datasetID+".parquet")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "PAR1"))
}

func TestCanvasLifecycle(t *testing.T) {
	srv := testServer(t)
	projectID := createProject(t, srv)

	resp, err := http.Get(srv.URL + "/projects/" + projectID + "/canvas")
	require.NoError(t, err)
	var state map[string]any
	decodeBody(t, resp, &state)
	assert.Equal(t, []any{}, state["nodes"])
	assert.Nil(t, state["updated_at"])

	put, err := http.NewRequest(http.MethodPut, srv.URL+"/projects/"+projectID+"/canvas",
		strings.NewReader(`{"nodes":[{"id":"n1"}],"edges":[]}`))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(put)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, putResp.StatusCode)
	putResp.Body.Close()

	resp, err = http.Get(srv.URL + "/projects/" + projectID + "/canvas")
	require.NoError(t, err)
	decodeBody(t, resp, &state)
	nodes := state["nodes"].([]any)
	assert.Len(t, nodes, 1)

	del, err := http.NewRequest(http.MethodDelete, srv.URL+"/projects/"+projectID+"/canvas", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(del)
	require.NoError(t, err)
	var cleared map[string]string
	decodeBody(t, delResp, &cleared)
	assert.Equal(t, "cleared", cleared["status"])
}

func TestChatsLifecycle(t *testing.T) {
	srv := testServer(t)
	projectID := createProject(t, srv)

	put, err := http.NewRequest(http.MethodPut, srv.URL+"/projects/"+projectID+"/chats",
		strings.NewReader(`{"chats":[{"id":"initial","messages":[{"role":"user","content":"hi"}]}]}`))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(put)
	require.NoError(t, err)
	var saved map[string]any
	decodeBody(t, putResp, &saved)
	assert.Equal(t, "saved", saved["status"])
	assert.Equal(t, float64(1), saved["chat_count"])

	resp, err := http.Get(srv.URL + "/projects/" + projectID + "/chats")
	require.NoError(t, err)
	var payload model.ChatsPayload
	decodeBody(t, resp, &payload)
	require.Len(t, payload.Chats, 1)
	assert.Equal(t, "General", payload.Chats[0].Title)
	require.Len(t, payload.Chats[0].Messages, 1)
}

func TestCompareChartsFallback(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/charts/compare", "application/json",
		strings.NewReader(`{
			"chart1": {"type": "bar_chart", "props": {"column": "city"}},
			"chart2": {"type": "histogram", "props": {"column": "age"}}
		}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, true, body["success"])
	comparison := body["comparison"].(map[string]any)
	assert.Equal(t, "city vs age", comparison["comparison_title"])
}

func TestHealthAndPing(t *testing.T) {
	srv := testServer(t)
	for _, path := range []string{"/health", "/ping"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}
}
