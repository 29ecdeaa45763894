package insight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dambo/model"
)

func testAdvisor(t *testing.T, handler http.HandlerFunc) (*GeminiAdvisor, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	adv := NewGeminiAdvisor("test-key", "gemini-2.0-flash")
	adv.Endpoint = srv.URL
	return adv, srv
}

func generateResponse(text string) []byte {
	body, _ := jsoniter.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	})
	return body
}

func TestAnalysisInsightsRoundTrip(t *testing.T) {
	adv, _ := testAdvisor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write(generateResponse(`{"overall_assessment": "looks fine"}`))
	})

	report := &model.QuickAnalysisReport{}
	report.DatasetOverview.RowCount = 3
	got, err := adv.AnalysisInsights(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "looks fine", got["overall_assessment"])
}

func TestCompareChartsRoundTrip(t *testing.T) {
	adv, _ := testAdvisor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(generateResponse(`{"comparison_title": "age vs city"}`))
	})
	chart := model.ChartConfig{Type: "bar_chart", Props: map[string]any{"column": "city"}}
	got, err := adv.CompareCharts(context.Background(), chart, chart, nil)
	require.NoError(t, err)
	assert.Equal(t, "age vs city", got["comparison_title"])
}

func TestGenerateRejectsNonJSONText(t *testing.T) {
	adv, _ := testAdvisor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(generateResponse("not json at all"))
	})
	_, err := adv.AnalysisInsights(context.Background(), &model.QuickAnalysisReport{})
	assert.Error(t, err)
}

func TestGenerateRejectsErrorStatus(t *testing.T) {
	adv, _ := testAdvisor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := adv.AnalysisInsights(context.Background(), &model.QuickAnalysisReport{})
	assert.Error(t, err)
}

func TestCandidateTextEmptyResponse(t *testing.T) {
	_, err := candidateText([]byte(`{"candidates": []}`))
	assert.Error(t, err)
}

func TestBasicComparison(t *testing.T) {
	c1 := model.ChartConfig{Type: "bar_chart", Props: map[string]any{"column": "city"}}
	c2 := model.ChartConfig{Type: "histogram", Props: map[string]any{"column": "age"}}
	got := BasicComparison(c1, c2)
	assert.Equal(t, "city vs age", got["comparison_title"])
	suggestion := got["visualization_suggestion"].(map[string]any)
	assert.Equal(t, "scatter_chart", suggestion["type"])
}

func TestBasicComparisonSameColumn(t *testing.T) {
	c := model.ChartConfig{Type: "bar_chart", Props: map[string]any{"column": "city"}}
	got := BasicComparison(c, c)
	suggestion := got["visualization_suggestion"].(map[string]any)
	assert.Equal(t, "none", suggestion["type"])
}
