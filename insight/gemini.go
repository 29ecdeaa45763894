package insight

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	jsoniter "github.com/json-iterator/go"

	"dambo/model"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// GeminiAdvisor calls a Gemini-compatible generateContent endpoint. The
// model is asked for application/json output, so the candidate text parses
// directly into the insight maps.
type GeminiAdvisor struct {
	APIKey   string
	Model    string
	Endpoint string
	Client   *http.Client
}

func NewGeminiAdvisor(apiKey, modelName string) *GeminiAdvisor {
	return &GeminiAdvisor{
		APIKey:   apiKey,
		Model:    modelName,
		Endpoint: defaultEndpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string  `json:"response_mime_type"`
		Temperature      float64 `json:"temperature"`
	} `json:"generationConfig"`
}

func (g *GeminiAdvisor) AnalysisInsights(ctx context.Context, report *model.QuickAnalysisReport) (map[string]any, error) {
	summary, err := jsoniter.MarshalIndent(analysisSummary(report), "", "  ")
	if err != nil {
		return nil, err
	}
	return g.generate(ctx, fmt.Sprintf(prompts.Analysis, summary))
}

func (g *GeminiAdvisor) CompareCharts(ctx context.Context, chart1, chart2 model.ChartConfig, profile *model.DatasetProfile) (map[string]any, error) {
	info1, err := jsoniter.MarshalIndent(chartInfo(chart1), "", "  ")
	if err != nil {
		return nil, err
	}
	info2, err := jsoniter.MarshalIndent(chartInfo(chart2), "", "  ")
	if err != nil {
		return nil, err
	}
	profileBlock := ""
	if profile != nil {
		ctxProfile, err := jsoniter.MarshalIndent(profileContext(profile), "", "  ")
		if err != nil {
			return nil, err
		}
		profileBlock = fmt.Sprintf("Dataset Profile: %s", ctxProfile)
	}
	return g.generate(ctx, fmt.Sprintf(prompts.Comparison, info1, info2, profileBlock))
}

func (g *GeminiAdvisor) generate(ctx context.Context, prompt string) (map[string]any, error) {
	reqBody := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}
	reqBody.GenerationConfig.ResponseMimeType = "application/json"
	reqBody.GenerationConfig.Temperature = 0.3

	payload, err := jsoniter.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.Endpoint, g.Model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generateContent returned status %d", resp.StatusCode)
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	text, err := candidateText(body.Bytes())
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := jsoniter.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("model returned non-JSON payload: %w", err)
	}
	return out, nil
}

// candidateText pulls candidates[0].content.parts[].text out of a
// generateContent response without materializing the whole document.
func candidateText(data []byte) (string, error) {
	text := ""
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "candidates" {
			return d.Skip()
		}
		first := true
		return d.Arr(func(d *jx.Decoder) error {
			if !first {
				return d.Skip()
			}
			first = false
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "content" {
					return d.Skip()
				}
				return d.Obj(func(d *jx.Decoder, key string) error {
					if key != "parts" {
						return d.Skip()
					}
					return d.Arr(func(d *jx.Decoder) error {
						return d.Obj(func(d *jx.Decoder, key string) error {
							if key != "text" {
								return d.Skip()
							}
							s, err := d.Str()
							if err != nil {
								return err
							}
							text += s
							return nil
						})
					})
				})
			})
		})
	})
	if err != nil {
		return "", fmt.Errorf("parse generateContent response: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("generateContent response has no candidate text")
	}
	return text, nil
}

// analysisSummary condenses the report for the prompt so raw data never
// leaves the server.
func analysisSummary(report *model.QuickAnalysisReport) map[string]any {
	overview := report.DatasetOverview
	missingSummary := []map[string]any{}
	for _, c := range report.MissingDataInsights.Columns {
		if c.MissingPercentage > 5 {
			missingSummary = append(missingSummary, map[string]any{
				"column": c.Column,
				"pct":    c.MissingPercentage,
			})
		}
	}
	correlations := []map[string]any{}
	for _, c := range report.StrongestCorrelations {
		correlations = append(correlations, map[string]any{
			"columns": []string{c.ColumnA, c.ColumnB},
			"value":   c.Correlation,
		})
	}
	outliers := []map[string]any{}
	for _, o := range report.OutlierDetection {
		if o.OutlierPercentage > 3 {
			outliers = append(outliers, map[string]any{
				"column": o.Column,
				"pct":    o.OutlierPercentage,
			})
		}
	}
	return map[string]any{
		"shape": map[string]any{
			"rows":    overview.RowCount,
			"columns": overview.ColumnCount,
		},
		"column_types": map[string]any{
			"numeric":     overview.NumericColumns,
			"categorical": overview.CategoricalColumns,
			"datetime":    overview.DatetimeColumns,
		},
		"data_quality": map[string]any{
			"duplicate_rows":            overview.DuplicateRows,
			"columns_with_high_missing": report.MissingDataInsights.ColumnsAbove30PctMissing,
			"missing_summary":           missingSummary,
		},
		"correlations": correlations,
		"outliers":     outliers,
		"ml_readiness": map[string]any{
			"score": report.MLReadiness.ReadinessScore,
			"level": report.MLReadiness.ReadinessLevel,
		},
	}
}

func chartInfo(chart model.ChartConfig) map[string]any {
	props := chart.Props
	info := map[string]any{
		"type":   chart.Type,
		"column": firstProp(props, "column", "valueColumn", "categoryColumn"),
	}
	switch chart.Type {
	case "scatter_chart":
		info["x_column"] = props["x"]
		info["y_column"] = props["y"]
	case "line_chart", "area_chart":
		info["date_column"] = props["dateColumn"]
		info["value_column"] = props["valueColumn"]
	case "stacked_bar_chart":
		info["category_column"] = props["categoryColumn"]
		info["stack_column"] = props["stackColumn"]
	}
	return info
}

func firstProp(props map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := props[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func profileContext(profile *model.DatasetProfile) map[string]any {
	cols := []map[string]any{}
	for i, c := range profile.Columns {
		if i == 10 {
			break
		}
		cols = append(cols, map[string]any{
			"name": c.Name,
			"type": c.DetectedType,
		})
	}
	return map[string]any{"columns": cols}
}
