package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dambo/model"
)

func TestScatterRecommendationLabels(t *testing.T) {
	pairs := []model.CorrelationPair{
		{ColumnA: "a", ColumnB: "b", Correlation: 0.9},
		{ColumnA: "a", ColumnB: "c", Correlation: -0.8},
		{ColumnA: "b", ColumnB: "c", Correlation: 0.5},
		{ColumnA: "b", ColumnB: "d", Correlation: -0.4},
		{ColumnA: "c", ColumnB: "d", Correlation: 0.2},
		{ColumnA: "d", ColumnB: "e", Correlation: -0.15},
	}
	got := ScatterRecommendations(pairs, []string{"a", "b", "c", "d", "e"})
	require.Len(t, got, 5)
	assert.Equal(t, "Strong positive correlation", got[0].Insight)
	assert.Equal(t, "Strong negative correlation", got[1].Insight)
	assert.Equal(t, "Moderate positive correlation", got[2].Insight)
	assert.Equal(t, "Moderate negative correlation", got[3].Insight)
	assert.Equal(t, "Weak positive correlation", got[4].Insight)
}

func TestScatterRecommendationSkipsNegligible(t *testing.T) {
	pairs := []model.CorrelationPair{
		{ColumnA: "a", ColumnB: "b", Correlation: 0.05},
	}
	got := ScatterRecommendations(pairs, []string{})
	assert.Empty(t, got)
}

func TestScatterRecommendationFallbackPairs(t *testing.T) {
	got := ScatterRecommendations(nil, []string{"a", "b", "c", "d", "e", "f"})
	require.Len(t, got, 5)
	for _, rec := range got {
		assert.Equal(t, 0.0, rec.Correlation)
		assert.Equal(t, "Explore relationship", rec.Insight)
	}
	// Only the first four columns pair up.
	assert.Equal(t, "a", got[0].X)
	assert.Equal(t, "b", got[0].Y)
}

func TestScatterRecommendationNoFallbackWithOneColumn(t *testing.T) {
	got := ScatterRecommendations(nil, []string{"a"})
	assert.Empty(t, got)
}

func TestScatterRecommendationWeakNegativeLabel(t *testing.T) {
	pairs := []model.CorrelationPair{
		{ColumnA: "a", ColumnB: "b", Correlation: -0.2},
	}
	got := ScatterRecommendations(pairs, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Weak negative correlation", got[0].Insight)
}
