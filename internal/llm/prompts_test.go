package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pattern(predicted, corrected int) domain.CorrectionPattern {
	return domain.CorrectionPattern{
		OriginalPrediction: predicted,
		CorrectedTo:        corrected,
		ErrorType:          domain.ClassifyError(predicted, corrected),
		ErrorMagnitude:     max(predicted-corrected, corrected-predicted),
		MatchStrength:      domain.ExactMatchStrength,
	}
}

func readGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestBuildRatingPrompt_Golden(t *testing.T) {
	tests := []struct {
		name       string
		golden     string
		review     string
		patterns   []domain.CorrectionPattern
		adjustment float64
	}{
		{
			name:   "no prior corrections",
			golden: "no_context.golden",
			review: "Average food, slow service.",
		},
		{
			name:       "single over-rated correction",
			golden:     "single_over_rated.golden",
			review:     "Great food!",
			patterns:   []domain.CorrectionPattern{pattern(5, 3)},
			adjustment: domain.AdjustmentDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRatingPrompt(tt.review, tt.patterns, tt.adjustment)
			assert.Equal(t, readGolden(t, tt.golden), got)
		})
	}
}

func TestBuildRatingPrompt_OmitsContextWithoutPatterns(t *testing.T) {
	got := BuildRatingPrompt("Average food, slow service.", nil, 0)
	assert.NotContains(t, got, correctionContextHeader)
	assert.NotContains(t, got, "Adjust your rating")
	assert.Contains(t, got, `Review: "Average food, slow service."`)
}

func TestBuildRatingPrompt_Direction(t *testing.T) {
	tests := []struct {
		name       string
		patterns   []domain.CorrectionPattern
		adjustment float64
		want       []string
		notWant    []string
	}{
		{
			name:       "upward",
			patterns:   []domain.CorrectionPattern{pattern(2, 4)},
			adjustment: domain.AdjustmentUp,
			want:       []string{"under-rated", "UPWARD"},
			notWant:    []string{"DOWNWARD", "corrected 1 times"},
		},
		{
			name:       "tie uses first pattern wording",
			patterns:   []domain.CorrectionPattern{pattern(2, 4), pattern(5, 3)},
			adjustment: 0,
			want:       []string{"under-rated", "corrected 2 times", "appropriately"},
			notWant:    []string{"over-rated", "UPWARD", "DOWNWARD"},
		},
		{
			name:       "repeat count",
			patterns:   []domain.CorrectionPattern{pattern(5, 3), pattern(5, 2), pattern(1, 2)},
			adjustment: domain.AdjustmentDown,
			want:       []string{"over-rated", "corrected 3 times", "DOWNWARD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRatingPrompt("Great food!", tt.patterns, tt.adjustment)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
			assert.Less(t, strings.Index(got, correctionContextHeader), strings.Index(got, `Review: "Great food!"`))
		})
	}
}

func TestBuildRatingPrompt_EchoFields(t *testing.T) {
	prompt := BuildRatingPrompt("Great food!", nil, 0)

	for _, field := range []string{`"predicted_stars"`, `"explanation"`, `"confidence"`, `"rag_context_used"`, `"similar_cases"`} {
		assert.Contains(t, prompt, field)
	}
	// The result counters are computed locally and never requested from the model.
	assert.NotContains(t, prompt, `"rag_used"`)
	assert.NotContains(t, prompt, `"similar_cases_found"`)
}
