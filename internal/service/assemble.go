package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/Harshitk-cp/ratelens/internal/llm"
)

const (
	maxSuggestions     = 3
	defaultExplanation = "No explanation available"
)

// AssembleResult validates raw model output and merges it with the retrieval
// outcome. The retrieval counters come from patterns, never from the model.
func AssembleResult(raw string, patterns []domain.CorrectionPattern, adjustment float64) (*domain.PredictionResult, error) {
	obj, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	stars, err := parseRating(obj["predicted_stars"])
	if err != nil {
		return nil, err
	}

	explanation := defaultExplanation
	var s string
	if v, ok := obj["explanation"]; ok && json.Unmarshal(v, &s) == nil && !isNull(v) {
		explanation = s
	}

	confidence := domain.ConfidenceMedium
	var c string
	if v, ok := obj["confidence"]; ok && json.Unmarshal(v, &c) == nil {
		confidence = domain.ParseConfidence(c)
	}

	n := min(len(patterns), maxSuggestions)
	suggestions := make([]domain.Suggestion, 0, n)
	for _, p := range patterns[:n] {
		suggestions = append(suggestions, domain.Suggestion{
			OriginalRating:  p.OriginalPrediction,
			CorrectedRating: p.CorrectedTo,
			PatternType:     p.ErrorType,
			Confidence:      domain.SuggestionConfidence,
		})
	}

	return &domain.PredictionResult{
		PredictedStars:    stars,
		Explanation:       explanation,
		Confidence:        confidence,
		RAGUsed:           len(patterns) >= 1,
		SimilarCasesFound: len(patterns),
		AdjustmentApplied: adjustment != 0,
		Suggestions:       suggestions,
	}, nil
}

// parseRating accepts only a JSON integer literal in [1, 5]. Strings, floats
// such as 4.0 and out-of-range values are rejected.
func parseRating(v json.RawMessage) (int, error) {
	if len(v) == 0 {
		return 0, fmt.Errorf("%w: predicted_stars missing", domain.ErrInvalidRating)
	}

	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidRating, err)
	}
	num, ok := x.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: predicted_stars is %s", domain.ErrInvalidRating, string(v))
	}
	n, err := num.Int64()
	if err != nil || !domain.ValidRating(int(n)) || n != int64(int(n)) {
		return 0, fmt.Errorf("%w: predicted_stars is %s", domain.ErrInvalidRating, num.String())
	}
	return int(n), nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}
