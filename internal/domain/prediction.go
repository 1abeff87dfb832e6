package domain

import "strings"

type ErrorType string

const (
	ErrorTypeOverRated  ErrorType = "over_rated"
	ErrorTypeUnderRated ErrorType = "under_rated"
	ErrorTypeAccurate   ErrorType = "accurate"
)

// ClassifyError compares an earlier prediction with the human correction.
func ClassifyError(predicted, corrected int) ErrorType {
	switch {
	case predicted > corrected:
		return ErrorTypeOverRated
	case predicted < corrected:
		return ErrorTypeUnderRated
	default:
		return ErrorTypeAccurate
	}
}

// ExactMatchStrength is the strength of every pattern produced by exact retrieval.
const ExactMatchStrength = 1.0

// CorrectionPattern is derived per request from a matched record and never stored.
type CorrectionPattern struct {
	OriginalPrediction int       `json:"original_prediction"`
	CorrectedTo        int       `json:"corrected_to"`
	ErrorType          ErrorType `json:"error_type"`
	ErrorMagnitude     int       `json:"error_magnitude"`
	MatchStrength      float64   `json:"match_strength"`
}

// PatternAnalysis is the output of pattern analysis over a match set.
// Adjustment is advisory prompt context and is never added to a rating.
type PatternAnalysis struct {
	Patterns   []CorrectionPattern `json:"patterns"`
	Adjustment float64             `json:"adjustment"`
}

const (
	AdjustmentDown = -0.5
	AdjustmentUp   = 0.5
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence maps a model label to a Confidence, case-insensitively.
// Unknown labels fall back to medium.
func ParseConfidence(s string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

// SuggestionConfidence is reported for every suggestion; only exact matches surface.
const SuggestionConfidence = "100%"

type Suggestion struct {
	OriginalRating  int       `json:"original_rating"`
	CorrectedRating int       `json:"corrected_rating"`
	PatternType     ErrorType `json:"pattern_type"`
	Confidence      string    `json:"confidence"`
}

// PredictionResult is the validated outcome of one prediction request.
type PredictionResult struct {
	PredictedStars    int          `json:"predicted_stars"`
	Explanation       string       `json:"explanation"`
	Confidence        Confidence   `json:"confidence"`
	RAGUsed           bool         `json:"rag_used"`
	SimilarCasesFound int          `json:"similar_cases_found"`
	AdjustmentApplied bool         `json:"adjustment_applied"`
	Suggestions       []Suggestion `json:"suggestions"`
}
