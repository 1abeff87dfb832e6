package service

import "github.com/Harshitk-cp/ratelens/internal/domain"

// AnalyzePatterns turns matched records into correction patterns and derives
// the directional adjustment by majority vote of over- vs under-rated.
// Ties, including no matches at all, give zero.
func AnalyzePatterns(matches []domain.FeedbackRecord) domain.PatternAnalysis {
	patterns := make([]domain.CorrectionPattern, 0, len(matches))
	var over, under int

	for _, m := range matches {
		errType := domain.ClassifyError(m.PredictedRating, m.UserRating)
		switch errType {
		case domain.ErrorTypeOverRated:
			over++
		case domain.ErrorTypeUnderRated:
			under++
		}
		patterns = append(patterns, domain.CorrectionPattern{
			OriginalPrediction: m.PredictedRating,
			CorrectedTo:        m.UserRating,
			ErrorType:          errType,
			ErrorMagnitude:     absInt(m.PredictedRating - m.UserRating),
			MatchStrength:      domain.ExactMatchStrength,
		})
	}

	var adjustment float64
	switch {
	case over > under:
		adjustment = domain.AdjustmentDown
	case under > over:
		adjustment = domain.AdjustmentUp
	}
	return domain.PatternAnalysis{Patterns: patterns, Adjustment: adjustment}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
