package service

import (
	"math"

	"github.com/Harshitk-cp/ratelens/internal/domain"
)

// RatingMetrics compares predicted ratings against reference ratings.
// ConfusionMatrix[actual-1][predicted-1] counts each pairing.
type RatingMetrics struct {
	Evaluated         int     `json:"evaluated"`
	ExactMatches      int     `json:"exact_matches"`
	Accuracy          float64 `json:"accuracy"`
	MeanAbsoluteError float64 `json:"mean_absolute_error"`
	ConfusionMatrix   [][]int `json:"confusion_matrix"`

	absErrSum int
}

func newRatingMetrics() *RatingMetrics {
	m := &RatingMetrics{ConfusionMatrix: make([][]int, domain.MaxRating)}
	for i := range m.ConfusionMatrix {
		m.ConfusionMatrix[i] = make([]int, domain.MaxRating)
	}
	return m
}

// add records one pair; pairs outside the rating scale are ignored.
func (m *RatingMetrics) add(actual, predicted int) {
	if !domain.ValidRating(actual) || !domain.ValidRating(predicted) {
		return
	}
	m.Evaluated++
	if actual == predicted {
		m.ExactMatches++
	}
	m.absErrSum += absInt(actual - predicted)
	m.ConfusionMatrix[actual-1][predicted-1]++
}

func (m *RatingMetrics) finish() {
	if m.Evaluated == 0 {
		m.Accuracy = 0
		m.MeanAbsoluteError = 0
		return
	}
	m.Accuracy = round4(float64(m.ExactMatches) / float64(m.Evaluated))
	m.MeanAbsoluteError = round4(float64(m.absErrSum) / float64(m.Evaluated))
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
