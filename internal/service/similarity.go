package service

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/Harshitk-cp/ratelens/internal/domain"
)

const (
	DefaultSimilarLimit     = 5
	DefaultSimilarThreshold = 0.3
)

// SimilarReview is a stored record scored against a query.
type SimilarReview struct {
	Record     domain.FeedbackRecord `json:"record"`
	Similarity float64               `json:"similarity"`
}

// SimilarityService is an exploratory token-overlap search over every stored
// record, corrected or not. Predictions never use it.
type SimilarityService struct {
	store domain.FeedbackStore
}

func NewSimilarityService(store domain.FeedbackStore) *SimilarityService {
	return &SimilarityService{store: store}
}

// FindSimilar returns up to limit records scoring at least threshold, best
// first. Non-positive arguments take the defaults.
func (s *SimilarityService) FindSimilar(ctx context.Context, reviewText string, limit int, threshold float64) ([]SimilarReview, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	if threshold <= 0 {
		threshold = DefaultSimilarThreshold
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	query := tokenize(reviewText)
	results := make([]SimilarReview, 0)
	for _, r := range records {
		score := jaccardSimilarity(query, tokenize(r.ReviewText))
		if score >= threshold {
			results = append(results, SimilarReview{Record: r, Similarity: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// JaccardSimilarity is the token-set overlap of two texts, in [0, 1].
func JaccardSimilarity(a, b string) float64 {
	return jaccardSimilarity(tokenize(a), tokenize(b))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func jaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[s] = true
	}

	setB := make(map[string]bool, len(b))
	for _, s := range b {
		setB[s] = true
	}

	intersection := 0
	for s := range setA {
		if setB[s] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
