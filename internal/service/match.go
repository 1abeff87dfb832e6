package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/ratelens/internal/domain"
)

// NormalizeReviewText lowercases s, collapses whitespace runs to one space and
// trims the ends. Punctuation is kept.
func NormalizeReviewText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// MatchRecords returns the corrected records whose text equals reviewText
// after normalization, in the order given.
func MatchRecords(records []domain.FeedbackRecord, reviewText string) []domain.FeedbackRecord {
	key := NormalizeReviewText(reviewText)

	var matches []domain.FeedbackRecord
	for _, r := range records {
		if !r.Corrected {
			continue
		}
		if NormalizeReviewText(r.ReviewText) == key {
			matches = append(matches, r)
		}
	}
	return matches
}

// MatchIndex finds earlier corrections of the same review.
type MatchIndex struct {
	store domain.FeedbackStore
}

func NewMatchIndex(store domain.FeedbackStore) *MatchIndex {
	return &MatchIndex{store: store}
}

// FindMatches reads every corrected record and returns the exact matches.
// A store failure is reported as domain.ErrStoreUnavailable.
func (m *MatchIndex) FindMatches(ctx context.Context, reviewText string) ([]domain.FeedbackRecord, error) {
	records, err := m.store.ListCorrected(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return MatchRecords(records, reviewText), nil
}
