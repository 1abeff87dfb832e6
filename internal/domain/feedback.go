package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrReviewTextEmpty  = errors.New("review_text is required")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

// ValidRating reports whether r is a star rating in [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// FeedbackRecord is a human rating submitted against an earlier prediction.
// Corrected is fixed at creation time and is the only signal retrieval uses.
type FeedbackRecord struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	ReviewText      string    `json:"review_text" yaml:"review_text"`
	PredictedRating int       `json:"predicted_rating" yaml:"predicted_rating"`
	UserRating      int       `json:"user_rating" yaml:"user_rating"`
	Corrected       bool      `json:"corrected" yaml:"corrected"`
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
}

// NewFeedbackRecord validates the inputs and builds a record with a fresh ID.
func NewFeedbackRecord(reviewText string, predicted, user int) (*FeedbackRecord, error) {
	r := &FeedbackRecord{
		ID:              uuid.New(),
		ReviewText:      reviewText,
		PredictedRating: predicted,
		UserRating:      user,
		Corrected:       predicted != user,
		Timestamp:       time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks a record read from or written to a store.
func (r *FeedbackRecord) Validate() error {
	if r.ID == uuid.Nil {
		return errors.New("feedback record id is required")
	}
	if strings.TrimSpace(r.ReviewText) == "" {
		return ErrReviewTextEmpty
	}
	if !ValidRating(r.PredictedRating) {
		return fmt.Errorf("predicted_rating %d: %w", r.PredictedRating, ErrRatingOutOfRange)
	}
	if !ValidRating(r.UserRating) {
		return fmt.Errorf("user_rating %d: %w", r.UserRating, ErrRatingOutOfRange)
	}
	return nil
}
