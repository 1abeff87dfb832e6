package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Harshitk-cp/ratelens/internal/domain"
)

// FeedbackSummary describes how the model has fared against human ratings.
type FeedbackSummary struct {
	TotalFeedback      int            `json:"total_feedback"`
	Corrected          int            `json:"corrected"`
	Confirmed          int            `json:"confirmed"`
	CorrectionRate     float64        `json:"correction_rate"`
	OverRated          int            `json:"over_rated"`
	UnderRated         int            `json:"under_rated"`
	UniqueReviews      int            `json:"unique_reviews"`
	RatingDistribution map[string]int `json:"user_rating_distribution"`
	PredictedDist      map[string]int `json:"predicted_rating_distribution"`
	Metrics            *RatingMetrics `json:"metrics"`
	FirstFeedbackAt    *time.Time     `json:"first_feedback_at,omitempty"`
	LastFeedbackAt     *time.Time     `json:"last_feedback_at,omitempty"`
}

type AnalyticsService struct {
	feedbackStore domain.FeedbackStore
}

func NewAnalyticsService(fs domain.FeedbackStore) *AnalyticsService {
	return &AnalyticsService{feedbackStore: fs}
}

func (s *AnalyticsService) Summarize(ctx context.Context) (*FeedbackSummary, error) {
	records, err := s.feedbackStore.List(ctx)
	if err != nil {
		return nil, err
	}
	return SummarizeFeedback(records), nil
}

// SummarizeFeedback aggregates records; the user rating is the reference.
func SummarizeFeedback(records []domain.FeedbackRecord) *FeedbackSummary {
	sum := &FeedbackSummary{
		TotalFeedback:      len(records),
		RatingDistribution: make(map[string]int, domain.MaxRating),
		PredictedDist:      make(map[string]int, domain.MaxRating),
		Metrics:            newRatingMetrics(),
	}
	for r := domain.MinRating; r <= domain.MaxRating; r++ {
		sum.RatingDistribution[strconv.Itoa(r)] = 0
		sum.PredictedDist[strconv.Itoa(r)] = 0
	}

	unique := make(map[string]struct{})
	for i := range records {
		r := &records[i]
		unique[NormalizeReviewText(r.ReviewText)] = struct{}{}
		sum.RatingDistribution[strconv.Itoa(r.UserRating)]++
		sum.PredictedDist[strconv.Itoa(r.PredictedRating)]++
		sum.Metrics.add(r.UserRating, r.PredictedRating)

		if r.Corrected {
			sum.Corrected++
			switch domain.ClassifyError(r.PredictedRating, r.UserRating) {
			case domain.ErrorTypeOverRated:
				sum.OverRated++
			case domain.ErrorTypeUnderRated:
				sum.UnderRated++
			}
		} else {
			sum.Confirmed++
		}

		ts := r.Timestamp
		if sum.FirstFeedbackAt == nil || ts.Before(*sum.FirstFeedbackAt) {
			sum.FirstFeedbackAt = &ts
		}
		if sum.LastFeedbackAt == nil || ts.After(*sum.LastFeedbackAt) {
			sum.LastFeedbackAt = &ts
		}
	}

	sum.UniqueReviews = len(unique)
	if sum.TotalFeedback > 0 {
		sum.CorrectionRate = round4(float64(sum.Corrected) / float64(sum.TotalFeedback))
	}
	sum.Metrics.finish()
	return sum
}

var exportHeader = []string{"id", "review_text", "predicted_rating", "user_rating", "corrected", "timestamp"}

// ExportCSV writes every record, oldest first, as CSV.
func (s *AnalyticsService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.feedbackStore.List(ctx)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ID.String(),
			r.ReviewText,
			strconv.Itoa(r.PredictedRating),
			strconv.Itoa(r.UserRating),
			strconv.FormatBool(r.Corrected),
			r.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return len(records), cw.Error()
}
