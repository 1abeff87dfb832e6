package service

import (
	"context"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"go.uber.org/zap"
)

type SubmitFeedbackInput struct {
	ReviewText      string
	PredictedRating int
	UserRating      int
}

// FeedbackService records human ratings against earlier predictions. The
// next prediction for the same text reads them back through MatchIndex.
type FeedbackService struct {
	feedbackStore domain.FeedbackStore
	logger        *zap.Logger
}

func NewFeedbackService(fs domain.FeedbackStore, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		feedbackStore: fs,
		logger:        logger,
	}
}

func (s *FeedbackService) Submit(ctx context.Context, in SubmitFeedbackInput) (*domain.FeedbackRecord, error) {
	r, err := domain.NewFeedbackRecord(in.ReviewText, in.PredictedRating, in.UserRating)
	if err != nil {
		return nil, err
	}
	if err := s.feedbackStore.Append(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("feedback recorded",
		zap.String("id", r.ID.String()),
		zap.Int("predicted_rating", r.PredictedRating),
		zap.Int("user_rating", r.UserRating),
		zap.Bool("corrected", r.Corrected))
	return r, nil
}

func (s *FeedbackService) List(ctx context.Context) ([]domain.FeedbackRecord, error) {
	return s.feedbackStore.List(ctx)
}
