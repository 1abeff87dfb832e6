package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/Harshitk-cp/ratelens/internal/llm"
	"go.uber.org/zap"
)

var ErrReviewTextMissing = errors.New("review_text is required")

// PredictionService runs one prediction: retrieve corrections, analyze them,
// build the prompt, call the model and validate its answer.
type PredictionService struct {
	index     *MatchIndex
	predictor domain.Predictor
	logger    *zap.Logger
}

func NewPredictionService(store domain.FeedbackStore, predictor domain.Predictor, logger *zap.Logger) *PredictionService {
	return &PredictionService{
		index:     NewMatchIndex(store),
		predictor: predictor,
		logger:    logger,
	}
}

func (s *PredictionService) Predict(ctx context.Context, reviewText string) (*domain.PredictionResult, error) {
	if strings.TrimSpace(reviewText) == "" {
		return nil, ErrReviewTextMissing
	}

	matches, err := s.index.FindMatches(ctx, reviewText)
	if err != nil {
		// Retrieval is an enhancement; predict without context.
		s.logger.Warn("feedback lookup failed, predicting without corrections", zap.Error(err))
		matches = nil
	}

	analysis := AnalyzePatterns(matches)
	prompt := llm.BuildRatingPrompt(reviewText, analysis.Patterns, analysis.Adjustment)

	raw, err := s.predictor.Predict(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPredictorFailure, err)
	}

	result, err := AssembleResult(raw, analysis.Patterns, analysis.Adjustment)
	if err != nil {
		s.logger.Warn("model output rejected",
			zap.String("predictor", s.predictor.Name()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Debug("prediction complete",
		zap.String("predictor", s.predictor.Name()),
		zap.Int("predicted_stars", result.PredictedStars),
		zap.Bool("rag_used", result.RAGUsed),
		zap.Int("similar_cases_found", result.SimilarCasesFound),
		zap.Float64("adjustment", analysis.Adjustment))
	return result, nil
}
