package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/Harshitk-cp/ratelens/internal/llm"
	"go.uber.org/zap"
)

func setupPredictionTest(t *testing.T, responses ...string) (*PredictionService, *mockFeedbackStore, *llm.MockPredictor) {
	t.Helper()
	store := newMockFeedbackStore()
	predictor := llm.NewMockPredictor(responses...)
	return NewPredictionService(store, predictor, zap.NewNop()), store, predictor
}

func TestPredictionService_NoPriorFeedback(t *testing.T) {
	svc, _, predictor := setupPredictionTest(t, `{"predicted_stars": 3, "explanation": "Mixed.", "confidence": "medium"}`)

	res, err := svc.Predict(context.Background(), "Average food, slow service.")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.RAGUsed || res.SimilarCasesFound != 0 || res.AdjustmentApplied || len(res.Suggestions) != 0 {
		t.Fatalf("expected no retrieval context, got %+v", res)
	}
	if strings.Contains(predictor.Prompts()[0], "PAST CORRECTIONS") {
		t.Fatal("prompt must not carry a correction block")
	}
}

func TestPredictionService_SingleOverRatedCorrection(t *testing.T) {
	svc, store, predictor := setupPredictionTest(t, `{"predicted_stars": 3, "explanation": "Short praise.", "confidence": "medium"}`)
	_ = store.Append(context.Background(), ptr(record(t, "Great food!", 5, 3)))

	res, err := svc.Predict(context.Background(), "Great food!")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	prompt := predictor.Prompts()[0]
	if !strings.Contains(prompt, "DOWNWARD") {
		t.Fatalf("expected downward instruction in prompt:\n%s", prompt)
	}
	if !res.RAGUsed || res.SimilarCasesFound != 1 || !res.AdjustmentApplied {
		t.Fatalf("unexpected counters: %+v", res)
	}
	want := domain.Suggestion{OriginalRating: 5, CorrectedRating: 3, PatternType: domain.ErrorTypeOverRated, Confidence: "100%"}
	if len(res.Suggestions) != 1 || res.Suggestions[0] != want {
		t.Fatalf("unexpected suggestions: %+v", res.Suggestions)
	}
}

func TestPredictionService_MalformedOutput(t *testing.T) {
	svc, _, _ := setupPredictionTest(t, "I would give this four stars overall.")

	res, err := svc.Predict(context.Background(), "Decent place, friendly staff.")
	if !errors.Is(err, domain.ErrMalformedModelOutput) {
		t.Fatalf("expected ErrMalformedModelOutput, got %v", err)
	}
	if res != nil {
		t.Fatal("expected no partial result")
	}
}

func TestPredictionService_StoreUnavailableDegrades(t *testing.T) {
	svc, store, predictor := setupPredictionTest(t, `{"predicted_stars": 5}`)
	_ = store.Append(context.Background(), ptr(record(t, "Great food!", 5, 3)))
	store.listErr = errors.New("redis: connection refused")

	res, err := svc.Predict(context.Background(), "Great food!")
	if err != nil {
		t.Fatalf("expected store failure to be absorbed, got %v", err)
	}
	if res.RAGUsed || res.SimilarCasesFound != 0 || res.AdjustmentApplied {
		t.Fatalf("expected zero matches, got %+v", res)
	}
	if strings.Contains(predictor.Prompts()[0], "PAST CORRECTIONS") {
		t.Fatal("prompt must not carry a correction block")
	}
}

func TestPredictionService_PredictorFailure(t *testing.T) {
	svc, _, predictor := setupPredictionTest(t)
	upstream := errors.New("openrouter: 503 service unavailable")
	predictor.Err = upstream

	res, err := svc.Predict(context.Background(), "Great food!")
	if !errors.Is(err, domain.ErrPredictorFailure) {
		t.Fatalf("expected ErrPredictorFailure, got %v", err)
	}
	if !errors.Is(err, upstream) {
		t.Fatal("expected the upstream error to be preserved")
	}
	if res != nil {
		t.Fatal("expected no result")
	}
}

func TestPredictionService_EmptyReview(t *testing.T) {
	svc, _, predictor := setupPredictionTest(t)

	_, err := svc.Predict(context.Background(), "   ")
	if !errors.Is(err, ErrReviewTextMissing) {
		t.Fatalf("expected ErrReviewTextMissing, got %v", err)
	}
	if len(predictor.Prompts()) != 0 {
		t.Fatal("predictor must not be called")
	}
}

func TestPredictionService_FeedbackLoop(t *testing.T) {
	store := newMockFeedbackStore()
	predictor := llm.NewMockPredictor(`{"predicted_stars": 2}`)
	predictions := NewPredictionService(store, predictor, zap.NewNop())
	feedback := NewFeedbackService(store, zap.NewNop())
	ctx := context.Background()

	first, err := predictions.Predict(ctx, "Cold fries but a lovely patio.")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.RAGUsed {
		t.Fatal("first prediction cannot use corrections")
	}

	if _, err := feedback.Submit(ctx, SubmitFeedbackInput{
		ReviewText:      "Cold fries but a lovely patio.",
		PredictedRating: first.PredictedStars,
		UserRating:      4,
	}); err != nil {
		t.Fatalf("submit feedback: %v", err)
	}

	second, err := predictions.Predict(ctx, "cold fries  but a lovely patio.")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !second.RAGUsed || second.SimilarCasesFound != 1 {
		t.Fatalf("expected the correction to be retrieved, got %+v", second)
	}
	if !strings.Contains(predictor.Prompts()[1], "UPWARD") {
		t.Fatal("expected upward instruction after an under-rated correction")
	}
}

func ptr(r domain.FeedbackRecord) *domain.FeedbackRecord {
	return &r
}
