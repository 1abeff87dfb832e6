package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"
)

func TestSummarizeFeedback(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []recordSpec{
		{"Great food!", 5, 3, base},
		{"great food!", 5, 4, base.Add(time.Hour)},
		{"Slow service", 2, 4, base.Add(2 * time.Hour)},
		{"Fine", 3, 3, base.Add(-time.Hour)},
	}
	sum := SummarizeFeedback(buildRecords(t, records))

	if sum.TotalFeedback != 4 || sum.Corrected != 3 || sum.Confirmed != 1 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if sum.OverRated != 2 || sum.UnderRated != 1 {
		t.Fatalf("unexpected directions: over=%d under=%d", sum.OverRated, sum.UnderRated)
	}
	if sum.UniqueReviews != 3 {
		t.Fatalf("expected 3 unique reviews, got %d", sum.UniqueReviews)
	}
	if sum.CorrectionRate != 0.75 {
		t.Fatalf("expected correction rate 0.75, got %v", sum.CorrectionRate)
	}
	if sum.Metrics.Accuracy != 0.25 {
		t.Fatalf("expected accuracy 0.25, got %v", sum.Metrics.Accuracy)
	}
	// |5-3| + |5-4| + |2-4| + 0 = 5 over 4 records
	if sum.Metrics.MeanAbsoluteError != 1.25 {
		t.Fatalf("expected MAE 1.25, got %v", sum.Metrics.MeanAbsoluteError)
	}
	if sum.Metrics.ConfusionMatrix[2][4] != 1 {
		t.Fatal("expected actual 3 / predicted 5 to be counted once")
	}
	if sum.RatingDistribution["4"] != 2 || sum.RatingDistribution["1"] != 0 {
		t.Fatalf("unexpected distribution: %v", sum.RatingDistribution)
	}
	if sum.PredictedDist["5"] != 2 || sum.PredictedDist["4"] != 0 {
		t.Fatalf("unexpected predicted distribution: %v", sum.PredictedDist)
	}
	if !sum.FirstFeedbackAt.Equal(base.Add(-time.Hour)) || !sum.LastFeedbackAt.Equal(base.Add(2*time.Hour)) {
		t.Fatal("unexpected first/last timestamps")
	}
}

func TestSummarizeFeedback_Empty(t *testing.T) {
	sum := SummarizeFeedback(nil)
	if sum.TotalFeedback != 0 || sum.CorrectionRate != 0 || sum.FirstFeedbackAt != nil {
		t.Fatalf("unexpected summary for empty store: %+v", sum)
	}
}

func TestAnalyticsService_ExportCSV(t *testing.T) {
	store := newMockFeedbackStore(
		record(t, "Great food, \"really\"", 5, 3),
		record(t, "Line one\nline two", 4, 4),
	)
	svc := NewAnalyticsService(store)

	var buf bytes.Buffer
	n, err := svc.ExportCSV(context.Background(), &buf)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows exported, got %d", n)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported csv does not parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "review_text" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][1] != "Great food, \"really\"" || rows[1][4] != "true" {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[2][1] != "Line one\nline two" || rows[2][4] != "false" {
		t.Fatalf("unexpected second row %v", rows[2])
	}
}

type recordSpec struct {
	text      string
	predicted int
	user      int
	at        time.Time
}
