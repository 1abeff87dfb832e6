package service

import (
	"context"
	"math"
	"testing"
)

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"great food", "Great food!", 1},
		{"great food", "great service", 1.0 / 3.0},
		{"great food", "terrible wait", 0},
		{"", "", 0},
		{"", "anything", 0},
	}

	for _, tt := range tests {
		got := JaccardSimilarity(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("JaccardSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarityService_FindSimilar(t *testing.T) {
	store := newMockFeedbackStore(
		record(t, "great food and great service", 5, 5),
		record(t, "terrible parking", 2, 1),
		record(t, "great food", 5, 3),
		record(t, "food was great, service slow", 4, 3),
	)
	svc := NewSimilarityService(store)

	got, err := svc.FindSimilar(context.Background(), "Great food!", 2, 0.3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Record.ReviewText != "great food" || got[0].Similarity != 1 {
		t.Fatalf("expected exact token match first, got %+v", got[0])
	}
	if got[1].Similarity > got[0].Similarity {
		t.Fatal("results must be sorted by similarity")
	}
	for _, r := range got {
		if r.Record.ReviewText == "terrible parking" {
			t.Fatal("unrelated review returned")
		}
	}
}

func TestSimilarityService_IncludesUncorrected(t *testing.T) {
	store := newMockFeedbackStore(record(t, "lovely brunch spot", 4, 4))

	got, err := NewSimilarityService(store).FindSimilar(context.Background(), "lovely brunch spot", 0, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected confirmed record to be searchable, got %d results", len(got))
	}
}
