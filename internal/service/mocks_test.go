package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Harshitk-cp/ratelens/internal/domain"
)

// mockFeedbackStore implements domain.FeedbackStore for testing.
type mockFeedbackStore struct {
	mu      sync.Mutex
	records []domain.FeedbackRecord
	listErr error
}

func newMockFeedbackStore(records ...domain.FeedbackRecord) *mockFeedbackStore {
	return &mockFeedbackStore{records: records}
}

func (m *mockFeedbackStore) Append(ctx context.Context, r *domain.FeedbackRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *r)
	return nil
}

func (m *mockFeedbackStore) List(ctx context.Context) ([]domain.FeedbackRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.FeedbackRecord(nil), m.records...), nil
}

func (m *mockFeedbackStore) ListCorrected(ctx context.Context) ([]domain.FeedbackRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.FeedbackRecord
	for _, r := range m.records {
		if r.Corrected {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockFeedbackStore) Ping(ctx context.Context) error { return m.listErr }

func (m *mockFeedbackStore) Close() error { return nil }

func record(t *testing.T, text string, predicted, user int) domain.FeedbackRecord {
	t.Helper()
	r, err := domain.NewFeedbackRecord(text, predicted, user)
	if err != nil {
		t.Fatalf("NewFeedbackRecord(%q, %d, %d): %v", text, predicted, user, err)
	}
	return *r
}

func recordAt(t *testing.T, text string, predicted, user int, ts time.Time) domain.FeedbackRecord {
	t.Helper()
	r := record(t, text, predicted, user)
	r.Timestamp = ts
	return r
}

func buildRecords(t *testing.T, specs []recordSpec) []domain.FeedbackRecord {
	t.Helper()
	out := make([]domain.FeedbackRecord, 0, len(specs))
	for _, s := range specs {
		out = append(out, recordAt(t, s.text, s.predicted, s.user, s.at))
	}
	return out
}
