package domain

import "context"

// FeedbackStore is the durable home of feedback records. Implementations must
// never expose a partially written record to a concurrent reader, and must
// return records in insertion order.
type FeedbackStore interface {
	Append(ctx context.Context, r *FeedbackRecord) error
	// List returns every record, corrected or not.
	List(ctx context.Context) ([]FeedbackRecord, error)
	// ListCorrected returns only records with Corrected == true.
	ListCorrected(ctx context.Context) ([]FeedbackRecord, error)
	Ping(ctx context.Context) error
	Close() error
}

// Predictor submits a prompt to a hosted model and returns its raw text.
// Retries and timeouts are the implementation's concern.
type Predictor interface {
	Predict(ctx context.Context, prompt string) (string, error)
	Name() string
}
