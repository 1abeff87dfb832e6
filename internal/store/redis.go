package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/go-redis/redis/v8"
)

// RedisFeedbackStore is the key-value backend. Each record is one JSON element
// of a list; RPUSH is atomic, so readers never see half a record.
type RedisFeedbackStore struct {
	client *redis.Client
	key    string
}

func NewRedisFeedbackStore(client *redis.Client, key string) *RedisFeedbackStore {
	if key == "" {
		key = "ratelens:feedback"
	}
	return &RedisFeedbackStore{client: client, key: key}
}

func (s *RedisFeedbackStore) Append(ctx context.Context, r *domain.FeedbackRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal feedback record: %w", err)
	}
	return s.client.RPush(ctx, s.key, data).Err()
}

func (s *RedisFeedbackStore) List(ctx context.Context) ([]domain.FeedbackRecord, error) {
	return s.list(ctx, false)
}

func (s *RedisFeedbackStore) ListCorrected(ctx context.Context) ([]domain.FeedbackRecord, error) {
	return s.list(ctx, true)
}

func (s *RedisFeedbackStore) list(ctx context.Context, correctedOnly bool) ([]domain.FeedbackRecord, error) {
	values, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]domain.FeedbackRecord, 0, len(values))
	for i, v := range values {
		var r domain.FeedbackRecord
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			return nil, fmt.Errorf("decode feedback record at index %d: %w", i, err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid feedback record %s: %w", r.ID, err)
		}
		if correctedOnly && !r.Corrected {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *RedisFeedbackStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisFeedbackStore) Close() error {
	return s.client.Close()
}
