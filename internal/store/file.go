package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// fileRecord is the on-disk YAML shape of a feedback record.
type fileRecord struct {
	ID              string `yaml:"id"`
	ReviewText      string `yaml:"review_text"`
	PredictedRating int    `yaml:"predicted_rating"`
	UserRating      int    `yaml:"user_rating"`
	Corrected       bool   `yaml:"corrected"`
	Timestamp       string `yaml:"timestamp"`
}

// FileFeedbackStore keeps every record in one YAML document. Writes go to a
// temp file that is renamed over the original, so readers in this or another
// process see either the old or the new list, never a torn one.
type FileFeedbackStore struct {
	path string
	mu   sync.RWMutex
}

func NewFileFeedbackStore(path string) (*FileFeedbackStore, error) {
	if path == "" {
		return nil, errors.New("feedback file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create feedback dir: %w", err)
	}
	return &FileFeedbackStore{path: path}, nil
}

func (s *FileFeedbackStore) Append(ctx context.Context, r *domain.FeedbackRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	current = append(current, fileRecord{
		ID:              r.ID.String(),
		ReviewText:      r.ReviewText,
		PredictedRating: r.PredictedRating,
		UserRating:      r.UserRating,
		Corrected:       r.Corrected,
		Timestamp:       r.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	return s.write(current)
}

func (s *FileFeedbackStore) List(ctx context.Context) ([]domain.FeedbackRecord, error) {
	return s.list(false)
}

func (s *FileFeedbackStore) ListCorrected(ctx context.Context) ([]domain.FeedbackRecord, error) {
	return s.list(true)
}

// Ping checks that the file, if present, is readable and well formed.
func (s *FileFeedbackStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := s.read()
	return err
}

func (s *FileFeedbackStore) Close() error {
	return nil
}

func (s *FileFeedbackStore) list(correctedOnly bool) ([]domain.FeedbackRecord, error) {
	s.mu.RLock()
	raw, err := s.read()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	records := make([]domain.FeedbackRecord, 0, len(raw))
	for _, fr := range raw {
		if correctedOnly && !fr.Corrected {
			continue
		}
		r, err := fr.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *FileFeedbackStore) read() ([]fileRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read feedback file: %w", err)
	}

	var records []fileRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse feedback file: %w", err)
	}
	return records, nil
}

func (s *FileFeedbackStore) write(records []fileRecord) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal feedback file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".feedback-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp feedback file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp feedback file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp feedback file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp feedback file: %w", err)
	}
	return os.Rename(tmpName, s.path)
}

func (fr fileRecord) toDomain() (domain.FeedbackRecord, error) {
	id, err := uuid.Parse(fr.ID)
	if err != nil {
		return domain.FeedbackRecord{}, fmt.Errorf("invalid feedback record id %q: %w", fr.ID, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, fr.Timestamp)
	if err != nil {
		return domain.FeedbackRecord{}, fmt.Errorf("invalid timestamp for feedback record %s: %w", fr.ID, err)
	}
	r := domain.FeedbackRecord{
		ID:              id,
		ReviewText:      fr.ReviewText,
		PredictedRating: fr.PredictedRating,
		UserRating:      fr.UserRating,
		Corrected:       fr.Corrected,
		Timestamp:       ts,
	}
	if err := r.Validate(); err != nil {
		return domain.FeedbackRecord{}, fmt.Errorf("invalid feedback record %s: %w", fr.ID, err)
	}
	return r, nil
}
