package store

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS feedback_records (
	seq              BIGSERIAL PRIMARY KEY,
	id               UUID NOT NULL UNIQUE,
	review_text      TEXT NOT NULL,
	predicted_rating SMALLINT NOT NULL CHECK (predicted_rating BETWEEN 1 AND 5),
	user_rating      SMALLINT NOT NULL CHECK (user_rating BETWEEN 1 AND 5),
	corrected        BOOLEAN NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_feedback_records_corrected ON feedback_records (corrected);
`

// PostgresFeedbackStore is the relational backend. seq preserves insertion order.
type PostgresFeedbackStore struct {
	db *pgxpool.Pool
}

func NewPostgresFeedbackStore(db *pgxpool.Pool) *PostgresFeedbackStore {
	return &PostgresFeedbackStore{db: db}
}

func (s *PostgresFeedbackStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, postgresSchema)
	return err
}

func (s *PostgresFeedbackStore) Append(ctx context.Context, r *domain.FeedbackRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO feedback_records (id, review_text, predicted_rating, user_rating, corrected, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.ReviewText, r.PredictedRating, r.UserRating, r.Corrected, r.Timestamp,
	)
	return err
}

func (s *PostgresFeedbackStore) List(ctx context.Context) ([]domain.FeedbackRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, review_text, predicted_rating, user_rating, corrected, created_at
		 FROM feedback_records
		 ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	return scanPostgresRecords(rows)
}

func (s *PostgresFeedbackStore) ListCorrected(ctx context.Context) ([]domain.FeedbackRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, review_text, predicted_rating, user_rating, corrected, created_at
		 FROM feedback_records WHERE corrected
		 ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	return scanPostgresRecords(rows)
}

func (s *PostgresFeedbackStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresFeedbackStore) Close() error {
	s.db.Close()
	return nil
}

func scanPostgresRecords(rows pgx.Rows) ([]domain.FeedbackRecord, error) {
	defer rows.Close()

	var records []domain.FeedbackRecord
	for rows.Next() {
		var r domain.FeedbackRecord
		if err := rows.Scan(&r.ID, &r.ReviewText, &r.PredictedRating, &r.UserRating, &r.Corrected, &r.Timestamp); err != nil {
			return nil, err
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid feedback record %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
