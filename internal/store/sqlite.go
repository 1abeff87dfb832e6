package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS feedback_records (
	seq              INTEGER PRIMARY KEY AUTOINCREMENT,
	id               TEXT NOT NULL UNIQUE,
	review_text      TEXT NOT NULL,
	predicted_rating INTEGER NOT NULL CHECK (predicted_rating BETWEEN 1 AND 5),
	user_rating      INTEGER NOT NULL CHECK (user_rating BETWEEN 1 AND 5),
	corrected        INTEGER NOT NULL,
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_records_corrected ON feedback_records(corrected);
`

// SQLiteFeedbackStore is the embedded relational backend.
type SQLiteFeedbackStore struct {
	db *sql.DB
}

func NewSQLiteFeedbackStore(ctx context.Context, path string) (*SQLiteFeedbackStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection serialises writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLiteFeedbackStore{db: db}, nil
}

func (s *SQLiteFeedbackStore) Append(ctx context.Context, r *domain.FeedbackRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback_records (id, review_text, predicted_rating, user_rating, corrected, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.ReviewText, r.PredictedRating, r.UserRating, r.Corrected,
		r.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteFeedbackStore) List(ctx context.Context) ([]domain.FeedbackRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, review_text, predicted_rating, user_rating, corrected, created_at
		 FROM feedback_records
		 ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	return scanSQLiteRecords(rows)
}

func (s *SQLiteFeedbackStore) ListCorrected(ctx context.Context) ([]domain.FeedbackRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, review_text, predicted_rating, user_rating, corrected, created_at
		 FROM feedback_records WHERE corrected = 1
		 ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	return scanSQLiteRecords(rows)
}

func (s *SQLiteFeedbackStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteFeedbackStore) Close() error {
	return s.db.Close()
}

func scanSQLiteRecords(rows *sql.Rows) ([]domain.FeedbackRecord, error) {
	defer rows.Close()

	var records []domain.FeedbackRecord
	for rows.Next() {
		var (
			r         domain.FeedbackRecord
			id        string
			createdAt string
		)
		if err := rows.Scan(&id, &r.ReviewText, &r.PredictedRating, &r.UserRating, &r.Corrected, &createdAt); err != nil {
			return nil, err
		}

		parsedID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid feedback record id %q: %w", id, err)
		}
		r.ID = parsedID

		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp for feedback record %s: %w", id, err)
		}
		r.Timestamp = ts

		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid feedback record %s: %w", id, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
