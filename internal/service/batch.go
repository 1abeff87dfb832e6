package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchMaxRows     = 100
	DefaultBatchConcurrency = 4
	batchPreviewRunes       = 100
)

var (
	ErrBatchNoTextColumn = errors.New("csv must have a 'text' column")
	ErrBatchEmpty        = errors.New("csv has no review rows")
)

// Row errors are reported by class only; upstream errors may quote
// provider responses or request URLs.
const (
	rowErrPredictor = "prediction failed, please try again"
	rowErrMalformed = "model returned unparseable output"
	rowErrRating    = "model returned an invalid rating"
	rowErrOther     = "prediction failed"
)

// BatchRow is the outcome for one CSV row. Exactly one of Result or Error is set.
type BatchRow struct {
	Row         int                      `json:"row"`
	Review      string                   `json:"review"`
	ActualStars *int                     `json:"actual_stars,omitempty"`
	Result      *domain.PredictionResult `json:"result,omitempty"`
	Error       string                   `json:"error,omitempty"`
}

// BatchReport covers the first maxRows review rows; Skipped counts the rest.
type BatchReport struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Skipped   int            `json:"skipped"`
	Rows      []BatchRow     `json:"rows"`
	Metrics   *RatingMetrics `json:"metrics,omitempty"`
}

// BatchService predicts every review of an uploaded CSV. Rows fail
// independently; a failed row never gets a default rating.
type BatchService struct {
	predictions *PredictionService
	logger      *zap.Logger
	maxRows     int
	concurrency int
}

func NewBatchService(ps *PredictionService, logger *zap.Logger, maxRows, concurrency int) *BatchService {
	if maxRows <= 0 {
		maxRows = DefaultBatchMaxRows
	}
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	return &BatchService{predictions: ps, logger: logger, maxRows: maxRows, concurrency: concurrency}
}

type batchInput struct {
	text  string
	stars *int
}

// Run reads a CSV with a 'text' column and an optional 'stars' column.
// Metrics are reported when at least one row carries stars.
func (s *BatchService) Run(ctx context.Context, r io.Reader) (*BatchReport, error) {
	inputs, skipped, err := s.readCSV(r)
	if err != nil {
		return nil, err
	}

	rows := make([]BatchRow, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, in := range inputs {
		rows[i] = BatchRow{Row: i + 1, Review: preview(in.text), ActualStars: in.stars}
		g.Go(func() error {
			result, err := s.predictions.Predict(gctx, in.text)
			if err != nil {
				s.logger.Warn("batch row failed", zap.Int("row", i+1), zap.Error(err))
				rows[i].Error = rowErrorMessage(err)
				return nil
			}
			rows[i].Result = result
			return nil
		})
	}
	_ = g.Wait()

	report := &BatchReport{Total: len(rows), Skipped: skipped, Rows: rows}
	metrics := newRatingMetrics()
	for _, row := range rows {
		if row.Result == nil {
			report.Failed++
			continue
		}
		report.Succeeded++
		if row.ActualStars != nil {
			metrics.add(*row.ActualStars, row.Result.PredictedStars)
		}
	}
	if metrics.Evaluated > 0 {
		metrics.finish()
		report.Metrics = metrics
	}

	s.logger.Info("batch prediction complete",
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

func rowErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedModelOutput):
		return rowErrMalformed
	case errors.Is(err, domain.ErrInvalidRating):
		return rowErrRating
	case errors.Is(err, domain.ErrPredictorFailure):
		return rowErrPredictor
	default:
		return rowErrOther
	}
}

// readCSV returns at most maxRows review rows and the number of review
// rows left out beyond that.
func (s *BatchService) readCSV(r io.Reader) ([]batchInput, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, ErrBatchEmpty
		}
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	textCol, starsCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "text", "review_text":
			if textCol < 0 {
				textCol = i
			}
		case "stars":
			starsCol = i
		}
	}
	if textCol < 0 {
		return nil, 0, ErrBatchNoTextColumn
	}

	var (
		inputs  []batchInput
		skipped int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv: %w", err)
		}
		if textCol >= len(rec) || strings.TrimSpace(rec[textCol]) == "" {
			continue
		}
		if len(inputs) == s.maxRows {
			skipped++
			continue
		}

		in := batchInput{text: rec[textCol]}
		if starsCol >= 0 && starsCol < len(rec) {
			if n, err := strconv.Atoi(strings.TrimSpace(rec[starsCol])); err == nil && domain.ValidRating(n) {
				in.stars = &n
			}
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return nil, 0, ErrBatchEmpty
	}
	return inputs, skipped, nil
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= batchPreviewRunes {
		return s
	}
	return string([]rune(s)[:batchPreviewRunes]) + "..."
}
