package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	defaultMonitorSchedule   = "@hourly"
	defaultMaxCorrectionRate = 0.4
	defaultMinFeedback       = 10
	monitorRunTimeout        = 30 * time.Second
)

type MonitorConfig struct {
	Schedule          string
	MaxCorrectionRate float64
	MinFeedback       int
}

// MonitorReport is the outcome of one monitor run.
type MonitorReport struct {
	Summary  *FeedbackSummary
	Alerting bool
}

// MonitorService periodically summarizes feedback and warns when humans
// correct the model more often than MaxCorrectionRate.
type MonitorService struct {
	analytics *AnalyticsService
	logger    *zap.Logger
	cfg       MonitorConfig

	mu   sync.Mutex
	cron *cron.Cron
}

func NewMonitorService(a *AnalyticsService, logger *zap.Logger, cfg MonitorConfig) *MonitorService {
	if strings.TrimSpace(cfg.Schedule) == "" {
		cfg.Schedule = defaultMonitorSchedule
	}
	if cfg.MaxCorrectionRate <= 0 {
		cfg.MaxCorrectionRate = defaultMaxCorrectionRate
	}
	if cfg.MinFeedback <= 0 {
		cfg.MinFeedback = defaultMinFeedback
	}
	return &MonitorService{analytics: a, logger: logger, cfg: cfg}
}

func monitorParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Start schedules the monitor. The schedule is a 5-field cron expression or
// a descriptor such as "@hourly" or "@every 15m".
func (s *MonitorService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("accuracy monitor already started")
	}

	c := cron.New(cron.WithParser(monitorParser()))
	if _, err := c.AddFunc(s.cfg.Schedule, s.tick); err != nil {
		return fmt.Errorf("invalid monitor schedule %q: %w", s.cfg.Schedule, err)
	}
	c.Start()
	s.cron = c

	s.logger.Info("accuracy monitor started", zap.String("schedule", s.cfg.Schedule))
	return nil
}

// Stop waits for a running check to finish.
func (s *MonitorService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("accuracy monitor stopped")
}

func (s *MonitorService) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), monitorRunTimeout)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("accuracy monitor run failed", zap.Error(err))
	}
}

// RunOnce summarizes the store and logs the result.
func (s *MonitorService) RunOnce(ctx context.Context) (*MonitorReport, error) {
	sum, err := s.analytics.Summarize(ctx)
	if err != nil {
		return nil, err
	}

	report := &MonitorReport{Summary: sum}
	fields := []zap.Field{
		zap.Int("total_feedback", sum.TotalFeedback),
		zap.Int("corrected", sum.Corrected),
		zap.Float64("correction_rate", sum.CorrectionRate),
		zap.Float64("mean_absolute_error", sum.Metrics.MeanAbsoluteError),
	}

	if sum.TotalFeedback >= s.cfg.MinFeedback && sum.CorrectionRate > s.cfg.MaxCorrectionRate {
		report.Alerting = true
		s.logger.Warn("correction rate above threshold",
			append(fields, zap.Float64("max_correction_rate", s.cfg.MaxCorrectionRate))...)
		return report, nil
	}

	s.logger.Info("accuracy monitor check", fields...)
	return report, nil
}
