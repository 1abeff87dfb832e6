package middleware

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Metrics counts requests by outcome. Safe for concurrent use.
type Metrics struct {
	requests     atomic.Int64
	clientErrors atomic.Int64
	serverErrors atomic.Int64
	totalNanos   atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	ClientErrors int64   `json:"client_errors"`
	ServerErrors int64   `json:"server_errors"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		m.requests.Add(1)
		m.totalNanos.Add(int64(time.Since(start)))
		switch {
		case rw.statusCode >= 500:
			m.serverErrors.Add(1)
		case rw.statusCode >= 400:
			m.clientErrors.Add(1)
		}
	})
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		RequestCount: m.requests.Load(),
		ClientErrors: m.clientErrors.Load(),
		ServerErrors: m.serverErrors.Load(),
	}
	s.ErrorCount = s.ClientErrors + s.ServerErrors
	if s.RequestCount > 0 {
		s.AvgLatencyMS = float64(m.totalNanos.Load()) / float64(s.RequestCount) / float64(time.Millisecond)
	}
	return s
}
