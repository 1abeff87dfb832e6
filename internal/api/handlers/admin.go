package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/ratelens/internal/service"
)

const maxUploadBytes = 5 << 20

type AdminHandler struct {
	analytics *service.AnalyticsService
	batch     *service.BatchService
}

func NewAdminHandler(analytics *service.AnalyticsService, batch *service.BatchService) *AdminHandler {
	return &AdminHandler{analytics: analytics, batch: batch}
}

func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Summarize(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "feedback store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Export streams every feedback record as CSV. The body is buffered so a
// store failure can still be reported as JSON.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := h.analytics.ExportCSV(r.Context(), &buf); err != nil {
		writeError(w, http.StatusServiceUnavailable, "feedback store unavailable")
		return
	}

	filename := fmt.Sprintf("feedback-%s.csv", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Batch accepts a CSV either as the "file" field of a multipart form or as
// the raw request body.
func (h *AdminHandler) Batch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "multipart upload must include a 'file' field")
			return
		}
		defer func() { _ = file.Close() }()
		src = file
	}

	report, err := h.batch.Run(r.Context(), src)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchNoTextColumn),
			errors.Is(err, service.ErrBatchEmpty):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadRequest, "invalid csv upload")
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}
