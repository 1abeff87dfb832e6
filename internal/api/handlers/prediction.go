package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/Harshitk-cp/ratelens/internal/service"
)

const predictionFailedMessage = "prediction failed, please try again"

type PredictionHandler struct {
	svc *service.PredictionService
}

func NewPredictionHandler(svc *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{svc: svc}
}

type predictRequest struct {
	ReviewText string `json:"review_text" validate:"required,min=10,max=5000"`
}

func (r *predictRequest) normalize() {
	r.ReviewText = strings.TrimSpace(r.ReviewText)
}

type predictResponse struct {
	*domain.PredictionResult
	LatencyMS int64 `json:"latency_ms"`
}

func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result, err := h.svc.Predict(r.Context(), req.ReviewText)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewTextMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrPredictorFailure),
			errors.Is(err, domain.ErrMalformedModelOutput),
			errors.Is(err, domain.ErrInvalidRating):
			writeError(w, http.StatusBadGateway, predictionFailedMessage)
		default:
			writeError(w, http.StatusInternalServerError, predictionFailedMessage)
		}
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		PredictionResult: result,
		LatencyMS:        time.Since(start).Milliseconds(),
	})
}
