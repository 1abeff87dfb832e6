package handlers

import (
	"net/http"
	"strings"

	"github.com/Harshitk-cp/ratelens/internal/service"
)

type SimilarHandler struct {
	svc *service.SimilarityService
}

func NewSimilarHandler(svc *service.SimilarityService) *SimilarHandler {
	return &SimilarHandler{svc: svc}
}

type similarRequest struct {
	ReviewText string  `json:"review_text" validate:"required,max=5000"`
	Limit      int     `json:"limit" validate:"omitempty,min=1,max=50"`
	Threshold  float64 `json:"threshold" validate:"omitempty,gt=0,lte=1"`
}

func (r *similarRequest) normalize() {
	r.ReviewText = strings.TrimSpace(r.ReviewText)
}

type similarResponse struct {
	Results []service.SimilarReview `json:"results"`
	Count   int                     `json:"count"`
}

// Find is exploratory; predictions never consult it.
func (h *SimilarHandler) Find(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.svc.FindSimilar(r.Context(), req.ReviewText, req.Limit, req.Threshold)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "feedback store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, similarResponse{Results: results, Count: len(results)})
}
