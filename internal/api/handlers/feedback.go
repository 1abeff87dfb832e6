package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/Harshitk-cp/ratelens/internal/service"
)

type FeedbackHandler struct {
	svc *service.FeedbackService
}

func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

type createFeedbackRequest struct {
	ReviewText      string `json:"review_text" validate:"required,max=5000"`
	PredictedRating int    `json:"predicted_rating" validate:"required,min=1,max=5"`
	UserRating      int    `json:"user_rating" validate:"required,min=1,max=5"`
}

func (r *createFeedbackRequest) normalize() {
	r.ReviewText = strings.TrimSpace(r.ReviewText)
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.svc.Submit(r.Context(), service.SubmitFeedbackInput{
		ReviewText:      req.ReviewText,
		PredictedRating: req.PredictedRating,
		UserRating:      req.UserRating,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReviewTextEmpty),
			errors.Is(err, domain.ErrRatingOutOfRange):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to record feedback")
		}
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

type listFeedbackResponse struct {
	Feedback []domain.FeedbackRecord `json:"feedback"`
	Count    int                     `json:"count"`
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "feedback store unavailable")
		return
	}
	if records == nil {
		records = []domain.FeedbackRecord{}
	}

	if r.URL.Query().Get("corrected") == "true" {
		filtered := make([]domain.FeedbackRecord, 0, len(records))
		for _, rec := range records {
			if rec.Corrected {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	writeJSON(w, http.StatusOK, listFeedbackResponse{Feedback: records, Count: len(records)})
}
