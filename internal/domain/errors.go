package domain

import "errors"

// Prediction failure taxonomy. Store failures are absorbed by the prediction
// path; the others reach the caller.
var (
	ErrMalformedModelOutput = errors.New("model output contains no parseable JSON object")
	ErrInvalidRating        = errors.New("model output lacks a valid 1-5 integer rating")
	ErrStoreUnavailable     = errors.New("feedback store unavailable")
	ErrPredictorFailure     = errors.New("predictor call failed")
)
