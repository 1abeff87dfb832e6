package llm

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/ratelens/internal/domain"
)

const ratingPrompt = `You are an expert Yelp review rating classifier. Analyze reviews systematically.

Rating Guidelines:
- 1 star: Terrible experience, multiple severe complaints, would not recommend
- 2 stars: Disappointing, below expectations, significant issues
- 3 stars: Average, acceptable but nothing special, neutral experience
- 4 stars: Good experience, positive overall, would recommend
- 5 stars: Excellent, exceptional experience, highest praise

Example Analysis:
Review: "The food was decent but service was terrible. Waited 45 minutes for appetizers. Won't be back."
Reasoning: Negative sentiment overall, specific complaint about service wait time, indicates dissatisfaction -> 2 stars
%s
Now analyze this review step-by-step:

Review: "%s"

Step 1: Overall sentiment?
Step 2: Key positive/negative points?
Step 3: Intensity of feelings?
Step 4: Recommendation likelihood?
Step 5: Final rating (1-5)?

Return ONLY a JSON object, no markdown:
{
  "predicted_stars": <integer 1-5>,
  "explanation": "<one clear sentence explaining the rating>",
  "confidence": "<high/medium/low>",
  "rag_context_used": <true/false>,
  "similar_cases": <integer>
}`

const correctionContextHeader = "PAST CORRECTIONS FOR THIS REVIEW:"

// BuildRatingPrompt renders the rating prompt. The correction block is only
// present when patterns is non-empty; its wording follows the first pattern.
func BuildRatingPrompt(reviewText string, patterns []domain.CorrectionPattern, adjustment float64) string {
	return fmt.Sprintf(ratingPrompt, correctionContext(patterns, adjustment), reviewText)
}

func correctionContext(patterns []domain.CorrectionPattern, adjustment float64) string {
	if len(patterns) == 0 {
		return ""
	}
	first := patterns[0]

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(correctionContextHeader)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "This exact review was previously %s: the model predicted %d stars and a human corrected it to %d stars.\n",
		directionPhrase(first.ErrorType), first.OriginalPrediction, first.CorrectedTo)
	if len(patterns) > 1 {
		fmt.Fprintf(&sb, "This review has been corrected %d times.\n", len(patterns))
	}
	sb.WriteString(adjustmentInstruction(adjustment))
	sb.WriteString("\n")
	return sb.String()
}

func directionPhrase(t domain.ErrorType) string {
	switch t {
	case domain.ErrorTypeOverRated:
		return "over-rated (the rating was too high)"
	case domain.ErrorTypeUnderRated:
		return "under-rated (the rating was too low)"
	default:
		return "rated"
	}
}

func adjustmentInstruction(adjustment float64) string {
	switch {
	case adjustment < 0:
		return "Adjust your rating DOWNWARD to account for these corrections."
	case adjustment > 0:
		return "Adjust your rating UPWARD to account for these corrections."
	default:
		return "Take these corrections into account and adjust your rating appropriately."
	}
}
