package usecase

import (
	"math"
	"strings"
)

// LocalConfidenceThreshold is the minimum score for serving a local answer.
const LocalConfidenceThreshold = 0.7

// ScoreConfidence rates how well the retrieved context covers the question.
// The score is in [0, 1].
func ScoreConfidence(question, context string) float64 {
	folded := foldText(question)

	score := 0.0
	if containsAny(folded, retrievalDomainTerms) {
		score += 0.3
	}
	if containsAny(folded, practiceTerms) {
		score += 0.2
	}

	switch overlap := tokenIntersection(toTokenSet(folded), toTokenSet(context)); {
	case overlap > 2:
		score += 0.3
	case overlap > 0:
		score += 0.1
	}

	if len(strings.Fields(question)) < 3 {
		score *= 0.7
	}
	return math.Max(0, math.Min(score, 1))
}
