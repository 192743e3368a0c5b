package domain

type MatchTier string

const (
	TierVector         MatchTier = "vector"
	TierLexicalRich    MatchTier = "lexical-rich"
	TierLexicalMinimal MatchTier = "lexical-minimal"
	TierMetadataOnly   MatchTier = "metadata-only"
)

type Candidate struct {
	Record TextRecord `json:"record"`
	Score  float64    `json:"score"`
	Tier   MatchTier  `json:"tier"`
}

// CandidateTier returns the tier shared by all candidates, or "" for none.
func CandidateTier(candidates []Candidate) MatchTier {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0].Tier
}
