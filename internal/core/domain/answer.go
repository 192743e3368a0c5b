package domain

import "time"

type Provenance string

const (
	ProvenanceLocal    Provenance = "local-heuristic"
	ProvenancePrimary  Provenance = "primary-provider"
	ProvenanceFallback Provenance = "fallback-provider"
	ProvenanceComposed Provenance = "composed-from-context"
	ProvenanceClarify  Provenance = "clarification-request"
	ProvenanceGreeting Provenance = "greeting"
)

// FromProvider reports whether an external generation provider wrote the text.
func (p Provenance) FromProvider() bool {
	return p == ProvenancePrimary || p == ProvenanceFallback
}

type AnswerResult struct {
	Text         string
	Provenance   Provenance
	UsedFallback bool
	ProviderName string
}

type SourceKind string

const (
	SourceText SourceKind = "text-source"
	SourceAI   SourceKind = "ai-generated"
)

type CitedSource struct {
	Kind  SourceKind `json:"type"`
	Label string     `json:"name"`
}

// Answer is the served result. RecordIDs lists retrieved record ids in rank
// order and stays off the wire.
type Answer struct {
	Text         string        `json:"answer"`
	Sources      []CitedSource `json:"sources"`
	Provenance   Provenance    `json:"provenance"`
	UsedFallback bool          `json:"used_fallback"`
	Tier         MatchTier     `json:"tier,omitempty"`
	Candidates   int           `json:"candidates"`
	RecordIDs    []string      `json:"-"`
}

type GenerationRequest struct {
	Question     string
	Context      string
	SystemPrompt string
}

// AnswerRecord is the history event emitted after an answer is served.
type AnswerRecord struct {
	ID         string     `json:"id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Provenance Provenance `json:"provenance"`
	RecordID   string     `json:"record_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
