package ports

import (
	"context"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
)

// RecordStore reads hadith records. Implementations are read-only from the
// pipeline's point of view.
type RecordStore interface {
	ListWithEmbedding(ctx context.Context) ([]domain.TextRecord, error)
	// SearchText returns records where any of fields contains any of terms as a
	// case-insensitive substring, at most limit rows, in store order.
	SearchText(ctx context.Context, terms []string, fields domain.FieldSet, limit int) ([]domain.TextRecord, error)
}

// QueryEmbedder turns query text into a vector. Failures are *domain.ProviderError.
type QueryEmbedder interface {
	Name() string
	Model() string
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// AnswerProvider generates answer text from a question and retrieved context.
// Failures are *domain.ProviderError.
type AnswerProvider interface {
	Name() string
	Generate(ctx context.Context, req domain.GenerationRequest) (string, error)
}

// LocalAnswerer is the offline heuristic consulted before any provider.
type LocalAnswerer interface {
	AnswerLocally(question string, candidates []domain.Candidate) (answer string, confidence float64)
}

// AnswerRecorder writes served answers to the external history sink.
type AnswerRecorder interface {
	RecordAnswer(ctx context.Context, record domain.AnswerRecord) error
}
