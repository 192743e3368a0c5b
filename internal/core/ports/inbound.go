package ports

import (
	"context"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
)

// QuestionAnswerer is the inbound contract for the retrieval-and-answer pipeline.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string) (*domain.Answer, error)
	Search(ctx context.Context, query string, topK int) ([]domain.Candidate, error)
}
