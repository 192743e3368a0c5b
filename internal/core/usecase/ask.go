package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
)

const minQuestionTokens = 2

var errEmptyQuestion = errors.New("question is empty")

// AskUseCase is the public entry point: question in, sourced answer out.
type AskUseCase struct {
	retriever    *RetrieveUseCase
	orchestrator *Orchestrator
	messages     Messages
	topK         int
	recorder     ports.AnswerRecorder
	now          func() time.Time
}

func NewAskUseCase(retriever *RetrieveUseCase, orchestrator *Orchestrator, messages Messages, topK int) *AskUseCase {
	return &AskUseCase{
		retriever:    retriever,
		orchestrator: orchestrator,
		messages:     messages.WithDefaults(),
		topK:         topK,
		now:          time.Now,
	}
}

// WithRecorder publishes every pipeline answer to the history sink. Greetings
// are not recorded.
func (uc *AskUseCase) WithRecorder(recorder ports.AnswerRecorder) *AskUseCase {
	uc.recorder = recorder
	return uc
}

// Answer never fails. Blank or near-empty input gets a clarification request,
// and a question where retrieval and all providers fail still gets the
// no-source message.
func (uc *AskUseCase) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return answerFrom(uc.orchestrator.Clarify(true), nil, uc.messages.AILabel), nil
	}

	words := splitWords(foldText(question))
	if isGreeting(words) {
		return &domain.Answer{
			Text:       uc.messages.Greeting,
			Sources:    []domain.CitedSource{},
			Provenance: domain.ProvenanceGreeting,
		}, nil
	}
	if len(words) < minQuestionTokens {
		answer := answerFrom(uc.orchestrator.Clarify(true), nil, uc.messages.AILabel)
		uc.record(ctx, question, answer)
		return answer, nil
	}

	candidates := uc.retriever.Retrieve(ctx, question, uc.topK)
	result := uc.orchestrator.Generate(ctx, question, candidates)
	answer := answerFrom(result, candidates, uc.messages.AILabel)
	uc.record(ctx, question, answer)
	return answer, nil
}

func (uc *AskUseCase) record(ctx context.Context, question string, answer *domain.Answer) {
	if uc.recorder == nil {
		return
	}
	rec := domain.AnswerRecord{
		ID:         uuid.NewString(),
		Question:   question,
		Answer:     answer.Text,
		Provenance: answer.Provenance,
		CreatedAt:  uc.now().UTC(),
	}
	if len(answer.RecordIDs) > 0 {
		rec.RecordID = answer.RecordIDs[0]
	}
	if err := uc.recorder.RecordAnswer(ctx, rec); err != nil {
		slog.Warn("answer_history_failed", "answer_id", rec.ID, "error", err)
	}
}

// Search exposes the ranked candidates without generating an answer.
func (uc *AskUseCase) Search(ctx context.Context, query string, topK int) ([]domain.Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search", errEmptyQuestion)
	}
	if topK <= 0 {
		topK = uc.topK
	}
	return uc.retriever.Retrieve(ctx, query, topK), nil
}

func answerFrom(result domain.AnswerResult, candidates []domain.Candidate, aiLabel string) *domain.Answer {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Record.ID)
	}
	return &domain.Answer{
		Text:         result.Text,
		Sources:      AttributeSources(result.Text, candidates, result, aiLabel),
		Provenance:   result.Provenance,
		UsedFallback: result.UsedFallback,
		Tier:         domain.CandidateTier(candidates),
		Candidates:   len(candidates),
		RecordIDs:    ids,
	}
}

func isGreeting(words []string) bool {
	if len(words) == 0 {
		return false
	}
	_, ok := greetings[strings.Join(words, " ")]
	return ok
}
