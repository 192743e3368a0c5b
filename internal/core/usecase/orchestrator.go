package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
)

const (
	defaultProviderTimeout = 30 * time.Second
	composedCandidates     = 3
	composedSnippetRunes   = 300
	echoPromptPrefixRunes  = 80
)

type OrchestratorOptions struct {
	SystemPrompt    string
	Messages        Messages
	ProviderTimeout time.Duration
}

// Orchestrator turns a question and its candidates into answer text. It walks
// local heuristic, primary provider, fallback provider and context composition
// in order, and asks the user to rephrase when all of them give up.
type Orchestrator struct {
	local    ports.LocalAnswerer
	primary  ports.AnswerProvider
	fallback ports.AnswerProvider
	opts     OrchestratorOptions
}

// NewOrchestrator accepts nil for any collaborator; a nil provider behaves as
// unconfigured and a nil local answerer disables the local stage.
func NewOrchestrator(
	local ports.LocalAnswerer,
	primary ports.AnswerProvider,
	fallback ports.AnswerProvider,
	opts OrchestratorOptions,
) *Orchestrator {
	if strings.TrimSpace(opts.SystemPrompt) == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = defaultProviderTimeout
	}
	opts.Messages = opts.Messages.WithDefaults()

	return &Orchestrator{
		local:    local,
		primary:  primary,
		fallback: fallback,
		opts:     opts,
	}
}

// Generate never consults a provider without candidates: an answer with
// nothing to cite is replaced by the no-source message.
func (o *Orchestrator) Generate(ctx context.Context, question string, candidates []domain.Candidate) domain.AnswerResult {
	if len(candidates) == 0 {
		slog.Debug("answer_stage_selected", "stage", "no_source", "provenance", domain.ProvenanceClarify)
		return o.Clarify(false)
	}

	req := domain.GenerationRequest{
		Question:     question,
		Context:      BuildContext(candidates),
		SystemPrompt: o.opts.SystemPrompt,
	}

	stages := []stage[domain.AnswerResult]{
		{name: "local", run: func(context.Context) (domain.AnswerResult, bool) {
			return o.tryLocal(question, candidates)
		}},
		{name: "primary", run: func(ctx context.Context) (domain.AnswerResult, bool) {
			return o.tryProvider(ctx, o.primary, domain.ProvenancePrimary, req)
		}},
		{name: "fallback", run: func(ctx context.Context) (domain.AnswerResult, bool) {
			return o.tryProvider(ctx, o.fallback, domain.ProvenanceFallback, req)
		}},
		{name: "compose", run: func(context.Context) (domain.AnswerResult, bool) {
			return o.composeFromContext(candidates)
		}},
	}

	result, name, ok := runStages(ctx, stages)
	if !ok {
		return o.Clarify(true)
	}
	slog.Debug("answer_stage_selected", "stage", name, "provenance", result.Provenance)
	return result
}

// Clarify asks the user to rephrase. Without candidates the no-source message
// is used instead.
func (o *Orchestrator) Clarify(hadCandidates bool) domain.AnswerResult {
	text := o.opts.Messages.Clarify
	if !hadCandidates {
		text = o.opts.Messages.NoSource
	}
	return domain.AnswerResult{Text: text, Provenance: domain.ProvenanceClarify}
}

func (o *Orchestrator) tryLocal(question string, candidates []domain.Candidate) (domain.AnswerResult, bool) {
	if o.local == nil || len(candidates) == 0 {
		return domain.AnswerResult{}, false
	}
	text, confidence := o.local.AnswerLocally(question, candidates)
	if confidence < LocalConfidenceThreshold || strings.TrimSpace(text) == "" {
		slog.Debug("local_answer_rejected", "confidence", confidence)
		return domain.AnswerResult{}, false
	}
	return domain.AnswerResult{Text: text, Provenance: domain.ProvenanceLocal}, true
}

func (o *Orchestrator) tryProvider(
	ctx context.Context,
	provider ports.AnswerProvider,
	provenance domain.Provenance,
	req domain.GenerationRequest,
) (domain.AnswerResult, bool) {
	if provider == nil {
		slog.Debug("answer_provider_failed", "tier", provenance, "kind", domain.ProviderUnconfigured)
		return domain.AnswerResult{}, false
	}

	callCtx, cancel := context.WithTimeout(ctx, o.opts.ProviderTimeout)
	defer cancel()

	text, err := provider.Generate(callCtx, req)
	if err != nil {
		logProviderFailure("answer_provider_failed", provider.Name(), err)
		return domain.AnswerResult{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		slog.Warn("answer_provider_failed",
			"provider", provider.Name(),
			"kind", domain.ProviderBadResponse,
			"error", "empty answer",
		)
		return domain.AnswerResult{}, false
	}
	if o.echoesInstructions(text) {
		slog.Warn("answer_provider_echoed_instructions", "provider", provider.Name())
		return o.Clarify(true), true
	}

	return domain.AnswerResult{
		Text:         text,
		Provenance:   provenance,
		UsedFallback: provenance == domain.ProvenanceFallback,
		ProviderName: provider.Name(),
	}, true
}

func (o *Orchestrator) echoesInstructions(answer string) bool {
	folded := foldText(strings.TrimSpace(answer))
	promptStart := foldText(truncateRunes(o.opts.SystemPrompt, echoPromptPrefixRunes))
	if promptStart != "" && strings.HasPrefix(folded, promptStart) {
		return true
	}
	for _, marker := range echoPrefixMarkers {
		if strings.HasPrefix(folded, marker) {
			return true
		}
	}
	return containsAny(folded, echoContainsMarkers)
}

func (o *Orchestrator) composeFromContext(candidates []domain.Candidate) (domain.AnswerResult, bool) {
	var b strings.Builder
	used := 0
	for _, c := range candidates {
		if used == composedCandidates {
			break
		}
		body := strings.TrimSpace(c.Record.PrimaryText)
		if body == "" {
			continue
		}
		if used == 0 {
			b.WriteString(o.opts.Messages.ComposedHeader)
		}
		used++
		fmt.Fprintf(&b, "\n\n%d. %s", used, truncateRunes(body, composedSnippetRunes))
		if ref := c.Record.FullReference(); ref != "" {
			fmt.Fprintf(&b, "\n(%s)", ref)
		}
	}
	if used == 0 {
		return domain.AnswerResult{}, false
	}
	b.WriteString("\n\n")
	b.WriteString(o.opts.Messages.ComposedFooter)

	return domain.AnswerResult{
		Text:       b.String(),
		Provenance: domain.ProvenanceComposed,
	}, true
}
