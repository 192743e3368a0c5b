package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
)

const (
	attributionPrefixRunes = 40
	sourceLabelSnippet     = 60
)

// AttributeSources lists the candidates the answer actually draws on, plus one
// ai-generated entry when an external provider wrote the text.
//
// A candidate is cited when the first 40 runes of its body or its reference
// appear in the answer, compared case-insensitively. When candidates exist but
// none is quoted, all of them are listed.
func AttributeSources(answer string, candidates []domain.Candidate, result domain.AnswerResult, aiLabel string) []domain.CitedSource {
	sources := make([]domain.CitedSource, 0, len(candidates)+1)
	if result.Provenance == domain.ProvenanceClarify || result.Provenance == domain.ProvenanceGreeting {
		return sources
	}

	folded := foldText(answer)
	if !containsAny(folded, genericAnswerPhrases) {
		matched := make([]domain.Candidate, 0, len(candidates))
		for _, c := range candidates {
			if answerQuotes(folded, c.Record) {
				matched = append(matched, c)
			}
		}
		if len(matched) == 0 {
			matched = candidates
		}

		seen := make(map[string]struct{}, len(matched))
		for _, c := range matched {
			label := sourceLabel(c.Record)
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			sources = append(sources, domain.CitedSource{Kind: domain.SourceText, Label: label})
		}
	}

	if result.Provenance.FromProvider() {
		sources = append(sources, domain.CitedSource{Kind: domain.SourceAI, Label: aiSourceLabel(aiLabel, result.ProviderName)})
	}
	return sources
}

func answerQuotes(foldedAnswer string, rec domain.TextRecord) bool {
	prefix := foldText(truncateRunes(strings.TrimSpace(rec.PrimaryText), attributionPrefixRunes))
	if prefix != "" && strings.Contains(foldedAnswer, prefix) {
		return true
	}
	reference := foldText(strings.TrimSpace(rec.Reference))
	return reference != "" && strings.Contains(foldedAnswer, reference)
}

func sourceLabel(rec domain.TextRecord) string {
	if ref := rec.FullReference(); ref != "" {
		return ref
	}
	if snippet := truncateRunes(strings.TrimSpace(rec.PrimaryText), sourceLabelSnippet); snippet != "" {
		return snippet
	}
	return rec.ID
}

func aiSourceLabel(base, provider string) string {
	if base == "" {
		base = DefaultMessages().AILabel
	}
	if provider == "" {
		return base
	}
	return fmt.Sprintf("%s (%s)", base, provider)
}
