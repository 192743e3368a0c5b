package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
)

// HeuristicAnswerer answers offline by naming the strongest sources when the
// retrieved context covers the question well.
type HeuristicAnswerer struct {
	template string
}

func NewHeuristicAnswerer(messages Messages) *HeuristicAnswerer {
	return &HeuristicAnswerer{template: messages.WithDefaults().LocalTemplate}
}

func (h *HeuristicAnswerer) AnswerLocally(question string, candidates []domain.Candidate) (string, float64) {
	if len(candidates) == 0 {
		return "", 0
	}
	confidence := ScoreConfidence(question, BuildContext(candidates))

	refs := make([]string, 0, 2)
	seen := make(map[string]struct{}, 2)
	for _, c := range candidates {
		if len(refs) == 2 {
			break
		}
		ref := c.Record.FullReference()
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return "", confidence
	}
	return fmt.Sprintf(h.template, strings.Join(refs, ", ")), confidence
}

// BuildContext renders candidates as provider context, one line per record.
func BuildContext(candidates []domain.Candidate) string {
	var b strings.Builder
	for i, c := range candidates {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Kaynak: %s | Referans: %s | Metin: %s",
			c.Record.Source,
			c.Record.Reference,
			truncateRunes(strings.TrimSpace(c.Record.PrimaryText), 400),
		)
	}
	return b.String()
}
