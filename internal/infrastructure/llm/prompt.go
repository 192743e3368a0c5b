package llm

import (
	"fmt"
	"strings"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
)

// UserPrompt renders the question and retrieved context as the user turn for
// chat style providers. The system prompt travels separately.
func UserPrompt(req domain.GenerationRequest) string {
	ctx := strings.TrimSpace(req.Context)
	if ctx == "" {
		ctx = "(bağlam yok)"
	}
	return fmt.Sprintf(`Soru:
%s

Hadis bağlamı:
%s
`, strings.TrimSpace(req.Question), ctx)
}
