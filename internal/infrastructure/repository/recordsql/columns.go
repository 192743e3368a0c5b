package recordsql

import "github.com/kirillkom/hadith-assistant/internal/core/domain"

const (
	columnEmbedding      = "embedding"
	columnEmbeddingModel = "embedding_model"
)

var (
	aliasesID      = []string{"id", "hadis_id"}
	aliasesBook    = []string{"book", "kitap"}
	aliasesChapter = []string{"chapter", "bab"}
)

// columnFor picks the column searched for a logical field among those the
// table has.
func columnFor(f domain.Field, available map[string]struct{}) (string, bool) {
	candidates := []string{string(f)}
	switch f {
	case domain.FieldBook:
		candidates = aliasesBook
	case domain.FieldChapter:
		candidates = aliasesChapter
	}
	for _, name := range candidates {
		if _, ok := available[name]; ok {
			return name, true
		}
	}
	return "", false
}
