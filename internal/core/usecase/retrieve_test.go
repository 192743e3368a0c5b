package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
)

const testModel = "openai:text-embedding-3-small"

func newEmbedder(vec ...float32) *embedderFake {
	return &embedderFake{name: "openai", model: "text-embedding-3-small", vec: vec}
}

func TestRetrieveRanksIdenticalEmbeddingFirst(t *testing.T) {
	store := &storeFake{records: []domain.TextRecord{
		embedded(record("1", "abdest", "Buhari", "Vudu 1"), testModel, 0, 1, 0),
		embedded(record("2", "misvak", "Buhari", "Savm 27"), testModel, 0.6, 0.8, 0),
		embedded(record("3", "namaz", "Müslim", "Salat 4"), testModel, 1, 0, 0),
	}}
	uc := NewRetrieveUseCase(store, NewEmbeddingChain(newEmbedder(1, 0, 0)), RetrieveOptions{})

	got := uc.Retrieve(context.Background(), "namaz vakitleri", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	if got[0].Record.ID != "3" || got[0].Tier != domain.TierVector {
		t.Fatalf("expected record 3 ranked first by vector tier, got %+v", got[0])
	}
	if got[1].Record.ID != "2" {
		t.Fatalf("expected record 2 second, got %s", got[1].Record.ID)
	}
	if len(store.searches) != 0 {
		t.Fatalf("lexical tiers must not run after a vector hit, got %v", store.searches)
	}
}

func TestRetrieveWithoutEmbeddingsUsesLexicalRichAndSkipsEmbedder(t *testing.T) {
	store := &storeFake{records: []domain.TextRecord{
		record("1", "Oruçlu iken misvak kullanmak caizdir.", "Buhari", "Savm 27"),
		record("2", "Namaz dinin direğidir.", "Tirmizi", "Iman 8"),
	}}
	embedder := newEmbedder(1, 0)
	uc := NewRetrieveUseCase(store, NewEmbeddingChain(embedder), RetrieveOptions{})

	got := uc.Retrieve(context.Background(), "Oruçluyken misvak kullanılır mı?", 0)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Record.ID != "1" || got[0].Tier != domain.TierLexicalRich {
		t.Fatalf("unexpected candidate %+v", got[0])
	}
	if embedder.calls != 0 {
		t.Fatalf("embedder must not be called when no record has an embedding")
	}
}

func TestRetrieveSkipsEmbeddingsFromOtherModels(t *testing.T) {
	store := &storeFake{records: []domain.TextRecord{
		embedded(record("1", "misvak sünnettir", "Buhari", "Savm 27"), "gemini:gemini-embedding-exp-03-07", 1, 0),
	}}
	uc := NewRetrieveUseCase(store, NewEmbeddingChain(newEmbedder(1, 0)), RetrieveOptions{})

	got := uc.Retrieve(context.Background(), "misvak kullanımı", 3)
	if len(got) != 1 || got[0].Tier != domain.TierLexicalRich {
		t.Fatalf("expected lexical fallback for mismatched model, got %+v", got)
	}
}

func TestRetrieveLogsDimensionMismatchWithinModel(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	defer slog.SetDefault(prev)

	store := &storeFake{records: []domain.TextRecord{
		embedded(record("1", "misvak sünnettir", "Buhari", "Savm 27"), testModel, 1, 0, 0, 0),
		embedded(record("2", "namaz", "Müslim", "Salat 4"), testModel, 0, 1, 0),
	}}
	uc := NewRetrieveUseCase(store, NewEmbeddingChain(newEmbedder(1, 0, 0)), RetrieveOptions{})

	got := uc.Retrieve(context.Background(), "misvak kullanımı", 3)
	if len(got) != 2 || got[0].Record.ID != "1" || got[0].Tier != domain.TierVector {
		t.Fatalf("expected prefix-scored vector hit, got %+v", got)
	}
	if !strings.Contains(logs.String(), `"msg":"vector_dimension_mismatch"`) || !strings.Contains(logs.String(), `"records":1`) {
		t.Fatalf("expected one dimension mismatch logged, got %s", logs.String())
	}
}

func TestRetrieveFallsBackWhenEmbedderUnavailable(t *testing.T) {
	store := &storeFake{records: []domain.TextRecord{
		embedded(record("1", "misvak sünnettir", "Buhari", "Savm 27"), testModel, 1, 0),
	}}
	down := &embedderFake{name: "openai", err: domain.NewProviderError("openai", domain.ProviderTransport, errors.New("timeout"))}
	uc := NewRetrieveUseCase(store, NewEmbeddingChain(down), RetrieveOptions{})

	got := uc.Retrieve(context.Background(), "misvak kullanımı", 3)
	if len(got) != 1 || got[0].Tier != domain.TierLexicalRich {
		t.Fatalf("expected lexical-rich fallback, got %+v", got)
	}
}

func TestRetrieveRichFailureFallsToMinimal(t *testing.T) {
	store := &storeFake{
		records: []domain.TextRecord{
			domain.NewTextRecord("1", domain.TextVariants{Generic: "misvak kullanmak"}, domain.RecordMeta{Source: "Buhari"}, domain.Embedding{}),
		},
		searchErr: map[string]error{"rich": errors.New(`column "turkish_text" does not exist`)},
	}
	uc := NewRetrieveUseCase(store, nil, RetrieveOptions{})

	got := uc.Retrieve(context.Background(), "misvak nedir", 3)
	if len(got) != 1 || got[0].Tier != domain.TierLexicalMinimal {
		t.Fatalf("expected lexical-minimal candidate, got %+v", got)
	}
	if !reflect.DeepEqual(store.searches, []string{"rich", "minimal"}) {
		t.Fatalf("unexpected tier order %v", store.searches)
	}
}

func TestRetrieveMetadataOnlyTier(t *testing.T) {
	store := &storeFake{
		records: []domain.TextRecord{record("1", "", "Buhari", "Savm 27")},
		searchErr: map[string]error{
			"rich":    errors.New("rich down"),
			"minimal": errors.New("minimal down"),
		},
	}
	uc := NewRetrieveUseCase(store, nil, RetrieveOptions{})

	got := uc.Retrieve(context.Background(), "buhari savm", 3)
	if len(got) != 1 || got[0].Tier != domain.TierMetadataOnly {
		t.Fatalf("expected metadata-only candidate, got %+v", got)
	}
}

func TestRetrieveAllTiersFailingYieldsEmpty(t *testing.T) {
	storeErr := errors.New("db down")
	store := &storeFake{
		listErr: storeErr,
		searchErr: map[string]error{
			"rich": storeErr, "minimal": storeErr, "metadata": storeErr,
		},
	}
	uc := NewRetrieveUseCase(store, NewEmbeddingChain(newEmbedder(1)), RetrieveOptions{})

	got := uc.Retrieve(context.Background(), "misvak kullanımı", 3)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRetrieveLexicalScoringPrefersBodyHits(t *testing.T) {
	store := &storeFake{records: []domain.TextRecord{
		record("meta", "başka bir metin", "Misvak Babı", ""),
		record("body", "Misvak ağzı temizler.", "Buhari", ""),
		record("both", "Misvak sünnettir.", "Misvak Babı", ""),
	}}
	uc := NewRetrieveUseCase(store, nil, RetrieveOptions{})

	got := uc.Retrieve(context.Background(), "misvak", 3)
	ids := []string{got[0].Record.ID, got[1].Record.ID, got[2].Record.ID}
	if !reflect.DeepEqual(ids, []string{"both", "body", "meta"}) {
		t.Fatalf("unexpected order %v", ids)
	}
	if got[0].Score != 4 || got[1].Score != 3 || got[2].Score != 1 {
		t.Fatalf("unexpected scores %v %v %v", got[0].Score, got[1].Score, got[2].Score)
	}
}

func TestRetrieveLexicalTiesKeepStoreOrder(t *testing.T) {
	store := &storeFake{records: []domain.TextRecord{
		record("a", "misvak", "", ""),
		record("b", "misvak", "", ""),
		record("c", "misvak", "", ""),
		record("d", "misvak", "", ""),
	}}
	uc := NewRetrieveUseCase(store, nil, RetrieveOptions{})

	got := uc.Retrieve(context.Background(), "misvak", 2)
	if len(got) != 2 || got[0].Record.ID != "a" || got[1].Record.ID != "b" {
		t.Fatalf("expected stable truncation to a,b got %+v", got)
	}
}

func TestLexicalTermsDropsStopwordsAndFoldsTurkish(t *testing.T) {
	got := LexicalTerms("İSTİĞFAR ve Tövbe hakkında hadis nedir?")
	want := []string{"istiğfar", "tövbe"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LexicalTerms() = %v, want %v", got, want)
	}
}

func TestLexicalTermsKeepsRitualTermsWhenEverythingIsStripped(t *testing.T) {
	stop := map[string]struct{}{"namaz": {}, "nedir": {}}
	got := lexicalTermsWith("Namaz nedir?", stop)
	if !reflect.DeepEqual(got, []string{"namaz"}) {
		t.Fatalf("expected ritual term fallback, got %v", got)
	}
	if got := lexicalTermsWith("nedir?", stop); len(got) != 0 {
		t.Fatalf("expected no terms, got %v", got)
	}
}
