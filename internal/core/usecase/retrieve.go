package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
	"github.com/kirillkom/hadith-assistant/internal/core/vector"
)

const (
	defaultRetrievalTopK    = 3
	defaultLexicalScanLimit = 50
)

type RetrieveOptions struct {
	DefaultTopK      int
	LexicalScanLimit int
}

// RetrieveUseCase finds candidate records for a query. Tiers run strictly in
// order and the first tier that yields candidates wins:
// vector, lexical-rich, lexical-minimal, metadata-only.
type RetrieveUseCase struct {
	store      ports.RecordStore
	embeddings *EmbeddingChain
	opts       RetrieveOptions
}

func NewRetrieveUseCase(store ports.RecordStore, embeddings *EmbeddingChain, opts RetrieveOptions) *RetrieveUseCase {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = defaultRetrievalTopK
	}
	if opts.LexicalScanLimit <= 0 {
		opts.LexicalScanLimit = defaultLexicalScanLimit
	}
	return &RetrieveUseCase{
		store:      store,
		embeddings: embeddings,
		opts:       opts,
	}
}

// Retrieve never fails. Store and provider errors are logged and the next
// tier runs; exhausting all tiers yields an empty slice.
func (uc *RetrieveUseCase) Retrieve(ctx context.Context, query string, topK int) []domain.Candidate {
	if topK <= 0 {
		topK = uc.opts.DefaultTopK
	}
	terms := LexicalTerms(query)

	stages := []stage[[]domain.Candidate]{
		{name: string(domain.TierVector), run: func(ctx context.Context) ([]domain.Candidate, bool) {
			return uc.vectorTier(ctx, query, topK)
		}},
		{name: string(domain.TierLexicalRich), run: func(ctx context.Context) ([]domain.Candidate, bool) {
			return uc.lexicalTier(ctx, terms, domain.FieldSetRich, domain.TierLexicalRich, topK)
		}},
		{name: string(domain.TierLexicalMinimal), run: func(ctx context.Context) ([]domain.Candidate, bool) {
			return uc.lexicalTier(ctx, terms, domain.FieldSetMinimal, domain.TierLexicalMinimal, topK)
		}},
		{name: string(domain.TierMetadataOnly), run: func(ctx context.Context) ([]domain.Candidate, bool) {
			return uc.lexicalTier(ctx, terms, domain.FieldSetMetadata, domain.TierMetadataOnly, topK)
		}},
	}

	candidates, tier, ok := runStages(ctx, stages)
	if !ok {
		slog.Info("retrieval_empty", "terms", len(terms))
		return []domain.Candidate{}
	}
	slog.Debug("retrieval_done", "tier", tier, "candidates", len(candidates))
	return candidates
}

func (uc *RetrieveUseCase) vectorTier(ctx context.Context, query string, topK int) ([]domain.Candidate, bool) {
	records, err := uc.store.ListWithEmbedding(ctx)
	if err != nil {
		slog.Warn("retrieval_tier_failed", "tier", domain.TierVector, "error", err)
		return nil, false
	}
	if len(records) == 0 {
		return nil, false
	}

	queryEmbedding, ok := uc.embeddings.Embed(ctx, query)
	if !ok {
		return nil, false
	}

	candidates := make([]domain.Candidate, 0, len(records))
	skipped, mismatched := 0, 0
	for _, rec := range records {
		if !rec.Embedding.Comparable(queryEmbedding) {
			skipped++
			continue
		}
		if !vector.SameShape(rec.Embedding.Vector, queryEmbedding.Vector) {
			mismatched++
		}
		candidates = append(candidates, domain.Candidate{
			Record: rec,
			Score:  vector.Cosine(rec.Embedding.Vector, queryEmbedding.Vector),
			Tier:   domain.TierVector,
		})
	}
	if skipped > 0 {
		slog.Debug("vector_tier_skipped_records", "skipped", skipped, "model", queryEmbedding.Model)
	}
	// Same model tag but different length: scored over the common prefix.
	if mismatched > 0 {
		slog.Warn("vector_dimension_mismatch",
			"records", mismatched,
			"model", queryEmbedding.Model,
			"query_dimension", len(queryEmbedding.Vector),
		)
	}
	if len(candidates) == 0 {
		return nil, false
	}

	sortCandidates(candidates)
	return trimCandidates(candidates, topK), true
}

func (uc *RetrieveUseCase) lexicalTier(
	ctx context.Context,
	terms []string,
	fields domain.FieldSet,
	tier domain.MatchTier,
	topK int,
) ([]domain.Candidate, bool) {
	if len(terms) == 0 {
		return nil, false
	}

	records, err := uc.store.SearchText(ctx, terms, fields, uc.opts.LexicalScanLimit)
	if err != nil {
		slog.Warn("retrieval_tier_failed", "tier", tier, "fields", fields.Name, "error", err)
		return nil, false
	}
	if len(records) == 0 {
		return nil, false
	}

	candidates := make([]domain.Candidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, domain.Candidate{
			Record: rec,
			Score:  lexicalScore(rec, terms, fields),
			Tier:   tier,
		})
	}
	sortCandidates(candidates)
	return trimCandidates(candidates, topK), true
}

// LexicalTerms normalizes a query into search terms: folded, punctuation
// stripped, stopwords and single runes dropped. When nothing survives, ritual
// terms found in the query are used instead.
func LexicalTerms(query string) []string {
	return lexicalTermsWith(query, lexicalStopwords)
}

func lexicalTermsWith(query string, stopwords map[string]struct{}) []string {
	folded := foldText(query)
	words := splitWords(folded)

	terms := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	if len(terms) > 0 {
		return terms
	}

	for _, term := range highValueTerms {
		if strings.Contains(folded, term) {
			terms = append(terms, term)
		}
	}
	return terms
}

// lexicalScore gives 3 points per term found in body text and 1 per term
// found in metadata, over the fields the tier searched.
func lexicalScore(rec domain.TextRecord, terms []string, fields domain.FieldSet) float64 {
	body := make([]string, 0, 4)
	meta := make([]string, 0, 4)
	for _, f := range fields.Fields {
		v := foldText(rec.Value(f))
		if v == "" {
			continue
		}
		if f.IsBody() {
			body = append(body, v)
		} else {
			meta = append(meta, v)
		}
	}

	score := 0
	for _, term := range terms {
		if anyContains(body, term) {
			score += 3
		}
		if anyContains(meta, term) {
			score++
		}
	}
	return float64(score)
}

func anyContains(values []string, term string) bool {
	for _, v := range values {
		if strings.Contains(v, term) {
			return true
		}
	}
	return false
}

func sortCandidates(candidates []domain.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}

func trimCandidates(candidates []domain.Candidate, limit int) []domain.Candidate {
	if limit <= 0 || len(candidates) <= limit {
		return candidates
	}
	return candidates[:limit]
}
