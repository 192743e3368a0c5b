package usecase

import (
	"context"
	"strings"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
)

// storeFake answers SearchText by substring over its records, honoring the
// requested fields, unless a per-field-set error or override is configured.
type storeFake struct {
	records   []domain.TextRecord
	listErr   error
	searchErr map[string]error
	listCalls int
	searches  []string
}

func (f *storeFake) ListWithEmbedding(context.Context) ([]domain.TextRecord, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.TextRecord, 0, len(f.records))
	for _, rec := range f.records {
		if rec.Embedding.Present() {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *storeFake) SearchText(_ context.Context, terms []string, fields domain.FieldSet, limit int) ([]domain.TextRecord, error) {
	f.searches = append(f.searches, fields.Name)
	if err := f.searchErr[fields.Name]; err != nil {
		return nil, err
	}
	out := make([]domain.TextRecord, 0)
	for _, rec := range f.records {
		if len(out) == limit {
			break
		}
		if recordMatches(rec, terms, fields) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func recordMatches(rec domain.TextRecord, terms []string, fields domain.FieldSet) bool {
	for _, f := range fields.Fields {
		value := foldText(rec.Value(f))
		for _, term := range terms {
			if value != "" && strings.Contains(value, term) {
				return true
			}
		}
	}
	return false
}

type embedderFake struct {
	name  string
	model string
	vec   []float32
	err   error
	calls int
}

func (f *embedderFake) Name() string  { return f.name }
func (f *embedderFake) Model() string { return f.model }
func (f *embedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

type providerFake struct {
	name    string
	text    string
	err     error
	calls   int
	lastReq domain.GenerationRequest
}

func (f *providerFake) Name() string { return f.name }
func (f *providerFake) Generate(_ context.Context, req domain.GenerationRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type localFake struct {
	text       string
	confidence float64
	calls      int
}

func (f *localFake) AnswerLocally(string, []domain.Candidate) (string, float64) {
	f.calls++
	return f.text, f.confidence
}

func unconfigured(name string) *providerFake {
	return &providerFake{name: name, err: domain.NewProviderError(name, domain.ProviderUnconfigured, nil)}
}

func record(id, turkish, source, reference string) domain.TextRecord {
	return domain.NewTextRecord(id,
		domain.TextVariants{Turkish: turkish},
		domain.RecordMeta{Source: source, Reference: reference},
		domain.Embedding{},
	)
}

func embedded(rec domain.TextRecord, model string, vec ...float32) domain.TextRecord {
	rec.Embedding = domain.Embedding{Vector: vec, Model: model}
	return rec
}

func candidate(rec domain.TextRecord, tier domain.MatchTier) domain.Candidate {
	return domain.Candidate{Record: rec, Score: 1, Tier: tier}
}
