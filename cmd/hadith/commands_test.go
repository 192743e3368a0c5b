package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
)

type answererFake struct {
	question string
	topK     int
}

func (f *answererFake) Answer(_ context.Context, question string) (*domain.Answer, error) {
	f.question = question
	return &domain.Answer{
		Text:       "Oruçluyken misvak kullanılabilir.",
		Sources:    []domain.CitedSource{{Kind: domain.SourceText, Label: "Buhari - Savm 27"}},
		Provenance: domain.ProvenanceComposed,
	}, nil
}

func (f *answererFake) Search(_ context.Context, _ string, topK int) ([]domain.Candidate, error) {
	f.topK = topK
	return []domain.Candidate{{
		Record: domain.TextRecord{ID: "h-27", PrimaryText: "Peygamber misvak kullanırdı.", Source: "Buhari", Reference: "Savm 27"},
		Score:  0.75,
		Tier:   domain.TierLexicalRich,
	}}, nil
}

func run(t *testing.T, fake *answererFake, args ...string) string {
	t.Helper()
	closed := false
	open := func(context.Context) (ports.QuestionAnswerer, func(), error) {
		return fake, func() { closed = true }, nil
	}
	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	if !closed {
		t.Fatalf("app was not closed")
	}
	return out.String()
}

func TestAskPrintsAnswerAndSources(t *testing.T) {
	fake := &answererFake{}
	out := run(t, fake, "ask", "Oruçluyken", "misvak", "kullanılır", "mı?")

	if fake.question != "Oruçluyken misvak kullanılır mı?" {
		t.Fatalf("unexpected question %q", fake.question)
	}
	if !strings.Contains(out, "Kaynaklar:\n- Buhari - Savm 27 (text-source)") || !strings.Contains(out, "[composed-from-context]") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAskJSON(t *testing.T) {
	out := run(t, &answererFake{}, "ask", "--json", "misvak nedir")

	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if payload["answer"] != "Oruçluyken misvak kullanılabilir." {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestSearchPassesTopK(t *testing.T) {
	fake := &answererFake{}
	out := run(t, fake, "search", "-k", "5", "misvak")

	if fake.topK != 5 {
		t.Fatalf("expected top-k 5, got %d", fake.topK)
	}
	if !strings.Contains(out, "1. [lexical-rich 0.750] Buhari - Savm 27") {
		t.Fatalf("unexpected output %q", out)
	}
}
