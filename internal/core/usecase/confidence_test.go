package usecase

import (
	"math"
	"testing"
)

func TestScoreConfidenceFullMatch(t *testing.T) {
	question := "Peygamber oruç hakkında hadis rivayet etti mi misvak"
	context := "Kaynak: Buhari | Referans: Savm 27 | Metin: Peygamber oruçlu iken misvak kullanırdı, rivayet edildi."

	got := ScoreConfidence(question, context)
	if math.Abs(got-0.8) > 1e-9 {
		t.Fatalf("ScoreConfidence() = %f, want 0.8", got)
	}
	if got < LocalConfidenceThreshold {
		t.Fatalf("expected score above local threshold")
	}
}

func TestScoreConfidenceShortQuestionPenalty(t *testing.T) {
	long := ScoreConfidence("hadis oruç misvak", "hadis oruç misvak")
	short := ScoreConfidence("hadis oruç", "hadis oruç misvak")

	if math.Abs(long-0.8) > 1e-9 {
		t.Fatalf("three-token question = %f, want 0.8", long)
	}
	// 0.3 + 0.2 + 0.1 overlap, times 0.7.
	if math.Abs(short-0.42) > 1e-9 {
		t.Fatalf("two-token question = %f, want 0.42", short)
	}
}

func TestScoreConfidenceNoSignals(t *testing.T) {
	if got := ScoreConfidence("hava bugün nasıl olacak", "Kaynak: Buhari | Metin: misvak"); got != 0 {
		t.Fatalf("ScoreConfidence() = %f, want 0", got)
	}
}

func TestScoreConfidenceDomainTermIsMonotonic(t *testing.T) {
	context := "Kaynak: Buhari | Referans: Savm 27 | Metin: oruçlu iken misvak kullanılır"
	questions := []string{
		"misvak",
		"misvak kullanmak",
		"oruçluyken misvak kullanılır mı",
	}
	for _, q := range questions {
		base := ScoreConfidence(q, context)
		for _, term := range []string{"hadis", "namaz", "peygamber"} {
			if got := ScoreConfidence(q+" "+term, context); got < base {
				t.Fatalf("adding %q to %q lowered score: %f < %f", term, q, got, base)
			}
		}
	}
}

func TestScoreConfidenceIsBounded(t *testing.T) {
	got := ScoreConfidence("hadis namaz oruç zekât hac abdest", "hadis namaz oruç zekât hac abdest")
	if got < 0 || got > 1 {
		t.Fatalf("score out of range: %f", got)
	}
}
