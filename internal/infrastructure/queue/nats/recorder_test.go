package nats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
)

func TestAnswerRecordRoundTripKeepsFields(t *testing.T) {
	in := domain.AnswerRecord{
		ID:         "a-1",
		Question:   "Misvak caiz mi?",
		Answer:     "Evet.",
		Provenance: domain.ProvenancePrimary,
		RecordID:   "h-27",
		CreatedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	payload, err := EncodeAnswerRecord(in)
	if err != nil {
		t.Fatalf("EncodeAnswerRecord() error = %v", err)
	}
	out, err := DecodeAnswerRecord(payload)
	if err != nil {
		t.Fatalf("DecodeAnswerRecord() error = %v", err)
	}
	if out.ID != in.ID || out.Question != in.Question || out.Answer != in.Answer ||
		out.Provenance != in.Provenance || out.RecordID != in.RecordID || !out.CreatedAt.Equal(in.CreatedAt) {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestDecodeAnswerRecordRejectsGarbage(t *testing.T) {
	if _, err := DecodeAnswerRecord([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := DecodeAnswerRecord([]byte(`{"question":"q"}`)); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing id, got %v", err)
	}
}

func TestClassifyNATSError(t *testing.T) {
	if got := classifyNATSError(context.Canceled); got.RecordFailure || got.Retryable {
		t.Fatalf("cancellation must not count, got %+v", got)
	}
	if got := classifyNATSError(fmt.Errorf("publish: %w", nats.ErrConnectionClosed)); !got.Retryable || !got.RecordFailure {
		t.Fatalf("closed connection must be retryable, got %+v", got)
	}
	if got := classifyNATSError(nats.ErrBadSubject); got.Retryable || !got.RecordFailure {
		t.Fatalf("bad subject must be a hard failure, got %+v", got)
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	err := wrapTemporaryIfNeeded(nats.ErrTimeout)
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary wrap, got %v", err)
	}
	if wrapTemporaryIfNeeded(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}
