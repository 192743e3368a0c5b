package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/resilience"
)

// Recorder publishes answer history events as JSON on a NATS subject.
type Recorder struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url, subject string) (*Recorder, error) {
	return NewWithOptions(url, subject, Options{})
}

func NewWithOptions(url, subject string, options Options) (*Recorder, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("hadith-assistant"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Recorder{
		conn:     conn,
		subject:  subject,
		executor: options.ResilienceExecutor,
	}, nil
}

func (r *Recorder) Close() {
	if r.conn != nil {
		r.conn.Close()
	}
}

func (r *Recorder) RecordAnswer(ctx context.Context, record domain.AnswerRecord) error {
	payload, err := EncodeAnswerRecord(record)
	if err != nil {
		return err
	}
	call := func(_ context.Context) error {
		if err := r.conn.Publish(r.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if r.executor != nil {
		err = r.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

// SubscribeAnswers feeds every history event to handler until ctx is done.
// Undecodable messages are logged and skipped.
func (r *Recorder) SubscribeAnswers(ctx context.Context, handler func(context.Context, domain.AnswerRecord) error) error {
	sub, err := r.conn.Subscribe(r.subject, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		record, err := DecodeAnswerRecord(msg.Data)
		if err != nil {
			slog.Warn("answer_history_decode_failed", "error", err)
			return
		}
		if err := handler(ctx, record); err != nil {
			slog.Warn("answer_history_handler_failed", "answer_id", record.ID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := r.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := r.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

func EncodeAnswerRecord(record domain.AnswerRecord) ([]byte, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal answer record: %w", err)
	}
	return payload, nil
}

func DecodeAnswerRecord(data []byte) (domain.AnswerRecord, error) {
	var record domain.AnswerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.AnswerRecord{}, fmt.Errorf("unmarshal answer record: %w", err)
	}
	if record.ID == "" {
		return domain.AnswerRecord{}, domain.WrapError(domain.ErrInvalidInput, "decode answer record", errors.New("missing id"))
	}
	return record, nil
}
