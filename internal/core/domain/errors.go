package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTemporary           = errors.New("temporary failure")
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

type ProviderErrorKind string

const (
	ProviderUnconfigured ProviderErrorKind = "unconfigured"
	ProviderTransport    ProviderErrorKind = "transport"
	ProviderBadResponse  ProviderErrorKind = "bad-response"
)

// ProviderError is the only error shape returned by embedding and answer
// providers. Callers use Kind to decide whether to advance the chain and keep
// Err for logs.
type ProviderError struct {
	Provider string
	Kind     ProviderErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.Err == nil {
		return fmt.Sprintf("provider %s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, ErrProviderUnavailable) match any provider failure.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderUnavailable
}

func NewProviderError(provider string, kind ProviderErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// ProviderErrorKindOf reports the kind of a provider failure. Errors that did
// not come from a provider adapter count as transport failures.
func ProviderErrorKindOf(err error) ProviderErrorKind {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Kind
	}
	return ProviderTransport
}
