package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/resilience"
)

// Unconfigured is returned by adapters that lack a key or endpoint.
func Unconfigured(provider, what string) error {
	return domain.NewProviderError(provider, domain.ProviderUnconfigured, errors.New(what+" not configured"))
}

// BadResponse reports a reply that arrived but could not be used.
func BadResponse(provider string, err error) error {
	return domain.NewProviderError(provider, domain.ProviderBadResponse, err)
}

// AsProviderError folds any adapter failure into *domain.ProviderError.
func AsProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		return err
	}
	return domain.NewProviderError(provider, kindOf(err), err)
}

func kindOf(err error) domain.ProviderErrorKind {
	if errors.Is(err, ErrMalformedResponse) {
		return domain.ProviderBadResponse
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return kindForStatus(statusErr.StatusCode)
	}
	return domain.ProviderTransport
}

// kindForStatus treats throttling and server-side errors as transport
// failures; the rest of the non-2xx range means the reply was unusable.
func kindForStatus(code int) domain.ProviderErrorKind {
	if isRetryableHTTPStatus(code) {
		return domain.ProviderTransport
	}
	return domain.ProviderBadResponse
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// ClassifyProviderError tells the breaker which failures count against a
// provider. Missing configuration and caller cancellation never do.
func ClassifyProviderError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{RecordFailure: true}
	}

	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) && providerErr.Kind == domain.ProviderUnconfigured {
		return resilience.ErrorClassification{}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return resilience.ErrorClassification{
			Retryable:     isRetryableHTTPStatus(statusErr.StatusCode),
			RecordFailure: true,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{RecordFailure: true}
}
