package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUpstreamShape: a raw payload lacks the top-level structure its normalizer requires.
	ErrUpstreamShape = errors.New("unexpected upstream payload")
	// ErrProviderRejected: the provider explicitly reported an error.
	ErrProviderRejected = errors.New("provider rejected request")
	// ErrRateLimited: the provider (or the local quota) refused the call for now.
	ErrRateLimited = errors.New("provider rate limit reached")
	// ErrUpstreamUnavailable: transport failure or server-side error at the provider.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrEmptyDataset: correlation requested against a dataset with no stored records.
	ErrEmptyDataset = errors.New("dataset has no stored data")
	// ErrInvalidDataset: the name is outside the closed dataset set.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrInvalidRequest: fetch parameters failed validation.
	ErrInvalidRequest = errors.New("invalid request")
)

// ShapeError reports a missing top-level structure in a raw payload.
type ShapeError struct {
	Dataset Dataset
	Missing string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s payload: missing %s", e.Dataset, e.Missing)
}

func (e *ShapeError) Is(target error) bool { return target == ErrUpstreamShape }

// ProviderError carries a message reported by an upstream provider.
type ProviderError struct {
	Provider    string
	Message     string
	RateLimited bool
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderRejected || (e.RateLimited && target == ErrRateLimited)
}

// RateLimitError builds the rate-limited ProviderError for a provider.
func RateLimitError(provider string) *ProviderError {
	return &ProviderError{
		Provider:    provider,
		Message:     provider + " rate limit reached. Please wait a minute and try again.",
		RateLimited: true,
	}
}

// RequestError reports invalid fetch parameters with a user-facing message.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Is(target error) bool { return target == ErrInvalidRequest }

// InvalidRequest formats a RequestError.
func InvalidRequest(format string, args ...any) error {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

// Unavailable marks err as a transient upstream failure for provider.
func Unavailable(provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, ErrUpstreamUnavailable, err)
}

// Kind classifies err into a short label for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrProviderRejected):
		return "rejected"
	case errors.Is(err, ErrUpstreamShape):
		return "shape"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrInvalidDataset):
		return "invalid_dataset"
	case errors.Is(err, ErrEmptyDataset):
		return "empty_dataset"
	default:
		return "error"
	}
}
