package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrTransportFailure marks network failures, timeouts and non-2xx replies.
	ErrTransportFailure = errors.New("transport failure")
	// ErrEmptyResult marks a well-formed reply whose response list is empty.
	ErrEmptyResult = errors.New("empty result")
)

// ProviderError is an HTTP 200 reply whose body reports a logical failure,
// typically an exhausted request quota.
type ProviderError struct {
	Endpoint   string
	Details    map[string]string
	OccurredAt time.Time
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	return fmt.Sprintf("provider error on %s: %s", e.Endpoint, e.Summary())
}

// Summary renders the details as "key: value" pairs in key order.
func (e *ProviderError) Summary() string {
	if e == nil || len(e.Details) == 0 {
		return "unknown"
	}
	keys := make([]string, 0, len(e.Details))
	for key := range e.Details {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Details[key])
	}
	return strings.Join(parts, "; ")
}

// IsRateLimited reports whether the provider rejected the call for quota.
func (e *ProviderError) IsRateLimited() bool {
	if e == nil {
		return false
	}
	for key, value := range e.Details {
		k := strings.ToLower(key)
		v := strings.ToLower(value)
		if strings.Contains(k, "ratelimit") || strings.Contains(k, "requests") ||
			strings.Contains(v, "too many requests") || strings.Contains(v, "request limit") {
			return true
		}
	}
	return false
}

func asProviderError(err error) (*ProviderError, bool) {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// isTransportFailure reports the failures that may be answered from stale cache.
func isTransportFailure(err error) bool {
	return errors.Is(err, ErrTransportFailure) || errors.Is(err, ErrDependencyUnavailable)
}
