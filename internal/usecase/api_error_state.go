package usecase

import (
	"context"
	"sync"
)

// APIErrorState is the single "last provider error" slot read by the UI to
// show a quota banner. Every new error overwrites the previous one; only
// Clear empties it.
type APIErrorState struct {
	mu   sync.RWMutex
	last *ProviderError
}

func NewAPIErrorState() *APIErrorState {
	return &APIErrorState{}
}

// RecordProviderError stores a copy of err.
func (s *APIErrorState) RecordProviderError(_ context.Context, err *ProviderError) {
	if s == nil || err == nil {
		return
	}
	s.mu.Lock()
	s.last = cloneProviderError(err)
	s.mu.Unlock()
}

// Last returns the most recent provider error, if any.
func (s *APIErrorState) Last() (*ProviderError, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, false
	}
	return cloneProviderError(s.last), true
}

func (s *APIErrorState) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
}

func cloneProviderError(err *ProviderError) *ProviderError {
	out := *err
	if err.Details != nil {
		out.Details = make(map[string]string, len(err.Details))
		for k, v := range err.Details {
			out.Details[k] = v
		}
	}
	return &out
}
