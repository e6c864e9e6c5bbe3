package directions

import (
	"errors"
	"fmt"
)

// Error categories. Callers branch on these with errors.Is; the typed errors
// below carry the human-readable detail.
var (
	// ErrValidation marks bad caller input. Surfaced immediately, never retried.
	ErrValidation = errors.New("invalid route request")

	// ErrNetwork marks connectivity failures and timeouts. Safe for the
	// caller to retry; the client itself never retries.
	ErrNetwork = errors.New("directions engine unreachable")

	// ErrAPI marks requests the engine rejected or answered with a
	// non-OK status. Not retried automatically since the input is
	// likely at fault.
	ErrAPI = errors.New("directions engine error")

	// ErrNoData marks a successful call that found no route.
	ErrNoData = errors.New("no route found")
)

// ValidationError reports a request that failed local validation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid route request: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NetworkError reports a transport failure reaching the engine.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("directions engine unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// APIError reports a non-OK answer from the engine, carrying its status.
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("directions engine error: %s - %s", e.Status, e.Message)
	}
	return fmt.Sprintf("directions engine error: %s", e.Status)
}

func (e *APIError) Unwrap() error { return ErrAPI }
