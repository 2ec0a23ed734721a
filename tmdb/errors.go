package tmdb

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrEmptyBody indicates the provider answered without a body
	ErrEmptyBody = errors.New("tmdb: response body is empty")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tmdb configuration")
	// ErrNoSession indicates an authenticated call was made without a session
	ErrNoSession = errors.New("tmdb: no established session")
	// ErrMissingCredentials indicates Login was called without username or password
	ErrMissingCredentials = errors.New("tmdb: username and password are required")
)

// TransportError wraps a network or connection failure. It is the only
// failure the client retries.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tmdb: transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is returned for any status outside 2xx, whatever the body.
type HTTPStatusError struct {
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("tmdb: unexpected HTTP status %d", e.Code)
}

// IsUnauthorized checks if the status indicates an authentication failure
func (e *HTTPStatusError) IsUnauthorized() bool {
	return e.Code == 401 || e.Code == 403
}

// IsNotFound checks if the status indicates a missing resource
func (e *HTTPStatusError) IsNotFound() bool {
	return e.Code == 404
}

// MalformedBodyError indicates the body could not be decoded into the
// expected shape.
type MalformedBodyError struct {
	Reason string
	Err    error
}

func (e *MalformedBodyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tmdb: malformed response body: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("tmdb: malformed response body: %s", e.Reason)
}

func (e *MalformedBodyError) Unwrap() error {
	return e.Err
}

// ProviderRejectedError is an application-level failure reported in the
// body, possibly alongside HTTP 200.
type ProviderRejectedError struct {
	StatusCode    int
	StatusMessage string
}

func (e *ProviderRejectedError) Error() string {
	if e.StatusCode == 0 && e.StatusMessage == "" {
		return "tmdb: provider rejected the request"
	}
	return fmt.Sprintf("tmdb: provider rejected the request: status_code %d: %s", e.StatusCode, e.StatusMessage)
}

// UnexpectedProviderCodeError is returned when a write operation reports a
// status code outside the set expected for its intent.
type UnexpectedProviderCodeError struct {
	Code     int
	Expected []int
	Message  string
}

func (e *UnexpectedProviderCodeError) Error() string {
	want := make([]string, 0, len(e.Expected))
	for _, c := range e.Expected {
		want = append(want, fmt.Sprint(c))
	}
	return fmt.Sprintf("tmdb: unexpected provider status_code %d (expected one of %s)", e.Code, strings.Join(want, ", "))
}

// MissingFieldError indicates a key required by the next step is absent.
type MissingFieldError struct {
	Name string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("tmdb: missing field %q in response", e.Name)
}

// StageError reports which step of the login pipeline failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("login failed at stage %d (%s): %v", int(e.Stage), e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is worth another attempt. Only transport
// failures qualify.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
