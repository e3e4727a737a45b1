// Package errors provides custom error types for the advice client and conversation state.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrResponsePending = errors.New("a response is still pending")
	ErrAdviceFailed    = errors.New("advice request failed")
	ErrNoReply         = errors.New("no reply in response")
)

// Kind classifies an advice request failure
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindTimeout
	KindStatus
	KindParse
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// AdviceError represents a failed request to the advice service.
// Every kind matches ErrAdviceFailed with errors.Is.
type AdviceError struct {
	Kind       Kind
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *AdviceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("advice request failed [%d] at %s: %s", e.StatusCode, e.Endpoint, msg)
	}
	return fmt.Sprintf("advice request failed (%s) at %s: %s", e.Kind, e.Endpoint, msg)
}

// Unwrap returns the underlying cause
func (e *AdviceError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *AdviceError) Is(target error) bool {
	if target == ErrAdviceFailed {
		return true
	}
	t, ok := target.(*AdviceError)
	if !ok {
		return false
	}
	return t.Kind == KindUnknown || t.Kind == e.Kind
}

// NewNetworkError creates an AdviceError for transport failures
func NewNetworkError(endpoint string, err error) *AdviceError {
	return &AdviceError{Kind: KindNetwork, Endpoint: endpoint, Err: err}
}

// NewTimeoutError creates an AdviceError for requests that exceeded their deadline
func NewTimeoutError(endpoint string, err error) *AdviceError {
	return &AdviceError{Kind: KindTimeout, Endpoint: endpoint, Message: "request timed out", Err: err}
}

// NewStatusError creates an AdviceError for non-2xx responses
func NewStatusError(statusCode int, endpoint, message string) *AdviceError {
	return &AdviceError{Kind: KindStatus, StatusCode: statusCode, Endpoint: endpoint, Message: message}
}

// NewParseError creates an AdviceError for malformed response bodies
func NewParseError(endpoint, message string) *AdviceError {
	return &AdviceError{Kind: KindParse, Endpoint: endpoint, Message: message}
}

func kindOf(err error) Kind {
	var adviceErr *AdviceError
	if errors.As(err, &adviceErr) {
		return adviceErr.Kind
	}
	return KindUnknown
}

// IsTimeoutError reports whether err is a timed out advice request
func IsTimeoutError(err error) bool {
	return kindOf(err) == KindTimeout
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	return kindOf(err) == KindNetwork
}

// IsStatusError reports whether err is a non-2xx response
func IsStatusError(err error) bool {
	return kindOf(err) == KindStatus
}

// IsParseError reports whether err is a malformed response
func IsParseError(err error) bool {
	return kindOf(err) == KindParse
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var adviceErr *AdviceError
	if errors.As(err, &adviceErr) {
		return adviceErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var adviceErr *AdviceError
	if errors.As(err, &adviceErr) {
		return adviceErr.Endpoint
	}
	return ""
}

// GetKind returns the failure kind of err
func GetKind(err error) Kind {
	return kindOf(err)
}
