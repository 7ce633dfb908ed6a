// Package errors provides error types and handling for the analyzer.
package errors

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrorType categorizes errors for handling decisions. Every category
// degrades to a partial or empty result at the analysis boundary; none of
// them terminates a session.
type ErrorType int

const (
	// Unknown is an uncategorized error.
	Unknown ErrorType = iota
	// Input represents bad caller input (e.g. no URL in the instructions).
	Input
	// Network represents network-related errors (DNS, connection).
	Network
	// Timeout represents navigation or request timeouts.
	Timeout
	// Parse represents structured-data parsing errors.
	Parse
	// Browser represents browser/CDP errors.
	Browser
	// Cancelled represents context cancellation.
	Cancelled
)

// String returns the string representation of ErrorType.
func (t ErrorType) String() string {
	switch t {
	case Input:
		return "input"
	case Network:
		return "network"
	case Timeout:
		return "timeout"
	case Parse:
		return "parse"
	case Browser:
		return "browser"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsRecoverable reports whether an analysis proceeds with partial data after
// errors of this type. Only bad input and cancellation end a session early,
// and even those surface as a failure-shaped result rather than an error.
func (t ErrorType) IsRecoverable() bool {
	switch t {
	case Input, Cancelled:
		return false
	default:
		return true
	}
}

// AnalysisError represents a categorized analyzer error.
type AnalysisError struct {
	Type        ErrorType
	URL         string
	Operation   string
	Message     string
	Cause       error
	Recoverable bool
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error during %s on %s: %s (caused by: %v)",
			e.Type.String(), e.Operation, e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error during %s on %s: %s",
		e.Type.String(), e.Operation, e.URL, e.Message)
}

// Unwrap returns the underlying error.
func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches a target.
func (e *AnalysisError) Is(target error) bool {
	t, ok := target.(*AnalysisError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// New creates a new AnalysisError.
func New(errType ErrorType, url, operation, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Type:        errType,
		URL:         url,
		Operation:   operation,
		Message:     message,
		Cause:       cause,
		Recoverable: errType.IsRecoverable(),
	}
}

// NewInputError creates an input error.
func NewInputError(operation, message string) *AnalysisError {
	return New(Input, "", operation, message, nil)
}

// NewNetworkError creates a network error.
func NewNetworkError(url, operation string, cause error) *AnalysisError {
	return New(Network, url, operation, "network failure", cause)
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(url, operation string, cause error) *AnalysisError {
	return New(Timeout, url, operation, "timed out", cause)
}

// NewParseError creates a parse error.
func NewParseError(url, operation string, cause error) *AnalysisError {
	return New(Parse, url, operation, "parsing failed", cause)
}

// NewBrowserError creates a browser error.
func NewBrowserError(url, operation string, cause error) *AnalysisError {
	return New(Browser, url, operation, "browser operation failed", cause)
}

// NewCancelledError creates a cancelled error.
func NewCancelledError(url, operation string) *AnalysisError {
	return New(Cancelled, url, operation, "operation cancelled", nil)
}

// Categorize determines the error type from a generic error.
func Categorize(err error, url string) *AnalysisError {
	if err == nil {
		return nil
	}

	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return analysisErr
	}

	if strings.Contains(err.Error(), "context canceled") {
		return NewCancelledError(url, "capture")
	}

	if isTimeout(err) {
		return NewTimeoutError(url, "capture", err)
	}

	if isNetworkError(err) {
		return NewNetworkError(url, "capture", err)
	}

	return New(Unknown, url, "capture", err.Error(), err)
}

// isTimeout checks if an error is a timeout.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context deadline")
}

// isNetworkError checks if an error is network-related.
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "dial tcp")
}

// IsRecoverable checks if an analysis should proceed with partial data.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}

	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return analysisErr.Recoverable
	}

	return isTimeout(err) || isNetworkError(err)
}

// GetErrorType extracts the error type from an error.
func GetErrorType(err error) ErrorType {
	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return analysisErr.Type
	}
	return Unknown
}
