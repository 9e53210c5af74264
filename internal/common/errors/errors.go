// Package errors provides standardized error handling for the MES report run.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	ErrCodeSerialReadFailed ErrorCode = "SERIAL_READ_FAILED"

	ErrCodeMESTransport   ErrorCode = "MES_TRANSPORT_ERROR"
	ErrCodeMESProtocol    ErrorCode = "MES_PROTOCOL_ERROR"
	ErrCodeMESUnavailable ErrorCode = "MES_UNAVAILABLE"

	ErrCodeReportWriteFailed  ErrorCode = "REPORT_WRITE_FAILED"
	ErrCodeRawDumpWriteFailed ErrorCode = "RAW_DUMP_WRITE_FAILED"

	ErrCodeInterrupted ErrorCode = "INTERRUPTED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigInvalidError creates a non-retryable configuration error.
// The run must not start when configuration is missing or invalid.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Configuration is missing or invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSerialReadFailedError creates a non-retryable serial-number read error.
func NewSerialReadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSerialReadFailed,
		Message:   "Failed to read device serial number",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMESTransportError creates a retryable attempt-scoped transport error
// (connection failure or request timeout).
func NewMESTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMESTransport,
		Message:   "MES request failed at the transport level",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMESProtocolError creates a retryable attempt-scoped protocol error:
// non-200 status, unparsable body, or business-logic failure flag.
func NewMESProtocolError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMESProtocol,
		Message:   "MES response rejected",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMESUnavailableError creates the terminal error after every attempt has
// failed. It carries the last attempt-scoped error in Details.
func NewMESUnavailableError(url string, attempts int, lastErr error) *StandardError {
	details := fmt.Sprintf("url: %s, attempts: %d", url, attempts)
	if lastErr != nil {
		details = fmt.Sprintf("%s, last error: %v", details, lastErr)
	}
	return &StandardError{
		Code:      ErrCodeMESUnavailable,
		Message:   "Could not retrieve record from MES system",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"url": url, "attempts": attempts},
		Timestamp: time.Now().UTC(),
	}
}

// NewReportWriteFailedError creates the fatal write error for the processed
// report.
func NewReportWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportWriteFailed,
		Message:   "Failed to write processed report",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
	}
}

// NewRawDumpWriteFailedError creates the non-fatal raw dump write error.
// Callers log it and continue.
func NewRawDumpWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRawDumpWriteFailed,
		Message:   "Failed to write raw MES dump",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInterruptedError creates the error used when the user aborts the run.
func NewInterruptedError(stage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInterrupted,
		Message:   "Run interrupted by user",
		Details:   fmt.Sprintf("stage: %s", stage),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryable reports whether err is an attempt-scoped error that the fetch
// loop may retry. Anything that is not a StandardError is treated as fatal.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// CodeOf returns the ErrorCode of err, or an empty code for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return ""
}
