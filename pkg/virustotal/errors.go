package virustotal

import (
	"errors"
	"fmt"
)

// Error codes for machine-readable error classification.
const (
	CodeSubmissionFailed    = "submission_failed"
	CodeAnalysisFetchFailed = "analysis_fetch_failed"
	CodeMissingAnalysisID   = "missing_analysis_id"
	CodeUnexpected          = "unexpected_error"
)

// Error is returned by every Client call that fails.
type Error struct {
	// Code is a machine-readable error code.
	Code string
	// Message is a human-readable error description.
	Message string
	// StatusCode is the HTTP status returned by VirusTotal, 0 if none was received.
	StatusCode int
	// Body is the raw response body, kept for diagnostics.
	Body string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewSubmissionError reports a URL or file submission rejected by VirusTotal.
func NewSubmissionError(msg string, statusCode int, body string) *Error {
	return &Error{
		Code:       CodeSubmissionFailed,
		Message:    msg,
		StatusCode: statusCode,
		Body:       body,
	}
}

// NewAnalysisFetchError reports an analysis status query rejected by VirusTotal.
func NewAnalysisFetchError(msg string, statusCode int, body string) *Error {
	return &Error{
		Code:       CodeAnalysisFetchFailed,
		Message:    msg,
		StatusCode: statusCode,
		Body:       body,
	}
}

// NewMissingAnalysisIDError reports a successful submission whose body carried no analysis id.
func NewMissingAnalysisIDError(body string) *Error {
	return &Error{
		Code:    CodeMissingAnalysisID,
		Message: "No analysis ID returned",
		Body:    body,
	}
}

// NewUnexpectedError wraps transport, encoding and cancellation failures.
func NewUnexpectedError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeUnexpected,
		Message: msg,
		Cause:   cause,
	}
}

func hasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsSubmissionError reports whether err is or wraps a submission failure.
func IsSubmissionError(err error) bool { return hasCode(err, CodeSubmissionFailed) }

// IsAnalysisFetchError reports whether err is or wraps an analysis fetch failure.
func IsAnalysisFetchError(err error) bool { return hasCode(err, CodeAnalysisFetchFailed) }

// IsMissingAnalysisIDError reports whether err is or wraps a missing analysis id failure.
func IsMissingAnalysisIDError(err error) bool { return hasCode(err, CodeMissingAnalysisID) }

// IsUnexpectedError reports whether err is or wraps an unexpected failure.
func IsUnexpectedError(err error) bool { return hasCode(err, CodeUnexpected) }
