package domain

import "errors"

// ErrorKind classifies analysis failures so callers can route remediation
// without parsing messages.
type ErrorKind string

const (
	ErrInvalidFrequency     ErrorKind = "invalid_frequency"
	ErrInvalidWindow        ErrorKind = "invalid_window"
	ErrNegativeDisbursement ErrorKind = "negative_disbursement"
	ErrInfeasible           ErrorKind = "infeasible"
	ErrAmbiguousDisposition ErrorKind = "ambiguous_disposition"
)

// Error is a typed analysis failure. Field names the offending snapshot
// field when one can be identified. A failed run never yields a partial
// AnalysisOutcome.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Field != "" {
		msg += " (field " + e.Field + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds a typed analysis error.
func NewError(kind ErrorKind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

// IsKind reports whether err (or anything it wraps) is an analysis error of
// the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
