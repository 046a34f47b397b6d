package app

import (
	"errors"
	"strings"
)

type ValidationCode string

const (
	ValidationMissingField      ValidationCode = "MISSING_FIELD"
	ValidationInvalidFrequency  ValidationCode = "INVALID_FREQUENCY"
	ValidationUnknownLocation   ValidationCode = "UNKNOWN_LOCATION"
	ValidationUnknownGoal       ValidationCode = "UNKNOWN_GOAL"
	ValidationUnknownLevel      ValidationCode = "UNKNOWN_LEVEL"
	ValidationUnknownEquipment  ValidationCode = "UNKNOWN_EQUIPMENT"
	ValidationInvalidRPE        ValidationCode = "INVALID_RPE"
	ValidationInvalidSeverity   ValidationCode = "INVALID_SEVERITY"
	ValidationUnknownPainNature ValidationCode = "UNKNOWN_PAIN_NATURE"
	ValidationUnknownPattern    ValidationCode = "UNKNOWN_PATTERN"
	ValidationOutOfRange        ValidationCode = "OUT_OF_RANGE"
)

// ValidationError is one rejected request field.
type ValidationError struct {
	Field   string
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return string(e.Code) + ": " + e.Field + ": " + e.Message
}

// ValidationErrors collects every violation in a request rather than
// stopping at the first.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.As find an individual *ValidationError.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, len(v))
	for i, e := range v {
		out[i] = e
	}
	return out
}

// Has reports whether any violation carries the code.
func (v ValidationErrors) Has(code ValidationCode) bool {
	for _, e := range v {
		if e.Code == code {
			return true
		}
	}
	return false
}

func (v *ValidationErrors) Add(field string, code ValidationCode, message string) {
	*v = append(*v, &ValidationError{Field: field, Code: code, Message: message})
}

// Err returns nil when nothing was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type SessionErrorCode string

const (
	SessionErrNotFound          SessionErrorCode = "SESSION_NOT_FOUND"
	SessionErrFinalized         SessionErrorCode = "SESSION_FINALIZED"
	SessionErrAlreadyOpen       SessionErrorCode = "SESSION_ALREADY_OPEN"
	SessionErrNoActiveProgram   SessionErrorCode = "NO_ACTIVE_PROGRAM"
	SessionErrOutOfOrderSet     SessionErrorCode = "OUT_OF_ORDER_SET"
	SessionErrConflictingSet    SessionErrorCode = "CONFLICTING_SET"
	SessionErrNoPending         SessionErrorCode = "NO_PENDING_ADJUSTMENT"
	SessionErrPendingUnresolved SessionErrorCode = "PENDING_UNRESOLVED"
	SessionErrInvalidExercise   SessionErrorCode = "INVALID_EXERCISE"
)

type SessionError struct {
	Code    SessionErrorCode
	Message string
}

func (e *SessionError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// SessionErrorCodeOf returns the code of a wrapped *SessionError, or "".
func SessionErrorCodeOf(err error) SessionErrorCode {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
