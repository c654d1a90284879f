package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource,
// e.g. reversing an entry that has already been reversed.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates the caller is authenticated but lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal wraps unexpected storage or infrastructure failures.
var ErrInternal = errors.New("internal error")

// Posting rejection kinds. A rejected entry never reaches the ledger store.
var (
	ErrUnbalancedEntry = errors.New("unbalanced entry")
	ErrInvalidLine     = errors.New("invalid line")
	ErrUnknownAccount  = errors.New("unknown account")
	ErrInactiveAccount = errors.New("inactive account")
	ErrInvalidDate     = errors.New("invalid date")
)

// PostingError describes why a journal entry was rejected.
// Line is the 1-based line number the failure refers to, or 0 for entry-level failures.
type PostingError struct {
	Kind    error
	Line    int
	Message string
}

// NewPostingError builds a PostingError for the given kind.
func NewPostingError(kind error, line int, format string, args ...any) *PostingError {
	return &PostingError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (e *PostingError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Kind, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is match both the specific kind and ErrValidation.
func (e *PostingError) Unwrap() []error {
	return []error{e.Kind, ErrValidation}
}

// KindName returns a stable machine-readable name for a posting rejection kind.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrUnbalancedEntry):
		return "UnbalancedEntry"
	case errors.Is(err, ErrInvalidLine):
		return "InvalidLine"
	case errors.Is(err, ErrUnknownAccount):
		return "UnknownAccount"
	case errors.Is(err, ErrInactiveAccount):
		return "InactiveAccount"
	case errors.Is(err, ErrInvalidDate):
		return "InvalidDate"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	default:
		return ""
	}
}
