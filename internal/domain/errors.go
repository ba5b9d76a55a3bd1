package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidConfig     = errors.New("invalid config")
	ErrMissingVar        = errors.New("missing variable")
	ErrExecution         = errors.New("execution error")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrUnsupportedAction = errors.New("unsupported action")
	ErrRecordNotFound    = errors.New("record not found")
	ErrInitialization    = errors.New("initialization failed")
	ErrRemote            = errors.New("remote error")
	ErrTruncated         = errors.New("response body truncated")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidConfig     ErrorKind = "invalid_config"
	KindMissingVar        ErrorKind = "missing_variable"
	KindExecution         ErrorKind = "execution"
	KindInvalidRecord     ErrorKind = "invalid_record"
	KindUnsupportedAction ErrorKind = "unsupported_action"
	KindRemote            ErrorKind = "remote"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path or field path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// RecordNotFoundError is returned when a get call comes back unsuccessful.
type RecordNotFoundError struct {
	RecordType string
	Options    string
	Details    []StatusDetail
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("%s with OPTIONS=%s could not be found", e.RecordType, e.Options)
}

func (e *RecordNotFoundError) Unwrap() error { return ErrRecordNotFound }

// InitializationError is returned when an initialize call comes back unsuccessful.
type InitializationError struct {
	RecordType string
	Reference  string
	Details    []StatusDetail
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("%s.initialize with %s failed.", e.RecordType, e.Reference)
}

func (e *InitializationError) Unwrap() error { return ErrInitialization }
