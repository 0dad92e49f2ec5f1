package geometry

import (
	"errors"
	"fmt"
)

// ErrUnsupported is wrapped by every UnsupportedError.
var ErrUnsupported = errors.New("unsupported geometry")

// UnsupportedError is returned for a single feature (or conversion) that cannot be
// handled. It never aborts a whole ingest.
type UnsupportedError struct {
	Kind   string
	Reason string
}

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", ErrUnsupported, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", ErrUnsupported, e.Kind, e.Reason)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// Unsupported is a shorthand for building an UnsupportedError.
func Unsupported(kind string, reason string, args ...any) error {
	return &UnsupportedError{Kind: kind, Reason: fmt.Sprintf(reason, args...)}
}
