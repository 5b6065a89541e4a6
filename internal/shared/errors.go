// Package shared contains error kinds and helpers used across the application.
package shared

import (
	"context"
	"errors"
	"fmt"
	"net"

	"sqlpager/pkg/dialect"
	"sqlpager/pkg/provider"
)

// Application-level sentinel errors
var (
	// ErrNotFound indicates an unknown connection, query or provider name
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates that input validation failed
	ErrValidation = errors.New("validation failed")

	// ErrUnsupported indicates that the connection's dialect cannot serve the request
	ErrUnsupported = errors.New("unsupported")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrDependencyFailure indicates that a database or driver failed
	ErrDependencyFailure = errors.New("dependency failure")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)

// Kind represents a category of error for easier classification and handling.
type Kind int

const (
	// KindUnknown represents an unclassified error
	KindUnknown Kind = iota
	// KindNotFound represents unknown names
	KindNotFound
	// KindValidation represents input validation errors
	KindValidation
	// KindUnsupported represents requests the dialect cannot serve
	KindUnsupported
	// KindTimeout represents timeout errors
	KindTimeout
	// KindDependencyFailure represents database and driver failures
	KindDependencyFailure
	// KindInternal represents internal errors
	KindInternal
	// KindCanceled represents context cancellation
	KindCanceled
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "Validation"
	case KindUnsupported:
		return "Unsupported"
	case KindTimeout:
		return "Timeout"
	case KindDependencyFailure:
		return "DependencyFailure"
	case KindInternal:
		return "Internal"
	case KindCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

var kindToSentinel = map[Kind]error{
	KindNotFound:          ErrNotFound,
	KindValidation:        ErrValidation,
	KindUnsupported:       ErrUnsupported,
	KindTimeout:           ErrTimeout,
	KindDependencyFailure: ErrDependencyFailure,
	KindInternal:          ErrInternal,
}

// kindPriorities defines the deterministic order for error classification.
// Library sentinels are classified next to the application sentinel of the same kind.
var kindPriorities = []struct {
	kind Kind
	errs []error
}{
	{KindCanceled, nil}, // context.Canceled (special case)
	{KindTimeout, nil},  // context.DeadlineExceeded, net timeouts, ErrTimeout
	{KindNotFound, []error{ErrNotFound, provider.ErrUnknownProvider}},
	{KindValidation, []error{ErrValidation, dialect.ErrInvalidPage}},
	{KindUnsupported, []error{ErrUnsupported, dialect.ErrUnsupportedPagination}},
	{KindDependencyFailure, []error{ErrDependencyFailure, provider.ErrSchemaUnavailable}},
	{KindInternal, []error{ErrInternal}},
}

// KindOf returns the Kind of err by checking it against known sentinel errors
// in priority order:
//  1. KindCanceled
//  2. KindTimeout
//  3. KindNotFound, KindValidation, KindUnsupported
//  4. KindDependencyFailure
//  5. KindInternal
//
// For errors created with errors.Join, the first matching kind in priority order is returned.
// Driver errors that were never marked are KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	for _, priority := range kindPriorities {
		switch priority.kind {
		case KindCanceled:
			if IsCanceled(err) {
				return KindCanceled
			}
		case KindTimeout:
			if IsTimeout(err) {
				return KindTimeout
			}
		default:
			for _, sentinel := range priority.errs {
				if errors.Is(err, sentinel) {
					return priority.kind
				}
			}
		}
	}

	return KindUnknown
}

// HasKind reports whether the given error has the specified kind.
func HasKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// SentinelOf returns the sentinel error for the given Kind.
// For KindUnknown and KindCanceled, it returns nil.
func SentinelOf(kind Kind) error {
	return kindToSentinel[kind]
}

// MarkKind wraps err with the sentinel of kind, preserving err for errors.Is.
// If err is nil, returns the sentinel error for the kind (or nil for unsupported kinds).
// Errors that already have the kind are returned unchanged.
//
//	rows, err := conn.PageMapsContext(ctx, q.SQL, size, page)
//	if err != nil && shared.KindOf(err) == shared.KindUnknown {
//	    err = shared.MarkKind(err, shared.KindDependencyFailure)
//	}
func MarkKind(err error, kind Kind) error {
	sentinel := SentinelOf(kind)
	if err == nil {
		return sentinel
	}
	if sentinel == nil || KindOf(err) == kind {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Wrap wraps an error with additional context.
// If err is nil, Wrap returns nil. If context is empty, returns the original error.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	if context == "" {
		return err
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsCanceled reports whether the error indicates a canceled context.
func IsCanceled(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}

// IsTimeout reports whether the error indicates a timeout.
// It checks for context.DeadlineExceeded, net.Error timeouts, and ErrTimeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsNotFound reports whether the error is of KindNotFound.
func IsNotFound(err error) bool {
	return HasKind(err, KindNotFound)
}

// IsValidation reports whether the error is of KindValidation.
func IsValidation(err error) bool {
	return HasKind(err, KindValidation)
}

// IsUnsupported reports whether the error is of KindUnsupported.
func IsUnsupported(err error) bool {
	return HasKind(err, KindUnsupported)
}

// IsDependencyFailure reports whether the error is of KindDependencyFailure.
func IsDependencyFailure(err error) bool {
	return HasKind(err, KindDependencyFailure)
}
