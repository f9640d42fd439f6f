// Package errs provides the unified error type used across all of echofetch.
//
// Every subsystem (catalog, blobstore drivers, registry, fetch pipeline, …)
// wraps its native errors into *errs.Error before returning them to callers.
// Callers use the Is* predicates to handle errors without importing
// driver-specific packages.
//
// Usage:
//
//	// In a driver, wrap native errors:
//	return errs.Wrap(errs.ErrKindConnectionFailed, "archive unreachable", s3Err)
//
//	// In a caller, check the error kind:
//	if errs.IsNotFound(err) {
//	    // artifact absent from every backend
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// All backends (MinIO, Azure Blob, Postgres, MySQL, the converter, …) map
// their native errors to one of these kinds, giving callers a single
// consistent API.
type ErrKind int

const (
	ErrKindUnknown            ErrKind = iota
	ErrKindUnknownShip                // ship name not in the reference list
	ErrKindInvalidEchosounder         // echosounder outside the supported enum
	ErrKindInvalidIdentity            // empty / path-unsafe / inconsistent identity fields
	ErrKindNotFound                   // artifact absent from every backend
	ErrKindAlreadyExists              // overwrite guard tripped on upload
	ErrKindConversionFailed           // external raw→netCDF converter failed
	ErrKindConnectionFailed           // cannot reach a backend
	ErrKindTimeout                    // context deadline / cancellation
	ErrKindQueryFailed                // storage or registry operation error
	ErrKindInvalidInput               // bad arguments from the caller
	ErrKindPermissionDenied           // access denied / auth failure
	ErrKindReadOnly                   // write attempted on a read-only store
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindUnknownShip:
		return "unknown_ship"
	case ErrKindInvalidEchosounder:
		return "invalid_echosounder"
	case ErrKindInvalidIdentity:
		return "invalid_identity"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindAlreadyExists:
		return "already_exists"
	case ErrKindConversionFailed:
		return "conversion_failed"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindReadOnly:
		return "read_only"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all echofetch subsystems.
// Drivers produce it; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsUnknownShip reports whether err was caused by a ship name that has no
// match in the reference list.
func IsUnknownShip(err error) bool {
	return KindOf(err) == ErrKindUnknownShip
}

// IsInvalidEchosounder reports whether err names an unsupported echosounder.
func IsInvalidEchosounder(err error) bool {
	return KindOf(err) == ErrKindInvalidEchosounder
}

// IsInvalidIdentity reports whether err was caused by empty, path-unsafe, or
// internally inconsistent identity fields.
func IsInvalidIdentity(err error) bool {
	return KindOf(err) == ErrKindInvalidIdentity
}

// IsNotFound reports whether err represents a "not found" result
// (missing object, artifact absent from every backend, no rows, …).
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsAlreadyExists reports whether err is the upload overwrite guard.
func IsAlreadyExists(err error) bool {
	return KindOf(err) == ErrKindAlreadyExists
}

// IsConversionFailed reports whether err wraps a converter failure.
func IsConversionFailed(err error) bool {
	return KindOf(err) == ErrKindConversionFailed
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend operation failure.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsReadOnly reports whether err was a write against a read-only store
// (the public archive and the on-prem container never accept writes).
func IsReadOnly(err error) bool {
	return KindOf(err) == ErrKindReadOnly
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
