package domain

import (
	"context"
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generation and persistence failure kinds
	ErrCancelled = errors.New("cancelled")
	ErrNetwork   = errors.New("network failure")
	ErrBackend   = errors.New("backend failure")
	ErrQuota     = errors.New("quota exceeded")
	ErrStorage   = errors.New("storage failure")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (document, folder)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ErrorKind is the user-facing failure taxonomy.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindCancelled  ErrorKind = "cancelled"
	KindNetwork    ErrorKind = "network"
	KindBackend    ErrorKind = "backend"
	KindQuota      ErrorKind = "quota"
	KindValidation ErrorKind = "validation"
	KindStorage    ErrorKind = "storage"
	KindNotFound   ErrorKind = "not_found"
	KindAuth       ErrorKind = "auth"
)

// GenerationError is returned by the generation controller. Message is safe
// to show to users; Err carries technical detail for logs only.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool {
	return kindSentinel(e.Kind) == target
}

func (e *GenerationError) StatusCode() int {
	switch e.Kind {
	case KindQuota:
		return http.StatusPaymentRequired
	case KindValidation:
		return http.StatusBadRequest
	case KindNetwork:
		return http.StatusBadGateway
	case KindCancelled:
		return 499
	default:
		return http.StatusBadGateway
	}
}

// StorageError reports a failed write to the persistence medium. The prior
// stored snapshot is left untouched when it is returned.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func (e *StorageError) StatusCode() int { return http.StatusInsufficientStorage }

// NewGenerationError builds a GenerationError with the default message for kind.
func NewGenerationError(kind ErrorKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Message: DefaultMessage(kind), Err: err}
}

func kindSentinel(kind ErrorKind) error {
	switch kind {
	case KindCancelled:
		return ErrCancelled
	case KindNetwork:
		return ErrNetwork
	case KindBackend:
		return ErrBackend
	case KindQuota:
		return ErrQuota
	case KindValidation:
		return ErrValidation
	case KindStorage:
		return ErrStorage
	case KindNotFound:
		return ErrNotFound
	case KindAuth:
		return ErrUnauthorized
	}
	return nil
}

// Classify maps any error onto the taxonomy.
func Classify(err error) ErrorKind {
	var genErr *GenerationError
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &genErr):
		return genErr.Kind
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, ErrQuota):
		return KindQuota
	case errors.Is(err, ErrStorage):
		return KindStorage
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return KindAuth
	case errors.Is(err, ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	default:
		return KindBackend
	}
}

// IsCancelled reports whether err is an expected cancellation.
func IsCancelled(err error) bool {
	return Classify(err) == KindCancelled
}
