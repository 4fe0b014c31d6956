package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/ticketscan/internal/adapters/ocr"
	"github.com/okian/ticketscan/internal/adapters/repository"
	"github.com/okian/ticketscan/internal/domain/model"
)

// Error kinds. Each maps to one HTTP status and response code.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrTooLarge    = errors.New("upload too large")
	ErrNotFound    = errors.New("not found")
	ErrRejected    = errors.New("ticket rejected")
	ErrUnavailable = errors.New("ocr unavailable")
	ErrInternal    = errors.New("internal error")
)

// KindError is a handler failure tagged with its kind.
type KindError struct {
	Op    string
	Kind  error
	Cause error
}

// WrapKind tags cause with kind.
func WrapKind(op string, kind, cause error) error {
	return &KindError{Op: op, Kind: kind, Cause: cause}
}

// NewKind returns a KindError with no underlying cause.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

func (e *KindError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Cause)
}

func (e *KindError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// kindOf tags err with the kind its cause implies, unless it already has one.
func kindOf(op string, err error) error {
	var ke *KindError
	if errors.As(err, &ke) {
		return err
	}
	var tooLarge *http.MaxBytesError
	switch {
	case model.IsRejection(err):
		return WrapKind(op, ErrRejected, err)
	case errors.Is(err, model.ErrOCRUnavailable):
		return WrapKind(op, ErrUnavailable, err)
	case errors.As(err, &tooLarge):
		return WrapKind(op, ErrTooLarge, err)
	case errors.Is(err, repository.ErrNotFound):
		return WrapKind(op, ErrNotFound, err)
	case errors.Is(err, ocr.ErrUnsupportedImage),
		errors.Is(err, ocr.ErrEmptyImage),
		errors.Is(err, repository.ErrInvalidLimit):
		return WrapKind(op, ErrBadRequest, err)
	}
	return WrapKind(op, ErrInternal, err)
}

// statusOf returns the HTTP status and response code for a kinded error.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrRejected):
		return http.StatusUnprocessableEntity, "ticket_rejected"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "ocr_unavailable"
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	}
	return http.StatusInternalServerError, "internal_error"
}
