package model

import (
	"errors"
	"fmt"

	"github.com/okian/ticketscan/internal/domain/types"
)

// Pipeline rejections. Every stage failure wraps exactly one of these.
var (
	ErrNoNumericContent    = errors.New("no numeric content")
	ErrClassification      = errors.New("ticket could not be classified")
	ErrInvalidTicketFormat = errors.New("invalid ticket format")
	ErrOCRUnavailable      = errors.New("ocr engine unavailable")
)

// FormatError is a structural validation failure with a stable reason code.
type FormatError struct {
	Reason types.Reason
	Detail string
}

// NewFormatError builds a FormatError with a formatted detail message.
func NewFormatError(reason types.Reason, format string, args ...any) *FormatError {
	return &FormatError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

func (e *FormatError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidTicketFormat, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidTicketFormat, e.Reason, e.Detail)
}

// Is makes errors.Is(err, ErrInvalidTicketFormat) hold for every FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidTicketFormat
}

// ReasonOf maps an error from the pipeline to its reason code.
// It returns the empty reason for errors outside the taxonomy.
func ReasonOf(err error) types.Reason {
	var fe *FormatError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		return fe.Reason
	case errors.Is(err, ErrNoNumericContent):
		return types.ReasonNoNumericContent
	case errors.Is(err, ErrClassification):
		return types.ReasonClassification
	case errors.Is(err, ErrOCRUnavailable):
		return types.ReasonOCRUnavailable
	}
	return ""
}

// IsRejection reports whether err is a ticket rejection rather than an
// infrastructure failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNoNumericContent) ||
		errors.Is(err, ErrClassification) ||
		errors.Is(err, ErrInvalidTicketFormat)
}
