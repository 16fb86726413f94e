package services

import (
	"errors"
	"fmt"

	"github.com/cresenventures/backend/internal/db"
)

// ErrNotFound is the service-level alias for an absent entity.
var ErrNotFound = db.ErrNotFound

// ErrDuplicatePaymentID is the service-level alias for a payment id that
// already finalized an order.
var ErrDuplicatePaymentID = db.ErrDuplicatePaymentID

// ValidationError marks input that must be rejected before touching
// storage. Handlers translate it to a 400 response.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
