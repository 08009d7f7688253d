// Package errors defines the error kinds surfaced by the personnel store.
// Store failures wrap one of these sentinels together with the driver's
// original cause, so callers can match the kind with errors.Is and still
// reach the cause with errors.As.
package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrConstraint   = fmt.Errorf("constraint violation")
	ErrConnectivity = fmt.Errorf("connectivity failure")
	ErrMapping      = fmt.Errorf("mapping failure")
	ErrStore        = fmt.Errorf("store failure")
	ErrInvalidInput = fmt.Errorf("invalid input")
)
