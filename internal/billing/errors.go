package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when no processor API key is set.
	// The platform runs with billing disabled in that case.
	ErrNotConfigured = errors.New("billing: processor not configured")

	// ErrCustomerNotFound is returned when a processor customer account
	// does not exist. A stored reference producing this error is stale.
	ErrCustomerNotFound = errors.New("billing: customer not found")

	// ErrSubscriptionNotFound is returned when a processor subscription
	// does not exist.
	ErrSubscriptionNotFound = errors.New("billing: subscription not found")

	// ErrNoInvoice is returned when a subscription has no invoice yet.
	ErrNoInvoice = errors.New("billing: subscription has no invoice")

	// ErrInvoiceNotFound is returned when an invoice does not exist.
	ErrInvoiceNotFound = errors.New("billing: invoice not found")
)

// IsStaleCustomer reports whether err indicates the processor customer
// reference no longer resolves (deleted out-of-band). This is the one
// condition the subscription creator self-heals with a single retry.
func IsStaleCustomer(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}

// ProcessorError wraps a processor API error with additional context.
type ProcessorError struct {
	Message       string // Human-readable error message
	Code          string // Processor error code (e.g., "resource_missing")
	Param         string // Request parameter the error refers to, if any
	RequestID     string // Processor request ID for debugging
	OriginalError error  // Original error from the SDK
}

func (e *ProcessorError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("processor: %s (code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("processor: %s", e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.OriginalError
}
