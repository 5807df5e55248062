package service

import (
	"github.com/rthompsontouch/agencyops/internal/domain"
)

// Service-level sentinel errors. Handlers translate the embedded domain
// codes into HTTP status codes.
var (
	// Lookup errors
	ErrCustomerNotFound     = domain.Errorf(domain.ENOTFOUND, "", "Customer not found")
	ErrProjectNotFound      = domain.Errorf(domain.ENOTFOUND, "", "Project not found")
	ErrLeadNotFound         = domain.Errorf(domain.ENOTFOUND, "", "Lead not found")
	ErrDocumentNotFound     = domain.Errorf(domain.ENOTFOUND, "", "Document not found")
	ErrSubscriptionNotFound = domain.Errorf(domain.ENOTFOUND, "", "Subscription not found")

	// Subscription creation errors
	ErrNoPrices       = domain.Errorf(domain.EINVALID, "", "At least one price is required")
	ErrInvalidPrice   = domain.Errorf(domain.EINVALID, "", "Price is not a recurring price")
	ErrMixedIntervals = domain.Errorf(domain.EINVALID, "", "All prices in a bundle must share a billing interval")

	// Subscription lifecycle errors. Invoice state problems are the
	// operator's request being wrong for the invoice's current state, so
	// they surface as invalid input rather than conflicts.
	ErrNoInvoice            = domain.Errorf(domain.EINVALID, "", "Subscription has no invoice")
	ErrAlreadyPaid          = domain.Errorf(domain.EINVALID, "", "Invoice is already paid")
	ErrInvalidInvoiceState  = domain.Errorf(domain.EINVALID, "", "Invoice is not in a payable state")
	ErrFilterRequired       = domain.Errorf(domain.EINVALID, "", "A project or customer filter is required")
	ErrProcessorUnavailable = domain.Errorf(domain.EUNAVAILABLE, "", "Payment processor is not configured")

	// Lead conversion errors
	ErrLeadAlreadyConverted = domain.Errorf(domain.ECONFLICT, "", "Lead has already been converted")
)
