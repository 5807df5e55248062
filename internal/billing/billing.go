package billing

import (
	"context"
	"time"
)

// Processor defines the minimal payment-processor surface the platform
// consumes. The processor is the authoritative source for subscription
// status and invoicing; local records are always re-derived from it.
// Implementations: Stripe, or a mock for tests.
type Processor interface {
	// CreateCustomer creates a customer account in the processor.
	// Metadata should carry the local customer id for traceability.
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error)

	// GetCustomer retrieves an existing processor customer.
	// Returns ErrCustomerNotFound if the account does not exist.
	// A returned customer may be marked Deleted; callers must treat that
	// the same as a missing account.
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)

	// GetPrice retrieves a price. Recurring is false for one-time prices.
	GetPrice(ctx context.Context, priceID string) (*Price, error)

	// GetProduct retrieves a product for its display name.
	GetProduct(ctx context.Context, productID string) (*Product, error)

	// CreateSubscription creates a subscription with one line item per
	// price id. The subscription is created with incomplete-allowed
	// payment behavior, so creation succeeds even when the first invoice
	// cannot yet be paid. When BillingCycleAnchor is set the first cycle
	// is not prorated.
	// Returns ErrCustomerNotFound when the customer reference is stale.
	CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*Subscription, error)

	// GetSubscription retrieves current subscription state.
	// Returns ErrSubscriptionNotFound if it does not exist.
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)

	// SetCancelAtPeriodEnd flags or unflags end-of-period cancellation.
	SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*Subscription, error)

	// CancelSubscription cancels immediately.
	CancelSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)

	// GetLatestInvoice resolves the subscription's latest invoice.
	// Returns ErrNoInvoice when the subscription has none.
	GetLatestInvoice(ctx context.Context, subscriptionID string) (*Invoice, error)

	// FinalizeInvoice finalizes a draft invoice so it can be paid.
	FinalizeInvoice(ctx context.Context, invoiceID string) (*Invoice, error)

	// PayInvoiceOutOfBand marks an open invoice paid without charging.
	// Represents a payment received outside the processor (check, wire).
	PayInvoiceOutOfBand(ctx context.Context, invoiceID string) (*Invoice, error)
}

// CreateCustomerParams contains parameters for creating a processor customer.
type CreateCustomerParams struct {
	Email    string
	Name     string
	Metadata map[string]string
}

// Customer represents a processor customer account.
type Customer struct {
	ID      string
	Email   string
	Name    string
	Deleted bool
}

// Price represents a processor price.
type Price struct {
	ID        string
	ProductID string
	Currency  string

	// UnitAmount is in the smallest currency unit (cents).
	UnitAmount int64

	// Recurring is false for one-time prices.
	Recurring bool

	// Interval is the billing interval label ("month", "year", ...).
	// Empty for one-time prices.
	Interval string
}

// Product represents a processor product.
type Product struct {
	ID   string
	Name string
}

// CreateSubscriptionParams contains parameters for creating a subscription.
type CreateSubscriptionParams struct {
	CustomerID string

	// PriceIDs become one line item each; the bundle is billed and
	// canceled as a single unit.
	PriceIDs []string

	// BillingCycleAnchor, when set, fixes the first charge date and
	// disables proration for the first cycle.
	BillingCycleAnchor *time.Time

	Metadata map[string]string
}

// Subscription represents processor subscription state.
type Subscription struct {
	ID                string
	CustomerID        string
	Status            string
	CancelAtPeriodEnd bool

	// LatestInvoiceID is empty when the subscription has no invoice yet.
	LatestInvoiceID string

	CreatedAt time.Time
}

// Invoice statuses as reported by the processor.
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusOpen  = "open"
	InvoiceStatusPaid  = "paid"
)

// Invoice represents a processor invoice.
type Invoice struct {
	ID     string
	Status string
}
