package service

import (
	"context"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// SubscriptionService provides business logic for recurring subscription
// operations. All reads reconcile local records against the payment
// processor before returning; the processor is the source of truth for
// subscription status.
type SubscriptionService interface {
	// CreateSubscription creates a recurring subscription for a project.
	//
	// Flow:
	//  1. Resolve the project and its owning customer
	//  2. Resolve each price from the processor and verify it is recurring
	//  3. Ensure the customer has a processor account, creating one if needed
	//  4. Create the processor subscription (incomplete-tolerant)
	//  5. Persist the local record with the mapped status
	//
	// A stale processor customer reference (account deleted processor-side)
	// is recovered once: a fresh account is created and creation retried.
	//
	// Returns ErrInvalidPrice if any price is not recurring.
	// Returns ErrMixedIntervals if bundled prices bill on different intervals.
	CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*domain.RecurringSubscription, error)

	// GetSubscription retrieves one subscription, reconciled against the
	// processor. A processor fetch failure marks the record canceled.
	GetSubscription(ctx context.Context, id string) (*domain.RecurringSubscription, error)

	// ListSubscriptions retrieves subscriptions for a project and/or
	// customer. Every matching record is reconciled first; canceled
	// records are then filtered out unless IncludeCanceled is set.
	//
	// Returns ErrFilterRequired when neither filter is given.
	ListSubscriptions(ctx context.Context, filter domain.SubscriptionFilter) ([]domain.RecurringSubscription, error)

	// UpdateSubscription applies lifecycle changes to a subscription.
	//
	// MarkAsPaid settles the latest invoice out of band and is applied
	// before any cancellation in the same request. CancelImmediately wins
	// over CancelAtPeriodEnd when both are set. Canceling an already
	// canceled subscription is a no-op, not an error.
	UpdateSubscription(ctx context.Context, id string, params UpdateSubscriptionParams) (*domain.RecurringSubscription, error)
}

// CreateSubscriptionParams contains parameters for creating a subscription.
type CreateSubscriptionParams struct {
	// ProjectID is the project this subscription bills for. The billed
	// customer is the project's owning customer.
	ProjectID string

	// PriceIDs are the processor price ids bundled into one subscription.
	// At least one is required.
	PriceIDs []string

	// BillingDay is the preferred day of month for invoices, clamped to
	// [1, 28]. Display-only; the processor anchor governs actual billing.
	BillingDay int32

	// FirstPaymentDate optionally delays the first charge, formatted
	// YYYY-MM-DD. Only a strictly future date sets a billing anchor.
	FirstPaymentDate string
}

// UpdateSubscriptionParams contains lifecycle changes for a subscription.
// Nil and false fields are ignored.
type UpdateSubscriptionParams struct {
	// MarkAsPaid settles the latest invoice out of band.
	MarkAsPaid bool

	// CancelAtPeriodEnd flags or unflags end-of-period cancellation.
	CancelAtPeriodEnd *bool

	// CancelImmediately cancels the subscription now.
	CancelImmediately bool
}
