package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rthompsontouch/agencyops/internal/billing"
	"github.com/rthompsontouch/agencyops/internal/domain"
	"github.com/rthompsontouch/agencyops/internal/events"
)

// firstPaymentDateLayout is the wire format for delayed first charges.
const firstPaymentDateLayout = "2006-01-02"

// subscriptionService implements SubscriptionService interface
type subscriptionService struct {
	subs      domain.SubscriptionStore
	customers domain.CustomerStore
	projects  domain.ProjectStore
	processor billing.Processor
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService instance.
// processor may be nil when billing is not configured; every operation
// then fails with ErrProcessorUnavailable.
func NewSubscriptionService(
	subs domain.SubscriptionStore,
	customers domain.CustomerStore,
	projects domain.ProjectStore,
	processor billing.Processor,
	publisher events.Publisher,
	logger zerolog.Logger,
) SubscriptionService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &subscriptionService{
		subs:      subs,
		customers: customers,
		projects:  projects,
		processor: processor,
		publisher: publisher,
		logger:    logger.With().Str("component", "subscription_service").Logger(),
	}
}

// CreateSubscription creates a recurring subscription for a project.
//
// Flow:
//  1. Validate project and customer exist
//  2. Resolve each price from the processor and verify it is recurring
//  3. Ensure the customer has a processor account
//  4. Create the processor subscription
//  5. Persist the local record with the mapped status
func (s *subscriptionService) CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*domain.RecurringSubscription, error) {
	const op = "subscription.create"

	if s.processor == nil {
		return nil, ErrProcessorUnavailable
	}
	if len(params.PriceIDs) == 0 {
		return nil, ErrNoPrices
	}

	// Step 1: Resolve the project and its owning customer
	project, err := s.projects.GetByID(ctx, params.ProjectID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project.CustomerID == "" {
		return nil, ErrCustomerNotFound
	}

	customer, err := s.customers.GetByID(ctx, project.CustomerID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	// Optional delayed first charge. Only a strictly future date becomes
	// a billing anchor; past or unparsable dates are ignored and the
	// subscription bills immediately. The date is stored on the record
	// only when it actually anchored the first charge.
	var anchor *time.Time
	if params.FirstPaymentDate != "" {
		if parsed, perr := time.Parse(firstPaymentDateLayout, params.FirstPaymentDate); perr == nil && parsed.After(time.Now()) {
			anchor = &parsed
		}
	}

	// Step 2: Resolve prices and build the item list
	items, amount, interval, err := s.resolvePrices(ctx, params.PriceIDs)
	if err != nil {
		return nil, err
	}

	productName := items[0].ProductName
	if len(items) > 1 {
		productName = fmt.Sprintf("Bundle (%d items)", len(items))
	}

	// Step 3: Ensure the customer has a processor account
	processorCustomerID, err := s.ensureProcessorCustomer(ctx, customer)
	if err != nil {
		return nil, err
	}

	// Step 4: Create the processor subscription. A stale customer
	// reference is recovered exactly once with a fresh account.
	createParams := billing.CreateSubscriptionParams{
		CustomerID:         processorCustomerID,
		PriceIDs:           params.PriceIDs,
		BillingCycleAnchor: anchor,
		Metadata: map[string]string{
			"project_id":  project.ID,
			"customer_id": customer.ID,
		},
	}

	procSub, err := s.processor.CreateSubscription(ctx, createParams)
	if err != nil && billing.IsStaleCustomer(err) {
		s.logger.Warn().
			Str("customer_id", customer.ID).
			Str("processor_customer_id", processorCustomerID).
			Msg("processor customer is stale, recreating")

		processorCustomerID, err = s.createProcessorCustomer(ctx, customer)
		if err != nil {
			return nil, err
		}
		createParams.CustomerID = processorCustomerID
		procSub, err = s.processor.CreateSubscription(ctx, createParams)
	}
	if err != nil {
		return nil, processorFailure(op, err)
	}

	// Step 5: Persist the local record
	status, cancelAtPeriodEnd := derivedState(procSub)
	sub := &domain.RecurringSubscription{
		ProjectID:               project.ID,
		CustomerID:              customer.ID,
		ProcessorSubscriptionID: procSub.ID,
		Items:                   items,
		ProductName:             productName,
		Amount:                  amount,
		Interval:                interval,
		BillingDay:              clampBillingDay(params.BillingDay),
		FirstPaymentDate:        anchor,
		CancelAtPeriodEnd:       cancelAtPeriodEnd,
		Status:                  status,
	}

	created, err := s.subs.Create(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to persist subscription: %w", err)
	}

	s.publish(events.SubjectSubscriptionCreated, created)
	s.logger.Info().
		Str("subscription_id", created.ID).
		Str("processor_subscription_id", created.ProcessorSubscriptionID).
		Str("status", string(created.Status)).
		Msg("subscription created")

	return created, nil
}

// GetSubscription retrieves one subscription, reconciled against the processor.
func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*domain.RecurringSubscription, error) {
	if s.processor == nil {
		return nil, ErrProcessorUnavailable
	}

	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return s.reconcile(ctx, sub)
}

// ListSubscriptions retrieves subscriptions, reconciling every matching
// record before applying the canceled filter. Reconciliation happens even
// for records the filter will drop, so a subscription canceled processor-side
// converges on first read regardless of the filter.
func (s *subscriptionService) ListSubscriptions(ctx context.Context, filter domain.SubscriptionFilter) ([]domain.RecurringSubscription, error) {
	if s.processor == nil {
		return nil, ErrProcessorUnavailable
	}
	if filter.ProjectID == "" && filter.CustomerID == "" {
		return nil, ErrFilterRequired
	}

	subs, err := s.subs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	reconciled := make([]domain.RecurringSubscription, 0, len(subs))
	for i := range subs {
		current, err := s.reconcile(ctx, &subs[i])
		if err != nil {
			return nil, err
		}
		reconciled = append(reconciled, *current)
	}

	if filter.IncludeCanceled {
		return reconciled, nil
	}

	visible := make([]domain.RecurringSubscription, 0, len(reconciled))
	for _, sub := range reconciled {
		if sub.Status != domain.SubscriptionCanceled {
			visible = append(visible, sub)
		}
	}
	return visible, nil
}

// UpdateSubscription applies lifecycle changes. Mark-as-paid runs before
// any cancellation so one request can settle and close a subscription.
func (s *subscriptionService) UpdateSubscription(ctx context.Context, id string, params UpdateSubscriptionParams) (*domain.RecurringSubscription, error) {
	const op = "subscription.update"

	if s.processor == nil {
		return nil, ErrProcessorUnavailable
	}

	sub, err := s.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.MarkAsPaid {
		if err := s.markLatestInvoicePaid(ctx, sub); err != nil {
			return nil, err
		}
		// Settling the invoice can move the subscription out of
		// incomplete/past_due. Re-derive local state from the processor.
		sub, err = s.reconcile(ctx, sub)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case params.CancelImmediately:
		// Idempotent: canceling an already canceled subscription is a no-op.
		if sub.Status == domain.SubscriptionCanceled {
			return sub, nil
		}

		procSub, err := s.processor.CancelSubscription(ctx, sub.ProcessorSubscriptionID)
		if err != nil {
			return nil, processorFailure(op, err)
		}

		status, flag := derivedState(procSub)
		sub, err = s.subs.UpdateStatus(ctx, sub.ID, status, flag)
		if err != nil {
			return nil, fmt.Errorf("failed to persist cancellation: %w", err)
		}

		s.publish(events.SubjectSubscriptionCanceled, sub)
		s.logger.Info().Str("subscription_id", sub.ID).Msg("subscription canceled")

	case params.CancelAtPeriodEnd != nil:
		if sub.Status == domain.SubscriptionCanceled {
			return sub, nil
		}

		procSub, err := s.processor.SetCancelAtPeriodEnd(ctx, sub.ProcessorSubscriptionID, *params.CancelAtPeriodEnd)
		if err != nil {
			return nil, processorFailure(op, err)
		}

		status, flag := derivedState(procSub)
		sub, err = s.subs.UpdateStatus(ctx, sub.ID, status, flag)
		if err != nil {
			return nil, fmt.Errorf("failed to persist cancellation flag: %w", err)
		}
	}

	return sub, nil
}

// resolvePrices fetches each price, verifies it is recurring, and returns
// the item list, the bundle amount in major units, and the shared interval.
func (s *subscriptionService) resolvePrices(ctx context.Context, priceIDs []string) ([]domain.SubscriptionItem, float64, string, error) {
	const op = "subscription.create"

	var items []domain.SubscriptionItem
	var amount float64
	var interval string

	for _, priceID := range priceIDs {
		price, err := s.processor.GetPrice(ctx, priceID)
		if err != nil {
			if isMissingResource(err) {
				return nil, 0, "", ErrInvalidPrice
			}
			return nil, 0, "", processorFailure(op, err)
		}
		if !price.Recurring {
			return nil, 0, "", ErrInvalidPrice
		}

		if interval == "" {
			interval = price.Interval
		} else if interval != price.Interval {
			return nil, 0, "", ErrMixedIntervals
		}

		productName := ""
		if price.ProductID != "" {
			product, err := s.processor.GetProduct(ctx, price.ProductID)
			if err == nil {
				productName = product.Name
			}
		}

		items = append(items, domain.SubscriptionItem{
			PriceID:     price.ID,
			ProductID:   price.ProductID,
			ProductName: productName,
			Amount:      float64(price.UnitAmount) / 100,
			Interval:    price.Interval,
		})
		amount += float64(price.UnitAmount) / 100
	}

	return items, amount, interval, nil
}

// ensureProcessorCustomer returns the customer's processor account id,
// creating a fresh account when none exists or the stored reference is
// stale (deleted processor-side).
func (s *subscriptionService) ensureProcessorCustomer(ctx context.Context, customer *domain.Customer) (string, error) {
	const op = "subscription.bind_customer"

	if customer.ProcessorCustomerID != "" {
		procCustomer, err := s.processor.GetCustomer(ctx, customer.ProcessorCustomerID)
		if err == nil && !procCustomer.Deleted {
			return procCustomer.ID, nil
		}
		if err != nil && !billing.IsStaleCustomer(err) {
			return "", processorFailure(op, err)
		}

		s.logger.Warn().
			Str("customer_id", customer.ID).
			Str("processor_customer_id", customer.ProcessorCustomerID).
			Msg("stored processor customer missing, creating a new account")
	}

	return s.createProcessorCustomer(ctx, customer)
}

// createProcessorCustomer creates a processor account and stores the
// reference locally before returning.
func (s *subscriptionService) createProcessorCustomer(ctx context.Context, customer *domain.Customer) (string, error) {
	const op = "subscription.bind_customer"

	procCustomer, err := s.processor.CreateCustomer(ctx, billing.CreateCustomerParams{
		Email: customer.Email,
		Name:  customer.Name,
		Metadata: map[string]string{
			"customer_id": customer.ID,
		},
	})
	if err != nil {
		return "", processorFailure(op, err)
	}

	if err := s.customers.SetProcessorCustomerID(ctx, customer.ID, procCustomer.ID); err != nil {
		return "", fmt.Errorf("failed to store processor customer id: %w", err)
	}

	return procCustomer.ID, nil
}

// reconcile pulls the processor state for one subscription and persists
// the mapped status when it drifted. A processor fetch failure marks the
// record canceled so a vanished subscription cannot keep billing.
func (s *subscriptionService) reconcile(ctx context.Context, sub *domain.RecurringSubscription) (*domain.RecurringSubscription, error) {
	status := domain.SubscriptionCanceled
	cancelAtPeriodEnd := false

	procSub, err := s.processor.GetSubscription(ctx, sub.ProcessorSubscriptionID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("subscription_id", sub.ID).
			Str("processor_subscription_id", sub.ProcessorSubscriptionID).
			Msg("processor lookup failed, marking subscription canceled")
	} else {
		status, cancelAtPeriodEnd = derivedState(procSub)
	}

	if status == sub.Status && cancelAtPeriodEnd == sub.CancelAtPeriodEnd {
		return sub, nil
	}

	updated, err := s.subs.UpdateStatus(ctx, sub.ID, status, cancelAtPeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to persist reconciled status: %w", err)
	}

	s.publish(events.SubjectSubscriptionStatus, updated)
	s.logger.Info().
		Str("subscription_id", updated.ID).
		Str("from", string(sub.Status)).
		Str("to", string(updated.Status)).
		Msg("subscription status reconciled")

	return updated, nil
}

// markLatestInvoicePaid settles the subscription's latest invoice without
// charging a payment method. Draft invoices are finalized first.
func (s *subscriptionService) markLatestInvoicePaid(ctx context.Context, sub *domain.RecurringSubscription) error {
	const op = "subscription.mark_paid"

	invoice, err := s.processor.GetLatestInvoice(ctx, sub.ProcessorSubscriptionID)
	if err != nil {
		if errors.Is(err, billing.ErrNoInvoice) {
			return ErrNoInvoice
		}
		return processorFailure(op, err)
	}

	switch invoice.Status {
	case billing.InvoiceStatusPaid:
		return ErrAlreadyPaid
	case billing.InvoiceStatusDraft:
		invoice, err = s.processor.FinalizeInvoice(ctx, invoice.ID)
		if err != nil {
			return processorFailure(op, err)
		}
	case billing.InvoiceStatusOpen:
		// payable as-is
	default:
		return ErrInvalidInvoiceState
	}

	paid, err := s.processor.PayInvoiceOutOfBand(ctx, invoice.ID)
	if err != nil {
		return processorFailure(op, err)
	}

	s.publish(events.SubjectInvoicePaid, map[string]string{
		"subscription_id": sub.ID,
		"invoice_id":      paid.ID,
	})
	s.logger.Info().
		Str("subscription_id", sub.ID).
		Str("invoice_id", paid.ID).
		Msg("invoice marked paid out of band")

	return nil
}

// publish emits an event; failures are logged and never fail the operation.
func (s *subscriptionService) publish(subject string, payload interface{}) {
	if err := s.publisher.Publish(subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}

// derivedState maps a processor subscription to the local status and
// cancellation flag. A canceled subscription has nothing left to cancel
// at period end, so the flag is cleared regardless of what the
// processor reports.
func derivedState(procSub *billing.Subscription) (domain.SubscriptionStatus, bool) {
	status := billing.MapStatus(procSub.Status)
	if status == domain.SubscriptionCanceled {
		return status, false
	}
	return status, procSub.CancelAtPeriodEnd
}

// clampBillingDay normalizes the preferred billing day into [1, 28].
// Zero means unset and defaults to 1.
func clampBillingDay(day int32) int32 {
	if day < 1 {
		return 1
	}
	if day > 28 {
		return 28
	}
	return day
}

// processorFailure wraps a processor error as unavailable so callers get
// a 503 rather than a generic 500.
func processorFailure(op string, err error) error {
	return domain.WrapError(err, domain.EUNAVAILABLE, op, "payment processor request failed")
}

// isMissingResource reports whether err is a processor resource_missing
// rejection rather than a transport failure.
func isMissingResource(err error) bool {
	var procErr *billing.ProcessorError
	return errors.As(err, &procErr) && procErr.Code == "resource_missing"
}
