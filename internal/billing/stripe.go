package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
)

// StripeProcessor implements Processor using the Stripe API.
type StripeProcessor struct {
	client *stripe.Client
	config StripeConfig
}

// Compile-time check to ensure StripeProcessor implements Processor.
var _ Processor = (*StripeProcessor)(nil)

// NewStripeProcessor creates a new Stripe processor.
func NewStripeProcessor(config StripeConfig) (*StripeProcessor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.TimeoutSeconds == 0 {
		config.TimeoutSeconds = 30
	}

	return &StripeProcessor{
		client: stripe.NewClient(config.APIKey),
		config: config,
	}, nil
}

// Config returns the processor configuration.
func (p *StripeProcessor) Config() StripeConfig {
	return p.config
}

// CreateCustomer creates a Stripe customer account.
func (p *StripeProcessor) CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error) {
	createParams := &stripe.CustomerCreateParams{
		Email:    stripe.String(params.Email),
		Name:     stripe.String(params.Name),
		Metadata: params.Metadata,
	}

	cus, err := p.client.V1Customers.Create(ctx, createParams)
	if err != nil {
		return nil, wrapStripeErr(err, "create customer")
	}

	return mapCustomer(cus), nil
}

// GetCustomer retrieves a Stripe customer account.
func (p *StripeProcessor) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	cus, err := p.client.V1Customers.Retrieve(ctx, customerID, nil)
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
		}
		return nil, wrapStripeErr(err, "get customer")
	}

	return mapCustomer(cus), nil
}

// GetPrice retrieves a Stripe price.
func (p *StripeProcessor) GetPrice(ctx context.Context, priceID string) (*Price, error) {
	price, err := p.client.V1Prices.Retrieve(ctx, priceID, nil)
	if err != nil {
		return nil, wrapStripeErr(err, "get price")
	}

	result := &Price{
		ID:         price.ID,
		Currency:   string(price.Currency),
		UnitAmount: price.UnitAmount,
	}
	if price.Product != nil {
		result.ProductID = price.Product.ID
	}
	if price.Recurring != nil {
		result.Recurring = true
		result.Interval = string(price.Recurring.Interval)
	}

	return result, nil
}

// GetProduct retrieves a Stripe product.
func (p *StripeProcessor) GetProduct(ctx context.Context, productID string) (*Product, error) {
	product, err := p.client.V1Products.Retrieve(ctx, productID, nil)
	if err != nil {
		return nil, wrapStripeErr(err, "get product")
	}

	return &Product{ID: product.ID, Name: product.Name}, nil
}

// CreateSubscription creates a Stripe subscription bundling one line item
// per price id. payment_behavior=default_incomplete keeps creation from
// failing when the first invoice cannot yet be paid.
func (p *StripeProcessor) CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*Subscription, error) {
	createParams := &stripe.SubscriptionCreateParams{
		Customer:        stripe.String(params.CustomerID),
		PaymentBehavior: stripe.String("default_incomplete"),
		Metadata:        params.Metadata,
		Expand:          []*string{stripe.String("latest_invoice")},
	}
	for _, priceID := range params.PriceIDs {
		createParams.Items = append(createParams.Items, &stripe.SubscriptionCreateItemParams{
			Price: stripe.String(priceID),
		})
	}
	if params.BillingCycleAnchor != nil {
		createParams.BillingCycleAnchor = stripe.Int64(params.BillingCycleAnchor.Unix())
		createParams.ProrationBehavior = stripe.String("none")
	}

	sub, err := p.client.V1Subscriptions.Create(ctx, createParams)
	if err != nil {
		if isResourceMissingParam(err, "customer") {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, params.CustomerID)
		}
		return nil, wrapStripeErr(err, "create subscription")
	}

	return mapSubscription(sub), nil
}

// GetSubscription retrieves a Stripe subscription with its latest invoice.
func (p *StripeProcessor) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	retrieveParams := &stripe.SubscriptionRetrieveParams{
		Expand: []*string{stripe.String("latest_invoice")},
	}

	sub, err := p.client.V1Subscriptions.Retrieve(ctx, subscriptionID, retrieveParams)
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, subscriptionID)
		}
		return nil, wrapStripeErr(err, "get subscription")
	}

	return mapSubscription(sub), nil
}

// SetCancelAtPeriodEnd flags or unflags end-of-period cancellation.
func (p *StripeProcessor) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*Subscription, error) {
	sub, err := p.client.V1Subscriptions.Update(ctx, subscriptionID, &stripe.SubscriptionUpdateParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	})
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, subscriptionID)
		}
		return nil, wrapStripeErr(err, "update subscription")
	}

	return mapSubscription(sub), nil
}

// CancelSubscription cancels a Stripe subscription immediately.
func (p *StripeProcessor) CancelSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	sub, err := p.client.V1Subscriptions.Cancel(ctx, subscriptionID, nil)
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, subscriptionID)
		}
		return nil, wrapStripeErr(err, "cancel subscription")
	}

	return mapSubscription(sub), nil
}

// GetLatestInvoice resolves the subscription's latest invoice.
func (p *StripeProcessor) GetLatestInvoice(ctx context.Context, subscriptionID string) (*Invoice, error) {
	retrieveParams := &stripe.SubscriptionRetrieveParams{
		Expand: []*string{stripe.String("latest_invoice")},
	}

	sub, err := p.client.V1Subscriptions.Retrieve(ctx, subscriptionID, retrieveParams)
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, subscriptionID)
		}
		return nil, wrapStripeErr(err, "get subscription")
	}
	if sub.LatestInvoice == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoInvoice, subscriptionID)
	}

	return &Invoice{ID: sub.LatestInvoice.ID, Status: string(sub.LatestInvoice.Status)}, nil
}

// FinalizeInvoice finalizes a draft Stripe invoice.
func (p *StripeProcessor) FinalizeInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	inv, err := p.client.V1Invoices.FinalizeInvoice(ctx, invoiceID, nil)
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, invoiceID)
		}
		return nil, wrapStripeErr(err, "finalize invoice")
	}

	return &Invoice{ID: inv.ID, Status: string(inv.Status)}, nil
}

// PayInvoiceOutOfBand marks an invoice paid without attempting a charge.
func (p *StripeProcessor) PayInvoiceOutOfBand(ctx context.Context, invoiceID string) (*Invoice, error) {
	inv, err := p.client.V1Invoices.Pay(ctx, invoiceID, &stripe.InvoicePayParams{
		PaidOutOfBand: stripe.Bool(true),
	})
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, invoiceID)
		}
		return nil, wrapStripeErr(err, "pay invoice")
	}

	return &Invoice{ID: inv.ID, Status: string(inv.Status)}, nil
}

func mapCustomer(cus *stripe.Customer) *Customer {
	return &Customer{
		ID:      cus.ID,
		Email:   cus.Email,
		Name:    cus.Name,
		Deleted: cus.Deleted,
	}
}

func mapSubscription(sub *stripe.Subscription) *Subscription {
	result := &Subscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		CreatedAt:         time.Unix(sub.Created, 0).UTC(),
	}
	if sub.Customer != nil {
		result.CustomerID = sub.Customer.ID
	}
	if sub.LatestInvoice != nil {
		result.LatestInvoiceID = sub.LatestInvoice.ID
	}
	return result
}

// isResourceMissing reports whether err is a Stripe resource_missing error.
func isResourceMissing(err error) bool {
	var sErr *stripe.Error
	return errors.As(err, &sErr) && sErr.Code == stripe.ErrorCodeResourceMissing
}

// isResourceMissingParam reports whether err is a resource_missing error
// for the given request parameter. Subscription creation against a deleted
// customer fails this way with param "customer".
func isResourceMissingParam(err error, param string) bool {
	var sErr *stripe.Error
	return errors.As(err, &sErr) && sErr.Code == stripe.ErrorCodeResourceMissing && sErr.Param == param
}

func wrapStripeErr(err error, op string) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		return &ProcessorError{
			Message:       fmt.Sprintf("%s: %s", op, sErr.Msg),
			Code:          string(sErr.Code),
			Param:         sErr.Param,
			RequestID:     sErr.RequestID,
			OriginalError: err,
		}
	}
	return fmt.Errorf("processor: %s: %w", op, err)
}
