package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockProcessor is a mock payment processor for testing.
// Simulates subscription and invoice flows without calling the Stripe API.
type MockProcessor struct {
	// CreateCustomerFunc allows customizing customer creation behavior
	CreateCustomerFunc func(ctx context.Context, params CreateCustomerParams) (*Customer, error)

	// GetCustomerFunc allows customizing customer retrieval behavior
	GetCustomerFunc func(ctx context.Context, customerID string) (*Customer, error)

	// GetPriceFunc allows customizing price retrieval behavior
	GetPriceFunc func(ctx context.Context, priceID string) (*Price, error)

	// GetProductFunc allows customizing product retrieval behavior
	GetProductFunc func(ctx context.Context, productID string) (*Product, error)

	// CreateSubscriptionFunc allows customizing subscription creation behavior
	CreateSubscriptionFunc func(ctx context.Context, params CreateSubscriptionParams) (*Subscription, error)

	// GetSubscriptionFunc allows customizing subscription retrieval behavior
	GetSubscriptionFunc func(ctx context.Context, subscriptionID string) (*Subscription, error)

	// CancelSubscriptionFunc allows customizing immediate cancellation behavior
	CancelSubscriptionFunc func(ctx context.Context, subscriptionID string) (*Subscription, error)

	// Customers stores created customers for retrieval
	Customers map[string]*Customer

	// Prices stores registered prices for retrieval
	Prices map[string]*Price

	// Products stores registered products for retrieval
	Products map[string]*Product

	// Subscriptions stores created subscriptions for retrieval
	Subscriptions map[string]*Subscription

	// Invoices stores invoices keyed by invoice id
	Invoices map[string]*Invoice

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// Compile-time check to ensure MockProcessor implements Processor.
var _ Processor = (*MockProcessor)(nil)

// NewMockProcessor creates a new mock payment processor.
func NewMockProcessor() *MockProcessor {
	return &MockProcessor{
		Customers:     make(map[string]*Customer),
		Prices:        make(map[string]*Price),
		Products:      make(map[string]*Product),
		Subscriptions: make(map[string]*Subscription),
		Invoices:      make(map[string]*Invoice),
		CallLog:       []string{},
	}
}

// CreateCustomer creates a mock customer.
func (m *MockProcessor) CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreateCustomer(%s)", params.Email))

	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(ctx, params)
	}

	customer := &Customer{
		ID:    "cus_" + uuid.New().String()[:8],
		Email: params.Email,
		Name:  params.Name,
	}

	m.Customers[customer.ID] = customer
	return customer, nil
}

// GetCustomer retrieves a mock customer.
func (m *MockProcessor) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetCustomer(%s)", customerID))

	if m.GetCustomerFunc != nil {
		return m.GetCustomerFunc(ctx, customerID)
	}

	customer, exists := m.Customers[customerID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}
	return customer, nil
}

// GetPrice retrieves a registered mock price.
func (m *MockProcessor) GetPrice(ctx context.Context, priceID string) (*Price, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetPrice(%s)", priceID))

	if m.GetPriceFunc != nil {
		return m.GetPriceFunc(ctx, priceID)
	}

	price, exists := m.Prices[priceID]
	if !exists {
		return nil, &ProcessorError{Message: "no such price: " + priceID, Code: "resource_missing"}
	}
	return price, nil
}

// GetProduct retrieves a registered mock product.
func (m *MockProcessor) GetProduct(ctx context.Context, productID string) (*Product, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetProduct(%s)", productID))

	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, productID)
	}

	product, exists := m.Products[productID]
	if !exists {
		return nil, &ProcessorError{Message: "no such product: " + productID, Code: "resource_missing"}
	}
	return product, nil
}

// CreateSubscription creates a mock subscription with an open invoice.
func (m *MockProcessor) CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*Subscription, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreateSubscription(%s, %d items)", params.CustomerID, len(params.PriceIDs)))

	if m.CreateSubscriptionFunc != nil {
		return m.CreateSubscriptionFunc(ctx, params)
	}

	customer, exists := m.Customers[params.CustomerID]
	if !exists || customer.Deleted {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, params.CustomerID)
	}

	invoice := &Invoice{
		ID:     "in_" + uuid.New().String()[:8],
		Status: InvoiceStatusOpen,
	}
	m.Invoices[invoice.ID] = invoice

	sub := &Subscription{
		ID:              "sub_" + uuid.New().String()[:8],
		CustomerID:      params.CustomerID,
		Status:          "incomplete",
		LatestInvoiceID: invoice.ID,
		CreatedAt:       time.Now(),
	}

	m.Subscriptions[sub.ID] = sub
	return sub, nil
}

// GetSubscription retrieves a mock subscription.
func (m *MockProcessor) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetSubscription(%s)", subscriptionID))

	if m.GetSubscriptionFunc != nil {
		return m.GetSubscriptionFunc(ctx, subscriptionID)
	}

	sub, exists := m.Subscriptions[subscriptionID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, subscriptionID)
	}
	return sub, nil
}

// SetCancelAtPeriodEnd flags or unflags a mock subscription for end-of-period cancellation.
func (m *MockProcessor) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*Subscription, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("SetCancelAtPeriodEnd(%s, %t)", subscriptionID, cancel))

	sub, exists := m.Subscriptions[subscriptionID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, subscriptionID)
	}

	sub.CancelAtPeriodEnd = cancel
	return sub, nil
}

// CancelSubscription cancels a mock subscription immediately.
func (m *MockProcessor) CancelSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("CancelSubscription(%s)", subscriptionID))

	if m.CancelSubscriptionFunc != nil {
		return m.CancelSubscriptionFunc(ctx, subscriptionID)
	}

	sub, exists := m.Subscriptions[subscriptionID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, subscriptionID)
	}

	sub.Status = "canceled"
	return sub, nil
}

// GetLatestInvoice resolves the latest invoice of a mock subscription.
func (m *MockProcessor) GetLatestInvoice(ctx context.Context, subscriptionID string) (*Invoice, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetLatestInvoice(%s)", subscriptionID))

	sub, exists := m.Subscriptions[subscriptionID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, subscriptionID)
	}
	if sub.LatestInvoiceID == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoInvoice, subscriptionID)
	}

	invoice, exists := m.Invoices[sub.LatestInvoiceID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, sub.LatestInvoiceID)
	}
	return invoice, nil
}

// FinalizeInvoice finalizes a draft mock invoice.
func (m *MockProcessor) FinalizeInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("FinalizeInvoice(%s)", invoiceID))

	invoice, exists := m.Invoices[invoiceID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, invoiceID)
	}

	if invoice.Status == InvoiceStatusDraft {
		invoice.Status = InvoiceStatusOpen
	}
	return invoice, nil
}

// PayInvoiceOutOfBand marks a mock invoice paid without a charge.
func (m *MockProcessor) PayInvoiceOutOfBand(ctx context.Context, invoiceID string) (*Invoice, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("PayInvoiceOutOfBand(%s)", invoiceID))

	invoice, exists := m.Invoices[invoiceID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, invoiceID)
	}
	if invoice.Status != InvoiceStatusOpen {
		return nil, &ProcessorError{
			Message: "invoice must be open to be paid, current status: " + invoice.Status,
			Code:    "invoice_not_payable",
		}
	}

	invoice.Status = InvoiceStatusPaid

	// Paying the latest invoice activates a subscription that was blocked
	// on payment, matching Stripe behavior.
	for _, sub := range m.Subscriptions {
		if sub.LatestInvoiceID == invoiceID && (sub.Status == "incomplete" || sub.Status == "past_due") {
			sub.Status = "active"
		}
	}
	return invoice, nil
}

// RegisterPrice stores a price and its product for lookup.
// Used in tests to seed the catalog.
func (m *MockProcessor) RegisterPrice(price *Price, productName string) {
	m.Prices[price.ID] = price
	if price.ProductID != "" {
		m.Products[price.ProductID] = &Product{ID: price.ProductID, Name: productName}
	}
}

// SimulateStatus updates a subscription's processor-side status.
// Used in tests to simulate lifecycle transitions.
func (m *MockProcessor) SimulateStatus(subscriptionID string, status string) error {
	sub, exists := m.Subscriptions[subscriptionID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrSubscriptionNotFound, subscriptionID)
	}

	sub.Status = status
	return nil
}

// SimulateDeletedCustomer marks a customer as deleted on the processor side.
// The customer stays retrievable with Deleted set, matching Stripe behavior.
// Used in tests to exercise stale customer recovery.
func (m *MockProcessor) SimulateDeletedCustomer(customerID string) error {
	customer, exists := m.Customers[customerID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}

	customer.Deleted = true
	return nil
}
