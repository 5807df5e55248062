package domain

import (
	"context"
	"time"
)

// SubscriptionStatus is the local status vocabulary for recurring
// subscriptions. It is always derived from the processor's status on read
// and must never be treated as locally authoritative.
type SubscriptionStatus string

const (
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionTrialing   SubscriptionStatus = "trialing"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
)

// SubscriptionItem is one bundled product line in a recurring subscription.
// Amounts are in major currency units. Items are set once at creation and
// never mutated; changing a bundle means creating a new subscription.
type SubscriptionItem struct {
	PriceID     string  `json:"priceId"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Amount      float64 `json:"amount"`
	Interval    string  `json:"interval"`
}

// RecurringSubscription is the local record of one recurring billing
// arrangement. ProcessorSubscriptionID is the join key for all
// reconciliation and is set exactly once at creation.
type RecurringSubscription struct {
	ID                      string             `json:"id"`
	ProjectID               string             `json:"projectId"`
	CustomerID              string             `json:"customerId"`
	ProcessorSubscriptionID string             `json:"processorSubscriptionId"`
	Items                   []SubscriptionItem `json:"items"`
	ProductName             string             `json:"productName"`
	Amount                  float64            `json:"amount"`
	Interval                string             `json:"interval"`
	BillingDay              int32              `json:"billingDay"`
	FirstPaymentDate        *time.Time         `json:"firstPaymentDate,omitempty"`
	CancelAtPeriodEnd       bool               `json:"cancelAtPeriodEnd"`
	Status                  SubscriptionStatus `json:"status"`
	CreatedAt               time.Time          `json:"createdAt"`
	UpdatedAt               time.Time          `json:"updatedAt"`
}

// SubscriptionFilter selects subscriptions by project and/or customer.
// Canceled subscriptions are excluded unless IncludeCanceled is set.
type SubscriptionFilter struct {
	ProjectID       string
	CustomerID      string
	IncludeCanceled bool
}

// SubscriptionStore persists RecurringSubscription records.
// Rows are never physically deleted; cancellation is a terminal status.
type SubscriptionStore interface {
	Create(ctx context.Context, sub *RecurringSubscription) (*RecurringSubscription, error)
	GetByID(ctx context.Context, id string) (*RecurringSubscription, error)
	List(ctx context.Context, filter SubscriptionFilter) ([]RecurringSubscription, error)
	UpdateStatus(ctx context.Context, id string, status SubscriptionStatus, cancelAtPeriodEnd bool) (*RecurringSubscription, error)
}
