package domain

import (
	"context"
	"time"
)

// Customer is a client of the agency. ProcessorCustomerID references the
// customer's account in the payment processor; it may be absent, and only
// the billing layer sets or clears it.
type Customer struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Company             string    `json:"company"`
	Phone               string    `json:"phone"`
	ProcessorCustomerID string    `json:"processorCustomerId,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// UpdateCustomerParams contains optional customer field updates.
// Nil fields are left unchanged.
type UpdateCustomerParams struct {
	Name    *string
	Email   *string
	Company *string
	Phone   *string
}

// CustomerStore persists Customer records.
type CustomerStore interface {
	Create(ctx context.Context, c *Customer) (*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, limit, offset int32) ([]Customer, error)
	Update(ctx context.Context, id string, params UpdateCustomerParams) (*Customer, error)

	// SetProcessorCustomerID sets or clears the processor account reference.
	// An empty id clears it.
	SetProcessorCustomerID(ctx context.Context, id, processorCustomerID string) error
}
