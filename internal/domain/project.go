package domain

import (
	"context"
	"time"
)

// ProjectPaymentStatus tracks the one-time billing state of a project.
// Independent of recurring subscription billing.
type ProjectPaymentStatus string

const (
	ProjectPaymentUnpaid  ProjectPaymentStatus = "unpaid"
	ProjectPaymentPartial ProjectPaymentStatus = "partial"
	ProjectPaymentPaid    ProjectPaymentStatus = "paid"
)

// Project is a unit of client work. Each project belongs to exactly one
// customer. OneTimeCost and PaymentStatus cover project-level one-time
// billing and are not touched by the subscription core.
type Project struct {
	ID            string               `json:"id"`
	CustomerID    string               `json:"customerId"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Status        string               `json:"status"`
	OneTimeCost   float64              `json:"oneTimeCost"`
	PaymentStatus ProjectPaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// UpdateProjectParams contains optional project field updates.
type UpdateProjectParams struct {
	Title         *string
	Description   *string
	Status        *string
	OneTimeCost   *float64
	PaymentStatus *ProjectPaymentStatus
}

// ProjectStore persists Project records.
type ProjectStore interface {
	Create(ctx context.Context, p *Project) (*Project, error)
	GetByID(ctx context.Context, id string) (*Project, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Project, error)
	List(ctx context.Context, limit, offset int32) ([]Project, error)
	Update(ctx context.Context, id string, params UpdateProjectParams) (*Project, error)
}
