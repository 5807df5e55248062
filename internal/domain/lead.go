package domain

import (
	"context"
	"time"
)

// LeadStatus is the pipeline state of an inbound lead.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// Lead is an inbound prospect from the marketing site or a referral.
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Company   string     `json:"company"`
	Phone     string     `json:"phone"`
	Source    string     `json:"source"`
	Message   string     `json:"message"`
	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// UpdateLeadParams contains optional lead field updates.
type UpdateLeadParams struct {
	Name    *string
	Email   *string
	Company *string
	Phone   *string
	Status  *LeadStatus
}

// LeadStore persists Lead records.
type LeadStore interface {
	Create(ctx context.Context, l *Lead) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, limit, offset int32) ([]Lead, error)
	Update(ctx context.Context, id string, params UpdateLeadParams) (*Lead, error)
}
