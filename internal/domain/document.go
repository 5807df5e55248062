package domain

import (
	"context"
	"time"
)

// Document is a metadata record for a file shared with a client.
// Blob storage lives elsewhere; only the reference is kept here.
type Document struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId,omitempty"`
	CustomerID string    `json:"customerId,omitempty"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DocumentStore persists Document records.
type DocumentStore interface {
	Create(ctx context.Context, d *Document) (*Document, error)
	GetByID(ctx context.Context, id string) (*Document, error)
	ListByProject(ctx context.Context, projectID string) ([]Document, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Document, error)
}
