package service

import (
	"context"
	"fmt"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// DocumentService provides business logic for document metadata records.
type DocumentService interface {
	CreateDocument(ctx context.Context, params CreateDocumentParams) (*domain.Document, error)
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	ListDocumentsForProject(ctx context.Context, projectID string) ([]domain.Document, error)
	ListDocumentsForCustomer(ctx context.Context, customerID string) ([]domain.Document, error)
}

// CreateDocumentParams contains parameters for creating a document record.
// At least one of ProjectID and CustomerID must be set.
type CreateDocumentParams struct {
	ProjectID  string
	CustomerID string
	Title      string
	URL        string
	Kind       string
}

// documentService implements DocumentService interface
type documentService struct {
	documents domain.DocumentStore
	projects  domain.ProjectStore
}

// NewDocumentService creates a new DocumentService instance.
func NewDocumentService(documents domain.DocumentStore, projects domain.ProjectStore) DocumentService {
	return &documentService{documents: documents, projects: projects}
}

// CreateDocument records document metadata. The blob itself lives in
// external storage; only the reference is kept.
func (s *documentService) CreateDocument(ctx context.Context, params CreateDocumentParams) (*domain.Document, error) {
	if params.ProjectID == "" && params.CustomerID == "" {
		return nil, domain.Invalid("document.create", "a project or customer reference is required")
	}

	if params.ProjectID != "" {
		if _, err := s.projects.GetByID(ctx, params.ProjectID); err != nil {
			if domain.IsCode(err, domain.ENOTFOUND) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to get project: %w", err)
		}
	}

	document, err := s.documents.Create(ctx, &domain.Document{
		ProjectID:  params.ProjectID,
		CustomerID: params.CustomerID,
		Title:      params.Title,
		URL:        params.URL,
		Kind:       params.Kind,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return document, nil
}

// GetDocument retrieves a document record by id.
func (s *documentService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return document, nil
}

// ListDocumentsForProject retrieves documents attached to a project.
func (s *documentService) ListDocumentsForProject(ctx context.Context, projectID string) ([]domain.Document, error) {
	documents, err := s.documents.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

// ListDocumentsForCustomer retrieves documents shared with a customer.
func (s *documentService) ListDocumentsForCustomer(ctx context.Context, customerID string) ([]domain.Document, error) {
	documents, err := s.documents.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}
