package service

import (
	"context"
	"fmt"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// ProjectService provides business logic for project operations.
type ProjectService interface {
	CreateProject(ctx context.Context, params CreateProjectParams) (*domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context, limit, offset int32) ([]domain.Project, error)
	ListProjectsForCustomer(ctx context.Context, customerID string) ([]domain.Project, error)
	UpdateProject(ctx context.Context, id string, params domain.UpdateProjectParams) (*domain.Project, error)
}

// CreateProjectParams contains parameters for creating a project.
type CreateProjectParams struct {
	CustomerID  string
	Title       string
	Description string
	OneTimeCost float64
}

// projectService implements ProjectService interface
type projectService struct {
	projects  domain.ProjectStore
	customers domain.CustomerStore
}

// NewProjectService creates a new ProjectService instance.
func NewProjectService(projects domain.ProjectStore, customers domain.CustomerStore) ProjectService {
	return &projectService{projects: projects, customers: customers}
}

// CreateProject creates a project for an existing customer.
func (s *projectService) CreateProject(ctx context.Context, params CreateProjectParams) (*domain.Project, error) {
	if _, err := s.customers.GetByID(ctx, params.CustomerID); err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	project, err := s.projects.Create(ctx, &domain.Project{
		CustomerID:  params.CustomerID,
		Title:       params.Title,
		Description: params.Description,
		OneTimeCost: params.OneTimeCost,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetProject retrieves a project by id.
func (s *projectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ListProjects retrieves projects, newest first.
func (s *projectService) ListProjects(ctx context.Context, limit, offset int32) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListProjectsForCustomer retrieves all projects for one customer.
func (s *projectService) ListProjectsForCustomer(ctx context.Context, customerID string) ([]domain.Project, error) {
	projects, err := s.projects.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProject applies partial updates to a project record.
func (s *projectService) UpdateProject(ctx context.Context, id string, params domain.UpdateProjectParams) (*domain.Project, error) {
	project, err := s.projects.Update(ctx, id, params)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}
