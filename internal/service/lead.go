package service

import (
	"context"
	"fmt"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// LeadService provides business logic for inbound lead operations.
type LeadService interface {
	CreateLead(ctx context.Context, params CreateLeadParams) (*domain.Lead, error)
	GetLead(ctx context.Context, id string) (*domain.Lead, error)
	ListLeads(ctx context.Context, limit, offset int32) ([]domain.Lead, error)
	UpdateLead(ctx context.Context, id string, params domain.UpdateLeadParams) (*domain.Lead, error)

	// ConvertLead promotes a lead into a customer record and marks the
	// lead converted. Converting an already converted lead is an error.
	ConvertLead(ctx context.Context, id string) (*domain.Customer, error)
}

// CreateLeadParams contains parameters for creating a lead.
type CreateLeadParams struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Source  string
	Message string
}

// leadService implements LeadService interface
type leadService struct {
	leads     domain.LeadStore
	customers domain.CustomerStore
}

// NewLeadService creates a new LeadService instance.
func NewLeadService(leads domain.LeadStore, customers domain.CustomerStore) LeadService {
	return &leadService{leads: leads, customers: customers}
}

// CreateLead records an inbound lead in status "new".
func (s *leadService) CreateLead(ctx context.Context, params CreateLeadParams) (*domain.Lead, error) {
	lead, err := s.leads.Create(ctx, &domain.Lead{
		Name:    params.Name,
		Email:   params.Email,
		Company: params.Company,
		Phone:   params.Phone,
		Source:  params.Source,
		Message: params.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	return lead, nil
}

// GetLead retrieves a lead by id.
func (s *leadService) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// ListLeads retrieves leads, newest first.
func (s *leadService) ListLeads(ctx context.Context, limit, offset int32) ([]domain.Lead, error) {
	leads, err := s.leads.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// UpdateLead applies partial updates to a lead record.
func (s *leadService) UpdateLead(ctx context.Context, id string, params domain.UpdateLeadParams) (*domain.Lead, error) {
	lead, err := s.leads.Update(ctx, id, params)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	return lead, nil
}

// ConvertLead promotes a lead into a customer record.
func (s *leadService) ConvertLead(ctx context.Context, id string) (*domain.Customer, error) {
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == domain.LeadConverted {
		return nil, ErrLeadAlreadyConverted
	}

	customer, err := s.customers.Create(ctx, &domain.Customer{
		Name:    lead.Name,
		Email:   lead.Email,
		Company: lead.Company,
		Phone:   lead.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer from lead: %w", err)
	}

	converted := domain.LeadConverted
	if _, err := s.leads.Update(ctx, lead.ID, domain.UpdateLeadParams{Status: &converted}); err != nil {
		return nil, fmt.Errorf("failed to mark lead converted: %w", err)
	}

	return customer, nil
}
