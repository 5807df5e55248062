package service

import (
	"context"
	"fmt"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// CustomerService provides business logic for customer operations.
type CustomerService interface {
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit, offset int32) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, params domain.UpdateCustomerParams) (*domain.Customer, error)
}

// CreateCustomerParams contains parameters for creating a customer.
type CreateCustomerParams struct {
	Name    string
	Email   string
	Company string
	Phone   string
}

// customerService implements CustomerService interface
type customerService struct {
	customers domain.CustomerStore
}

// NewCustomerService creates a new CustomerService instance.
func NewCustomerService(customers domain.CustomerStore) CustomerService {
	return &customerService{customers: customers}
}

// CreateCustomer creates a customer record. The processor account is not
// created here; it is bound lazily on first subscription.
func (s *customerService) CreateCustomer(ctx context.Context, params CreateCustomerParams) (*domain.Customer, error) {
	customer, err := s.customers.Create(ctx, &domain.Customer{
		Name:    params.Name,
		Email:   params.Email,
		Company: params.Company,
		Phone:   params.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// GetCustomer retrieves a customer by id.
func (s *customerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// ListCustomers retrieves customers, newest first.
func (s *customerService) ListCustomers(ctx context.Context, limit, offset int32) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomer applies partial updates to a customer record.
func (s *customerService) UpdateCustomer(ctx context.Context, id string, params domain.UpdateCustomerParams) (*domain.Customer, error) {
	customer, err := s.customers.Update(ctx, id, params)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}
