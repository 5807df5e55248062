package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// CustomerStore implements domain.CustomerStore using PostgreSQL.
type CustomerStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure CustomerStore implements domain.CustomerStore.
var _ domain.CustomerStore = (*CustomerStore)(nil)

// NewCustomerStore creates a new CustomerStore instance.
func NewCustomerStore(pool *pgxpool.Pool) *CustomerStore {
	return &CustomerStore{pool: pool}
}

const customerColumns = `id, name, email, company, phone, processor_customer_id, created_at, updated_at`

// Create inserts a customer record.
func (s *CustomerStore) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	const op = "CustomerStore.Create"

	row := s.pool.QueryRow(ctx, `
		INSERT INTO customers (id, name, email, company, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+customerColumns,
		uuid.New().String(), c.Name, c.Email, c.Company, c.Phone,
	)

	created, err := scanCustomer(row)
	if err != nil {
		return nil, domain.Internal(err, op, "insert customer")
	}
	return created, nil
}

// GetByID retrieves a customer by id.
func (s *CustomerStore) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const op = "CustomerStore.GetByID"

	row := s.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)

	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err, op, "customer", id)
	}
	return c, nil
}

// List retrieves customers ordered by creation time, newest first.
func (s *CustomerStore) List(ctx context.Context, limit, offset int32) ([]domain.Customer, error) {
	const op = "CustomerStore.List"

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, domain.Internal(err, op, "list customers")
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "scan customer")
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "iterate customers")
	}

	return customers, nil
}

// Update applies the non-nil fields to a customer record.
func (s *CustomerStore) Update(ctx context.Context, id string, params domain.UpdateCustomerParams) (*domain.Customer, error) {
	const op = "CustomerStore.Update"

	row := s.pool.QueryRow(ctx, `
		UPDATE customers
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    company = COALESCE($4, company),
		    phone = COALESCE($5, phone),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+customerColumns,
		id, params.Name, params.Email, params.Company, params.Phone,
	)

	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err, op, "customer", id)
	}
	return c, nil
}

// SetProcessorCustomerID sets or clears the processor account reference.
func (s *CustomerStore) SetProcessorCustomerID(ctx context.Context, id, processorCustomerID string) error {
	const op = "CustomerStore.SetProcessorCustomerID"

	tag, err := s.pool.Exec(ctx, `
		UPDATE customers SET processor_customer_id = $2, updated_at = now() WHERE id = $1`,
		id, processorCustomerID)
	if err != nil {
		return domain.Internal(err, op, "update processor customer id")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(op, "customer", id)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone,
		&c.ProcessorCustomerID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
