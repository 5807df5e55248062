package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// ProjectStore implements domain.ProjectStore using PostgreSQL.
type ProjectStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure ProjectStore implements domain.ProjectStore.
var _ domain.ProjectStore = (*ProjectStore)(nil)

// NewProjectStore creates a new ProjectStore instance.
func NewProjectStore(pool *pgxpool.Pool) *ProjectStore {
	return &ProjectStore{pool: pool}
}

const projectColumns = `id, customer_id, title, description, status, one_time_cost, payment_status, created_at, updated_at`

// Create inserts a project record.
func (s *ProjectStore) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	const op = "ProjectStore.Create"

	status := p.Status
	if status == "" {
		status = "active"
	}
	paymentStatus := p.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = domain.ProjectPaymentUnpaid
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO projects (id, customer_id, title, description, status, one_time_cost, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+projectColumns,
		uuid.New().String(), p.CustomerID, p.Title, p.Description, status, p.OneTimeCost, paymentStatus,
	)

	created, err := scanProject(row)
	if err != nil {
		return nil, domain.Internal(err, op, "insert project")
	}
	return created, nil
}

// GetByID retrieves a project by id.
func (s *ProjectStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const op = "ProjectStore.GetByID"

	row := s.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)

	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, op, "project", id)
	}
	return p, nil
}

// ListByCustomer retrieves all projects for a customer, newest first.
func (s *ProjectStore) ListByCustomer(ctx context.Context, customerID string) ([]domain.Project, error) {
	const op = "ProjectStore.ListByCustomer"

	rows, err := s.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID)
	if err != nil {
		return nil, domain.Internal(err, op, "list projects")
	}
	defer rows.Close()

	return collectProjects(rows, op)
}

// List retrieves projects ordered by creation time, newest first.
func (s *ProjectStore) List(ctx context.Context, limit, offset int32) ([]domain.Project, error) {
	const op = "ProjectStore.List"

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, domain.Internal(err, op, "list projects")
	}
	defer rows.Close()

	return collectProjects(rows, op)
}

// Update applies the non-nil fields to a project record.
func (s *ProjectStore) Update(ctx context.Context, id string, params domain.UpdateProjectParams) (*domain.Project, error) {
	const op = "ProjectStore.Update"

	row := s.pool.QueryRow(ctx, `
		UPDATE projects
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    status = COALESCE($4, status),
		    one_time_cost = COALESCE($5, one_time_cost),
		    payment_status = COALESCE($6, payment_status),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+projectColumns,
		id, params.Title, params.Description, params.Status, params.OneTimeCost, params.PaymentStatus,
	)

	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, op, "project", id)
	}
	return p, nil
}

func collectProjects(rows pgx.Rows, op string) ([]domain.Project, error) {
	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "scan project")
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "iterate projects")
	}
	return projects, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.CustomerID, &p.Title, &p.Description, &p.Status,
		&p.OneTimeCost, &p.PaymentStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
