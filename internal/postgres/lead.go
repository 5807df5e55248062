package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// LeadStore implements domain.LeadStore using PostgreSQL.
type LeadStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure LeadStore implements domain.LeadStore.
var _ domain.LeadStore = (*LeadStore)(nil)

// NewLeadStore creates a new LeadStore instance.
func NewLeadStore(pool *pgxpool.Pool) *LeadStore {
	return &LeadStore{pool: pool}
}

const leadColumns = `id, name, email, company, phone, source, message, status, created_at, updated_at`

// Create inserts a lead record. New leads start in status "new".
func (s *LeadStore) Create(ctx context.Context, l *domain.Lead) (*domain.Lead, error) {
	const op = "LeadStore.Create"

	status := l.Status
	if status == "" {
		status = domain.LeadNew
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO leads (id, name, email, company, phone, source, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+leadColumns,
		uuid.New().String(), l.Name, l.Email, l.Company, l.Phone, l.Source, l.Message, status,
	)

	created, err := scanLead(row)
	if err != nil {
		return nil, domain.Internal(err, op, "insert lead")
	}
	return created, nil
}

// GetByID retrieves a lead by id.
func (s *LeadStore) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	const op = "LeadStore.GetByID"

	row := s.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	l, err := scanLead(row)
	if err != nil {
		return nil, notFound(err, op, "lead", id)
	}
	return l, nil
}

// List retrieves leads ordered by creation time, newest first.
func (s *LeadStore) List(ctx context.Context, limit, offset int32) ([]domain.Lead, error) {
	const op = "LeadStore.List"

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, domain.Internal(err, op, "list leads")
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "scan lead")
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "iterate leads")
	}

	return leads, nil
}

// Update applies the non-nil fields to a lead record.
func (s *LeadStore) Update(ctx context.Context, id string, params domain.UpdateLeadParams) (*domain.Lead, error) {
	const op = "LeadStore.Update"

	row := s.pool.QueryRow(ctx, `
		UPDATE leads
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    company = COALESCE($4, company),
		    phone = COALESCE($5, phone),
		    status = COALESCE($6, status),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, params.Name, params.Email, params.Company, params.Phone, params.Status,
	)

	l, err := scanLead(row)
	if err != nil {
		return nil, notFound(err, op, "lead", id)
	}
	return l, nil
}

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Company, &l.Phone,
		&l.Source, &l.Message, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
