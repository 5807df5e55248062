package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// DocumentStore implements domain.DocumentStore using PostgreSQL.
type DocumentStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure DocumentStore implements domain.DocumentStore.
var _ domain.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a new DocumentStore instance.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

const documentColumns = `id, project_id, customer_id, title, url, kind, created_at`

// Create inserts a document metadata record.
func (s *DocumentStore) Create(ctx context.Context, d *domain.Document) (*domain.Document, error) {
	const op = "DocumentStore.Create"

	row := s.pool.QueryRow(ctx, `
		INSERT INTO documents (id, project_id, customer_id, title, url, kind)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+documentColumns,
		uuid.New().String(), d.ProjectID, d.CustomerID, d.Title, d.URL, d.Kind,
	)

	created, err := scanDocument(row)
	if err != nil {
		return nil, domain.Internal(err, op, "insert document")
	}
	return created, nil
}

// GetByID retrieves a document by id.
func (s *DocumentStore) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	const op = "DocumentStore.GetByID"

	row := s.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)

	d, err := scanDocument(row)
	if err != nil {
		return nil, notFound(err, op, "document", id)
	}
	return d, nil
}

// ListByProject retrieves documents attached to a project, newest first.
func (s *DocumentStore) ListByProject(ctx context.Context, projectID string) ([]domain.Document, error) {
	const op = "DocumentStore.ListByProject"

	rows, err := s.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID)
	if err != nil {
		return nil, domain.Internal(err, op, "list documents")
	}
	defer rows.Close()

	return collectDocuments(rows, op)
}

// ListByCustomer retrieves documents shared with a customer, newest first.
func (s *DocumentStore) ListByCustomer(ctx context.Context, customerID string) ([]domain.Document, error) {
	const op = "DocumentStore.ListByCustomer"

	rows, err := s.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID)
	if err != nil {
		return nil, domain.Internal(err, op, "list documents")
	}
	defer rows.Close()

	return collectDocuments(rows, op)
}

func collectDocuments(rows pgx.Rows, op string) ([]domain.Document, error) {
	var documents []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "scan document")
		}
		documents = append(documents, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "iterate documents")
	}
	return documents, nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	err := row.Scan(
		&d.ID, &d.ProjectID, &d.CustomerID, &d.Title, &d.URL, &d.Kind, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
