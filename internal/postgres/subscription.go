package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// SubscriptionStore implements domain.SubscriptionStore using PostgreSQL.
type SubscriptionStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure SubscriptionStore implements domain.SubscriptionStore.
var _ domain.SubscriptionStore = (*SubscriptionStore)(nil)

// NewSubscriptionStore creates a new SubscriptionStore instance.
func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	return &SubscriptionStore{pool: pool}
}

const subscriptionColumns = `id, project_id, customer_id, processor_subscription_id, items,
	product_name, amount, billing_interval, billing_day, first_payment_date,
	cancel_at_period_end, status, created_at, updated_at`

// Create inserts a subscription record. The id is generated here.
func (s *SubscriptionStore) Create(ctx context.Context, sub *domain.RecurringSubscription) (*domain.RecurringSubscription, error) {
	const op = "SubscriptionStore.Create"

	items, err := json.Marshal(sub.Items)
	if err != nil {
		return nil, domain.Internal(err, op, "marshal subscription items")
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO recurring_subscriptions (
			id, project_id, customer_id, processor_subscription_id, items,
			product_name, amount, billing_interval, billing_day, first_payment_date,
			cancel_at_period_end, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+subscriptionColumns,
		uuid.New().String(), sub.ProjectID, sub.CustomerID, sub.ProcessorSubscriptionID, items,
		sub.ProductName, sub.Amount, sub.Interval, sub.BillingDay, sub.FirstPaymentDate,
		sub.CancelAtPeriodEnd, sub.Status,
	)

	created, err := scanSubscription(row)
	if err != nil {
		return nil, domain.Internal(err, op, "insert subscription")
	}
	return created, nil
}

// GetByID retrieves a subscription by its local id.
func (s *SubscriptionStore) GetByID(ctx context.Context, id string) (*domain.RecurringSubscription, error) {
	const op = "SubscriptionStore.GetByID"

	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM recurring_subscriptions WHERE id = $1`, id)

	sub, err := scanSubscription(row)
	if err != nil {
		return nil, notFound(err, op, "subscription", id)
	}
	return sub, nil
}

// List retrieves subscriptions matching the filter, newest first.
// Status filtering by IncludeCanceled happens in the service layer after
// reconciliation, so every matching row is returned here.
func (s *SubscriptionStore) List(ctx context.Context, filter domain.SubscriptionFilter) ([]domain.RecurringSubscription, error) {
	const op = "SubscriptionStore.List"

	query := `SELECT ` + subscriptionColumns + ` FROM recurring_subscriptions WHERE 1=1`
	args := []interface{}{}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, op, "list subscriptions")
	}
	defer rows.Close()

	var subs []domain.RecurringSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "scan subscription")
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "iterate subscriptions")
	}

	return subs, nil
}

// UpdateStatus persists the reconciled status and cancellation flag.
func (s *SubscriptionStore) UpdateStatus(ctx context.Context, id string, status domain.SubscriptionStatus, cancelAtPeriodEnd bool) (*domain.RecurringSubscription, error) {
	const op = "SubscriptionStore.UpdateStatus"

	row := s.pool.QueryRow(ctx, `
		UPDATE recurring_subscriptions
		SET status = $2, cancel_at_period_end = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+subscriptionColumns,
		id, status, cancelAtPeriodEnd,
	)

	sub, err := scanSubscription(row)
	if err != nil {
		return nil, notFound(err, op, "subscription", id)
	}
	return sub, nil
}

func scanSubscription(row pgx.Row) (*domain.RecurringSubscription, error) {
	var sub domain.RecurringSubscription
	var items []byte

	err := row.Scan(
		&sub.ID, &sub.ProjectID, &sub.CustomerID, &sub.ProcessorSubscriptionID, &items,
		&sub.ProductName, &sub.Amount, &sub.Interval, &sub.BillingDay, &sub.FirstPaymentDate,
		&sub.CancelAtPeriodEnd, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &sub.Items); err != nil {
			return nil, fmt.Errorf("unmarshal subscription items: %w", err)
		}
	}

	return &sub, nil
}
