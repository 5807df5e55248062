package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rthompsontouch/agencyops/internal/billing"
	"github.com/rthompsontouch/agencyops/internal/domain"
	"github.com/rthompsontouch/agencyops/internal/events"
)

func TestCreateSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("single price", func(t *testing.T) {
		f := newSubscriptionFixture()

		sub, err := f.createSubscription()
		require.NoError(t, err)

		assert.Equal(t, f.project.ID, sub.ProjectID)
		assert.Equal(t, f.customer.ID, sub.CustomerID)
		assert.NotEmpty(t, sub.ProcessorSubscriptionID)
		assert.Equal(t, "Website retainer", sub.ProductName)
		assert.Equal(t, 499.0, sub.Amount)
		assert.Equal(t, "month", sub.Interval)
		assert.Equal(t, domain.SubscriptionIncomplete, sub.Status)
		require.Len(t, sub.Items, 1)
		assert.Equal(t, "price_monthly", sub.Items[0].PriceID)
	})

	t.Run("bundle of prices gets bundle label and summed amount", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.processor.RegisterPrice(&billing.Price{
			ID: "price_seo", ProductID: "prod_seo", Currency: "usd",
			UnitAmount: 15000, Recurring: true, Interval: "month",
		}, "SEO addon")

		sub, err := f.createSubscription("price_monthly", "price_seo")
		require.NoError(t, err)

		assert.Equal(t, "Bundle (2 items)", sub.ProductName)
		assert.Equal(t, 649.0, sub.Amount)
		assert.Len(t, sub.Items, 2)
	})

	t.Run("binds processor customer lazily", func(t *testing.T) {
		f := newSubscriptionFixture()

		_, err := f.createSubscription()
		require.NoError(t, err)

		stored, err := f.customers.GetByID(ctx, f.customer.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.ProcessorCustomerID)
	})

	t.Run("reuses existing processor customer", func(t *testing.T) {
		f := newSubscriptionFixture()

		_, err := f.createSubscription()
		require.NoError(t, err)
		first, _ := f.customers.GetByID(ctx, f.customer.ID)

		_, err = f.createSubscription()
		require.NoError(t, err)
		second, _ := f.customers.GetByID(ctx, f.customer.ID)

		assert.Equal(t, first.ProcessorCustomerID, second.ProcessorCustomerID)
	})

	t.Run("recreates stale processor customer and retries once", func(t *testing.T) {
		f := newSubscriptionFixture()

		_, err := f.createSubscription()
		require.NoError(t, err)
		before, _ := f.customers.GetByID(ctx, f.customer.ID)

		require.NoError(t, f.processor.SimulateDeletedCustomer(before.ProcessorCustomerID))

		sub, err := f.createSubscription()
		require.NoError(t, err)
		assert.NotEmpty(t, sub.ProcessorSubscriptionID)

		after, _ := f.customers.GetByID(ctx, f.customer.ID)
		assert.NotEqual(t, before.ProcessorCustomerID, after.ProcessorCustomerID)
	})

	t.Run("second stale-customer failure propagates", func(t *testing.T) {
		f := newSubscriptionFixture()
		attempts := 0
		f.processor.CreateSubscriptionFunc = func(ctx context.Context, params billing.CreateSubscriptionParams) (*billing.Subscription, error) {
			attempts++
			return nil, fmt.Errorf("%w: %s", billing.ErrCustomerNotFound, params.CustomerID)
		}

		_, err := f.createSubscription()
		require.Error(t, err)
		assert.True(t, billing.IsStaleCustomer(err))
		assert.Equal(t, 2, attempts)
	})

	t.Run("rejects non-recurring price", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.processor.RegisterPrice(&billing.Price{
			ID: "price_onetime", ProductID: "prod_setup", Currency: "usd",
			UnitAmount: 100000, Recurring: false,
		}, "Setup fee")

		_, err := f.createSubscription("price_onetime")
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("rejects unknown price", func(t *testing.T) {
		f := newSubscriptionFixture()

		_, err := f.createSubscription("price_nope")
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("rejects mixed billing intervals", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.processor.RegisterPrice(&billing.Price{
			ID: "price_yearly", ProductID: "prod_hosting", Currency: "usd",
			UnitAmount: 120000, Recurring: true, Interval: "year",
		}, "Hosting")

		_, err := f.createSubscription("price_monthly", "price_yearly")
		assert.ErrorIs(t, err, ErrMixedIntervals)
	})

	t.Run("rejects empty price list", func(t *testing.T) {
		f := newSubscriptionFixture()

		_, err := f.svc.CreateSubscription(ctx, CreateSubscriptionParams{
			ProjectID: f.project.ID,
		})
		assert.ErrorIs(t, err, ErrNoPrices)
	})

	t.Run("unknown project", func(t *testing.T) {
		f := newSubscriptionFixture()

		_, err := f.svc.CreateSubscription(ctx, CreateSubscriptionParams{
			ProjectID: "missing",
			PriceIDs:  []string{"price_monthly"},
		})
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("project whose customer is gone", func(t *testing.T) {
		f := newSubscriptionFixture()
		orphaned, err := f.projects.Create(ctx, &domain.Project{
			CustomerID: "missing",
			Title:      "Orphaned retainer",
		})
		require.NoError(t, err)

		_, err = f.svc.CreateSubscription(ctx, CreateSubscriptionParams{
			ProjectID: orphaned.ID,
			PriceIDs:  []string{"price_monthly"},
		})
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("nil processor", func(t *testing.T) {
		f := newSubscriptionFixture()
		svc := NewSubscriptionService(f.subs, f.customers, f.projects, nil, events.NoopPublisher{}, testLogger())

		_, err := svc.CreateSubscription(ctx, CreateSubscriptionParams{
			ProjectID: f.project.ID,
			PriceIDs:  []string{"price_monthly"},
		})
		assert.ErrorIs(t, err, ErrProcessorUnavailable)
	})
}

func TestCreateSubscriptionBillingDay(t *testing.T) {
	tests := []struct {
		name string
		day  int32
		want int32
	}{
		{"unset defaults to 1", 0, 1},
		{"negative clamps to 1", -3, 1},
		{"in range passes through", 15, 15},
		{"upper bound", 28, 28},
		{"past upper bound clamps to 28", 31, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubscriptionFixture()

			sub, err := f.svc.CreateSubscription(context.Background(), CreateSubscriptionParams{
				ProjectID:  f.project.ID,
				PriceIDs:   []string{"price_monthly"},
				BillingDay: tt.day,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, sub.BillingDay)
		})
	}
}

func TestCreateSubscriptionFirstPaymentDate(t *testing.T) {
	ctx := context.Background()

	// captureAnchor records the BillingCycleAnchor passed to the processor
	// while delegating to the default mock behavior.
	captureAnchor := func(f *subscriptionFixture) *[]*time.Time {
		var anchors []*time.Time
		f.processor.CreateSubscriptionFunc = func(ctx context.Context, params billing.CreateSubscriptionParams) (*billing.Subscription, error) {
			anchors = append(anchors, params.BillingCycleAnchor)
			f.processor.CreateSubscriptionFunc = nil
			return f.processor.CreateSubscription(ctx, params)
		}
		return &anchors
	}

	t.Run("future date sets anchor", func(t *testing.T) {
		f := newSubscriptionFixture()
		anchors := captureAnchor(f)
		future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

		sub, err := f.svc.CreateSubscription(ctx, CreateSubscriptionParams{
			ProjectID:        f.project.ID,
			PriceIDs:         []string{"price_monthly"},
			FirstPaymentDate: future,
		})
		require.NoError(t, err)
		require.NotNil(t, sub.FirstPaymentDate)

		require.Len(t, *anchors, 1)
		assert.NotNil(t, (*anchors)[0])
	})

	t.Run("past date bills immediately", func(t *testing.T) {
		f := newSubscriptionFixture()
		anchors := captureAnchor(f)

		sub, err := f.svc.CreateSubscription(ctx, CreateSubscriptionParams{
			ProjectID:        f.project.ID,
			PriceIDs:         []string{"price_monthly"},
			FirstPaymentDate: "2020-01-01",
		})
		require.NoError(t, err)
		assert.Nil(t, sub.FirstPaymentDate)

		require.Len(t, *anchors, 1)
		assert.Nil(t, (*anchors)[0])
	})

	t.Run("malformed date is ignored", func(t *testing.T) {
		f := newSubscriptionFixture()
		anchors := captureAnchor(f)

		sub, err := f.svc.CreateSubscription(ctx, CreateSubscriptionParams{
			ProjectID:        f.project.ID,
			PriceIDs:         []string{"price_monthly"},
			FirstPaymentDate: "01/02/2026",
		})
		require.NoError(t, err)
		assert.Nil(t, sub.FirstPaymentDate)

		require.Len(t, *anchors, 1)
		assert.Nil(t, (*anchors)[0])
	})
}

func TestGetSubscriptionReconciles(t *testing.T) {
	ctx := context.Background()

	t.Run("status drift is persisted", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()

		require.NoError(t, f.processor.SimulateStatus(sub.ProcessorSubscriptionID, "past_due"))

		got, err := f.svc.GetSubscription(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionPastDue, got.Status)

		stored, err := f.subs.GetByID(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionPastDue, stored.Status)
	})

	t.Run("no drift means no write", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()
		before := f.subs.UpdateStatusCalls

		_, err := f.svc.GetSubscription(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, before, f.subs.UpdateStatusCalls)
	})

	t.Run("processor fetch failure marks canceled", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()

		delete(f.processor.Subscriptions, sub.ProcessorSubscriptionID)

		got, err := f.svc.GetSubscription(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionCanceled, got.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newSubscriptionFixture()

		_, err := f.svc.GetSubscription(ctx, "missing")
		assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	})
}

func TestListSubscriptions(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a filter", func(t *testing.T) {
		f := newSubscriptionFixture()

		_, err := f.svc.ListSubscriptions(ctx, domain.SubscriptionFilter{})
		assert.ErrorIs(t, err, ErrFilterRequired)
	})

	t.Run("canceled excluded by default", func(t *testing.T) {
		f := newSubscriptionFixture()
		active := f.mustCreateSubscription()
		canceled := f.mustCreateSubscription()

		require.NoError(t, f.processor.SimulateStatus(active.ProcessorSubscriptionID, "active"))
		require.NoError(t, f.processor.SimulateStatus(canceled.ProcessorSubscriptionID, "canceled"))

		got, err := f.svc.ListSubscriptions(ctx, domain.SubscriptionFilter{ProjectID: f.project.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, active.ID, got[0].ID)
	})

	t.Run("includeCanceled returns everything", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.mustCreateSubscription()
		canceled := f.mustCreateSubscription()
		require.NoError(t, f.processor.SimulateStatus(canceled.ProcessorSubscriptionID, "canceled"))

		got, err := f.svc.ListSubscriptions(ctx, domain.SubscriptionFilter{
			ProjectID:       f.project.ID,
			IncludeCanceled: true,
		})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("filtered-out records still reconcile", func(t *testing.T) {
		f := newSubscriptionFixture()
		canceled := f.mustCreateSubscription()
		require.NoError(t, f.processor.SimulateStatus(canceled.ProcessorSubscriptionID, "canceled"))

		_, err := f.svc.ListSubscriptions(ctx, domain.SubscriptionFilter{ProjectID: f.project.ID})
		require.NoError(t, err)

		stored, err := f.subs.GetByID(ctx, canceled.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionCanceled, stored.Status)
	})
}

func TestUpdateSubscriptionCancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel immediately", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()

		got, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{CancelImmediately: true})
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionCanceled, got.Status)
		assert.False(t, got.CancelAtPeriodEnd)
	})

	t.Run("cancel at period end sets the flag", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()
		flag := true

		got, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{CancelAtPeriodEnd: &flag})
		require.NoError(t, err)
		assert.True(t, got.CancelAtPeriodEnd)
		assert.NotEqual(t, domain.SubscriptionCanceled, got.Status)
	})

	t.Run("cancel immediately wins over period end", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()
		flag := true

		got, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{
			CancelImmediately: true,
			CancelAtPeriodEnd: &flag,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionCanceled, got.Status)
	})

	t.Run("canceling an already canceled subscription is a no-op", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()

		_, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{CancelImmediately: true})
		require.NoError(t, err)
		callsBefore := len(f.processor.CallLog)

		got, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{CancelImmediately: true})
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionCanceled, got.Status)
		assert.False(t, got.CancelAtPeriodEnd)

		// Only the reconcile read may hit the processor, never a second cancel.
		for _, call := range f.processor.CallLog[callsBefore:] {
			assert.NotContains(t, call, "CancelSubscription")
		}
	})

	t.Run("period-end flag is cleared once the processor reports canceled", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()
		flag := true

		got, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{CancelAtPeriodEnd: &flag})
		require.NoError(t, err)
		require.True(t, got.CancelAtPeriodEnd)

		require.NoError(t, f.processor.SimulateStatus(sub.ProcessorSubscriptionID, "canceled"))

		got, err = f.svc.GetSubscription(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionCanceled, got.Status)
		assert.False(t, got.CancelAtPeriodEnd)
	})
}

func TestUpdateSubscriptionMarkAsPaid(t *testing.T) {
	ctx := context.Background()

	invoiceFor := func(f *subscriptionFixture, sub *domain.RecurringSubscription) *billing.Invoice {
		procSub := f.processor.Subscriptions[sub.ProcessorSubscriptionID]
		return f.processor.Invoices[procSub.LatestInvoiceID]
	}

	t.Run("pays an open invoice", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()

		_, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{MarkAsPaid: true})
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid, invoiceFor(f, sub).Status)
	})

	t.Run("payment activates an incomplete subscription", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()
		require.Equal(t, domain.SubscriptionIncomplete, sub.Status)

		got, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{MarkAsPaid: true})
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionActive, got.Status)

		stored, err := f.subs.GetByID(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionActive, stored.Status)
	})

	t.Run("finalizes a draft invoice first", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()
		invoiceFor(f, sub).Status = billing.InvoiceStatusDraft

		_, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{MarkAsPaid: true})
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid, invoiceFor(f, sub).Status)
	})

	t.Run("already paid invoice", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()
		invoiceFor(f, sub).Status = billing.InvoiceStatusPaid

		_, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{MarkAsPaid: true})
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("void invoice is not payable", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()
		invoiceFor(f, sub).Status = "void"

		_, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{MarkAsPaid: true})
		assert.ErrorIs(t, err, ErrInvalidInvoiceState)
	})

	t.Run("subscription without invoice", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()
		f.processor.Subscriptions[sub.ProcessorSubscriptionID].LatestInvoiceID = ""

		_, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{MarkAsPaid: true})
		assert.ErrorIs(t, err, ErrNoInvoice)
	})

	t.Run("mark paid then cancel in one request", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := f.mustCreateSubscription()

		got, err := f.svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionParams{
			MarkAsPaid:        true,
			CancelImmediately: true,
		})
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid, invoiceFor(f, sub).Status)
		assert.Equal(t, domain.SubscriptionCanceled, got.Status)
	})
}
