package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rthompsontouch/agencyops/internal/domain"
	"github.com/rthompsontouch/agencyops/internal/service"
)

// fakeSubscriptionService stubs the service layer for handler tests.
type fakeSubscriptionService struct {
	createFunc func(ctx context.Context, params service.CreateSubscriptionParams) (*domain.RecurringSubscription, error)
	listFunc   func(ctx context.Context, filter domain.SubscriptionFilter) ([]domain.RecurringSubscription, error)
	getFunc    func(ctx context.Context, id string) (*domain.RecurringSubscription, error)
	updateFunc func(ctx context.Context, id string, params service.UpdateSubscriptionParams) (*domain.RecurringSubscription, error)
}

var _ service.SubscriptionService = (*fakeSubscriptionService)(nil)

func (f *fakeSubscriptionService) CreateSubscription(ctx context.Context, params service.CreateSubscriptionParams) (*domain.RecurringSubscription, error) {
	return f.createFunc(ctx, params)
}

func (f *fakeSubscriptionService) GetSubscription(ctx context.Context, id string) (*domain.RecurringSubscription, error) {
	return f.getFunc(ctx, id)
}

func (f *fakeSubscriptionService) ListSubscriptions(ctx context.Context, filter domain.SubscriptionFilter) ([]domain.RecurringSubscription, error) {
	return f.listFunc(ctx, filter)
}

func (f *fakeSubscriptionService) UpdateSubscription(ctx context.Context, id string, params service.UpdateSubscriptionParams) (*domain.RecurringSubscription, error) {
	return f.updateFunc(ctx, id, params)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewRequestValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSubscriptionHandlerCreate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		var captured service.CreateSubscriptionParams
		svc := &fakeSubscriptionService{
			createFunc: func(ctx context.Context, params service.CreateSubscriptionParams) (*domain.RecurringSubscription, error) {
				captured = params
				return &domain.RecurringSubscription{ID: "sub-1", Status: domain.SubscriptionActive}, nil
			},
		}
		h := NewSubscriptionHandler(svc, zerolog.Nop())

		c, rec := newTestContext(http.MethodPost, "/subscriptions/create",
			`{"projectId":"p1","priceIds":["price_a"],"billingDay":15}`)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "p1", captured.ProjectID)
		assert.Equal(t, []string{"price_a"}, captured.PriceIDs)
		assert.Equal(t, int32(15), captured.BillingDay)
	})

	t.Run("single priceId normalizes to a list", func(t *testing.T) {
		var captured service.CreateSubscriptionParams
		svc := &fakeSubscriptionService{
			createFunc: func(ctx context.Context, params service.CreateSubscriptionParams) (*domain.RecurringSubscription, error) {
				captured = params
				return &domain.RecurringSubscription{ID: "sub-1", Status: domain.SubscriptionActive}, nil
			},
		}
		h := NewSubscriptionHandler(svc, zerolog.Nop())

		c, rec := newTestContext(http.MethodPost, "/subscriptions/create",
			`{"projectId":"p1","priceId":"price_a"}`)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, []string{"price_a"}, captured.PriceIDs)
	})

	t.Run("missing price ids rejected", func(t *testing.T) {
		h := NewSubscriptionHandler(&fakeSubscriptionService{}, zerolog.Nop())

		c, rec := newTestContext(http.MethodPost, "/subscriptions/create",
			`{"projectId":"p1"}`)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service errors map to status codes", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			status int
		}{
			{"invalid price", service.ErrInvalidPrice, http.StatusBadRequest},
			{"project missing", service.ErrProjectNotFound, http.StatusNotFound},
			{"processor down", service.ErrProcessorUnavailable, http.StatusServiceUnavailable},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &fakeSubscriptionService{
					createFunc: func(ctx context.Context, params service.CreateSubscriptionParams) (*domain.RecurringSubscription, error) {
						return nil, tt.err
					},
				}
				h := NewSubscriptionHandler(svc, zerolog.Nop())

				c, rec := newTestContext(http.MethodPost, "/subscriptions/create",
					`{"projectId":"p1","priceIds":["price_a"]}`)
				require.NoError(t, h.Create(c))
				assert.Equal(t, tt.status, rec.Code)
			})
		}
	})
}

func TestSubscriptionHandlerList(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var captured domain.SubscriptionFilter
		svc := &fakeSubscriptionService{
			listFunc: func(ctx context.Context, filter domain.SubscriptionFilter) ([]domain.RecurringSubscription, error) {
				captured = filter
				return []domain.RecurringSubscription{}, nil
			},
		}
		h := NewSubscriptionHandler(svc, zerolog.Nop())

		c, rec := newTestContext(http.MethodGet, "/subscriptions?projectId=p1&includeCanceled=true", "")
		require.NoError(t, h.List(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "p1", captured.ProjectID)
		assert.True(t, captured.IncludeCanceled)
	})

	t.Run("missing filter is a 400", func(t *testing.T) {
		svc := &fakeSubscriptionService{
			listFunc: func(ctx context.Context, filter domain.SubscriptionFilter) ([]domain.RecurringSubscription, error) {
				return nil, service.ErrFilterRequired
			},
		}
		h := NewSubscriptionHandler(svc, zerolog.Nop())

		c, rec := newTestContext(http.MethodGet, "/subscriptions", "")
		require.NoError(t, h.List(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubscriptionHandlerUpdate(t *testing.T) {
	t.Run("cancel flags pass through", func(t *testing.T) {
		var captured service.UpdateSubscriptionParams
		svc := &fakeSubscriptionService{
			updateFunc: func(ctx context.Context, id string, params service.UpdateSubscriptionParams) (*domain.RecurringSubscription, error) {
				captured = params
				return &domain.RecurringSubscription{ID: id, Status: domain.SubscriptionCanceled}, nil
			},
		}
		h := NewSubscriptionHandler(svc, zerolog.Nop())

		c, rec := newTestContext(http.MethodPatch, "/subscriptions/sub-1",
			`{"markAsPaid":true,"cancel":true,"cancelImmediately":true}`)
		c.SetParamNames("id")
		c.SetParamValues("sub-1")
		require.NoError(t, h.Update(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, captured.MarkAsPaid)
		assert.True(t, captured.CancelImmediately)
		require.NotNil(t, captured.CancelAtPeriodEnd)
		assert.True(t, *captured.CancelAtPeriodEnd)

		var body domain.RecurringSubscription
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, domain.SubscriptionCanceled, body.Status)
	})

	t.Run("mark paid on a settled invoice", func(t *testing.T) {
		svc := &fakeSubscriptionService{
			updateFunc: func(ctx context.Context, id string, params service.UpdateSubscriptionParams) (*domain.RecurringSubscription, error) {
				return nil, service.ErrAlreadyPaid
			},
		}
		h := NewSubscriptionHandler(svc, zerolog.Nop())

		c, rec := newTestContext(http.MethodPatch, "/subscriptions/sub-1", `{"markAsPaid":true}`)
		c.SetParamNames("id")
		c.SetParamValues("sub-1")
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
