package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rthompsontouch/agencyops/internal/domain"
	"github.com/rthompsontouch/agencyops/internal/service"
)

// SubscriptionHandler handles recurring subscription endpoints.
type SubscriptionHandler struct {
	svc    service.SubscriptionService
	logger zerolog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler instance.
func NewSubscriptionHandler(svc service.SubscriptionService, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		svc:    svc,
		logger: logger.With().Str("handler", "subscription").Logger(),
	}
}

// CreateSubscriptionRequest is the POST /subscriptions/create body.
// Callers send either priceIds for a bundle or priceId for a single
// price; the two are normalized into one list.
type CreateSubscriptionRequest struct {
	ProjectID        string   `json:"projectId" validate:"required"`
	PriceIDs         []string `json:"priceIds" validate:"dive,required"`
	PriceID          string   `json:"priceId"`
	BillingDay       int32    `json:"billingDay"`
	FirstPaymentDate string   `json:"firstPaymentDate"`
}

// Create handles POST /subscriptions/create.
func (h *SubscriptionHandler) Create(c echo.Context) error {
	var req CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, h.logger, domain.Invalid("subscription.create", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	priceIDs := req.PriceIDs
	if len(priceIDs) == 0 && req.PriceID != "" {
		priceIDs = []string{req.PriceID}
	}
	if len(priceIDs) == 0 {
		return ErrorResponse(c, h.logger, domain.Invalid("subscription.create", "priceIds or priceId is required"))
	}

	sub, err := h.svc.CreateSubscription(c.Request().Context(), service.CreateSubscriptionParams{
		ProjectID:        req.ProjectID,
		PriceIDs:         priceIDs,
		BillingDay:       req.BillingDay,
		FirstPaymentDate: req.FirstPaymentDate,
	})
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, sub)
}

// List handles GET /subscriptions?projectId=&customerId=&includeCanceled=.
// At least one of projectId and customerId is required.
func (h *SubscriptionHandler) List(c echo.Context) error {
	filter := domain.SubscriptionFilter{
		ProjectID:       c.QueryParam("projectId"),
		CustomerID:      c.QueryParam("customerId"),
		IncludeCanceled: c.QueryParam("includeCanceled") == "true",
	}

	subs, err := h.svc.ListSubscriptions(c.Request().Context(), filter)
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, subs)
}

// Get handles GET /subscriptions/:id.
func (h *SubscriptionHandler) Get(c echo.Context) error {
	sub, err := h.svc.GetSubscription(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, sub)
}

// UpdateSubscriptionRequest is the PATCH /subscriptions/:id body.
// cancel flags or unflags end-of-period cancellation; cancelImmediately
// cancels now and wins when both are set. markAsPaid is applied before
// either cancellation mode.
type UpdateSubscriptionRequest struct {
	MarkAsPaid        bool  `json:"markAsPaid"`
	Cancel            *bool `json:"cancel"`
	CancelImmediately bool  `json:"cancelImmediately"`
}

// Update handles PATCH /subscriptions/:id.
func (h *SubscriptionHandler) Update(c echo.Context) error {
	var req UpdateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, h.logger, domain.Invalid("subscription.update", "invalid request body"))
	}

	sub, err := h.svc.UpdateSubscription(c.Request().Context(), c.Param("id"), service.UpdateSubscriptionParams{
		MarkAsPaid:        req.MarkAsPaid,
		CancelAtPeriodEnd: req.Cancel,
		CancelImmediately: req.CancelImmediately,
	})
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, sub)
}
