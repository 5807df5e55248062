package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rthompsontouch/agencyops/internal/domain"
	"github.com/rthompsontouch/agencyops/internal/service"
)

// CustomerHandler handles customer endpoints.
type CustomerHandler struct {
	svc    service.CustomerService
	logger zerolog.Logger
}

// NewCustomerHandler creates a new CustomerHandler instance.
func NewCustomerHandler(svc service.CustomerService, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{
		svc:    svc,
		logger: logger.With().Str("handler", "customer").Logger(),
	}
}

// CreateCustomerRequest is the POST /customers body.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, h.logger, domain.Invalid("customer.create", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	customer, err := h.svc.CreateCustomer(c.Request().Context(), service.CreateCustomerParams{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
	})
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, customer)
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	customer, err := h.svc.GetCustomer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, customer)
}

// List handles GET /customers?limit=&offset=.
func (h *CustomerHandler) List(c echo.Context) error {
	limit, offset := pagination(c)

	customers, err := h.svc.ListCustomers(c.Request().Context(), limit, offset)
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, customers)
}

// UpdateCustomerRequest is the PATCH /customers/:id body.
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
}

// Update handles PATCH /customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, h.logger, domain.Invalid("customer.update", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	customer, err := h.svc.UpdateCustomer(c.Request().Context(), c.Param("id"), domain.UpdateCustomerParams{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
	})
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, customer)
}

// pagination reads limit/offset query params with sane defaults.
func pagination(c echo.Context) (int32, int32) {
	limit := int32(50)
	offset := int32(0)
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 32); err == nil && v > 0 {
		limit = int32(v)
	}
	if v, err := strconv.ParseInt(c.QueryParam("offset"), 10, 32); err == nil && v >= 0 {
		offset = int32(v)
	}
	return limit, offset
}
