package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rthompsontouch/agencyops/internal/domain"
	"github.com/rthompsontouch/agencyops/internal/service"
)

// LeadHandler handles inbound lead endpoints.
type LeadHandler struct {
	svc    service.LeadService
	logger zerolog.Logger
}

// NewLeadHandler creates a new LeadHandler instance.
func NewLeadHandler(svc service.LeadService, logger zerolog.Logger) *LeadHandler {
	return &LeadHandler{
		svc:    svc,
		logger: logger.With().Str("handler", "lead").Logger(),
	}
}

// CreateLeadRequest is the POST /leads body.
type CreateLeadRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Create handles POST /leads.
func (h *LeadHandler) Create(c echo.Context) error {
	var req CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, h.logger, domain.Invalid("lead.create", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	lead, err := h.svc.CreateLead(c.Request().Context(), service.CreateLeadParams{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Source:  req.Source,
		Message: req.Message,
	})
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, lead)
}

// Get handles GET /leads/:id.
func (h *LeadHandler) Get(c echo.Context) error {
	lead, err := h.svc.GetLead(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, lead)
}

// List handles GET /leads?limit=&offset=.
func (h *LeadHandler) List(c echo.Context) error {
	limit, offset := pagination(c)

	leads, err := h.svc.ListLeads(c.Request().Context(), limit, offset)
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, leads)
}

// UpdateLeadRequest is the PATCH /leads/:id body.
type UpdateLeadRequest struct {
	Name    *string            `json:"name"`
	Email   *string            `json:"email" validate:"omitempty,email"`
	Company *string            `json:"company"`
	Phone   *string            `json:"phone"`
	Status  *domain.LeadStatus `json:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
}

// Update handles PATCH /leads/:id.
func (h *LeadHandler) Update(c echo.Context) error {
	var req UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, h.logger, domain.Invalid("lead.update", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	lead, err := h.svc.UpdateLead(c.Request().Context(), c.Param("id"), domain.UpdateLeadParams{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Status:  req.Status,
	})
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, lead)
}

// Convert handles POST /leads/:id/convert.
func (h *LeadHandler) Convert(c echo.Context) error {
	customer, err := h.svc.ConvertLead(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, customer)
}
