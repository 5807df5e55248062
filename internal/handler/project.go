package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rthompsontouch/agencyops/internal/domain"
	"github.com/rthompsontouch/agencyops/internal/service"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	svc    service.ProjectService
	logger zerolog.Logger
}

// NewProjectHandler creates a new ProjectHandler instance.
func NewProjectHandler(svc service.ProjectService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		svc:    svc,
		logger: logger.With().Str("handler", "project").Logger(),
	}
}

// CreateProjectRequest is the POST /projects body.
type CreateProjectRequest struct {
	CustomerID  string  `json:"customerId" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	OneTimeCost float64 `json:"oneTimeCost" validate:"gte=0"`
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(c echo.Context) error {
	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, h.logger, domain.Invalid("project.create", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	project, err := h.svc.CreateProject(c.Request().Context(), service.CreateProjectParams{
		CustomerID:  req.CustomerID,
		Title:       req.Title,
		Description: req.Description,
		OneTimeCost: req.OneTimeCost,
	})
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, project)
}

// Get handles GET /projects/:id.
func (h *ProjectHandler) Get(c echo.Context) error {
	project, err := h.svc.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, project)
}

// List handles GET /projects?customerId=&limit=&offset=.
func (h *ProjectHandler) List(c echo.Context) error {
	if customerID := c.QueryParam("customerId"); customerID != "" {
		projects, err := h.svc.ListProjectsForCustomer(c.Request().Context(), customerID)
		if err != nil {
			return ErrorResponse(c, h.logger, err)
		}
		return c.JSON(http.StatusOK, projects)
	}

	limit, offset := pagination(c)
	projects, err := h.svc.ListProjects(c.Request().Context(), limit, offset)
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, projects)
}

// UpdateProjectRequest is the PATCH /projects/:id body.
type UpdateProjectRequest struct {
	Title         *string                      `json:"title"`
	Description   *string                      `json:"description"`
	Status        *string                      `json:"status"`
	OneTimeCost   *float64                     `json:"oneTimeCost" validate:"omitempty,gte=0"`
	PaymentStatus *domain.ProjectPaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=unpaid partial paid"`
}

// Update handles PATCH /projects/:id.
func (h *ProjectHandler) Update(c echo.Context) error {
	var req UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, h.logger, domain.Invalid("project.update", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	project, err := h.svc.UpdateProject(c.Request().Context(), c.Param("id"), domain.UpdateProjectParams{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		OneTimeCost:   req.OneTimeCost,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, project)
}
