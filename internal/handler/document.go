package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rthompsontouch/agencyops/internal/domain"
	"github.com/rthompsontouch/agencyops/internal/service"
)

// DocumentHandler handles document metadata endpoints.
type DocumentHandler struct {
	svc    service.DocumentService
	logger zerolog.Logger
}

// NewDocumentHandler creates a new DocumentHandler instance.
func NewDocumentHandler(svc service.DocumentService, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		svc:    svc,
		logger: logger.With().Str("handler", "document").Logger(),
	}
}

// CreateDocumentRequest is the POST /documents body.
type CreateDocumentRequest struct {
	ProjectID  string `json:"projectId"`
	CustomerID string `json:"customerId"`
	Title      string `json:"title" validate:"required"`
	URL        string `json:"url" validate:"required,url"`
	Kind       string `json:"kind"`
}

// Create handles POST /documents.
func (h *DocumentHandler) Create(c echo.Context) error {
	var req CreateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, h.logger, domain.Invalid("document.create", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	document, err := h.svc.CreateDocument(c.Request().Context(), service.CreateDocumentParams{
		ProjectID:  req.ProjectID,
		CustomerID: req.CustomerID,
		Title:      req.Title,
		URL:        req.URL,
		Kind:       req.Kind,
	})
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, document)
}

// Get handles GET /documents/:id.
func (h *DocumentHandler) Get(c echo.Context) error {
	document, err := h.svc.GetDocument(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ErrorResponse(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, document)
}

// List handles GET /documents?projectId= or ?customerId=.
func (h *DocumentHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if projectID := c.QueryParam("projectId"); projectID != "" {
		documents, err := h.svc.ListDocumentsForProject(ctx, projectID)
		if err != nil {
			return ErrorResponse(c, h.logger, err)
		}
		return c.JSON(http.StatusOK, documents)
	}

	if customerID := c.QueryParam("customerId"); customerID != "" {
		documents, err := h.svc.ListDocumentsForCustomer(ctx, customerID)
		if err != nil {
			return ErrorResponse(c, h.logger, err)
		}
		return c.JSON(http.StatusOK, documents)
	}

	return ErrorResponse(c, h.logger, domain.Invalid("document.list", "a projectId or customerId filter is required"))
}
