package routes

import (
	"github.com/labstack/echo/v4"
)

// Register wires all API routes onto the echo instance.
func Register(e *echo.Echo, deps Deps) {
	// Operational endpoints
	e.GET("/health", deps.HealthCheck.Health)
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}

	api := e.Group("/api/v1")

	// Recurring subscriptions
	api.POST("/subscriptions/create", deps.SubscriptionHandler.Create)
	api.GET("/subscriptions", deps.SubscriptionHandler.List)
	api.GET("/subscriptions/:id", deps.SubscriptionHandler.Get)
	api.PATCH("/subscriptions/:id", deps.SubscriptionHandler.Update)

	// Customers
	api.POST("/customers", deps.CustomerHandler.Create)
	api.GET("/customers", deps.CustomerHandler.List)
	api.GET("/customers/:id", deps.CustomerHandler.Get)
	api.PATCH("/customers/:id", deps.CustomerHandler.Update)

	// Projects
	api.POST("/projects", deps.ProjectHandler.Create)
	api.GET("/projects", deps.ProjectHandler.List)
	api.GET("/projects/:id", deps.ProjectHandler.Get)
	api.PATCH("/projects/:id", deps.ProjectHandler.Update)

	// Leads
	api.POST("/leads", deps.LeadHandler.Create)
	api.GET("/leads", deps.LeadHandler.List)
	api.GET("/leads/:id", deps.LeadHandler.Get)
	api.PATCH("/leads/:id", deps.LeadHandler.Update)
	api.POST("/leads/:id/convert", deps.LeadHandler.Convert)

	// Documents
	api.POST("/documents", deps.DocumentHandler.Create)
	api.GET("/documents", deps.DocumentHandler.List)
	api.GET("/documents/:id", deps.DocumentHandler.Get)
}
