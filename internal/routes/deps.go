// Package routes wires handlers onto the echo router.
package routes

import (
	"github.com/rthompsontouch/agencyops/internal/handler"
	"github.com/rthompsontouch/agencyops/internal/middleware"
)

// Deps holds the handlers and middleware needed to register all routes.
type Deps struct {
	SubscriptionHandler *handler.SubscriptionHandler
	CustomerHandler     *handler.CustomerHandler
	ProjectHandler      *handler.ProjectHandler
	LeadHandler         *handler.LeadHandler
	DocumentHandler     *handler.DocumentHandler
	Metrics             *middleware.Metrics
	HealthCheck         handler.HealthChecker
}
