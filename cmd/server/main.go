package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rthompsontouch/agencyops/internal/billing"
	"github.com/rthompsontouch/agencyops/internal/config"
	"github.com/rthompsontouch/agencyops/internal/events"
	"github.com/rthompsontouch/agencyops/internal/handler"
	"github.com/rthompsontouch/agencyops/internal/logging"
	"github.com/rthompsontouch/agencyops/internal/middleware"
	"github.com/rthompsontouch/agencyops/internal/migrate"
	"github.com/rthompsontouch/agencyops/internal/postgres"
	"github.com/rthompsontouch/agencyops/internal/routes"
	"github.com/rthompsontouch/agencyops/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info().Msg("migrations applied")

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	subscriptionStore := postgres.NewSubscriptionStore(pool)
	customerStore := postgres.NewCustomerStore(pool)
	projectStore := postgres.NewProjectStore(pool)
	leadStore := postgres.NewLeadStore(pool)
	documentStore := postgres.NewDocumentStore(pool)

	// Billing is optional. Without a key the subscription endpoints
	// respond 503 and the rest of the API works normally.
	var processor billing.Processor
	if cfg.StripeAPIKey != "" {
		stripeProcessor, err := billing.NewStripeProcessor(billing.StripeConfig{APIKey: cfg.StripeAPIKey})
		if err != nil {
			return fmt.Errorf("stripe: %w", err)
		}
		processor = stripeProcessor
		logger.Info().Bool("test_mode", stripeProcessor.Config().IsTestMode()).Msg("payment processor configured")
	} else {
		logger.Warn().Msg("no payment processor configured, subscription endpoints disabled")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATSURL != "" {
		natsPublisher, err := events.Connect(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		publisher = natsPublisher
		logger.Info().Str("url", cfg.NATSURL).Msg("event publisher connected")
	}
	defer publisher.Close()

	subscriptionService := service.NewSubscriptionService(
		subscriptionStore, customerStore, projectStore, processor, publisher, logger)
	customerService := service.NewCustomerService(customerStore)
	projectService := service.NewProjectService(projectStore, customerStore)
	leadService := service.NewLeadService(leadStore, customerStore)
	documentService := service.NewDocumentService(documentStore, projectStore)

	metrics := middleware.NewMetrics("agencyops")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(metrics.Middleware())

	routes.Register(e, routes.Deps{
		SubscriptionHandler: handler.NewSubscriptionHandler(subscriptionService, logger),
		CustomerHandler:     handler.NewCustomerHandler(customerService, logger),
		ProjectHandler:      handler.NewProjectHandler(projectService, logger),
		LeadHandler:         handler.NewLeadHandler(leadService, logger),
		DocumentHandler:     handler.NewDocumentHandler(documentService, logger),
		Metrics:             metrics,
		HealthCheck:         handler.NewHealthHandler(pool, processor != nil),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}
