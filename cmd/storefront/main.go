// Storefront server for a wholesale (ehurt) account: local catalog, cart,
// order submission, and payments views over the wholesale platform API.
// Designed for Cloud Run deployment with stateless operation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ehurt-storefront/internal/bus"
	"ehurt-storefront/internal/cart"
	"ehurt-storefront/internal/catalog"
	"ehurt-storefront/internal/config"
	"ehurt-storefront/internal/ehurt"
	"ehurt-storefront/internal/handler"
	"ehurt-storefront/internal/middleware"
	"ehurt-storefront/internal/order"
	"ehurt-storefront/internal/payments"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := initLogger()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("account_id", cfg.AccountID),
		slog.String("environment", cfg.Environment),
		slog.String("supplier_url", cfg.Supplier.BaseURL),
	)

	gw, err := ehurt.New(ehurt.Config{
		BaseURL:       cfg.Supplier.BaseURL,
		Credential:    cfg.Supplier.Credential,
		MinAPIVersion: cfg.Supplier.MinAPIVersion,
	})
	if err != nil {
		return fmt.Errorf("creating supplier client: %w", err)
	}

	// Assemble the stores around one event bus.
	b := bus.New()
	catalogStore := catalog.NewStore(gw, b)
	cartStore := cart.New()
	history := order.NewHistory(gw, b)
	paymentsStore := payments.NewStore(gw, b)
	pipeline := order.NewPipeline(cartStore, catalogStore, gw, b, logger)

	// Warm the projections. A cold supplier is not fatal; the stores stay
	// empty until a refresh succeeds.
	if err := catalogStore.Refresh(ctx); err != nil {
		logger.Warn("initial catalog refresh failed", slog.String("error", err.Error()))
	}
	if err := history.Refresh(ctx); err != nil {
		logger.Warn("initial order refresh failed", slog.String("error", err.Error()))
	}
	if err := paymentsStore.Refresh(ctx); err != nil {
		logger.Warn("initial payments refresh failed", slog.String("error", err.Error()))
	}

	h := handler.New(handler.Deps{
		Catalog:        catalogStore,
		Cart:           cartStore,
		Pipeline:       pipeline,
		History:        history,
		Payments:       paymentsStore,
		Gateway:        gw,
		Logger:         logger,
		FavoritesLimit: cfg.FavoritesLimit,
	})

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Apply middleware chain: recovery → logging → identity → handler.
	// Recovery must be outermost to catch panics from logging middleware.
	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.Identity(),
	)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	// JSON for production (Cloud Logging compatible), text for development
	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
