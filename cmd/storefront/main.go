// Package main starts the HTTP server of the storefront service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/giyimsepeti/storefront-system/internal/config"
	"github.com/giyimsepeti/storefront-system/internal/handler"
	"github.com/giyimsepeti/storefront-system/internal/middleware"
	"github.com/giyimsepeti/storefront-system/internal/repository"
	"github.com/giyimsepeti/storefront-system/internal/service"
)

const sessionCleanupInterval = time.Hour

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	products, err := repository.NewProductRepository(filepath.Join(cfg.DataDir, "products.json"))
	if err != nil {
		sugar.Fatalw("storage initialization error", "error", err.Error())
	}
	orders, err := repository.NewOrderRepository(filepath.Join(cfg.DataDir, "orders.json"))
	if err != nil {
		sugar.Fatalw("storage initialization error", "error", err.Error())
	}
	users, err := repository.NewUserRepository(filepath.Join(cfg.DataDir, "users.json"))
	if err != nil {
		sugar.Fatalw("storage initialization error", "error", err.Error())
	}
	sessions, err := repository.NewSessionRepository(filepath.Join(cfg.DataDir, "sessions.json"))
	if err != nil {
		sugar.Fatalw("storage initialization error", "error", err.Error())
	}

	svc := service.NewService(products, orders, users, sessions)

	authMiddleware := middleware.NewAuthMiddleware(svc)
	h := handler.NewHandler(svc, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Background sweep of expired sessions.
	g.Go(func() error {
		svc.StartSessionCleanup(ctx, sessionCleanupInterval)
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting storefront server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown on signal or on a failure in another goroutine.
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
