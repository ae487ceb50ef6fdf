package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tradedesk/internal/config"
	"tradedesk/internal/engine"
	"tradedesk/internal/handler"
	"tradedesk/internal/service"
	"tradedesk/internal/store"
	"tradedesk/internal/store/memory"
	"tradedesk/internal/store/postgres"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Engine.
	settlement := engine.NewSettlement(st, logger)
	matcher := engine.NewMatcher(st, settlement, logger)

	// Services.
	accountSvc := service.NewAccountService(st, logger)
	orderSvc := service.NewOrderService(st, logger)
	tradeSvc := service.NewTradeService(st, settlement, matcher, logger)
	portfolioSvc := service.NewPortfolioService(st, logger)
	stockSvc := service.NewStockService(st)

	router := handler.NewRouter(accountSvc, orderSvc, tradeSvc, portfolioSvc, stockSvc, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}

// openStore builds the configured store. The returned close function is
// a no-op for the memory driver.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		pg, err := postgres.New(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("store ready", slog.String("driver", "postgres"))
		return pg, pg.Close, nil
	default:
		logger.Info("store ready", slog.String("driver", "memory"))
		return memory.New(), func() {}, nil
	}
}

func newHealthcheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "healthcheck",
		Short: "Check a running server's /healthz endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			resp, err := http.Get(fmt.Sprintf("http://localhost:%d/healthz", cfg.Server.Port))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status: %s", resp.Status)
			}
			return nil
		},
	}
}
