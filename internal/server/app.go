// Package server assembles the application: it opens the database, applies
// migrations, wires the services and serves the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/budgetguard/internal/logging"
	"github.com/dmitrijs2005/budgetguard/internal/server/config"
	"github.com/dmitrijs2005/budgetguard/internal/server/genai"
	"github.com/dmitrijs2005/budgetguard/internal/server/httpapi"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/budgetguard/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	// The database container may still be starting; retry the first ping
	// with a capped fibonacci backoff before giving up.
	backoff := retry.WithMaxDuration(30*time.Second, retry.NewFibonacci(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("db unreachable: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	secretKey := []byte(cfg.SecretKey)

	gen := genai.NewClient(cfg.GenAIEndpoint, cfg.GenAIModel, cfg.GenAIAPIKey, cfg.GenAITimeout)

	progression := services.NewProgressionService(db, rm, logger)
	budget := services.NewBudgetService(db, rm, progression, logger)
	accounts := services.NewUserService(db, rm, secretKey, cfg.AccessTokenValidityDuration, logger)
	scam := services.NewScamService(gen, db, rm, cfg.GenAITimeout, logger)
	rewards := services.NewRewardsService(db, rm, logger)

	handler := httpapi.NewHandler(accounts, budget, scam, rewards, logger)
	router := httpapi.NewRouter(handler, secretKey)

	return &App{config: cfg, logger: logger, db: db, router: router}, nil
}

// Run serves until the context is cancelled or a termination signal arrives,
// then drains in-flight requests and closes the database.
func (app *App) Run(ctx context.Context) error {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.initSignalHandler(cancel)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}

	return app.db.Close()
}

func (app *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}
