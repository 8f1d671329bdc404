package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orris-inc/paygate/internal/infrastructure/config"
	"github.com/orris-inc/paygate/internal/infrastructure/database"
	"github.com/orris-inc/paygate/internal/infrastructure/migration"
	"github.com/orris-inc/paygate/internal/infrastructure/ratelimit"
	"github.com/orris-inc/paygate/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/paygate/internal/interfaces/http"
	"github.com/orris-inc/paygate/internal/shared/biztime"
	"github.com/orris-inc/paygate/internal/shared/goroutine"
	"github.com/orris-inc/paygate/internal/shared/logger"
	"github.com/orris-inc/paygate/internal/shared/version"
)

var (
	env                string
	autoMigrate        bool
	migrationStrategy  string
	skipMigrationCheck bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the payment gateway HTTP server: method listing, checkout and gateway return handling.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup")
	cmd.Flags().StringVar(&migrationStrategy, "migration-strategy", migration.StrategyGoose, "Migration strategy used with --auto-migrate (goose, auto)")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(mapEnvToGinMode(env))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	log.Infow("starting server",
		"environment", env,
		"version", version.Version,
		"auto_migrate", autoMigrate,
		"journal", cfg.Journal.Backend)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to wire payment service: %w", err)
	}
	defer app.Close()

	if app.UsesDatabase {
		if err := handleMigrations(log); err != nil {
			return fmt.Errorf("migration handling failed: %w", err)
		}
	}

	if app.Scheduler != nil {
		app.Scheduler.Start()
	}

	router := httpRouter.NewRouter(app.Service, &cfg.Server, log)
	if app.Limiter != nil {
		router.SetRateLimiter(app.Limiter, ratelimit.Limits{
			PerMinute: cfg.RateLimit.CheckoutPerMinute,
			PerHour:   cfg.RateLimit.CheckoutPerHour,
		})
	}
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Gateway.Timeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server listening", "address", srv.Addr, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}, func(r any) {
		errCh <- fmt.Errorf("http server panicked: %v", r)
	})

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(log logger.Interface) error {
	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production environment")
		}
		manager := migration.NewManager(migrationStrategy, log)
		if err := manager.Migrate(database.Get()); err != nil {
			return err
		}
		log.Infow("auto-migration completed", "strategy", manager.GetStrategy().GetName())
		return nil
	}

	goose, ok := migration.NewGooseStrategy(log).(*migration.GooseStrategy)
	if !ok {
		return nil
	}
	current, err := goose.GetVersion(database.Get())
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", current)
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
