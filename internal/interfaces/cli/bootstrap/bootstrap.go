// Package bootstrap wires the payment service from configuration. It is shared
// by the server and methods commands.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	appPayment "github.com/orris-inc/paygate/internal/application/payment"
	"github.com/orris-inc/paygate/internal/application/payment/paymentgateway"
	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	domainPayment "github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/infrastructure/cache"
	"github.com/orris-inc/paygate/internal/infrastructure/catalog"
	"github.com/orris-inc/paygate/internal/infrastructure/config"
	"github.com/orris-inc/paygate/internal/infrastructure/database"
	"github.com/orris-inc/paygate/internal/infrastructure/gateway"
	"github.com/orris-inc/paygate/internal/infrastructure/pubsub"
	"github.com/orris-inc/paygate/internal/infrastructure/ratelimit"
	"github.com/orris-inc/paygate/internal/infrastructure/repository"
	"github.com/orris-inc/paygate/internal/infrastructure/scheduler"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

// App holds the wired service and the resources that must be released on exit.
type App struct {
	Service *appPayment.Service
	// UsesDatabase reports whether the gorm journal is active.
	UsesDatabase bool
	// MethodCache, Limiter and StatusBus are set when redis is enabled.
	MethodCache *cache.CachingGateway
	Limiter     ratelimit.RateLimiter
	StatusBus   *pubsub.RedisPaymentStatusBus
	// Scheduler is set when redis is enabled and a refresh interval is configured.
	// The caller starts it.
	Scheduler *scheduler.SchedulerManager

	closers []func() error
	log     logger.Interface
}

// Build wires credentials, gateway, cache, catalog and journal from cfg.
// On error every resource opened so far is closed.
func Build(ctx context.Context, cfg *config.Config, log logger.Interface) (_ *App, err error) {
	app := &App{log: log}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	creds, err := merchantvo.NewCredentials(cfg.Merchant.ID, cfg.Merchant.Secret)
	if err != nil {
		return nil, fmt.Errorf("invalid merchant credentials: %w", err)
	}

	var fileCatalog domainPayment.StaticCatalog
	if cfg.Catalog.File != "" {
		fileCatalog, err = catalog.LoadFile(cfg.Catalog.File)
		if err != nil {
			return nil, err
		}
		log.Infow("loaded capability catalog", "file", cfg.Catalog.File, "methods", len(fileCatalog))
	}

	var gw paymentgateway.Gateway
	if cfg.Gateway.Mock {
		log.Warnw("using mock payment gateway")
		gw = paymentgateway.NewMockGateway(true, fileCatalog.Records())
	} else {
		gw = gateway.NewClient(cfg.Gateway.BaseURL, &http.Client{Timeout: cfg.Gateway.Timeout()}, log)
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, client.Close)
		cached := cache.NewCachingGateway(gw, client, cfg.Catalog.CacheTTL(), log)
		gw = cached
		app.MethodCache = cached
		if interval := cfg.Catalog.RefreshInterval(); interval > 0 {
			sched, err := scheduler.NewSchedulerManager(log)
			if err != nil {
				return nil, fmt.Errorf("failed to create scheduler: %w", err)
			}
			if err := sched.RegisterCatalogRefresh(cache.NewRefreshJob(cached, creds), interval); err != nil {
				return nil, fmt.Errorf("failed to register catalog refresh: %w", err)
			}
			app.Scheduler = sched
			app.closers = append(app.closers, sched.Stop)
		}
		app.Limiter = ratelimit.NewRedisRateLimiter(client)
		app.StatusBus = pubsub.NewRedisPaymentStatusBus(client, log)
		log.Infow("payment method cache enabled", "addr", cfg.Redis.GetAddr(), "ttl", cfg.Catalog.CacheTTL())
	}

	// Without a file, requests check capabilities against the records fetched
	// for their eligibility filter.
	var capabilities domainPayment.CapabilityCatalog
	if fileCatalog != nil {
		capabilities = fileCatalog
	}

	journal, err := app.openJournal(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := appPayment.ServiceOptions{
		ReturnURLs: paymentgateway.ReturnURLs{Success: cfg.Gateway.SuccessURL, Error: cfg.Gateway.ErrorURL},
		Journal:    journal,
	}
	if app.StatusBus != nil {
		opts.Publisher = app.StatusBus
	}

	app.Service = appPayment.NewService(creds.MerchantID, creds.Secret, gw, capabilities, gateway.NewChecksumVerifier(), log, opts)
	return app, nil
}

func (a *App) openJournal(ctx context.Context, cfg *config.Config) (domainPayment.JournalRepository, error) {
	switch cfg.Journal.Backend {
	case "gorm":
		if err := database.Init(&cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, database.Close)
		a.UsesDatabase = true
		return repository.NewJournalRepository(database.Get(), a.log), nil
	case "mongo":
		client, err := repository.ConnectMongo(ctx, cfg.Journal.MongoURI)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })
		repo := repository.NewMongoJournalRepository(client, cfg.Journal.MongoDatabase, a.log)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		a.log.Infow("payment journal disabled")
		return nil, nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warnw("failed to release resource", "error", err)
		}
	}
	a.closers = nil
}
