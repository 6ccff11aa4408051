package cmd

import (
	"context"
	"errors"
	"fmt"

	"collection-pricer/core/cache"
	"collection-pricer/core/clock"
	"collection-pricer/core/config"
	"collection-pricer/core/database"
	"collection-pricer/core/kvstore"
	"collection-pricer/core/logger"
	"collection-pricer/core/metrics"
	"collection-pricer/core/storage"
	"collection-pricer/feature/integrity"
	"collection-pricer/feature/inventory"
	"collection-pricer/feature/pricing"
	"collection-pricer/feature/refresh"
	"collection-pricer/feature/valuelog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errNoDatabase is returned by commands that need the inventory database.
var errNoDatabase = errors.New("database connection required: check DATABASE_* settings")

// runtime holds the wired collaborators shared by every command.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	metrics *metrics.Manager
	layer   *cache.Layer
	pricing *pricing.Service
	objects storage.Client
	health  *integrity.Service

	// Nil without a database.
	state     kvstore.Store
	inventory *inventory.Store
	valuelog  *valuelog.Service
	scheduler *refresh.Scheduler
}

// bootstrap loads configuration and wires the application. The database is
// optional: without it only interactive lookups are available and the durable
// cache tier falls back to memory when it was set to sql.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	rt := &runtime{cfg: cfg, logger: logg}
	clk := clock.System{}

	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		rt.db = conn
		logg.Debug("Connected to database", zap.String("driver", cfg.Database.Driver))
	}

	rt.metrics = metrics.NewManager(metrics.WithNamespace(cfg.Metrics.Namespace))

	durableBackend := cfg.Cache.Durable
	if durableBackend == kvstore.BackendSQL && rt.db == nil {
		logg.Warn("Durable cache falls back to memory without a database")
		durableBackend = kvstore.BackendMemory
	}
	if durableBackend == kvstore.BackendObject {
		if rt.objects, err = storage.NewClient(cfg.Storage); err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}
	durable, err := kvstore.New(ctx, durableBackend, rt.db, rt.objects, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open durable cache: %w", err)
	}

	ephemeral, err := cache.NewEphemeral(ctx, cfg.Cache, cfg.Redis, clk)
	if err != nil {
		logg.Warn("Ephemeral cache unavailable, using memory", zap.Error(err))
		ephemeral = cache.NewMemoryTier(clk)
	}

	rt.layer = cache.NewLayer(ephemeral, durable, cfg.Cache,
		cache.WithClock(clk),
		cache.WithLogger(logg.Named("cache")),
		cache.WithMetrics(rt.metrics),
	)
	rt.pricing = pricing.NewService(cfg.Pricing, rt.layer, clk, logg.Named("pricing"), rt.metrics)
	rt.health = integrity.NewService(rt.db, rt.objects, cfg.Storage, rt.pricing, logg.Named("integrity"))

	if rt.db == nil {
		return rt, nil
	}

	rt.inventory = inventory.NewStore(rt.db, logg.Named("inventory"))
	if err := rt.inventory.Prepare(ctx); err != nil {
		return nil, err
	}
	rt.valuelog = valuelog.NewService(rt.db, rt.inventory, cfg.Pricing.Currency, clk, logg.Named("valuelog"))
	if err := rt.valuelog.Migrate(ctx); err != nil {
		return nil, err
	}

	// The cursor lives with the inventory so a checkpoint survives restarts
	// even when the cache tiers are volatile.
	state := kvstore.NewGormStore(rt.db)
	if err := state.Migrate(ctx); err != nil {
		return nil, err
	}
	rt.state = state
	rt.scheduler = refresh.NewScheduler(cfg.Refresh, rt.schedulerDeps())
	return rt, nil
}

func (rt *runtime) schedulerDeps() refresh.Deps {
	deps := refresh.Deps{
		Inventory: rt.inventory,
		Resolver:  rt.pricing,
		Budget:    rt.pricing.Budget(),
		Store:     rt.state,
		Clock:     clock.System{},
		Logger:    rt.logger.Named("refresh"),
		Metrics:   rt.metrics,
	}
	if rt.valuelog != nil {
		deps.Snapshots = rt.valuelog
	}
	return deps
}

// requireDB fails commands that work on the inventory.
func (rt *runtime) requireDB() error {
	if rt.db == nil {
		return errNoDatabase
	}
	return nil
}

func (rt *runtime) close() {
	_ = rt.logger.Sync()
}
