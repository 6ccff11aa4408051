package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collection-pricer/core/loader"
	"collection-pricer/core/logger"
	"collection-pricer/core/middleware/auth"
	"collection-pricer/core/middleware/rayid"
	"collection-pricer/feature/integrity"
	"collection-pricer/feature/pricing"
	"collection-pricer/feature/refresh"
	"collection-pricer/feature/valuelog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "collection-pricer/docs/swagger"
)

// @title Collection Pricer API
// @version 1.0
// @description API for pricing a trading card collection.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the pricer server",
	Long: `Starts the HTTP server, loads every enabled feature and triggers a refresh
invocation on the configured interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()
		logg := rt.logger
		cfg := rt.cfg

		if err := rt.pricing.CheckConfigured(); err != nil {
			logg.Warn("Price lookups will fail until a source is configured", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(pricing.NewFeature(rt.pricing))
		var scheduler *refresh.Scheduler
		if rt.scheduler != nil {
			scheduler = rt.scheduler
			mgr.Register(refresh.NewFeature(scheduler))
		}
		if rt.valuelog != nil {
			mgr.Register(valuelog.NewFeature(rt.valuelog))
		}
		mgr.Register(integrity.NewFeature(rt.health))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Docs are public.
		app.Get("/swagger/*", swagger.HandlerDefault)

		var public []string
		if cfg.Metrics.Enabled {
			app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(rt.metrics.Handler()))
			public = append(public, cfg.Metrics.Path)
		}

		if !cfg.Server.IsProtected() {
			logg.Warn("SERVER_API_KEY is empty, the API is unprotected")
		}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Public: public}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		if scheduler != nil && cfg.Refresh.Interval > 0 {
			go runPeriodicRefresh(ctx, scheduler, cfg.Refresh.Interval, logg)
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Error("Server failed", zap.Error(err))
				stop()
			}
		}()

		<-ctx.Done()
		logg.Info("Shutting down server...")
		timeout := time.Duration(cfg.Server.ShutdownSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		return app.ShutdownWithTimeout(timeout)
	},
}

// runPeriodicRefresh triggers one invocation per tick until ctx ends. A tick
// that lands on a running invocation is skipped.
func runPeriodicRefresh(ctx context.Context, s *refresh.Scheduler, every time.Duration, logg *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	logg.Info("Periodic refresh enabled", zap.Duration("interval", every))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := s.Run(ctx)
			switch {
			case errors.Is(err, refresh.ErrRunInProgress):
				logg.Debug("Refresh tick skipped, run in progress")
			case err != nil:
				logg.Error("Periodic refresh failed", zap.Error(err))
			default:
				logg.Info("Periodic refresh finished",
					zap.String("state", string(report.State)),
					zap.Int("processed", report.Processed),
					zap.Int("remaining", report.Remaining))
			}
		}
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
