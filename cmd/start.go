package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"catalog-sync/core/loader"
	"catalog-sync/core/logger"
	"catalog-sync/core/middleware/auth"
	"catalog-sync/core/middleware/rayid"
	"catalog-sync/feature/integrity"
	"catalog-sync/feature/synchro"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "catalog-sync/docs/swagger"
)

// @title Catalog Sync API
// @version 1.0
// @description Operator API for catalog synchronization.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog sync server",
	Long:  `Starts the HTTP server, initializes all enabled features and, when configured, the periodic scheduler.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer rt.close()
		logg := rt.logger

		service, err := rt.synchronization()
		if err != nil {
			logg.Fatal("Failed to initialize synchronization", zap.Error(err))
		}

		app, err := newApp(rt, service)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		var scheduler *synchro.Scheduler
		if rt.cfg.Scheduler.Enabled {
			scheduler = synchro.NewScheduler(rt.cfg.Scheduler, service, logg)
			if err := scheduler.Start(); err != nil {
				logg.Fatal("Failed to start scheduler", zap.Error(err))
			}
		}

		go func() {
			logg.Info("Starting server", zap.String("addr", rt.cfg.Server.Addr()))
			if err := app.Listen(rt.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

// newApp builds the HTTP application: tracing and request logging, the public
// API documentation, then the features behind the API key.
func newApp(rt *runtime, service *synchro.Service) (*fiber.App, error) {
	logg := rt.logger
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We log our own startup message
	})

	mgr := loader.NewManager(logg)
	mgr.Register(synchro.NewFeature(service, logg))
	mgr.Register(integrity.NewFeature(rt.store, rt.cfg.Storage.Bucket, rt.cfg.Storage.Region,
		[]string{rt.cfg.Sync.ThumbsPrefix}, logg, rt.db))

	// 1. RayID first so every log line carries it
	app.Use(rayid.New())

	// 2. Request logging with the ray id
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

	// 3. Swagger documentation (public)
	app.Get("/swagger/*", swagger.HandlerDefault)

	// 4. Auth protects every feature route
	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}
