package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"ticket-scanner/config"
	"ticket-scanner/handlers"
	"ticket-scanner/monitoring"
	"ticket-scanner/security"
	"ticket-scanner/services"
	"ticket-scanner/store"
	"ticket-scanner/utils"

	_ "ticket-scanner/migrations"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub (optional; scans work without a realtime feed)
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey

		pn = pubnub.NewPubNub(pnConfig)
	}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize store, services and handlers
	db := store.New(app)
	notifier := services.NewCheckInNotifier(pn)

	var monitor *monitoring.Monitor
	if cfg.EnableMetrics {
		monitor = monitoring.NewMonitor(db, cfg.MetricsInterval)
	}

	scannerService := services.NewScannerService(db, notifier, monitor)
	statsService := services.NewStatsService(db, cfg)
	logService := services.NewLogService(db, cfg)

	scannerHandler := handlers.NewScannerHandler(scannerService, statsService, logService)
	seedHandler := handlers.NewSeedHandler(cfg)

	rateLimiter := security.NewRateLimiter(redisClient, cfg.ScanRateLimit)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Scanner endpoints
		e.Router.GET("/api/v1/scanner/events", scannerHandler.GetEvents)
		e.Router.POST("/api/v1/scanner/verify", scannerHandler.Verify).
			BindFunc(rateLimiter.ScanThrottle())
		e.Router.GET("/api/v1/scanner/events/{eventId}/logs", scannerHandler.GetLogs)
		e.Router.GET("/api/v1/scanner/events/{eventId}/logs/export", scannerHandler.ExportLogs)
		e.Router.GET("/api/v1/scanner/events/{eventId}/stats", scannerHandler.GetStats)

		// Test endpoint for demo fixtures
		if cfg.Environment == "development" {
			e.Router.POST("/api/v1/test/seed-demo-data", seedHandler.SeedDemoData)
		}

		// Prometheus metrics
		if cfg.EnableMetrics {
			e.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
		}

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		if monitor != nil {
			monitor.Stop()
		}
		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
}
