package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plantbox-backend/config"
	"plantbox-backend/internal/alerting"
	"plantbox-backend/internal/api"
	"plantbox-backend/internal/db"
	"plantbox-backend/internal/engine"
	"plantbox-backend/internal/notification"
	"plantbox-backend/internal/pipeline"
	"plantbox-backend/internal/scheduler"
	"plantbox-backend/internal/stats"
	"plantbox-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	logger := log.New(os.Stdout, "plantbox-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	pool := notification.NewPool(cfg.WorkerPool.Size, appStore, &webpushOptions)
	pool.Start(ctx)

	alertSvc := alerting.NewService(appStore, pool)
	statsSvc := stats.NewService(appStore)
	policy := engine.PolicyByName(cfg.Control.Policy)
	logger.Printf("actuator control policy: %s", cfg.Control.Policy)
	pipelineSvc := pipeline.NewService(appStore, alertSvc, statsSvc, policy)

	snapshotSvc := scheduler.NewService(cfg, appStore)
	go snapshotSvc.Run(ctx)

	router := api.NewRouter(&cfg.Server, appStore, pipelineSvc, alertSvc, statsSvc, &webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
