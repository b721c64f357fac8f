package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/dealer-admin-backend/config"
	"github.com/ikkim/dealer-admin-backend/internal/app/controller"
	"github.com/ikkim/dealer-admin-backend/internal/app/repository"
	"github.com/ikkim/dealer-admin-backend/internal/app/service"
	"github.com/ikkim/dealer-admin-backend/internal/router"
	"github.com/ikkim/dealer-admin-backend/internal/scheduler"
	"github.com/ikkim/dealer-admin-backend/internal/storage"
	"github.com/ikkim/dealer-admin-backend/internal/websocket"
	"github.com/ikkim/dealer-admin-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting dealer admin server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"storage":     cfg.Storage.Backend,
		"log_level":   logLevel,
	})

	// Open the dealer slot
	slots, closeSlots, err := repository.OpenSlots(cfg)
	if err != nil {
		logger.Fatal("Failed to open dealer storage", err)
	}
	defer func() {
		if err := closeSlots(); err != nil {
			logger.Error("Failed to close dealer storage", err)
		}
	}()

	// WebSocket hub doubles as the service's event publisher
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	dealerRepo := repository.NewDealerRepository(slots, cfg.Storage.SlotKey)
	notices := service.NewNoticeBoard(cfg.Dashboard.NoticeDuration)
	dealerService := service.NewDealerService(dealerRepo, nil, notices, hub)

	// Initialize controllers
	dealerController := controller.NewDealerController(dealerService, cfg.Dashboard.DefaultPageSize)
	noticeController := controller.NewNoticeController(notices)
	socketController := controller.NewSocketController(
		dealerService,
		hub,
		cfg.Dashboard.DefaultPageSize,
		cfg.CORS.AllowedOrigins,
	)

	// Snapshot scheduler (optional)
	if cfg.Snapshot.Enabled {
		objects := storage.NewS3Storage(
			cfg.Snapshot.Region,
			cfg.Snapshot.Bucket,
			cfg.Snapshot.AccessKeyID,
			cfg.Snapshot.SecretAccessKey,
		)
		snapshots := scheduler.NewSnapshotScheduler(cfg.Snapshot.Schedule, cfg.Snapshot.Prefix, dealerService, objects)
		if err := snapshots.Start(); err != nil {
			logger.Fatal("Failed to start snapshot scheduler", err)
		}
		defer snapshots.Stop()
	}

	// Setup router
	r := router.NewRouter(dealerController, noticeController, socketController, cfg)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
