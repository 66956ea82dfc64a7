package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jayant-source/farmconnect/internal/api"
	"github.com/jayant-source/farmconnect/internal/config"
	"github.com/jayant-source/farmconnect/internal/database"
	"github.com/jayant-source/farmconnect/internal/kafka"
	"github.com/jayant-source/farmconnect/internal/mandi"
	"github.com/jayant-source/farmconnect/internal/monitor"
	"github.com/jayant-source/farmconnect/internal/notify"
	"github.com/jayant-source/farmconnect/internal/storage"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	// A failed database is not fatal: the hybrid storage serves from memory
	// until the process is restarted against a healthy primary.
	var primary storage.Storage
	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		slog.Warn("failed to connect to database, starting with in-memory storage", "error", err)
	} else {
		defer db.Close()
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		primary = db
	}
	store := storage.NewHybrid(primary, storage.NewMemStorage())

	var cache *mandi.Cache
	if cfg.Redis.Addr != "" {
		cache, err = mandi.NewCache(cfg.Redis.Addr, cfg.Redis.TTL)
		if err != nil {
			slog.Warn("failed to connect to Redis, price caching disabled", "error", err)
		} else {
			defer cache.Close()
		}
	}

	feed := mandi.NewFeed(cfg.Mandi.APIKey, cfg.Mandi.BaseURL, store, cache)

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" && cfg.Twilio.FromNumber != "" {
		notifier = notify.NewTwilioNotifier(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
	} else {
		slog.Info("SMS credentials not configured, notifications will be simulated")
	}

	var events monitor.EventPublisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		events = producer
	}

	mon := monitor.New(store, feed, notifier, monitor.Config{
		CheckInterval: cfg.Monitor.CheckInterval,
		Cooldown:      cfg.Monitor.Cooldown,
		Events:        events,
	})
	mon.Start()
	defer mon.Stop()

	handler := api.NewHandler(store, feed, store.Degraded)
	router := api.SetupRoutes(handler)

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
}
