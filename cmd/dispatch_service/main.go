package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reachtide/sms-dispatch/internal/campaign/app"
	campaignpg "github.com/reachtide/sms-dispatch/internal/campaign/repository/postgres"
	httptransport "github.com/reachtide/sms-dispatch/internal/campaign/transport/http"
	"github.com/reachtide/sms-dispatch/internal/platform/config"
	"github.com/reachtide/sms-dispatch/internal/platform/database"
	"github.com/reachtide/sms-dispatch/internal/platform/logger"
	"github.com/reachtide/sms-dispatch/internal/sms/gateway"
	"github.com/reachtide/sms-dispatch/internal/sms/provider"
)

const serviceName = "dispatch_service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger.Info("Dispatch service starting...", "port", cfg.ServerPort)

	dbPool, err := database.NewDBPool(context.Background(), cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Dispatch service connected to PostgreSQL database")

	campaignRepo := campaignpg.NewPgCampaignRepository(dbPool, appLogger)
	providerRepo := campaignpg.NewPgProviderRepository(dbPool, appLogger)
	audienceRepo := campaignpg.NewPgAudienceRepository(dbPool, appLogger)
	activityRepo := campaignpg.NewPgActivityRepository(dbPool, appLogger)

	vendorClient := &http.Client{Timeout: cfg.ProviderTimeout}
	smsGateway := gateway.New(appLogger,
		provider.NewAfricasTalkingAdapter(appLogger, cfg.AfricasTalkingAPIURL, vendorClient),
		provider.NewTwilioAdapter(appLogger, cfg.TwilioAPIURL, vendorClient),
		provider.NewTermiiAdapter(appLogger, cfg.TermiiAPIURL, vendorClient),
		provider.NewNexmoAdapter(appLogger, cfg.NexmoAPIURL, vendorClient),
	)

	resolver := app.NewResolver(audienceRepo, appLogger)
	dispatcher := app.NewDispatcher(
		campaignRepo, providerRepo, audienceRepo, activityRepo,
		resolver, smsGateway, appLogger,
		cfg.SendConcurrency, cfg.ProviderTimeout,
	)
	service := app.NewService(campaignRepo, providerRepo, audienceRepo, smsGateway, appLogger)

	validate := validator.New()
	campaignHandler := httptransport.NewCampaignHandler(service, dispatcher, appLogger, validate)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(5 * time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "Dispatch service is healthy"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		campaignHandler.RegisterRoutes(v1)
	})

	httpServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.ServerPort), Handler: r}
	go func() {
		appLogger.Info(fmt.Sprintf("Dispatch server listening on port %d", cfg.ServerPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to serve", "error", err)
		}
	}()

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	<-quitChan
	appLogger.Info("Shutdown signal received, shutting down HTTP server...")

	// In-flight dispatches get the full timeout to finish; a campaign already
	// marked sending completes its fanout before the process exits.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	}
	appLogger.Info("Dispatch service stopped")
}
