package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/damon-houk/exchange-quotes-bot/internal/application/service"
	"github.com/damon-houk/exchange-quotes-bot/internal/config"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/api"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/bot"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/cache"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/chart"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/db"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/handler"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/telegram"
	"github.com/damon-houk/exchange-quotes-bot/internal/metrics"
	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Invalid configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)
	defer log.Sync()

	log.Info("Starting exchange quotes bot", map[string]interface{}{
		"port":             cfg.Server.Port,
		"refresh_interval": cfg.Cache.RefreshInterval.String(),
		"rates_api":        cfg.RatesAPI.BaseURL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	// Setup BadgerDB
	if err := os.MkdirAll(cfg.Cache.DataDir, 0755); err != nil {
		log.Fatal("Failed to create database directory", map[string]interface{}{
			"dir":   cfg.Cache.DataDir,
			"error": err.Error(),
		})
	}

	badgerDB, err := badger.Open(badger.DefaultOptions(cfg.Cache.DataDir).WithLogger(nil))
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{
			"dir":   cfg.Cache.DataDir,
			"error": err.Error(),
		})
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Rates API client and latest rates cache
	ratesClient := api.NewExchangeRatesClient(
		api.WithBaseURL(cfg.RatesAPI.BaseURL),
		api.WithAPIKey(cfg.RatesAPI.APIKey),
		api.WithHTTPClient(&http.Client{Timeout: cfg.RatesAPI.Timeout}),
		api.WithLogger(log.WithField("component", "rates_api")),
		api.WithMetrics(m),
	)

	rateCache, err := cache.NewRateCache(ctx, ratesClient, cfg.Cache.RefreshInterval,
		cache.WithRefreshTimeout(cfg.RatesAPI.Timeout),
		cache.WithLogger(log.WithField("component", "rate_cache")),
		cache.WithMetrics(m),
	)
	if err != nil {
		log.Fatal("Failed to load initial rates", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize services
	historyStore := db.NewBadgerHistoryStore(badgerDB, cfg.Cache.HistoryTTL)
	historyRepo := db.NewCachedHistoryRepository(ratesClient, historyStore, log)
	rateService := service.NewRateService(rateCache, log)
	historyService := service.NewHistoryService(rateService, historyRepo, log)

	// Chat platform
	tgBot, err := telegram.NewBot(cfg.Telegram.Token, log.WithField("component", "telegram"))
	if err != nil {
		log.Fatal("Failed to start telegram bot", map[string]interface{}{
			"error": err.Error(),
		})
	}

	dispatcher := bot.NewDispatcher(rateService, historyService, chart.NewRenderer(), tgBot, log, m)

	// Setup router
	router := handler.NewRouter(log, m,
		handler.NewHealthHandler(rateCache, registry, log),
		handler.NewWebhookHandler(cfg.Telegram.Token, tgBot.UpdatesHandler(dispatcher), log),
	)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	if err := tgBot.SetWebhook(cfg.Telegram.WebhookEndpoint()); err != nil {
		log.Error("Failed to register webhook", map[string]interface{}{
			"error": err.Error(),
		})
	}

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("Server failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	case <-ctx.Done():
		log.Info("Shutting down", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
