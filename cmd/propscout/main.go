package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/propscout/internal/api/rest"
	"github.com/fortuna/propscout/internal/api/websocket"
	"github.com/fortuna/propscout/internal/cache"
	"github.com/fortuna/propscout/internal/config"
	"github.com/fortuna/propscout/internal/engine"
	"github.com/fortuna/propscout/internal/logger"
	"github.com/fortuna/propscout/internal/metrics"
	"github.com/fortuna/propscout/internal/nba"
	"github.com/fortuna/propscout/internal/odds"
	"github.com/fortuna/propscout/internal/publisher"
	"github.com/fortuna/propscout/internal/service"
	"github.com/fortuna/propscout/internal/store"
	"github.com/fortuna/propscout/internal/store/repository"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// No logger yet.
		panic(err)
	}

	log := logger.NewLogger(cfg.App.LogLevel)
	log.WithField("environment", cfg.App.Environment).Info("Starting propscout")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	// History store. The service runs without it, analyses just are not
	// persisted.
	var history *repository.HistoryRepository
	db, err := store.NewDatabase(cfg.Database.DSN())
	if err != nil {
		log.WithError(err).Warn("Database unavailable, history disabled")
	} else {
		defer db.Close()
		if err := db.Bootstrap(); err != nil {
			log.WithError(err).Fatal("Failed to bootstrap schema")
		}
		history = repository.NewHistoryRepository(db)
		log.Info("Connected to database")
	}

	// Cache: Redis when reachable, in-process otherwise.
	var cacheStore cache.Store = cache.NewMemoryCache()
	var streamPublisher service.Publisher
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, using in-process cache")
		} else {
			defer redisCache.Close()
			cacheStore = redisCache
			streamPublisher = publisher.NewRedisPublisherFromClient(redisCache.Client())
			log.Info("Connected to Redis")
		}
	}

	// Upstream stats provider.
	clientCfg := nba.DefaultClientConfig()
	clientCfg.BaseURL = cfg.NBA.BaseURL
	clientCfg.Timeout = time.Duration(cfg.NBA.TimeoutSeconds) * time.Second
	clientCfg.MaxRetries = cfg.NBA.MaxRetries
	clientCfg.RateLimit = cfg.NBA.RequestsPerSecond
	provider := nba.NewProvider(nba.NewClient(clientCfg, log), cacheStore, log)

	// Optional bookmaker odds scraper.
	var oddsFetcher service.OddsFetcher
	if cfg.Odds.Enabled {
		oddsClient, err := odds.NewClient(log)
		if err != nil {
			log.WithError(err).Warn("Odds scraper unavailable")
		} else {
			defer oddsClient.Close()
			oddsFetcher = oddsClient
		}
	}

	// WebSocket fanout.
	wsServer := websocket.NewServer(log)
	go func() {
		if err := wsServer.Start(cfg.Server.WebSocketPort); err != nil {
			log.WithError(err).Error("WebSocket server stopped")
		}
	}()

	// Engines and orchestration.
	thresholds := engine.NewThresholdEngine(provider, provider)
	matchups := engine.NewTeamTotalEngine(provider)
	svc := service.NewAnalysisService(thresholds, matchups, history, streamPublisher, wsServer, oddsFetcher, log)

	// REST surface.
	handler := rest.NewHandler(svc, provider, log)
	restServer := rest.NewServer(cfg.Server.Port, handler, log, rest.ServerOptions{
		MetricsEnabled: cfg.Metrics.Enabled,
	})
	go func() {
		log.WithField("port", cfg.Server.Port).Info("REST API listening")
		if err := restServer.Start(); err != nil {
			log.WithError(err).Error("REST server stopped")
		}
	}()

	log.Info("propscout started")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("REST server shutdown error")
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("WebSocket server shutdown error")
	}

	log.Info("propscout stopped")
}
