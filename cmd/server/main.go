package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cypherlabdev/odds-insight-service/internal/cache"
	"github.com/cypherlabdev/odds-insight-service/internal/config"
	httpHandler "github.com/cypherlabdev/odds-insight-service/internal/handler/http"
	"github.com/cypherlabdev/odds-insight-service/internal/messaging"
	"github.com/cypherlabdev/odds-insight-service/internal/poller"
	"github.com/cypherlabdev/odds-insight-service/internal/providers/advantage"
	"github.com/cypherlabdev/odds-insight-service/internal/providers/oddsapi"
	"github.com/cypherlabdev/odds-insight-service/internal/service"
	"github.com/cypherlabdev/odds-insight-service/internal/store"
	"github.com/cypherlabdev/odds-insight-service/pkg/arb"
	"github.com/cypherlabdev/odds-insight-service/pkg/suggest"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	logger.Info().Msg("starting odds-insight-service")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open Postgres snapshot store
	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open Postgres connection")
	}
	defer db.Close()

	pgStore := store.NewPostgresStore(db, logger)
	if err := pgStore.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Postgres")
	}
	logger.Info().Msg("connected to Postgres")

	// Create Redis cache
	redisCache := cache.NewRedisCache(
		cache.RedisCacheConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		},
		logger,
	)
	defer redisCache.Close()

	// Test Redis connection
	if err := redisCache.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// Create upstream provider clients
	oddsClient := oddsapi.NewClient(
		oddsapi.Config{
			APIKey:     cfg.Providers.OddsAPI.APIKey,
			Regions:    cfg.Providers.OddsAPI.Regions,
			Markets:    cfg.Providers.OddsAPI.Markets,
			OddsFormat: cfg.Providers.OddsAPI.OddsFormat,
			Timeout:    cfg.Providers.OddsAPI.Timeout,
		},
		logger,
	)
	advantageClient := advantage.NewClient(
		advantage.Config{
			Host:    cfg.Providers.Advantage.Host,
			APIKey:  cfg.Providers.Advantage.APIKey,
			Timeout: cfg.Providers.Advantage.Timeout,
		},
		logger,
	)

	// Create service layer
	ingestService := service.NewIngestService(pgStore, redisCache, logger)
	suggestionService := service.NewSuggestionService(
		pgStore,
		redisCache,
		suggest.NewEngine(logger),
		service.SuggestionConfig{
			MinBooks:        cfg.Suggestions.MinBooks,
			MinEV:           cfg.Suggestions.MinEV,
			HoursAhead:      cfg.Suggestions.HoursAhead,
			Limit:           cfg.Suggestions.Limit,
			PrioritizeSport: cfg.Suggestions.PrioritizeSport,
			RatingSport:     cfg.Suggestions.RatingSport,
			RatingMaxRows:   cfg.Suggestions.RatingMaxRows,
			FetchLimit:      cfg.Suggestions.FetchLimit,
		},
		logger,
	)
	arbitrageService := service.NewArbitrageService(
		pgStore,
		advantageClient,
		arb.NewScanner(logger),
		service.ArbitrageConfig{
			MinRoiPercent: cfg.Arbitrage.MinRoiPercent,
			HoursAhead:    cfg.Arbitrage.HoursAhead,
			Limit:         cfg.Arbitrage.Limit,
			FetchLimit:    cfg.Arbitrage.FetchLimit,
		},
		logger,
	)
	betService := service.NewBetService(pgStore, logger)
	logger.Info().Msg("services initialized")

	// Create Kafka consumer
	consumer := messaging.NewKafkaConsumer(
		messaging.KafkaConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		},
		ingestService,
		logger,
	)
	defer consumer.Close()

	// Start Kafka consumer in goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("Kafka consumer failed")
		}
	}()

	// Start background odds poller when an API key is configured
	if cfg.Providers.OddsAPI.APIKey != "" && cfg.Providers.OddsAPI.PollInterval > 0 {
		oddsPoller := poller.NewOddsPoller(
			oddsClient,
			ingestService,
			cfg.Providers.OddsAPI.SportKeys,
			cfg.Providers.OddsAPI.PollInterval,
			logger,
		)
		go func() {
			if err := oddsPoller.Start(ctx); err != nil && err != context.Canceled {
				logger.Error().Err(err).Msg("odds poller failed")
			}
		}()
	} else {
		logger.Info().Msg("odds poller disabled")
	}

	// Initialize HTTP handler
	insightHandler := httpHandler.NewInsightHandler(
		suggestionService,
		arbitrageService,
		betService,
		ingestService,
		pgStore,
		cfg.Admin.Secret,
		logger,
	)
	logger.Info().Msg("HTTP handler initialized")

	// Setup HTTP server routes
	mux := http.NewServeMux()

	// Health and monitoring endpoints
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		readyHandler(w, r, pgStore, redisCache)
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Register API routes
	insightHandler.RegisterRoutes(mux)
	logger.Info().Msg("API routes registered")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      c.Handler(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start HTTP server in goroutine
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down gracefully...")

	// Cancel context to stop consumer and poller
	cancel()

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	logger.Info().Msg("shutdown complete")
}

// setupLogger configures the logger based on config
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set format
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return log.Logger.With().Str("service", "odds-insight").Logger()
}

// healthHandler returns 200 if service is running
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readyHandler returns 200 if service is ready to accept traffic
func readyHandler(w http.ResponseWriter, r *http.Request, st *store.PostgresStore, cache *cache.RedisCache) {
	// Check Postgres connection
	if err := st.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Postgres unavailable"))
		return
	}

	// Check Redis connection
	if err := cache.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Redis unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
