package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/adapters/cache"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/adapters/database"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/adapters/events"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/adapters/search"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/api/handlers"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/api/middleware"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/api/routes"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/application/services"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/providers"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/postgres"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/redis"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/typesense"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/observability"
	"github.com/kazihub/Homeservicemarketplace/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Redis is optional; matching works without caching or events
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		logger.Info().Msg("Redis client initialized")
	}

	// Typesense is optional; the exact-service tier falls back to SQL
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Typesense client, search acceleration disabled")
		typesenseClient = nil
	} else {
		logger.Info().Msg("Typesense client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		logger.Info().Msg("event bus initialized")
	} else {
		logger.Info().Msg("event bus disabled (Redis unavailable)")
	}

	// Initialize adapters
	baseProviderAdapter := database.NewProviderAdapter(pgClient)
	var providerAdapter repositories.ProviderRepository = baseProviderAdapter
	if cacheProvider != nil {
		providerAdapter = database.NewCachedProviderAdapter(baseProviderAdapter, cacheProvider)
		logger.Info().Msg("provider adapter wrapped with caching layer")
	} else {
		logger.Warn().Msg("provider adapter running without cache (Redis unavailable)")
	}

	listingAdapter := database.NewListingAdapter(pgClient)
	bookingAdapter := database.NewBookingAdapter(pgClient)

	var searchRepo repositories.ListingSearchRepository
	if typesenseClient != nil {
		if err := typesenseClient.InitSchema(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		searchRepo = search.NewTypesenseAdapter(typesenseClient)
	}

	// Initialize services
	normalizer := services.NewDefaultCategoryNormalizer()
	synthesisService := services.NewSynthesisService(listingAdapter, searchRepo, eventBus, metrics)

	locators := []services.CandidateLocator{
		services.NewExactServiceLocator(listingAdapter, searchRepo, providerAdapter),
		services.NewSkillMatchLocator(providerAdapter),
		services.NewFuzzyCategoryLocator(listingAdapter, providerAdapter),
		services.NewLocationExpandedLocator(providerAdapter),
	}
	if cfg.Matching.SynthesisEnabled {
		locators = append(locators, services.NewSyntheticLocator(providerAdapter, listingAdapter, synthesisService))
	} else {
		logger.Info().Msg("synthetic listing tier disabled")
	}

	matchService := services.NewMatchService(
		normalizer,
		locators,
		services.NewAvailabilityService(bookingAdapter, &cfg.Matching),
		services.NewScoringService(),
		services.NewAggregationService(),
		&cfg.Matching,
		metrics,
	)

	// Cache invalidation keeps cached provider views consistent with
	// listing writes coming off the event bus
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			logger.Warn().Err(err).Msg("failed to start cache invalidation service")
		} else {
			logger.Info().Msg("cache invalidation service started")
		}
	}

	if cacheProvider != nil {
		warmingService := services.NewCacheWarmingService(providerAdapter, cacheProvider)
		go warmingService.StartPeriodicWarming(ctx, 5*time.Minute)
		logger.Info().Msg("cache warming service started")
	}

	// Initialize handlers
	matchHandler := handlers.NewMatchHandler(matchService)
	providerHandler := handlers.NewProviderHandler(
		providerAdapter,
		listingAdapter,
		services.NewAvailabilityService(bookingAdapter, &cfg.Matching),
	)
	synthesisHandler := handlers.NewSynthesisHandler(providerAdapter, synthesisService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
		logger.Info().Msg("cache middleware initialized")
	}

	// Set up router
	router := routes.NewRouter(
		matchHandler,
		providerHandler,
		synthesisHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	logger.Info().Msg("server stopped")
}
