package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/api"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/config"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/database"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/domain"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/events"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/geo"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/logging"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/metrics"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/notify"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/repository"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	resolver := initGeoResolver(cfg, redisClient, &logger)

	notifier := initNotifier(cfg, &logger)

	eventBus := events.NewEventBus()
	dispatcher := notify.NewDispatcher(db, notifier, &logger)
	dispatcher.Attach(eventBus)

	userService := service.NewUserService(db, &logger)
	providerService := service.NewProviderService(
		db, resolver,
		cfg.Marketplace.DefaultSearchRadiusKm,
		cfg.Marketplace.MaxSearchLimit,
		&logger,
	)
	bookingService := service.NewBookingService(db, eventBus, cfg.Marketplace.RescheduleBufferHours, &logger)
	reviewService := service.NewReviewService(db, eventBus, &logger)

	server := api.NewServer(cfg.API, userService, providerService, bookingService, reviewService, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
	}

	logger.Info().Msg("shutdown complete")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initGeoResolver wires the geocoder behind a cache. Redis carries the
// cache when reachable; the in-memory fallback keeps lookups cheap when
// it is not.
func initGeoResolver(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) *geo.Resolver {
	var cache domain.GeoCache = repository.NewMemoryGeoCache()
	if redisClient != nil {
		cache = repository.NewFailoverGeoCache(
			repository.NewRedisGeoCache(redisClient),
			repository.NewMemoryGeoCache(),
			logger,
		)
	}

	geocoder := geo.NewNominatimGeocoder(cfg.Geocoder)
	ttl := time.Duration(cfg.Geocoder.CacheTTLHours) * time.Hour
	return geo.NewResolver(geocoder, cache, ttl, logger)
}

func initNotifier(cfg *config.Config, logger *zerolog.Logger) domain.Notifier {
	if !cfg.Notifier.Enabled {
		logger.Info().Msg("notifier disabled, messages will be dropped")
		return notify.NopNotifier{}
	}
	logger.Info().Str("gateway", cfg.Notifier.GatewayURL).Msg("notifier connected")
	return notify.NewGatewayNotifier(cfg.Notifier)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", port).Msg("metrics server started")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
