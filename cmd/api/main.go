package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexuslabs/nexus-shortener/internal/clickstream"
	"github.com/nexuslabs/nexus-shortener/internal/config"
	"github.com/nexuslabs/nexus-shortener/internal/infrastructure/db"
	"github.com/nexuslabs/nexus-shortener/internal/infrastructure/logger"
	"github.com/nexuslabs/nexus-shortener/internal/infrastructure/telemetry"
	"github.com/nexuslabs/nexus-shortener/internal/ratelimit"
	"github.com/nexuslabs/nexus-shortener/internal/shortener"
	"github.com/nexuslabs/nexus-shortener/internal/storage/mongo"
	httpTransport "github.com/nexuslabs/nexus-shortener/internal/transport/http"
	"github.com/nexuslabs/nexus-shortener/internal/visitor"
	"github.com/nexuslabs/nexus-shortener/pkg/geo"
	"github.com/nexuslabs/nexus-shortener/pkg/useragent"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
	)

	var shutdownTracer func(context.Context) error
	if cfg.OTel.Enabled {
		var err error
		shutdownTracer, err = telemetry.InitTracer(cfg.OTel.Endpoint, cfg.App.Name, cfg.App.Version)
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			logger.Info("OpenTelemetry tracer initialized", zap.String("endpoint", cfg.OTel.Endpoint))
		}
	}

	mongoConn, err := db.ConnectMongo(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = mongoConn.Disconnect() }()

	urlRepo, err := mongo.NewURLsRepository(mongoConn)
	if err != nil {
		logger.Fatal("Failed to initialize URLs repository", zap.Error(err))
	}
	clickRepo, err := mongo.NewClicksRepository(mongoConn)
	if err != nil {
		logger.Fatal("Failed to initialize clicks repository", zap.Error(err))
	}

	svc := shortener.NewService(urlRepo, shortener.NewCryptoCodeGenerator(cfg.Shortener.CodeLength), cfg.Shortener.MaxAttempts)
	agg := shortener.NewAggregator(urlRepo, clickRepo)

	var geoResolver geo.Resolver = geo.StaticResolver{}
	if cfg.Geo.Endpoint != "" {
		geoResolver = geo.NewHTTPResolver(cfg.Geo.Endpoint, cfg.Geo.Timeout)
	}
	visitorResolver := visitor.NewResolver(useragent.NewParser(), geoResolver)

	// Clicks are either published to Kafka for the consumer binary to
	// persist, or recorded in-process through the buffered recorder.
	var sink shortener.ClickSink
	var recorder *shortener.Recorder
	var publisher *clickstream.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = clickstream.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		sink = publisher
		logger.Info("Click events publishing to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	} else {
		recorder = shortener.NewRecorder(urlRepo, clickRepo, visitorResolver, shortener.RecorderOptions{})
		sink = recorder
	}

	local := ratelimit.NewMemoryLimiter(int64(cfg.RateLimit.RequestsPerMinute), cfg.RateLimit.Window)
	var limiter *ratelimit.FallbackLimiter
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		shared := ratelimit.NewRedisLimiter(redisClient, "rl", int64(cfg.RateLimit.RequestsPerMinute), cfg.RateLimit.Window)
		limiter = ratelimit.NewFallbackLimiter(shared, shared, local, cfg.RateLimit.ProbeInterval)
	} else {
		logger.Warn("Redis not configured, rate limiter running on local memory only")
		limiter = ratelimit.NewFallbackLimiter(nil, nil, local, cfg.RateLimit.ProbeInterval)
	}
	defer limiter.Close()
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	router := httpTransport.NewRouter(cfg, httpTransport.RouterDeps{
		Service:    svc,
		Aggregator: agg,
		Sink:       sink,
		Limiter:    limiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if shutdownTracer != nil {
			_ = shutdownTracer(shutdownCtx)
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}

		// Drain queued clicks after the listener stops accepting requests.
		if recorder != nil {
			if err := recorder.Shutdown(shutdownCtx); err != nil {
				logger.Error("Click recorder drain error", zap.Error(err))
			}
		}
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Error("Click publisher close error", zap.Error(err))
			}
		}
	}()

	logger.Info("Server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.App.Env),
		zap.String("address", fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
