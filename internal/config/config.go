package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Shortener ShortenerConfig
	RateLimit RateLimitConfig
	Security  SecurityConfig
	Geo       GeoConfig
	OTel      OTelConfig
}

type AppConfig struct {
	Name     string
	Version  string
	Env      string
	LogLevel string
}

type ServerConfig struct {
	Port string
	Host string
}

type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig configures the shared rate-limit counter store. An empty Addr
// disables the shared store entirely and the limiter runs in local memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig configures the optional click event stream. When Brokers is
// empty, clicks are recorded in-process instead of being published.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type ShortenerConfig struct {
	BaseURL        string
	CodeLength     int
	MaxAttempts    int
	RedirectStatus int // 301 or 302
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Window            time.Duration
	ProbeInterval     time.Duration
}

type SecurityConfig struct {
	APIKeys        []string
	AllowedOrigins []string
}

// GeoConfig points at an optional HTTP IP-geolocation endpoint. When
// Endpoint is empty, clicks are stored with "Unknown" country and city.
type GeoConfig struct {
	Endpoint string
	Timeout  time.Duration
}

type OTelConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{
		App: AppConfig{
			Name:     GetEnv("APP_NAME", "nexus-shortener"),
			Version:  GetEnv("APP_VERSION", "1.0.0"),
			Env:      GetEnv("APP_ENV", "development"),
			LogLevel: GetEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: GetEnv("APP_PORT", "8000"),
			Host: GetEnv("APP_HOST", "localhost"),
		},
		MongoDB: MongoDBConfig{
			URI:      GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: GetEnv("MONGODB_DATABASE", "nexus"),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", ""),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: GetEnvSlice("KAFKA_BROKERS", nil),
			Topic:   GetEnv("KAFKA_CLICK_TOPIC", "clicks.recorded"),
			GroupID: GetEnv("KAFKA_CLICK_GROUP_ID", "click-analytics"),
		},
		Shortener: ShortenerConfig{
			BaseURL:        GetEnv("BASE_URL", "http://localhost:8000"),
			CodeLength:     GetEnvInt("CODE_LENGTH", 6),
			MaxAttempts:    GetEnvInt("CODE_MAX_ATTEMPTS", 5),
			RedirectStatus: GetEnvInt("REDIRECT_STATUS", 302),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: GetEnvInt("RATE_LIMIT_PER_MINUTE", 10),
			Window:            GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			ProbeInterval:     GetEnvDuration("RATE_LIMIT_PROBE_INTERVAL", 10*time.Second),
		},
		Security: SecurityConfig{
			APIKeys:        GetEnvSlice("API_KEYS", nil),
			AllowedOrigins: GetEnvSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Geo: GeoConfig{
			Endpoint: GetEnv("GEOIP_ENDPOINT", ""),
			Timeout:  GetEnvDuration("GEOIP_TIMEOUT", 2*time.Second),
		},
		OTel: OTelConfig{
			Enabled:  GetEnvBool("OTEL_ENABLED", false),
			Endpoint: GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		},
	}

	if cfg.Shortener.RedirectStatus != 301 && cfg.Shortener.RedirectStatus != 302 {
		return nil, fmt.Errorf("REDIRECT_STATUS must be 301 or 302 (got %d)", cfg.Shortener.RedirectStatus)
	}
	if cfg.Shortener.CodeLength < 4 || cfg.Shortener.CodeLength > 32 {
		return nil, fmt.Errorf("CODE_LENGTH must be between 4 and 32 (got %d)", cfg.Shortener.CodeLength)
	}
	if cfg.Shortener.MaxAttempts <= 0 {
		return nil, fmt.Errorf("CODE_MAX_ATTEMPTS must be > 0 (got %d)", cfg.Shortener.MaxAttempts)
	}
	if cfg.RateLimit.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be > 0 (got %d)", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be > 0 (got %s)", cfg.RateLimit.Window)
	}

	return cfg, nil
}
