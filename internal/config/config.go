package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/gogotex/pingbot/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	Settings  SettingsConfig
	Outbox    OutboxConfig
	Webhook   WebhookConfig
	RateLimit RateLimitConfig
	Bot       BotConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig selects the wiki page backend: memory | mongo | redis | minio.
type StoreConfig struct {
	Backend  string
	PageName string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for go-redis.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// SettingsConfig selects where moderator settings are read from: memory | file | redis.
type SettingsConfig struct {
	Backend string
	File    string
}

// OutboxConfig selects the outbound messaging channel: log | redis.
type OutboxConfig struct {
	Backend string
	Key     string
}

type WebhookConfig struct {
	Secret string
	// DedupeTTL is how long processed event IDs are remembered.
	DedupeTTL time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

type BotConfig struct {
	MentionPrefix string
	BaseURL       string
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("STORE_BACKEND", "memory")
	viper.SetDefault("WIKI_PAGE_NAME", "ping-bot")
	viper.SetDefault("MONGODB_DATABASE", "pingbot")
	viper.SetDefault("MONGODB_COLLECTION", "wiki_pages")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("MINIO_BUCKET", "pingbot")
	viper.SetDefault("SETTINGS_BACKEND", "memory")
	viper.SetDefault("SETTINGS_FILE", "settings.yaml")
	viper.SetDefault("OUTBOX_BACKEND", "log")
	viper.SetDefault("OUTBOX_KEY", "pingbot:outbox")
	viper.SetDefault("WEBHOOK_DEDUPE_TTL_SECONDS", 86400)
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("MENTION_PREFIX", "u/")
	viper.SetDefault("PLATFORM_BASE_URL", "https://www.reddit.com")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Backend:  strings.ToLower(viper.GetString("STORE_BACKEND")),
			PageName: viper.GetString("WIKI_PAGE_NAME"),
		},
		MongoDB: MongoDBConfig{
			URI:        viper.GetString("MONGODB_URI"),
			Database:   viper.GetString("MONGODB_DATABASE"),
			Collection: viper.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
		Settings: SettingsConfig{
			Backend: strings.ToLower(viper.GetString("SETTINGS_BACKEND")),
			File:    viper.GetString("SETTINGS_FILE"),
		},
		Outbox: OutboxConfig{
			Backend: strings.ToLower(viper.GetString("OUTBOX_BACKEND")),
			Key:     viper.GetString("OUTBOX_KEY"),
		},
		Webhook: WebhookConfig{
			Secret:    viper.GetString("WEBHOOK_SECRET"),
			DedupeTTL: time.Duration(viper.GetInt("WEBHOOK_DEDUPE_TTL_SECONDS")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Bot: BotConfig{
			MentionPrefix: viper.GetString("MENTION_PREFIX"),
			BaseURL:       strings.TrimRight(viper.GetString("PLATFORM_BASE_URL"), "/"),
		},
	}

	if cfg.Store.Backend == "mongo" && cfg.MongoDB.URI == "" {
		logger.Warnf("[config] STORE_BACKEND=mongo but MONGODB_URI is empty; falling back to memory store")
		cfg.Store.Backend = "memory"
	}
	if cfg.Webhook.Secret == "" {
		logger.Warnf("[config] WEBHOOK_SECRET is not set; event endpoints accept unauthenticated requests")
	}

	return cfg, nil
}
