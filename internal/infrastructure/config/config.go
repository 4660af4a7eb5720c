package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Menu source kinds
const (
	SourcePostgres = "postgres"
	SourceFile     = "file"
)

// Cache backends
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

// Filter policies
const (
	PolicyScored   = "scored"
	PolicyMealTime = "meal_time"
)

// Config application configuration
type Config struct {
	App            AppConfig            `mapstructure:"app"`
	Server         ServerConfig         `mapstructure:"server"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Menu           MenuConfig           `mapstructure:"menu"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Cache          CacheConfig          `mapstructure:"cache"`
	LLM            LLMConfig            `mapstructure:"llm"`
	Breaker        BreakerConfig        `mapstructure:"breaker"`
	Queue          QueueConfig          `mapstructure:"queue"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Chat           ChatConfig           `mapstructure:"chat"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	DedupWindow    time.Duration        `mapstructure:"dedup_window"`
	LogLevel       string               `mapstructure:"log_level"`
}

// AppConfig application settings
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// AuthConfig bearer token gate
type AuthConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BearerToken string `mapstructure:"bearer_token"`
}

// DatabaseConfig postgres pool settings
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
	Migrate         bool          `mapstructure:"migrate"`
}

// MenuConfig where menu, orders and reviews are read from
type MenuConfig struct {
	Source string `mapstructure:"source"`
	File   string `mapstructure:"file"`
}

// RedisConfig redis connection
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CacheConfig menu cache settings
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// LLMConfig generation provider settings
type LLMConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	ChatModel   string        `mapstructure:"chat_model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// BreakerConfig circuit breaker around the generation provider
type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

// QueueConfig in-flight generation limits
type QueueConfig struct {
	Workers int           `mapstructure:"workers"`
	MaxWait time.Duration `mapstructure:"max_wait"`
}

// RecommendationConfig filter policy and limits
type RecommendationConfig struct {
	FilterPolicy string `mapstructure:"filter_policy"`
	MaxItems     int    `mapstructure:"max_items"`
}

// ChatConfig chat assistant settings
type ChatConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	KnowledgeFile string `mapstructure:"knowledge_file"`
	Branch        int    `mapstructure:"branch"`
	TopK          int    `mapstructure:"top_k"`
	HistorySize   int    `mapstructure:"history_size"`
}

// RateLimitConfig rate limiting
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// envAliases plain deployment variables mapped onto config keys
var envAliases = map[string]string{
	"database.url":                 "DATABASE_URL",
	"redis.host":                   "REDIS_HOST",
	"redis.port":                   "REDIS_PORT",
	"redis.password":               "REDIS_PASSWORD",
	"cache.ttl":                    "REDIS_TTL",
	"auth.bearer_token":            "API_BEARER_TOKEN",
	"llm.api_key":                  "GROQ_API_KEY",
	"llm.model":                    "GROQ_MODEL",
	"server.port":                  "PORT",
	"log_level":                    "LOG_LEVEL",
	"menu.source":                  "MENU_SOURCE",
	"menu.file":                    "MENU_FILE",
	"recommendation.filter_policy": "FILTER_POLICY",
	"rate_limit.enabled":           "RATE_LIMIT_ENABLED",
	"rate_limit.requests":          "RATE_LIMIT_REQUESTS",
	"rate_limit.window":            "RATE_LIMIT_WINDOW",
	"dedup_window":                 "DEDUP_WINDOW",
}

// LoadConfig loads configuration from .env, an optional YAML file and the environment
func LoadConfig() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envAliases {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// REDIS_TTL is given in plain seconds
	if ttl := v.GetString("cache.ttl"); isDigits(ttl) {
		v.Set("cache.ttl", ttl+"s")
	}

	// logger is not up yet
	fmt.Println("Loading configuration", "llm_api_key:", maskAPIKey(v.GetString("llm.api_key")), "llm_model:", v.GetString("llm.model"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey shows only the first and last 4 characters
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// setDefaults default values
func setDefaults(v *viper.Viper) {
	// app
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "meal-deals")

	// server
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors_origins", []string{"*"})

	// auth
	v.SetDefault("auth.enabled", true)

	// database
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.ping_timeout", "5s")
	v.SetDefault("database.migrate", true)

	// menu source
	v.SetDefault("menu.source", SourcePostgres)
	v.SetDefault("menu.file", "data/menu.json")

	// redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// cache
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", CacheRedis)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "300s")
	v.SetDefault("cache.cleanup_interval", "1m")

	// generation provider
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "moonshotai/kimi-k2-instruct")
	v.SetDefault("llm.chat_model", "groq/compound-mini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.timeout", "60s")

	// circuit breaker
	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", "60s")
	v.SetDefault("breaker.timeout", "30s")
	v.SetDefault("breaker.failure_threshold", 5)

	// generation slots
	v.SetDefault("queue.workers", 5)
	v.SetDefault("queue.max_wait", "10s")

	// recommendation
	v.SetDefault("recommendation.filter_policy", PolicyScored)
	v.SetDefault("recommendation.max_items", 50)

	// chat
	v.SetDefault("chat.enabled", true)
	v.SetDefault("chat.knowledge_file", "data/knowledge.txt")
	v.SetDefault("chat.branch", 1)
	v.SetDefault("chat.top_k", 8)
	v.SetDefault("chat.history_size", 5)

	// rate limit
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// normalize lower-cases enum-like settings
func normalize(config *Config) {
	config.Menu.Source = strings.ToLower(strings.TrimSpace(config.Menu.Source))
	config.Cache.Backend = strings.ToLower(strings.TrimSpace(config.Cache.Backend))
	config.Recommendation.FilterPolicy = strings.ToLower(strings.TrimSpace(config.Recommendation.FilterPolicy))
	if len(config.Server.CORSOrigins) == 0 {
		config.Server.CORSOrigins = []string{"*"}
	}
}

// validateConfig rejects inconsistent settings
func validateConfig(config *Config) error {
	// server
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// auth
	if config.Auth.Enabled && config.Auth.BearerToken == "" {
		return fmt.Errorf("auth is enabled but no bearer token is set")
	}

	// menu source
	switch config.Menu.Source {
	case SourcePostgres:
		if config.Database.URL == "" {
			return fmt.Errorf("database url is required for the postgres menu source")
		}
	case SourceFile:
		if config.Menu.File == "" {
			return fmt.Errorf("menu file is required for the file menu source")
		}
	default:
		return fmt.Errorf("unknown menu source %q", config.Menu.Source)
	}

	// cache
	if config.Cache.Enabled {
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		switch config.Cache.Backend {
		case CacheRedis:
		case CacheMemory:
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
	}

	// recommendation
	switch config.Recommendation.FilterPolicy {
	case PolicyScored, PolicyMealTime:
	default:
		return fmt.Errorf("unknown filter policy %q", config.Recommendation.FilterPolicy)
	}
	if config.Recommendation.MaxItems <= 0 {
		return fmt.Errorf("invalid recommendation max items")
	}

	// generation slots
	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}

	if config.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("invalid breaker failure threshold")
	}

	// rate limit
	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	// chat
	if config.Chat.Enabled {
		if config.Chat.TopK <= 0 {
			return fmt.Errorf("invalid chat top_k")
		}
		if config.Chat.HistorySize <= 0 {
			return fmt.Errorf("invalid chat history size")
		}
	}

	return nil
}
