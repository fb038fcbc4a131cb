package config

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	AI        AIConfig
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Runtime flags set from the command line, not from the config file.
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds both the global token bucket applied to every route
// and the fixed-window limit for the public demo chat.
type RateLimitConfig struct {
	MaxRequests   int             `mapstructure:"max_requests"`
	WindowMinutes int             `mapstructure:"window_minutes"`
	Demo          DemoLimitConfig `mapstructure:"demo"`
}

type DemoLimitConfig struct {
	MaxRequests   int    `mapstructure:"max_requests"`
	WindowSeconds int    `mapstructure:"window_seconds"`
	Store         string `mapstructure:"store"`      // memory | redis
	ClientKey     string `mapstructure:"client_key"` // ip | forwarded
}

func (d DemoLimitConfig) Window() time.Duration {
	return time.Duration(d.WindowSeconds) * time.Second
}

type AIConfig struct {
	Provider    string        `mapstructure:"provider"` // azure | openai
	Endpoint    string        `mapstructure:"endpoint"`
	APIKey      string        `mapstructure:"api_key"`
	APIVersion  string        `mapstructure:"api_version"`
	Deployment  string        `mapstructure:"deployment"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Port           string
	Mode           string
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type DatabaseConfig struct {
	Driver    string // mysql | postgres | sqlite
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	SSLMode   string `mapstructure:"sslmode"`
	Path      string // sqlite file
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("jwt.expire_hours", 72)

	v.SetDefault("ai.provider", "azure")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 500)
	v.SetDefault("ai.timeout", "30s")

	v.SetDefault("rate_limit.max_requests", 100000)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("rate_limit.demo.max_requests", 10)
	v.SetDefault("rate_limit.demo.window_seconds", 60)
	v.SetDefault("rate_limit.demo.store", "memory")
	v.SetDefault("rate_limit.demo.client_key", "ip")
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("NARADA")
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	// AI, named after the Azure OpenAI variables the web app used
	v.BindEnv("ai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("ai.api_key", "AZURE_OPENAI_API_KEY")
	v.BindEnv("ai.api_version", "AZURE_OPENAI_API_VERSION")
	v.BindEnv("ai.deployment", "AZURE_OPENAI_DEPLOYMENT_NAME")

	// Rate limit
	v.BindEnv("rate_limit.demo.store", "DEMO_RATE_LIMIT_STORE")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}

	if c.RateLimit.Demo.MaxRequests <= 0 || c.RateLimit.Demo.WindowSeconds <= 0 {
		return fmt.Errorf("rate_limit.demo requires positive max_requests and window_seconds")
	}

	switch c.RateLimit.Demo.Store {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return fmt.Errorf("rate_limit.demo.store=redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("unknown rate_limit.demo.store %q", c.RateLimit.Demo.Store)
	}

	switch c.RateLimit.Demo.ClientKey {
	case "", "ip", "forwarded":
	default:
		return fmt.Errorf("unknown rate_limit.demo.client_key %q", c.RateLimit.Demo.ClientKey)
	}

	for _, proxy := range c.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("invalid server.trusted_proxies entry %q", proxy)
			}
		}
	}

	switch c.AI.Provider {
	case "azure", "openai":
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}

	return nil
}
