package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Session store backends
const (
	SessionStoreSQL    = "sql"
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration
type Config struct {
	Env            string    `mapstructure:"env"`
	Log            Log       `mapstructure:"log"`
	Server         Server    `mapstructure:"server"`
	Database       Database  `mapstructure:"database"`
	MigrationsPath string    `mapstructure:"migrations_path"`
	SessionStore   string    `mapstructure:"session_store"`
	Redis          Redis     `mapstructure:"redis"`
	RateLimit      RateLimit `mapstructure:"rate_limit"`
	Content        Content   `mapstructure:"content"`
	BadWords       BadWords  `mapstructure:"bad_words"`
}

type Log struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Server struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// TrustedProxies lists proxy IPs or CIDR ranges whose forwarding headers are believed
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
}

// Database selects the SQL backend. Path is used by sqlite, URL by postgres and mysql.
type Database struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
	URL  string `mapstructure:"url"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type Redis struct {
	URL        string        `mapstructure:"url"`
	SessionTTL time.Duration `mapstructure:"session_ttl"` // 0 keeps sessions forever
}

// RateLimit bounds game starts per client IP
type RateLimit struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type Content struct {
	Seed bool   `mapstructure:"seed"`
	Path string `mapstructure:"path"` // empty uses the embedded bank
}

type BadWords struct {
	Seed bool   `mapstructure:"seed"`
	URL  string `mapstructure:"url"`
}

// Load reads configuration from an optional .env file, config/config.yaml and the environment.
// Environment variables use the key path with dots replaced by underscores, e.g. DATABASE_TYPE.
func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("database.url", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "./fallacyfinder.db")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("migrations_path", "./migrations")
	v.SetDefault("session_store", SessionStoreSQL)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.session_ttl", "0s")
	v.SetDefault("rate_limit.requests", 30)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("content.seed", true)
	v.SetDefault("content.path", "")
	v.SetDefault("bad_words.seed", false)
	v.SetDefault("bad_words.url", "https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/refs/heads/master/en")
}

// Validate checks combinations that would only fail later at startup
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Type) {
	case "sqlite", "sqlite3", "":
	case "postgres", "postgresql", "mysql":
		if c.Database.URL == "" {
			return fmt.Errorf("%w: database.url is required for %s", ErrInvalidConfig, c.Database.Type)
		}
	default:
		return fmt.Errorf("%w: unsupported database type %q", ErrInvalidConfig, c.Database.Type)
	}

	switch c.SessionStore {
	case SessionStoreSQL, SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("%w: redis.url is required for the redis session store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown session store %q", ErrInvalidConfig, c.SessionStore)
	}

	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("%w: rate_limit.requests and rate_limit.window must be positive", ErrInvalidConfig)
	}
	return nil
}
