// Package config loads the server configuration from an optional
// config.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MinJWTKeyLength is the shortest signing key accepted.
const MinJWTKeyLength = 32

// Config holds all server configuration.
type Config struct {
	App         AppConfig
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Gemini      GeminiConfig
	Bootstrap   BootstrapConfig
	Log         LogConfig
	Idempotency IdempotencyConfig
}

type AppConfig struct {
	Env string // development, production
}

// IsDevelopment reports a development deployment.
func (a AppConfig) IsDevelopment() bool { return a.Env == "development" }

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL         string
	MaxConns    int32
	MinConns    int32
	AutoMigrate bool
}

// RedisConfig configures the optional read cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a redis address is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type JWTConfig struct {
	Key            string
	Issuer         string
	Audience       string
	ExpiresMinutes int
}

// GeminiConfig configures the external assistant provider. An empty APIKey
// keeps the assistant on its built-in heuristic.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
	AdminFullName string
	AdminRole     string
}

type LogConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

type IdempotencyConfig struct {
	TTL time.Duration
}

// envBindings maps config keys to the deployment's well-known variable names.
var envBindings = map[string]string{
	"app.env":                  "APP_ENV",
	"http.port":                "HTTP_PORT",
	"database.url":             "DATABASE_URL",
	"redis.addr":               "REDIS_ADDR",
	"redis.password":           "REDIS_PASSWORD",
	"jwt.key":                  "JWT_KEY",
	"gemini.api_key":           "GEMINI_API_KEY",
	"gemini.model":             "GEMINI_MODEL",
	"bootstrap.admin_password": "AUTH_SEED_ADMIN_PASSWORD",
	"bootstrap.admin_username": "AUTH_SEED_ADMIN_USERNAME",
	"log.level":                "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetDefault("jwt.issuer", "AirSolutions")
	v.SetDefault("jwt.audience", "AirSolutions.Web")
	v.SetDefault("jwt.expires_minutes", 480)

	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("gemini.timeout", 20*time.Second)

	v.SetDefault("bootstrap.admin_username", "cristhian")
	v.SetDefault("bootstrap.admin_full_name", "Cristhian Cuevas")
	v.SetDefault("bootstrap.admin_role", "Admin")

	v.SetDefault("log.level", "info")

	v.SetDefault("idempotency.ttl", 24*time.Hour)
}

// Load reads config.yaml (when present) from the given directories, or from
// ".", "./config" and "/etc/airsolutions" when none are given, then overlays
// environment variables. The result is validated.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "/etc/airsolutions"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("AIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, "AIR_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env: v.GetString("app.env"),
		},
		HTTP: HTTPConfig{
			Port:         v.GetString("http.port"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Database: DatabaseConfig{
			URL:         v.GetString("database.url"),
			MaxConns:    v.GetInt32("database.max_conns"),
			MinConns:    v.GetInt32("database.min_conns"),
			AutoMigrate: v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		JWT: JWTConfig{
			Key:            v.GetString("jwt.key"),
			Issuer:         v.GetString("jwt.issuer"),
			Audience:       v.GetString("jwt.audience"),
			ExpiresMinutes: v.GetInt("jwt.expires_minutes"),
		},
		Gemini: GeminiConfig{
			APIKey:  v.GetString("gemini.api_key"),
			Model:   v.GetString("gemini.model"),
			BaseURL: v.GetString("gemini.base_url"),
			Timeout: v.GetDuration("gemini.timeout"),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: v.GetString("bootstrap.admin_username"),
			AdminPassword: v.GetString("bootstrap.admin_password"),
			AdminFullName: v.GetString("bootstrap.admin_full_name"),
			AdminRole:     v.GetString("bootstrap.admin_role"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
		},
		Idempotency: IdempotencyConfig{
			TTL: v.GetDuration("idempotency.ttl"),
		},
	}
	if !v.IsSet("log.development") {
		cfg.Log.Development = cfg.App.IsDevelopment()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or unsafe setting at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Key) == "" {
		errs = append(errs, errors.New("jwt key is required (JWT_KEY)"))
	} else if len(c.JWT.Key) < MinJWTKeyLength {
		errs = append(errs, fmt.Errorf("jwt key must be at least %d characters", MinJWTKeyLength))
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		errs = append(errs, errors.New("database url is required (DATABASE_URL)"))
	}
	if c.JWT.ExpiresMinutes <= 0 {
		errs = append(errs, errors.New("jwt expires_minutes must be positive"))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, errors.New("database min_conns cannot exceed max_conns"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.HTTP.Port
}
