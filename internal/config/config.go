// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting of the server and the seed command.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type AppConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`

	// LogQueries traces every SQL statement at debug level.
	LogQueries       bool          `mapstructure:"log_queries"`
	// StatementTimeout bounds each statement inside a transaction.
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// RedisConfig configures the report cache. An empty URL disables it.
type RedisConfig struct {
	URL            string        `mapstructure:"url"`
	ReportCacheTTL time.Duration `mapstructure:"report_cache_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

var envKeys = map[string]string{
	"app.port":                   "APP_PORT",
	"app.env":                    "APP_ENV",
	"log.level":                  "LOG_LEVEL",
	"database.url":               "DATABASE_URL",
	"database.max_conns":         "DB_MAX_CONNS",
	"database.min_conns":         "DB_MIN_CONNS",
	"database.log_queries":       "DB_LOG_QUERIES",
	"database.statement_timeout": "DB_STATEMENT_TIMEOUT",
	"jwt.secret":                 "JWT_SECRET",
	"jwt.ttl":                    "JWT_TTL",
	"redis.url":                  "REDIS_URL",
	"redis.report_cache_ttl":     "REPORT_CACHE_TTL",
	"cors.allowed_origins":       "CORS_ALLOWED_ORIGINS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.statement_timeout", 30*time.Second)
	v.SetDefault("jwt.ttl", 8*time.Hour)
	v.SetDefault("redis.report_cache_ttl", 5*time.Minute)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// Load reads envFiles (".env" when none is given; missing files are
// skipped), then the environment. Variables already set win over files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWT.Secret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	for i, o := range c.CORS.AllowedOrigins {
		c.CORS.AllowedOrigins[i] = strings.TrimSpace(o)
	}
	return nil
}
