package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultPath = "config.json"

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig    `json:"basic_config"`
	Database    DatabaseConfig `json:"database"`
	Auth        AuthConfig     `json:"auth"`
	CORS        CORSConfig     `json:"cors"`
	Redis       RedisConfig    `json:"redis"`
	Log         LogConfig      `json:"log"`
}

type BasicConfig struct {
	ServerAddress          string `json:"server_address"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds"`
}

// DatabaseConfig selects the driver and its connection parameters.
// DSN is used verbatim for sqlite3 and postgres; mysql is assembled from the parts.
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type AuthConfig struct {
	APIKey     string `json:"api_key"`
	HeaderName string `json:"header_name"`
}

type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

type RedisConfig struct {
	Enabled               bool   `json:"enabled"`
	Host                  string `json:"host"`
	Port                  int    `json:"port"`
	Username              string `json:"username"`
	Password              string `json:"password"`
	DB                    int    `json:"db"`
	PromptCacheTTLSeconds int    `json:"prompt_cache_ttl_seconds"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Pretty bool   `json:"pretty"`
}

// overrides lists the SIVI_* environment variables applied on top of the file.
type overrides struct {
	ServerAddress string `envconfig:"SERVER_ADDRESS"`
	DBDriver      string `envconfig:"DB_DRIVER"`
	DBDSN         string `envconfig:"DB_DSN"`
	APIKey        string `envconfig:"API_KEY"`
	RedisEnabled  *bool  `envconfig:"REDIS_ENABLED"`
	RedisHost     string `envconfig:"REDIS_HOST"`
	RedisPort     int    `envconfig:"REDIS_PORT"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	LogLevel      string `envconfig:"LOG_LEVEL"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		BasicConfig: BasicConfig{
			ServerAddress:          ":3000",
			ShutdownTimeoutSeconds: 10,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "sivi.db",
		},
		Auth: AuthConfig{
			APIKey:     "sivi-key",
			HeaderName: "x-api-key",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Redis: RedisConfig{
			Host:                  "127.0.0.1",
			Port:                  6379,
			PromptCacheTTLSeconds: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the provided path (defaults to config.json),
// then applies .env and SIVI_* environment overrides.
// A missing default file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	cfg := Default()
	file, err := os.Open(absPath)
	switch {
	case err == nil:
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}

	_ = godotenv.Load()
	var env overrides
	if err := envconfig.Process("SIVI", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	env.apply(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "sqlite3" && !isMemoryDSN(cfg.Database.DSN) && !filepath.IsAbs(cfg.Database.DSN) {
		cfg.Database.DSN = filepath.Join(filepath.Dir(absPath), cfg.Database.DSN)
	}
	return cfg, nil
}

func (o overrides) apply(cfg *Config) {
	if o.ServerAddress != "" {
		cfg.BasicConfig.ServerAddress = o.ServerAddress
	}
	if o.DBDriver != "" {
		cfg.Database.Driver = o.DBDriver
	}
	if o.DBDSN != "" {
		cfg.Database.DSN = o.DBDSN
	}
	if o.APIKey != "" {
		cfg.Auth.APIKey = o.APIKey
	}
	if o.RedisEnabled != nil {
		cfg.Redis.Enabled = *o.RedisEnabled
	}
	if o.RedisHost != "" {
		cfg.Redis.Host = o.RedisHost
	}
	if o.RedisPort != 0 {
		cfg.Redis.Port = o.RedisPort
	}
	if o.RedisPassword != "" {
		cfg.Redis.Password = o.RedisPassword
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
}

func (c *Config) validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "sqlite", "sqlite3":
		c.Database.Driver = "sqlite3"
		if c.Database.DSN == "" {
			return errors.New("sqlite dsn must be configured")
		}
	case "postgres", "pgx":
		c.Database.Driver = "postgres"
		if c.Database.DSN == "" {
			return errors.New("postgres dsn must be configured")
		}
	case "mysql":
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("mysql host and db_name must be configured")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if strings.TrimSpace(c.Auth.APIKey) == "" {
		return errors.New("auth.api_key must be configured")
	}
	if c.Auth.HeaderName == "" {
		c.Auth.HeaderName = "x-api-key"
	}
	return nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file:")
}
