package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	AppMode           string `env:"APP_MODE" envDefault:"dev"`
	Port              string `env:"PORT" envDefault:"3000"`
	AllowedOrigins    string `env:"ALLOWED_ORIGINS"`
	AbilityPolicyPath string `env:"ABILITY_POLICY_PATH"`
	AutoMigrate       bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	Ledger            LedgerConfig
	Database          DatabaseConfig
	JWT               JWTConfig
}

// DatabaseConfig holds database configuration, read with the mode prefix
type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"mysql"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"3306"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASS"`
	DBName   string `env:"DB_NAME" envDefault:"carbon_registry"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// JWTConfig holds JWT configuration, read with the mode prefix
type JWTConfig struct {
	Secret          string `env:"JWT_SECRET" envDefault:"default_secret"`
	AccessTokenMins int    `env:"ACCESS_TOKEN_MINUTES" envDefault:"15"`
}

// LedgerConfig holds programme ledger configuration.
// With no brokers the ledger calls are only logged.
type LedgerConfig struct {
	Brokers      []string      `env:"LEDGER_BROKERS" envSeparator:","`
	Topic        string        `env:"LEDGER_TOPIC" envDefault:"programme-ledger"`
	RetrySpec    string        `env:"LEDGER_RETRY_SPEC" envDefault:"@every 1m"`
	MaxAttempts  int           `env:"LEDGER_MAX_ATTEMPTS" envDefault:"10"`
	PendingGrace time.Duration `env:"LEDGER_PENDING_GRACE" envDefault:"1m"`
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", cfg.AppMode, cfg.Database.Driver)
	return cfg, nil
}

// Parse builds the configuration from the process environment
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config.Parse: %w", err)
	}

	// Trim spaces for Windows compatibility
	cfg.AppMode = strings.TrimSpace(cfg.AppMode)
	if cfg.AppMode != "dev" && cfg.AppMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", cfg.AppMode)
	}

	// Mode-specific sections are read again with the DEV_ or PROD_ prefix only.
	cfg.Database, cfg.JWT = DatabaseConfig{}, JWTConfig{}
	opts := env.Options{Prefix: cfg.modePrefix()}
	if err := env.Parse(&cfg.Database, opts); err != nil {
		return nil, fmt.Errorf("config.Parse database: %w", err)
	}
	if err := env.Parse(&cfg.JWT, opts); err != nil {
		return nil, fmt.Errorf("config.Parse jwt: %w", err)
	}

	if cfg.Database.Driver != DriverMySQL && cfg.Database.Driver != DriverPostgres {
		return nil, fmt.Errorf("invalid %sDB_DRIVER: '%s' (must be '%s' or '%s')",
			cfg.modePrefix(), cfg.Database.Driver, DriverMySQL, DriverPostgres)
	}
	if cfg.IsProd() && cfg.JWT.Secret == "default_secret" {
		return nil, fmt.Errorf("PROD_JWT_SECRET must be set in prod mode")
	}

	return cfg, nil
}

func (c *Config) modePrefix() string {
	if c.IsProd() {
		return "PROD_"
	}
	return "DEV_"
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "https://registry.carbon.example.org"
	}
	return c.AllowedOrigins
}
