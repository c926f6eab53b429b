package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Billing  BillingConfig  `mapstructure:"billing"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// BillingConfig holds the statutory rate defaults applied to invoice
// calculations when a request does not override them.
type BillingConfig struct {
	PFRatePct   float64 `mapstructure:"pf_rate_pct"`
	ESICRatePct float64 `mapstructure:"esic_rate_pct"`
	CGSTRatePct float64 `mapstructure:"cgst_rate_pct"`
	SGSTRatePct float64 `mapstructure:"sgst_rate_pct"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/billing.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Statutory rate defaults
	viper.SetDefault("billing.pf_rate_pct", entity.DefaultPFRatePct)
	viper.SetDefault("billing.esic_rate_pct", entity.DefaultESICRatePct)
	viper.SetDefault("billing.cgst_rate_pct", entity.DefaultCGSTRatePct)
	viper.SetDefault("billing.sgst_rate_pct", entity.DefaultSGSTRatePct)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

func bindEnvVars() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	rates := map[string]float64{
		"billing.pf_rate_pct":   c.Billing.PFRatePct,
		"billing.esic_rate_pct": c.Billing.ESICRatePct,
		"billing.cgst_rate_pct": c.Billing.CGSTRatePct,
		"billing.sgst_rate_pct": c.Billing.SGSTRatePct,
	}
	for key, rate := range rates {
		if rate < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}
	return nil
}

// DefaultRateConfig returns a RateConfig seeded from the configured
// statutory rates.
func (c *Config) DefaultRateConfig() entity.RateConfig {
	cfg := entity.DefaultRateConfig()
	cfg.PFRatePct = c.Billing.PFRatePct
	cfg.ESICRatePct = c.Billing.ESICRatePct
	cfg.CGSTRatePct = c.Billing.CGSTRatePct
	cfg.SGSTRatePct = c.Billing.SGSTRatePct
	return cfg
}
