package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DeveloperMode  bool     `mapstructure:"DEVELOPER_MODE"`
	APIBaseURL     string   `mapstructure:"API_BASE_URL"`
	ABDMBaseURL    string   `mapstructure:"ABDM_BASE_URL"`
	ABDMClientID   string   `mapstructure:"ABDM_CLIENT_ID"`
	ABDMSecret     string   `mapstructure:"ABDM_CLIENT_SECRET"`
	SessionSecret  string   `mapstructure:"SESSION_SECRET"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	// HTTPTimeout bounds every outbound call to the remote API. The mobile
	// client this backend replaced only set a timeout on the insights service;
	// here it is uniform.
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`

	// LatencyScale multiplies simulated developer-mode latencies. 0 disables
	// the artificial delays entirely (used by the test suite).
	LatencyScale float64 `mapstructure:"LATENCY_SCALE"`

	// ExportProcessingDelay is how long a developer-mode export job stays in
	// "processing" before the background processor completes it.
	ExportProcessingDelay time.Duration `mapstructure:"EXPORT_PROCESSING_DELAY"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DEVELOPER_MODE", true)
	v.SetDefault("API_BASE_URL", "https://api.ayusetu.health/api/v1")
	v.SetDefault("ABDM_BASE_URL", "https://abhasbx.abdm.gov.in/abha/api")
	v.SetDefault("SESSION_SECRET", "ayusetu-dev-secret")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("LATENCY_SCALE", 1.0)
	v.SetDefault("EXPORT_PROCESSING_DELAY", "3s")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DEVELOPER_MODE")
	v.BindEnv("API_BASE_URL")
	v.BindEnv("ABDM_BASE_URL")
	v.BindEnv("ABDM_CLIENT_ID")
	v.BindEnv("ABDM_CLIENT_SECRET")
	v.BindEnv("SESSION_SECRET")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("HTTP_TIMEOUT")
	v.BindEnv("LATENCY_SCALE")
	v.BindEnv("EXPORT_PROCESSING_DELAY")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DeveloperMode {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPER mode (DEVELOPER_MODE=true).")
		log.Println("WARNING: All remote API calls are replaced with synthetic responses.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside developer
// mode the remote API base URL and a database for export/report history are
// required; in production developer mode must be off.
func (c *Config) Validate() error {
	if c.IsProduction() && c.DeveloperMode {
		return fmt.Errorf("DEVELOPER_MODE must be false in production")
	}
	if !c.DeveloperMode {
		if c.APIBaseURL == "" {
			return fmt.Errorf("API_BASE_URL is required when DEVELOPER_MODE is false")
		}
		if c.ABDMBaseURL == "" {
			return fmt.Errorf("ABDM_BASE_URL is required when DEVELOPER_MODE is false")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DEVELOPER_MODE is false")
		}
	}
	if c.LatencyScale < 0 {
		return fmt.Errorf("LATENCY_SCALE must be >= 0, got %v", c.LatencyScale)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}
	return nil
}
