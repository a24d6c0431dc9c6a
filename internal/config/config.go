package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Optimizer OptimizerConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// OptimizerConfig holds the tunables of the lot-selection engine.
// Defaults reproduce the documented selection behavior; every knob can
// be overridden per deployment through the environment.
type OptimizerConfig struct {
	// Tolerance is the default overshoot ceiling fraction for target
	// matching: selections never exceed |need| * (1 + Tolerance).
	Tolerance float64

	// LargeNeedTolerance replaces Tolerance once |need| reaches
	// LargeNeedThreshold, tightening the ceiling for large targets.
	LargeNeedTolerance float64
	LargeNeedThreshold float64

	// MinPartialFraction is the smallest slice of a lot worth selling
	// partially, as a fraction of the lot's shares.
	MinPartialFraction float64

	// StopFraction stops accumulation once the running total reaches
	// this fraction of the need, leaving margin against overshoot.
	StopFraction float64

	// CashOverageCap bounds proceeds overshoot in cash mode as a
	// fraction of the requested amount.
	CashOverageCap float64

	// ExactLotLimit is the largest candidate pool the exact subset-sum
	// strategy will attempt before falling back to greedy.
	ExactLotLimit int

	// ExactTimeout bounds the exact strategy's runtime.
	ExactTimeout time.Duration

	// EstTaxRateST and EstTaxRateLT are the marginal rates used for the
	// informational tax-cost estimate. They never gate selection.
	EstTaxRateST float64
	EstTaxRateLT float64
}

// LoggingConfig holds structured-logging configuration.
type LoggingConfig struct {
	Level    string
	Console  bool
	File     bool
	FilePath string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/fund_catalog.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Optimizer: DefaultOptimizerConfig(),
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Console:  getEnvBool("LOG_CONSOLE", true),
			File:     getEnvBool("LOG_FILE", false),
			FilePath: getEnv("LOG_FILE_PATH", "./logs/optimizer.log"),
		},
	}

	config.Optimizer.Tolerance = getEnvFloat("OPT_TOLERANCE", config.Optimizer.Tolerance)
	config.Optimizer.LargeNeedTolerance = getEnvFloat("OPT_LARGE_NEED_TOLERANCE", config.Optimizer.LargeNeedTolerance)
	config.Optimizer.LargeNeedThreshold = getEnvFloat("OPT_LARGE_NEED_THRESHOLD", config.Optimizer.LargeNeedThreshold)
	config.Optimizer.CashOverageCap = getEnvFloat("OPT_CASH_OVERAGE_CAP", config.Optimizer.CashOverageCap)

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// DefaultOptimizerConfig returns the engine defaults.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		Tolerance:          0.05,
		LargeNeedTolerance: 0.01,
		LargeNeedThreshold: 100000,
		MinPartialFraction: 0.05,
		StopFraction:       0.90,
		CashOverageCap:     0.01,
		ExactLotLimit:      60,
		ExactTimeout:       2 * time.Second,
		EstTaxRateST:       0.37,
		EstTaxRateLT:       0.20,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvFloat gets a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
