package solver

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the solver service
type Config struct {
	SamplerMode     string // "exact" or the name of a registry endpoint
	SamplerURL      string // ad-hoc endpoint when no registry profile fits
	RegistryPath    string
	Label           string
	NumReads        int
	Lagrange        float64
	RequireFeasible bool
	CacheSize       int
	CacheTTL        time.Duration
	SolveTimeout    time.Duration
	HTTPPort        string
	LogLevel        string
	JaegerEndpoint  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		SamplerMode:     getEnv("SAMPLER_MODE", "exact"),
		SamplerURL:      getEnv("SAMPLER_URL", ""),
		RegistryPath:    getEnv("SAMPLER_REGISTRY", ""),
		Label:           getEnv("SUBMISSION_LABEL", "knapsack"),
		NumReads:        getEnvInt("NUM_READS", 10),
		Lagrange:        getEnvFloat("LAGRANGE", 0),
		RequireFeasible: getEnvBool("REQUIRE_FEASIBLE", false),
		CacheSize:       getEnvInt("CACHE_SIZE", 256),
		CacheTTL:        getEnvDuration("CACHE_TTL", "10m"),
		SolveTimeout:    getEnvDuration("SOLVE_TIMEOUT", "120s"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		JaegerEndpoint:  getEnv("JAEGER_ENDPOINT", ""),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
