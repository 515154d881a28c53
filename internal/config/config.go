package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the docgate API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Query    QueryConfig    `yaml:"query"`
	CORS     CORSConfig     `yaml:"cors"`
	Seed     SeedConfig     `yaml:"seed"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string `yaml:"format"` // json or console (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Database drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string `yaml:"driver"` // mongo, memory (default: mongo)
	URL              string `yaml:"url"`    // empty: start without a database
	Name             string `yaml:"name"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
	ConnectTimeout   int    `yaml:"connect_timeout_sec"`
	MaxPoolSize      uint64 `yaml:"max_pool_size"`
}

// QueryConfig holds result size limits.
type QueryConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowCredentials bool     `yaml:"allow_credentials"` // only honoured with explicit origins
}

// CredentialsAllowed reports whether credentialed CORS requests are accepted.
// A wildcard origin never allows them.
func (c CORSConfig) CredentialsAllowed() bool {
	if !c.AllowCredentials {
		return false
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return false
		}
	}
	return true
}

// SeedConfig holds the optional distributed seed lock.
type SeedConfig struct {
	LockAddrs    []string `yaml:"lock_addrs"` // empty: no lock
	LockPassword string   `yaml:"lock_password"`
	LockTTLSec   int      `yaml:"lock_ttl_sec"`
}

// Load reads configuration from a YAML file by environment name (local, docker, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMongo
	}
	if c.Database.Name == "" {
		c.Database.Name = "docgate"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.ConnectTimeout <= 0 {
		c.Database.ConnectTimeout = 5
	}
	if c.Query.DefaultLimit <= 0 {
		c.Query.DefaultLimit = 50
	}
	if c.Query.MaxLimit <= 0 {
		c.Query.MaxLimit = 200
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.Seed.LockTTLSec <= 0 {
		c.Seed.LockTTLSec = 30
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverMongo, DriverMemory:
		// ok
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverMongo, DriverMemory, c.Database.Driver)
	}
	if c.Query.DefaultLimit > c.Query.MaxLimit {
		return fmt.Errorf("query.default_limit (%d) must not exceed query.max_limit (%d)",
			c.Query.DefaultLimit, c.Query.MaxLimit)
	}
	return nil
}

// DatabaseConfigured reports whether a real database backend can be built.
func (c *Config) DatabaseConfigured() bool {
	return c.Database.Driver == DriverMemory || c.Database.URL != ""
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
