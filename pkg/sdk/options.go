package docgate

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "mongo" or "memory"
	uri      string
	database string

	connectTimeout   time.Duration
	readinessTimeout time.Duration

	defaultLimit int
	maxLimit     int

	lockAddrs    []string
	lockPassword string
	lockTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMongo stores documents in the given MongoDB database.
func WithMongo(uri, database string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMongo
		c.uri = uri
		c.database = database
	})
}

// WithMemory keeps documents in process memory. Data is lost on Close.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
	})
}

// WithConnectTimeout bounds connecting to and waiting for the database.
// Default: 10s.
func WithConnectTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.connectTimeout = d
		c.readinessTimeout = d
	})
}

// WithLimits sets the default and maximum number of documents returned by Find.
// Defaults: 50 and 200.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithSeedLock serialises Seed across processes through a Redis/Valkey lock.
func WithSeedLock(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.lockAddrs = []string{addr}
		c.lockPassword = password
		c.lockTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
