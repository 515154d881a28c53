package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kailas-cloud/docgate/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a MongoDB store.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// Store implements db.Store via the official MongoDB driver.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewStore creates a MongoDB store. The driver connects lazily; use
// WaitForReady to block until the server answers.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("uri is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database name is required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout).SetServerSelectionTimeout(cfg.ConnectTimeout)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, database: client.Database(cfg.Database)}, nil
}

// Name returns the database name.
func (s *Store) Name() string { return s.database.Name() }

// Ping checks connectivity against the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return wrap(db.OpPing, err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// wrap classifies a driver error into the db sentinels.
func wrap(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return &db.Error{Op: op, Err: fmt.Errorf("%w: %w", db.ErrNotFound, err)}
	case mongo.IsDuplicateKeyError(err):
		return &db.Error{Op: op, Err: fmt.Errorf("%w: %w", db.ErrDuplicateKey, err)}
	default:
		return &db.Error{Op: op, Err: fmt.Errorf("%w: %w", db.ErrUnavailable, err)}
	}
}
