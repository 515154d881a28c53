// Package redis provides a distributed lock on Redis/Valkey used to
// serialise one-off operations (seeding) across gateway replicas.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

// releaseScript deletes the lock only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// Config holds connection parameters for the lock server.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Locker implements SET NX PX based locking via rueidis.
type Locker struct {
	client rueidis.Client
}

// NewLocker creates a Locker connected to the given Redis addresses.
func NewLocker(cfg Config) (*Locker, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Locker{client: client}, nil
}

// NewLockerForTest creates a Locker with the provided rueidis client (test-only).
func NewLockerForTest(c rueidis.Client) *Locker {
	return &Locker{client: c}
}

// Ping checks connectivity.
func (l *Locker) Ping(ctx context.Context) error {
	cmd := l.client.B().Ping().Build()
	if err := l.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (l *Locker) Close() {
	l.client.Close()
}

// Acquire tries to take the lock at key for ttl. It returns the lease token
// and true on success, or false when another holder owns the lock.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	cmd := l.client.B().Set().Key(key).Value(token).Nx().PxMilliseconds(ttl.Milliseconds()).Build()
	if err := l.client.Do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("acquire %s: %w", key, err)
	}
	return token, true, nil
}

// Release frees the lock if token still owns it. Releasing an expired or
// foreign lock is not an error.
func (l *Locker) Release(ctx context.Context, key, token string) error {
	cmd := l.client.B().Eval().Script(releaseScript).Numkeys(1).Key(key).Arg(token).Build()
	if err := l.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}
