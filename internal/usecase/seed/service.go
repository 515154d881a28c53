// Package seed inserts the sample product catalogue into an empty store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/catalog"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
	"github.com/kailas-cloud/docgate/internal/logger"
)

// Lock defaults.
const (
	DefaultLockKey = "docgate:seed:products"
	DefaultLockTTL = 30 * time.Second
)

// Outcome describes what a Seed call did.
type Outcome string

const (
	// Seeded means the sample products were inserted by this call.
	Seeded Outcome = "seeded"
	// AlreadySeeded means products existed, nothing was written.
	AlreadySeeded Outcome = "already_seeded"
	// InProgress means another replica holds the seed lock.
	InProgress Outcome = "in_progress"
)

// Message is the human-readable response for an outcome.
func (o Outcome) Message() string {
	switch o {
	case Seeded:
		return "Seeded sample products"
	case InProgress:
		return "Seeding already in progress"
	default:
		return "Products already seeded"
	}
}

// Result reports a seed run.
type Result struct {
	Outcome  Outcome
	Inserted int
}

// Service seeds sample products once.
type Service struct {
	docs    Documents
	locker  Locker
	lockKey string
	lockTTL time.Duration
}

// New creates a seed service without distributed locking.
func New(docs Documents) *Service {
	return &Service{docs: docs, lockKey: DefaultLockKey, lockTTL: DefaultLockTTL}
}

// WithLocker serialises Seed across processes through l.
func (s *Service) WithLocker(l Locker, ttl time.Duration) *Service {
	s.locker = l
	if ttl > 0 {
		s.lockTTL = ttl
	}
	return s
}

// Seed inserts the sample products when the product collection is empty.
// Calling it again after success is a no-op.
func (s *Service) Seed(ctx context.Context) (Result, error) {
	log := logger.FromContext(ctx)

	if s.locker != nil {
		token, ok, err := s.locker.Acquire(ctx, s.lockKey, s.lockTTL)
		if err != nil {
			return Result{}, fmt.Errorf("acquire seed lock: %w", err)
		}
		if !ok {
			log.Info("seed lock held elsewhere", zap.String("key", s.lockKey))
			return Result{Outcome: InProgress}, nil
		}
		defer func() {
			// ctx may already be cancelled here.
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := s.locker.Release(rctx, s.lockKey, token); err != nil {
				log.Warn("release seed lock", zap.Error(err))
			}
		}()
	}

	// Startup may have run before the database was reachable.
	if err := s.docs.EnsureIndexes(ctx); err != nil {
		log.Warn("ensure indexes before seeding", zap.Error(err))
	}

	existing, err := s.docs.Query(ctx, catalog.RecordProduct, predicate.All(), 1)
	if err != nil {
		return Result{}, fmt.Errorf("check existing products: %w", err)
	}
	if len(existing) > 0 {
		return Result{Outcome: AlreadySeeded}, nil
	}

	inserted := 0
	for _, p := range catalog.SampleProducts() {
		fields, err := catalog.ToFields(p)
		if err != nil {
			return Result{}, fmt.Errorf("sample %q: %w", p.Title, err)
		}
		if _, err := s.docs.Create(ctx, catalog.RecordProduct, fields); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				log.Debug("sample product already present", zap.String("title", p.Title))
				continue
			}
			return Result{}, fmt.Errorf("insert sample %q: %w", p.Title, err)
		}
		inserted++
	}

	if inserted == 0 {
		return Result{Outcome: AlreadySeeded}, nil
	}
	log.Info("seeded sample products", zap.Int("inserted", inserted))
	return Result{Outcome: Seeded, Inserted: inserted}, nil
}
