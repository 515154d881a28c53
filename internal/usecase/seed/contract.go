package seed

import (
	"context"
	"time"

	"github.com/kailas-cloud/docgate/internal/domain"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
)

// Documents is the subset of the document store seeding needs.
type Documents interface {
	Create(ctx context.Context, rt domain.RecordType, payload domain.Fields) (string, error)
	Query(ctx context.Context, rt domain.RecordType, p predicate.Predicate, limit int) ([]domdoc.Document, error)
	EnsureIndexes(ctx context.Context) error
}

// Locker serialises seeding across gateway replicas.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}
