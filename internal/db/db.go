package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/identifier"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	Inserter
	Finder
	IndexManager
	Inspector
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Record is a raw stored document: identifier plus field values.
type Record struct {
	ID     identifier.ID
	Fields domain.Fields
}

// Inserter persists new documents. The backend assigns the identifier.
type Inserter interface {
	InsertOne(ctx context.Context, collection string, fields domain.Fields) (identifier.ID, error)
}

// Finder reads documents. Find returns records in insertion order and never
// more than limit; the predicate is translated to the backend dialect here.
type Finder interface {
	Find(ctx context.Context, collection string, p predicate.Predicate, limit int) ([]Record, error)
	FindByID(ctx context.Context, collection string, id identifier.ID) (Record, error)
	Count(ctx context.Context, collection string) (int64, error)
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	EnsureUniqueIndex(ctx context.Context, collection, field string) error
}

// Inspector exposes backend details for diagnostics.
type Inspector interface {
	Name() string
	ListCollections(ctx context.Context) ([]string, error)
}
