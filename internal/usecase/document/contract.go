package document

import (
	"context"

	"github.com/kailas-cloud/docgate/internal/domain"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
	"github.com/kailas-cloud/docgate/internal/domain/schema"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Create(ctx context.Context, rt domain.RecordType, payload domain.Fields) (string, error)
	Query(ctx context.Context, rt domain.RecordType, p predicate.Predicate, limit int) ([]domdoc.Document, error)
	GetByID(ctx context.Context, rt domain.RecordType, id string) (domdoc.Document, error)
	Count(ctx context.Context, rt domain.RecordType) (int64, error)
}

// QueryBuilder turns list filters into a predicate.
type QueryBuilder interface {
	Build(rt domain.RecordType, exact map[string]string, term string) (predicate.Predicate, error)
}

// SchemaLister enumerates registered schemas.
type SchemaLister interface {
	Schemas() []schema.Schema
}
