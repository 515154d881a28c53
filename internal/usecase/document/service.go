package document

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docgate/internal/domain"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/schema"
)

// ListParams narrows a List call.
type ListParams struct {
	// Exact maps filterable field names to the value they must equal.
	Exact map[string]string
	// Term is matched case-insensitively against every searchable field.
	Term  string
	Limit int
}

// Service exposes create, fetch and list over every registered record type.
type Service struct {
	repo    Repository
	queries QueryBuilder
	schemas SchemaLister
}

// New creates a document service.
func New(repo Repository, queries QueryBuilder, schemas SchemaLister) *Service {
	return &Service{repo: repo, queries: queries, schemas: schemas}
}

// Create validates and stores a payload, returning the encoded identifier.
func (s *Service) Create(ctx context.Context, rt domain.RecordType, payload domain.Fields) (string, error) {
	id, err := s.repo.Create(ctx, rt, payload)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", rt, err)
	}
	return id, nil
}

// Get retrieves a document by its encoded identifier.
func (s *Service) Get(ctx context.Context, rt domain.RecordType, id string) (domdoc.Document, error) {
	doc, err := s.repo.GetByID(ctx, rt, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get %s: %w", rt, err)
	}
	return doc, nil
}

// List returns documents matching every exact filter and, when a term is
// given, containing it in at least one searchable field.
func (s *Service) List(ctx context.Context, rt domain.RecordType, params ListParams) ([]domdoc.Document, error) {
	p, err := s.queries.Build(rt, params.Exact, params.Term)
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", rt, err)
	}

	docs, err := s.repo.Query(ctx, rt, p, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", rt, err)
	}
	return docs, nil
}

// Count returns the number of stored documents of a type.
func (s *Service) Count(ctx context.Context, rt domain.RecordType) (int64, error) {
	n, err := s.repo.Count(ctx, rt)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", rt, err)
	}
	return n, nil
}

// Schemas returns every registered record schema in registration order.
func (s *Service) Schemas() []schema.Schema {
	return s.schemas.Schemas()
}
