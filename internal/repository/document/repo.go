package document

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/docgate/internal/db"
	"github.com/kailas-cloud/docgate/internal/domain"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/identifier"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
	"github.com/kailas-cloud/docgate/internal/domain/schema"
	"github.com/kailas-cloud/docgate/internal/metrics"
)

// Result size limits.
const (
	DefaultLimit    = 50
	DefaultMaxLimit = 200
)

// Operation names used in metrics.
const (
	opCreate  = "create"
	opQuery   = "query"
	opGetByID = "get_by_id"
	opCount   = "count"
)

// identifierFields may never be supplied by a caller on create.
var identifierFields = []string{"_id", domdoc.IDField}

// store is the consumer interface for documents (ISP).
type store interface {
	InsertOne(ctx context.Context, collection string, fields domain.Fields) (identifier.ID, error)
	Find(ctx context.Context, collection string, p predicate.Predicate, limit int) ([]db.Record, error)
	FindByID(ctx context.Context, collection string, id identifier.ID) (db.Record, error)
	Count(ctx context.Context, collection string) (int64, error)
	EnsureUniqueIndex(ctx context.Context, collection, field string) error
}

// registry resolves collections and validates payloads.
type registry interface {
	Schema(rt domain.RecordType) (schema.Schema, error)
	Prepare(rt domain.RecordType, payload domain.Fields) (domain.Fields, error)
	Schemas() []schema.Schema
}

// Repo is the generic create/query engine over every registered record type.
type Repo struct {
	store        store
	schemas      registry
	metrics      *metrics.StoreMetrics
	defaultLimit int
	maxLimit     int
	indexed      atomic.Bool
}

// New creates a document repository.
func New(s store, r registry) *Repo {
	return &Repo{
		store:        s,
		schemas:      r,
		defaultLimit: DefaultLimit,
		maxLimit:     DefaultMaxLimit,
	}
}

// WithMetrics attaches operation metrics.
func (r *Repo) WithMetrics(m *metrics.StoreMetrics) *Repo {
	r.metrics = m
	return r
}

// WithLimits configures the default and maximum result sizes.
func (r *Repo) WithLimits(defaultLimit, maxLimit int) *Repo {
	if defaultLimit > 0 {
		r.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		r.maxLimit = maxLimit
	}
	return r
}

// Create validates payload against its schema, applies defaults and inserts
// it. Returns the encoded identifier. Nothing is written on failure.
func (r *Repo) Create(ctx context.Context, rt domain.RecordType, payload domain.Fields) (id string, err error) {
	start := time.Now()
	sch, err := r.schemas.Schema(rt)
	if err != nil {
		return "", err
	}
	defer func() { r.metrics.Observe(sch.Collection(), opCreate, outcome(err), start) }()

	var idErrs []domain.FieldError
	for _, name := range identifierFields {
		if _, ok := payload[name]; ok {
			idErrs = append(idErrs, domain.FieldError{Field: name, Message: "is assigned by the store"})
		}
	}

	fields, err := r.schemas.Prepare(rt, payload)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return "", domain.NewValidationError(string(rt), append(idErrs, ve.Fields...))
		}
		return "", err
	}
	if err := domain.NewValidationError(string(rt), idErrs); err != nil {
		return "", err
	}

	nativeID, err := r.store.InsertOne(ctx, sch.Collection(), fields)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", sch.Collection(), storeError(err))
	}
	return identifier.Encode(nativeID), nil
}

// Query returns at most limit documents matching p, in storage order.
// limit <= 0 selects the default; limits above the maximum are clamped.
func (r *Repo) Query(
	ctx context.Context, rt domain.RecordType, p predicate.Predicate, limit int,
) (docs []domdoc.Document, err error) {
	start := time.Now()
	sch, err := r.schemas.Schema(rt)
	if err != nil {
		return nil, err
	}
	defer func() { r.metrics.Observe(sch.Collection(), opQuery, outcome(err), start) }()

	records, err := r.store.Find(ctx, sch.Collection(), p, r.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", sch.Collection(), storeError(err))
	}

	docs = make([]domdoc.Document, len(records))
	for i, rec := range records {
		docs[i] = domdoc.Reconstruct(rec.ID, rec.Fields)
	}
	return docs, nil
}

// GetByID decodes id and returns the matching document.
func (r *Repo) GetByID(ctx context.Context, rt domain.RecordType, id string) (doc domdoc.Document, err error) {
	start := time.Now()
	sch, err := r.schemas.Schema(rt)
	if err != nil {
		return domdoc.Document{}, err
	}
	defer func() { r.metrics.Observe(sch.Collection(), opGetByID, outcome(err), start) }()

	nativeID, err := identifier.Decode(id)
	if err != nil {
		return domdoc.Document{}, err
	}

	rec, err := r.store.FindByID(ctx, sch.Collection(), nativeID)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("find %s in %s: %w", id, sch.Collection(), storeError(err))
	}
	return domdoc.Reconstruct(rec.ID, rec.Fields), nil
}

// Count returns the number of documents stored for rt.
func (r *Repo) Count(ctx context.Context, rt domain.RecordType) (n int64, err error) {
	start := time.Now()
	sch, err := r.schemas.Schema(rt)
	if err != nil {
		return 0, err
	}
	defer func() { r.metrics.Observe(sch.Collection(), opCount, outcome(err), start) }()

	n, err = r.store.Count(ctx, sch.Collection())
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", sch.Collection(), storeError(err))
	}
	return n, nil
}

// EnsureIndexes creates the unique natural-key indexes declared by schemas.
// Once it has succeeded later calls return immediately, so callers may retry
// it before every write path that relies on uniqueness.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	if r.indexed.Load() {
		return nil
	}
	for _, sch := range r.schemas.Schemas() {
		for _, f := range sch.UniqueFields() {
			if err := r.store.EnsureUniqueIndex(ctx, sch.Collection(), f); err != nil {
				return fmt.Errorf("unique index %s.%s: %w", sch.Collection(), f, storeError(err))
			}
		}
	}
	r.indexed.Store(true)
	return nil
}

func (r *Repo) clamp(limit int) int {
	if limit <= 0 {
		return r.defaultLimit
	}
	if limit > r.maxLimit {
		return r.maxLimit
	}
	return limit
}

// storeError maps backend sentinels onto domain errors.
func storeError(err error) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.Is(err, db.ErrDuplicateKey):
		return fmt.Errorf("%w: %w", domain.ErrAlreadyExists, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidIdentifier),
		errors.Is(err, domain.ErrAlreadyExists):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
