package docgate

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/catalog"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	documentuc "github.com/kailas-cloud/docgate/internal/usecase/document"
)

// Record is a stored document together with its identifier.
type Record[T any] struct {
	ID    string
	Value T
}

// Filter narrows Find. Exact keys must be filterable fields; Term is matched
// case-insensitively against every searchable field. Zero values are ignored.
type Filter struct {
	Exact map[string]string
	Term  string
	Limit int
}

// Collection gives typed access to one record type.
type Collection[T any] struct {
	rt  domain.RecordType
	svc documentUseCase
	obs *observer
}

func newCollection[T any](rt domain.RecordType, svc documentUseCase, obs *observer) *Collection[T] {
	return &Collection[T]{rt: rt, svc: svc, obs: obs}
}

// Create validates and stores v, returning its identifier.
func (c *Collection[T]) Create(ctx context.Context, v T) (id string, err error) {
	start := time.Now()
	defer func() { c.obs.observe(c.op("create"), start, err) }()

	fields, err := catalog.ToFields(v)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", c.rt, err)
	}
	id, err = c.svc.Create(ctx, c.rt, fields)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", c.rt, err)
	}
	return id, nil
}

// Get returns the record with the given identifier.
func (c *Collection[T]) Get(ctx context.Context, id string) (rec Record[T], err error) {
	start := time.Now()
	defer func() { c.obs.observe(c.op("get"), start, err) }()

	d, err := c.svc.Get(ctx, c.rt, id)
	if err != nil {
		return Record[T]{}, fmt.Errorf("get %s: %w", c.rt, err)
	}
	return toRecord[T](d)
}

// Find returns records matching f in storage order.
func (c *Collection[T]) Find(ctx context.Context, f Filter) (recs []Record[T], err error) {
	start := time.Now()
	defer func() { c.obs.observe(c.op("find"), start, err) }()

	docs, err := c.svc.List(ctx, c.rt, documentuc.ListParams{Exact: f.Exact, Term: f.Term, Limit: f.Limit})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.rt, err)
	}
	recs = make([]Record[T], 0, len(docs))
	for _, d := range docs {
		r, err := toRecord[T](d)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, nil
}

// Count returns the number of stored records.
func (c *Collection[T]) Count(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { c.obs.observe(c.op("count"), start, err) }()

	n, err = c.svc.Count(ctx, c.rt)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.rt, err)
	}
	return n, nil
}

func (c *Collection[T]) op(name string) string {
	return string(c.rt) + "." + name
}

func toRecord[T any](d domdoc.Document) (Record[T], error) {
	var v T
	if err := catalog.FromFields(d.Fields(), &v); err != nil {
		return Record[T]{}, fmt.Errorf("decode %s: %w", d.ExternalID(), err)
	}
	return Record[T]{ID: d.ExternalID(), Value: v}, nil
}
