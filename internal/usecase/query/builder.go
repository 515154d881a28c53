package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
	"github.com/kailas-cloud/docgate/internal/domain/schema"
)

// SchemaReader looks up record schemas.
type SchemaReader interface {
	Schema(rt domain.RecordType) (schema.Schema, error)
}

// Builder turns request-level filter parameters into a Predicate.
type Builder struct {
	schemas SchemaReader
}

// NewBuilder creates a query builder.
func NewBuilder(schemas SchemaReader) *Builder {
	return &Builder{schemas: schemas}
}

// Build returns `exact AND (term in any searchable field)`.
// Only filterable fields may appear in exact; empty values and a blank term
// are ignored. With nothing to filter on, the result matches everything.
func (b *Builder) Build(rt domain.RecordType, exact map[string]string, term string) (predicate.Predicate, error) {
	sch, err := b.schemas.Schema(rt)
	if err != nil {
		return predicate.Predicate{}, err
	}

	// Sorted for a deterministic predicate shape.
	keys := make([]string, 0, len(exact))
	for k := range exact {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		parts []predicate.Predicate
		errs  []domain.FieldError
	)
	for _, k := range keys {
		v := exact[k]
		if v == "" {
			continue
		}
		f, ok := sch.FieldByName(k)
		if !ok || !f.IsFilterable() {
			errs = append(errs, domain.FieldError{Field: k, Message: "is not filterable"})
			continue
		}
		m, err := predicate.Match(k, v)
		if err != nil {
			return predicate.Predicate{}, fmt.Errorf("match %s: %w", k, err)
		}
		parts = append(parts, m)
	}
	if err := domain.NewValidationError(string(rt), errs); err != nil {
		return predicate.Predicate{}, err
	}

	if term = strings.TrimSpace(term); term != "" {
		text, err := b.textCondition(sch, term)
		if err != nil {
			return predicate.Predicate{}, err
		}
		parts = append(parts, text)
	}

	p, err := predicate.And(parts...)
	if err != nil {
		return predicate.Predicate{}, fmt.Errorf("combine conditions: %w", err)
	}
	return p, nil
}

func (b *Builder) textCondition(sch schema.Schema, term string) (predicate.Predicate, error) {
	fields := sch.SearchableFields()
	if len(fields) == 0 {
		return predicate.Predicate{}, domain.NewValidationError(string(sch.RecordType()),
			[]domain.FieldError{{Field: "q", Message: "record type has no searchable fields"}})
	}
	ors := make([]predicate.Predicate, len(fields))
	for i, f := range fields {
		c, err := predicate.Contains(f, term)
		if err != nil {
			return predicate.Predicate{}, fmt.Errorf("contains %s: %w", f, err)
		}
		ors[i] = c
	}
	p, err := predicate.Or(ors...)
	if err != nil {
		return predicate.Predicate{}, fmt.Errorf("combine search fields: %w", err)
	}
	return p, nil
}
