// Package memory is an in-process db.Store. It evaluates predicates directly
// and is used for local runs without MongoDB and in tests.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/kailas-cloud/docgate/internal/db"
	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/identifier"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type collection struct {
	records []db.Record
	unique  []string
}

// Store keeps collections in memory, in insertion order.
type Store struct {
	name string

	mu          sync.RWMutex
	collections map[string]*collection
	closed      bool
}

// NewStore creates an empty in-memory store named name.
func NewStore(name string) *Store {
	return &Store{name: name, collections: make(map[string]*collection)}
}

// Name returns the database name.
func (s *Store) Name() string { return s.name }

// Ping fails once the store is closed.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &db.Error{Op: db.OpPing, Err: db.ErrUnavailable}
	}
	return nil
}

// WaitForReady returns immediately for an open store.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Close marks the store closed; later operations fail with db.ErrUnavailable.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// InsertOne appends a deep copy of fields under a new identifier.
func (s *Store) InsertOne(_ context.Context, name string, fields domain.Fields) (identifier.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return identifier.ID{}, &db.Error{Op: db.OpInsert, Err: db.ErrUnavailable}
	}

	c := s.collection(name)
	for _, key := range c.unique {
		v, ok := fields[key]
		if !ok {
			continue
		}
		for _, r := range c.records {
			if existing, has := r.Fields[key]; has && reflect.DeepEqual(existing, v) {
				return identifier.ID{}, &db.Error{
					Op:  db.OpInsert,
					Err: fmt.Errorf("%s.%s = %v: %w", name, key, v, db.ErrDuplicateKey),
				}
			}
		}
	}

	id := identifier.New()
	c.records = append(c.records, db.Record{ID: id, Fields: fields.Clone()})
	return id, nil
}

// Find returns up to limit matching records in insertion order.
func (s *Store) Find(_ context.Context, name string, p predicate.Predicate, limit int) ([]db.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpFind, Err: db.ErrUnavailable}
	}

	c, ok := s.collections[name]
	if !ok {
		return nil, nil
	}
	var out []db.Record
	for _, r := range c.records {
		if limit > 0 && len(out) >= limit {
			break
		}
		if p.Evaluate(r.Fields) {
			out = append(out, db.Record{ID: r.ID, Fields: r.Fields.Clone()})
		}
	}
	return out, nil
}

// FindByID returns the record with id or db.ErrNotFound.
func (s *Store) FindByID(_ context.Context, name string, id identifier.ID) (db.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return db.Record{}, &db.Error{Op: db.OpFindByID, Err: db.ErrUnavailable}
	}

	if c, ok := s.collections[name]; ok {
		for _, r := range c.records {
			if r.ID == id {
				return db.Record{ID: r.ID, Fields: r.Fields.Clone()}, nil
			}
		}
	}
	return db.Record{}, &db.Error{Op: db.OpFindByID, Err: db.ErrNotFound}
}

// Count returns the number of records in a collection.
func (s *Store) Count(_ context.Context, name string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, &db.Error{Op: db.OpCount, Err: db.ErrUnavailable}
	}
	if c, ok := s.collections[name]; ok {
		return int64(len(c.records)), nil
	}
	return 0, nil
}

// EnsureUniqueIndex enforces uniqueness of field on later inserts.
func (s *Store) EnsureUniqueIndex(_ context.Context, name, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpCreateIndex, Err: db.ErrUnavailable}
	}
	c := s.collection(name)
	for _, f := range c.unique {
		if f == field {
			return nil
		}
	}
	c.unique = append(c.unique, field)
	return nil
}

// ListCollections returns collection names in lexical order.
func (s *Store) ListCollections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpListCollections, Err: db.ErrUnavailable}
	}
	names := make([]string, 0, len(s.collections))
	for n := range s.collections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// collection returns the named collection, creating it. Caller holds mu.
func (s *Store) collection(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{}
		s.collections[name] = c
	}
	return c
}
