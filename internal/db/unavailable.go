package db

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/identifier"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
)

// Compile-time check: Unavailable implements Store.
var _ Store = (*Unavailable)(nil)

// Unavailable is a Store whose every operation fails with ErrUnavailable.
// It stands in when the database is not configured so the process can still
// start and report the problem.
type Unavailable struct {
	reason string
}

// NewUnavailable creates a Store that always reports reason.
func NewUnavailable(reason string) *Unavailable {
	return &Unavailable{reason: reason}
}

func (u *Unavailable) err(op string) error {
	return &Error{Op: op, Err: fmt.Errorf("%s: %w", u.reason, ErrUnavailable)}
}

// Name returns an empty database name.
func (u *Unavailable) Name() string { return "" }

// Reason returns why the store is unavailable.
func (u *Unavailable) Reason() string { return u.reason }

func (u *Unavailable) Ping(context.Context) error { return u.err(OpPing) }

func (u *Unavailable) InsertOne(context.Context, string, domain.Fields) (identifier.ID, error) {
	return identifier.ID{}, u.err(OpInsert)
}

func (u *Unavailable) Find(context.Context, string, predicate.Predicate, int) ([]Record, error) {
	return nil, u.err(OpFind)
}

func (u *Unavailable) FindByID(context.Context, string, identifier.ID) (Record, error) {
	return Record{}, u.err(OpFindByID)
}

func (u *Unavailable) Count(context.Context, string) (int64, error) {
	return 0, u.err(OpCount)
}

func (u *Unavailable) EnsureUniqueIndex(context.Context, string, string) error {
	return u.err(OpCreateIndex)
}

func (u *Unavailable) ListCollections(context.Context) ([]string, error) {
	return nil, u.err(OpListCollections)
}

func (u *Unavailable) Close() {}

// WaitForReady fails immediately; there is nothing to wait for.
func (u *Unavailable) WaitForReady(context.Context, time.Duration) error {
	return u.err(OpPing)
}
