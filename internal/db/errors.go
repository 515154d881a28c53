package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrNotFound     = errors.New("db: document not found")
	ErrDuplicateKey = errors.New("db: duplicate key")
	ErrUnavailable  = errors.New("db: unavailable")
)

// Op constants name backend operations for error context.
const (
	OpPing            = "ping"
	OpInsert          = "insert"
	OpFind            = "find"
	OpFindByID        = "findById"
	OpCount           = "count"
	OpCreateIndex     = "createIndex"
	OpListCollections = "listCollections"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
