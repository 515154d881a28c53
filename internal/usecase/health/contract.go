package health

import "context"

// Pinger checks availability of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Database is the database view used by diagnostics.
type Database interface {
	Pinger
	ListCollections(ctx context.Context) ([]string, error)
}
