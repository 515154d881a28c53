package mongo

import "go.mongodb.org/mongo-driver/mongo"

// NewStoreForTest wraps an existing client and database (test-only).
func NewStoreForTest(c *mongo.Client, d *mongo.Database) *Store {
	return &Store{client: c, database: d}
}
