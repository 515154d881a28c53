package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/docgate/internal/db"
	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/identifier"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
)

// InsertOne inserts fields and returns the server-assigned ObjectID.
func (s *Store) InsertOne(ctx context.Context, collection string, fields domain.Fields) (identifier.ID, error) {
	res, err := s.database.Collection(collection).InsertOne(ctx, toBSON(fields))
	if err != nil {
		return identifier.ID{}, wrap(db.OpInsert, err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return identifier.ID{}, &db.Error{
			Op:  db.OpInsert,
			Err: fmt.Errorf("unexpected inserted id type %T", res.InsertedID),
		}
	}
	return id, nil
}

// Find runs the translated predicate in natural order, capped at limit.
func (s *Store) Find(ctx context.Context, collection string, p predicate.Predicate, limit int) ([]db.Record, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.database.Collection(collection).Find(ctx, buildFilter(p), opts)
	if err != nil {
		return nil, wrap(db.OpFind, err)
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, wrap(db.OpFind, err)
	}

	records := make([]db.Record, 0, len(raw))
	for _, m := range raw {
		id, fields := fromBSON(m)
		records = append(records, db.Record{ID: id, Fields: fields})
	}
	return records, nil
}

// FindByID returns the document with the given _id.
func (s *Store) FindByID(ctx context.Context, collection string, id identifier.ID) (db.Record, error) {
	var m bson.M
	err := s.database.Collection(collection).FindOne(ctx, bson.D{{Key: idKey, Value: id}}).Decode(&m)
	if err != nil {
		return db.Record{}, wrap(db.OpFindByID, err)
	}
	docID, fields := fromBSON(m)
	return db.Record{ID: docID, Fields: fields}, nil
}

// Count returns the number of documents in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	n, err := s.database.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, wrap(db.OpCount, err)
	}
	return n, nil
}

// EnsureUniqueIndex creates an ascending unique index on field. Creating an
// identical index again is a no-op on the server.
func (s *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_unique"),
	}
	if _, err := s.database.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
		return wrap(db.OpCreateIndex, err)
	}
	return nil
}

// ListCollections returns the collection names of the database.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, wrap(db.OpListCollections, err)
	}
	return names, nil
}

