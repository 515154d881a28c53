package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/kailas-cloud/docgate/internal/db"
	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
)

const ns = "docgate.products"

func newMockT(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestInsertOne(t *testing.T) {
	mt := newMockT(t)

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewStoreForTest(mt.Client, mt.DB)

		id, err := s.InsertOne(context.Background(), "products", domain.Fields{"title": "Whey"})
		if err != nil {
			mt.Fatalf("insert: %v", err)
		}
		if id.IsZero() {
			mt.Error("expected generated id")
		}
	})

	mt.Run("duplicate key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: docgate.products index: title_unique",
		}))
		s := NewStoreForTest(mt.Client, mt.DB)

		_, err := s.InsertOne(context.Background(), "products", domain.Fields{"title": "Whey"})
		if !errors.Is(err, db.ErrDuplicateKey) {
			mt.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
		var dbErr *db.Error
		if !errors.As(err, &dbErr) || dbErr.Op != db.OpInsert {
			mt.Errorf("expected insert op, got %v", err)
		}
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))
		s := NewStoreForTest(mt.Client, mt.DB)

		_, err := s.InsertOne(context.Background(), "products", domain.Fields{"title": "Whey"})
		if !errors.Is(err, db.ErrUnavailable) {
			mt.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})
}

func TestFind(t *testing.T) {
	mt := newMockT(t)

	mt.Run("decodes records", func(mt *mtest.T) {
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "title", Value: "Whey"}, {Key: "protein_grams", Value: int32(24)}},
			bson.D{{Key: "_id", Value: second}, {Key: "title", Value: "Bar"}},
		))
		s := NewStoreForTest(mt.Client, mt.DB)

		p, _ := predicate.Match("category", "snack")
		recs, err := s.Find(context.Background(), "products", p, 10)
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if len(recs) != 2 {
			mt.Fatalf("expected 2 records, got %d", len(recs))
		}
		if recs[0].ID != first || recs[1].ID != second {
			mt.Errorf("unexpected ids: %s %s", recs[0].ID.Hex(), recs[1].ID.Hex())
		}
		if recs[0].Fields["protein_grams"] != int64(24) {
			mt.Errorf("expected normalized int64, got %T", recs[0].Fields["protein_grams"])
		}
		if _, ok := recs[0].Fields["_id"]; ok {
			mt.Error("_id leaked into fields")
		}
	})

	mt.Run("empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		s := NewStoreForTest(mt.Client, mt.DB)

		recs, err := s.Find(context.Background(), "products", predicate.All(), 0)
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if len(recs) != 0 {
			mt.Errorf("expected no records, got %d", len(recs))
		}
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "bad query",
		}))
		s := NewStoreForTest(mt.Client, mt.DB)

		_, err := s.Find(context.Background(), "products", predicate.All(), 10)
		if !errors.Is(err, db.ErrUnavailable) {
			mt.Errorf("expected ErrUnavailable, got %v", err)
		}
	})
}

func TestFindByID(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}, {Key: "title", Value: "Whey"}},
		))
		s := NewStoreForTest(mt.Client, mt.DB)

		rec, err := s.FindByID(context.Background(), "products", id)
		if err != nil {
			mt.Fatalf("find by id: %v", err)
		}
		if rec.ID != id || rec.Fields["title"] != "Whey" {
			mt.Errorf("unexpected record: %+v", rec)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		s := NewStoreForTest(mt.Client, mt.DB)

		_, err := s.FindByID(context.Background(), "products", primitive.NewObjectID())
		if !errors.Is(err, db.ErrNotFound) {
			mt.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCount(t *testing.T) {
	mt := newMockT(t)

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(7)}},
		))
		s := NewStoreForTest(mt.Client, mt.DB)

		n, err := s.Count(context.Background(), "products")
		if err != nil {
			mt.Fatalf("count: %v", err)
		}
		if n != 7 {
			mt.Errorf("expected 7, got %d", n)
		}
	})
}

func TestEnsureUniqueIndex(t *testing.T) {
	mt := newMockT(t)

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewStoreForTest(mt.Client, mt.DB)

		if err := s.EnsureUniqueIndex(context.Background(), "products", "title"); err != nil {
			mt.Fatalf("ensure index: %v", err)
		}
	})

	mt.Run("existing duplicates", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 11000, Name: "DuplicateKey", Message: "E11000 duplicate key error",
		}))
		s := NewStoreForTest(mt.Client, mt.DB)

		err := s.EnsureUniqueIndex(context.Background(), "products", "title")
		if !errors.Is(err, db.ErrDuplicateKey) {
			mt.Errorf("expected ErrDuplicateKey, got %v", err)
		}
	})
}

func TestListCollections(t *testing.T) {
	mt := newMockT(t)

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "docgate.$cmd.listCollections", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "products"}, {Key: "type", Value: "collection"}},
			bson.D{{Key: "name", Value: "orders"}, {Key: "type", Value: "collection"}},
		))
		s := NewStoreForTest(mt.Client, mt.DB)

		names, err := s.ListCollections(context.Background())
		if err != nil {
			mt.Fatalf("list: %v", err)
		}
		if len(names) != 2 || names[0] != "products" || names[1] != "orders" {
			mt.Errorf("unexpected names: %v", names)
		}
	})
}

func TestPing(t *testing.T) {
	mt := newMockT(t)

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewStoreForTest(mt.Client, mt.DB)

		if err := s.Ping(context.Background()); err != nil {
			mt.Errorf("ping: %v", err)
		}
	})

	mt.Run("failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))
		s := NewStoreForTest(mt.Client, mt.DB)

		if err := s.Ping(context.Background()); !errors.Is(err, db.ErrUnavailable) {
			mt.Errorf("expected ErrUnavailable, got %v", err)
		}
	})
}

func TestNewStore_Validation(t *testing.T) {
	if _, err := NewStore(context.Background(), Config{Database: "docgate"}); err == nil {
		t.Error("expected error without uri")
	}
	if _, err := NewStore(context.Background(), Config{URI: "mongodb://localhost:27017"}); err == nil {
		t.Error("expected error without database")
	}
}
