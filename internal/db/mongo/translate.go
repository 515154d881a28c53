package mongo

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/predicate"
)

const idKey = "_id"

// buildFilter converts a predicate into a MongoDB query document.
// Search terms are matched literally: regex metacharacters are escaped.
func buildFilter(p predicate.Predicate) bson.D {
	switch p.Op() {
	case predicate.OpMatch:
		return bson.D{{Key: p.Field(), Value: p.Value()}}
	case predicate.OpContains:
		return bson.D{{Key: p.Field(), Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(p.Value())},
			{Key: "$options", Value: "i"},
		}}}
	case predicate.OpAnd, predicate.OpOr:
		key := "$and"
		if p.Op() == predicate.OpOr {
			key = "$or"
		}
		clauses := make(bson.A, len(p.Operands()))
		for i, o := range p.Operands() {
			clauses[i] = buildFilter(o)
		}
		return bson.D{{Key: key, Value: clauses}}
	default:
		return bson.D{}
	}
}

// toBSON converts fields into an insertable document without an _id.
func toBSON(fields domain.Fields) bson.M {
	m := make(bson.M, len(fields))
	for k, v := range fields {
		if k == idKey {
			continue
		}
		m[k] = v
	}
	return m
}

// fromBSON splits a decoded document into its identifier and JSON-shaped fields.
func fromBSON(m bson.M) (primitive.ObjectID, domain.Fields) {
	id, _ := m[idKey].(primitive.ObjectID)
	fields := make(domain.Fields, len(m))
	for k, v := range m {
		if k == idKey {
			continue
		}
		fields[k] = normalize(v)
	}
	return id, fields
}

// normalize maps BSON-specific value types onto plain Go/JSON shapes.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case int32:
		return int64(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}
