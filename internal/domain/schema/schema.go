package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/schema/field"
)

var nameRegex = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)

// collectionOverrides holds irregular record type -> collection names.
// Every other type maps to its lowercased name.
var collectionOverrides = map[domain.RecordType]string{
	"BlogPost": "blogs",
}

// CollectionName returns the collection a record type is stored in.
func CollectionName(rt domain.RecordType) string {
	if name, ok := collectionOverrides[rt]; ok {
		return name
	}
	return strings.ToLower(string(rt))
}

// Schema is an immutable record definition bound to one collection.
type Schema struct {
	recordType  domain.RecordType
	collection  string
	fields      []field.Field
	description string
}

// New validates and creates a Schema.
// Name: CamelCase identifier. Fields: unique names, max 64.
func New(rt domain.RecordType, description string, fields ...field.Field) (Schema, error) {
	if !nameRegex.MatchString(string(rt)) {
		return Schema{}, fmt.Errorf("record type %q must be a CamelCase identifier", rt)
	}
	if len(fields) == 0 {
		return Schema{}, fmt.Errorf("record type %q declares no fields", rt)
	}
	if len(fields) > 64 {
		return Schema{}, fmt.Errorf("too many fields (max 64)")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return Schema{}, fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
	}
	return Schema{
		recordType:  rt,
		collection:  CollectionName(rt),
		fields:      fields,
		description: description,
	}, nil
}

// MustNew calls New and panics on error.
func MustNew(rt domain.RecordType, description string, fields ...field.Field) Schema {
	s, err := New(rt, description, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// RecordType returns the record type name.
func (s Schema) RecordType() domain.RecordType { return s.recordType }

// Collection returns the backing collection name.
func (s Schema) Collection() string { return s.collection }

// Fields returns the declared fields in declaration order.
func (s Schema) Fields() []field.Field { return s.fields }

// Description returns the schema description.
func (s Schema) Description() string { return s.description }

// FieldByName looks up a declared field.
func (s Schema) FieldByName(name string) (field.Field, bool) {
	for _, f := range s.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return field.Field{}, false
}

// SearchableFields returns the names of fields covered by free-text search.
func (s Schema) SearchableFields() []string {
	var out []string
	for _, f := range s.fields {
		if f.IsSearchable() {
			out = append(out, f.Name())
		}
	}
	return out
}

// UniqueFields returns the names of natural key fields.
func (s Schema) UniqueFields() []string {
	var out []string
	for _, f := range s.fields {
		if f.IsUnique() {
			out = append(out, f.Name())
		}
	}
	return out
}
