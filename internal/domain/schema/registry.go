package schema

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/schema/field"
)

// Registry maps record types to their schemas and collections.
// It is populated once at startup and only read afterwards; Register must
// not run concurrently with lookups.
type Registry struct {
	order   []domain.RecordType
	schemas map[domain.RecordType]Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[domain.RecordType]Schema)}
}

// Register adds a schema. Nested record list element types must be
// registered first.
func (r *Registry) Register(s Schema) error {
	if _, ok := r.schemas[s.RecordType()]; ok {
		return fmt.Errorf("register %s: %w", s.RecordType(), domain.ErrDuplicateSchema)
	}
	for _, f := range s.Fields() {
		if f.Kind() != field.RecordList {
			continue
		}
		if _, ok := r.schemas[domain.RecordType(f.Elem())]; !ok {
			return fmt.Errorf("register %s: field %q element %s: %w",
				s.RecordType(), f.Name(), f.Elem(), domain.ErrUnknownSchema)
		}
	}
	r.schemas[s.RecordType()] = s
	r.order = append(r.order, s.RecordType())
	return nil
}

// MustRegister registers every schema and panics on the first error.
func (r *Registry) MustRegister(schemas ...Schema) *Registry {
	for _, s := range schemas {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}

// Schema returns the schema of a record type.
func (r *Registry) Schema(rt domain.RecordType) (Schema, error) {
	s, ok := r.schemas[rt]
	if !ok {
		return Schema{}, fmt.Errorf("schema %s: %w", rt, domain.ErrUnknownSchema)
	}
	return s, nil
}

// Collection resolves the collection name of a record type.
func (r *Registry) Collection(rt domain.RecordType) (string, error) {
	s, err := r.Schema(rt)
	if err != nil {
		return "", err
	}
	return s.Collection(), nil
}

// Schemas returns all schemas in registration order.
func (r *Registry) Schemas() []Schema {
	out := make([]Schema, len(r.order))
	for i, rt := range r.order {
		out[i] = r.schemas[rt]
	}
	return out
}

// Validate checks payload against the schema of rt without mutating it.
// The returned *domain.ValidationError lists every violated field.
func (r *Registry) Validate(rt domain.RecordType, payload domain.Fields) error {
	s, err := r.Schema(rt)
	if err != nil {
		return err
	}
	var errs []domain.FieldError
	r.validate(s, payload, "", &errs)
	return domain.NewValidationError(string(rt), errs)
}

// Prepare validates payload and returns a normalized copy holding only
// declared fields, with defaults filled in for absent ones.
func (r *Registry) Prepare(rt domain.RecordType, payload domain.Fields) (domain.Fields, error) {
	if err := r.Validate(rt, payload); err != nil {
		return nil, err
	}
	s, _ := r.Schema(rt)
	return r.prepare(s, payload), nil
}

func (r *Registry) validate(s Schema, payload map[string]any, prefix string, errs *[]domain.FieldError) {
	for _, f := range s.Fields() {
		path := prefix + f.Name()
		v, ok := payload[f.Name()]
		if !ok || v == nil {
			if f.IsRequired() {
				*errs = append(*errs, domain.FieldError{Field: path, Message: "is required"})
			}
			continue
		}
		if msg := f.CheckValue(v); msg != "" {
			*errs = append(*errs, domain.FieldError{Field: path, Message: msg})
			continue
		}
		if f.Kind() == field.RecordList {
			elem := r.schemas[domain.RecordType(f.Elem())]
			items, _ := field.ToRecords(v)
			for i, item := range items {
				r.validate(elem, item, path+"."+strconv.Itoa(i)+".", errs)
			}
		}
	}
}

func (r *Registry) prepare(s Schema, payload map[string]any) domain.Fields {
	out := make(domain.Fields, len(s.Fields()))
	for _, f := range s.Fields() {
		v, ok := payload[f.Name()]
		if !ok || v == nil {
			if def, has := f.Default(); has {
				out[f.Name()] = normalize(f, def, r)
			}
			continue
		}
		out[f.Name()] = normalize(f, v, r)
	}
	return out
}

// normalize converts a validated value into its canonical stored shape.
func normalize(f field.Field, v any, r *Registry) any {
	switch f.Kind() {
	case field.Integer:
		n, _ := field.ToInt64(v)
		return n
	case field.Number:
		n, _ := field.ToFloat(v)
		return n
	case field.StringList:
		items, _ := field.ToStrings(v)
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out
	case field.RecordList:
		elem := r.schemas[domain.RecordType(f.Elem())]
		items, _ := field.ToRecords(v)
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = map[string]any(r.prepare(elem, item))
		}
		return out
	default:
		return v
	}
}
