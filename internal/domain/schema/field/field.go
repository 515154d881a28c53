package field

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind is the semantic type of a record field.
type Kind string

// Field kinds.
const (
	String     Kind = "string"
	Number     Kind = "number"
	Integer    Kind = "integer"
	Boolean    Kind = "boolean"
	StringList Kind = "string_list"
	// RecordList is an ordered sequence of nested records of another registered type.
	RecordList Kind = "record_list"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case String, Number, Integer, Boolean, StringList, RecordList:
		return true
	}
	return false
}

// IsNumeric reports whether bounds apply to k.
func (k Kind) IsNumeric() bool { return k == Number || k == Integer }

// identifier fields are assigned by the store and never declared.
var reservedFieldNames = map[string]bool{
	"_id": true, "id": true,
}

// Field is an immutable value object describing one declared record field.
type Field struct {
	name        string
	kind        Kind
	required    bool
	min         *float64
	max         *float64
	def         any
	hasDefault  bool
	filterable  bool
	searchable  bool
	unique      bool
	elem        string
	minItems    int
	description string
}

// Option configures a Field in New.
type Option func(*Field)

// Required marks the field as mandatory on create.
func Required() Option { return func(f *Field) { f.required = true } }

// Min sets an inclusive lower bound for numeric fields.
func Min(v float64) Option { return func(f *Field) { f.min = &v } }

// Max sets an inclusive upper bound for numeric fields.
func Max(v float64) Option { return func(f *Field) { f.max = &v } }

// Default sets the value stored when the field is absent.
func Default(v any) Option {
	return func(f *Field) {
		f.def = v
		f.hasDefault = true
	}
}

// Filterable allows exact-match filtering on the field.
func Filterable() Option { return func(f *Field) { f.filterable = true } }

// Searchable includes the field in free-text search.
func Searchable() Option { return func(f *Field) { f.searchable = true } }

// Unique declares the field as a natural key (unique index in the store).
func Unique() Option { return func(f *Field) { f.unique = true } }

// Of names the nested record type of a RecordList field.
func Of(recordType string) Option { return func(f *Field) { f.elem = recordType } }

// MinItems sets the minimum length of a list field.
func MinItems(n int) Option { return func(f *Field) { f.minItems = n } }

// Describe attaches a human readable description.
func Describe(s string) Option { return func(f *Field) { f.description = s } }

// New validates and creates a Field.
func New(name string, kind Kind, opts ...Option) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 64 {
		return Field{}, fmt.Errorf("field name %q too long (max 64)", name)
	}
	if reservedFieldNames[name] {
		return Field{}, fmt.Errorf("field name %q is reserved", name)
	}
	if !kind.IsValid() {
		return Field{}, fmt.Errorf("invalid field kind %q for %q", kind, name)
	}

	f := Field{name: name, kind: kind}
	for _, o := range opts {
		o(&f)
	}

	if (f.min != nil || f.max != nil) && !kind.IsNumeric() {
		return Field{}, fmt.Errorf("bounds on non-numeric field %q", name)
	}
	if f.min != nil && f.max != nil && *f.min > *f.max {
		return Field{}, fmt.Errorf("field %q: min %v exceeds max %v", name, *f.min, *f.max)
	}
	if kind == RecordList && f.elem == "" {
		return Field{}, fmt.Errorf("record list field %q requires an element type", name)
	}
	if kind != RecordList && f.elem != "" {
		return Field{}, fmt.Errorf("element type on non-list field %q", name)
	}
	if f.searchable && kind != String && kind != StringList {
		return Field{}, fmt.Errorf("searchable field %q must be textual", name)
	}
	if f.hasDefault {
		if msg := f.CheckValue(f.def); msg != "" {
			return Field{}, fmt.Errorf("default for %q: %s", name, msg)
		}
	}
	return f, nil
}

// MustNew calls New and panics on error. Intended for static definitions.
func MustNew(name string, kind Kind, opts ...Option) Field {
	f, err := New(name, kind, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// Kind returns the semantic type.
func (f Field) Kind() Kind { return f.kind }

// IsRequired reports whether the field must be present on create.
func (f Field) IsRequired() bool { return f.required }

// Min returns the inclusive lower bound, if any.
func (f Field) Min() *float64 { return f.min }

// Max returns the inclusive upper bound, if any.
func (f Field) Max() *float64 { return f.max }

// Default returns the default value and whether one is declared.
func (f Field) Default() (any, bool) { return f.def, f.hasDefault }

// IsFilterable reports whether exact-match filtering is allowed.
func (f Field) IsFilterable() bool { return f.filterable }

// IsSearchable reports whether free-text search covers the field.
func (f Field) IsSearchable() bool { return f.searchable }

// IsUnique reports whether the field is a natural key.
func (f Field) IsUnique() bool { return f.unique }

// Elem returns the nested record type of a RecordList field.
func (f Field) Elem() string { return f.elem }

// MinItems returns the minimum list length.
func (f Field) MinItems() int { return f.minItems }

// Description returns the human readable description.
func (f Field) Description() string { return f.description }

// CheckValue validates a present value against the field's kind and bounds.
// Nested records of a RecordList are only checked for shape here.
// Returns an empty string when the value is acceptable.
func (f Field) CheckValue(v any) string {
	switch f.kind {
	case String:
		if _, ok := v.(string); !ok {
			return "must be a string"
		}
	case Boolean:
		if _, ok := v.(bool); !ok {
			return "must be a boolean"
		}
	case Number, Integer:
		n, ok := ToFloat(v)
		if !ok {
			return "must be a number"
		}
		if f.kind == Integer {
			if n != math.Trunc(n) {
				return "must be an integer"
			}
			if _, ok := ToInt64(v); !ok {
				return "must be a 64-bit integer"
			}
		}
		if f.min != nil && n < *f.min {
			return fmt.Sprintf("must be greater than or equal to %v", *f.min)
		}
		if f.max != nil && n > *f.max {
			return fmt.Sprintf("must be less than or equal to %v", *f.max)
		}
	case StringList:
		items, ok := ToStrings(v)
		if !ok {
			return "must be a list of strings"
		}
		if len(items) < f.minItems {
			return fmt.Sprintf("must contain at least %d items", f.minItems)
		}
	case RecordList:
		items, ok := ToRecords(v)
		if !ok {
			return "must be a list of objects"
		}
		if len(items) < f.minItems {
			return fmt.Sprintf("must contain at least %d items", f.minItems)
		}
	}
	return ""
}

// ToFloat converts any JSON or BSON numeric value to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// ToInt64 converts an integral numeric value to int64. Values outside the
// int64 range are rejected.
func ToInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	f, ok := ToFloat(v)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// ToStrings converts []string or []any of strings.
func ToStrings(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return l, true
	case []any:
		out := make([]string, len(l))
		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// ToRecords converts a list of JSON objects.
func ToRecords(v any) ([]map[string]any, bool) {
	switch l := v.(type) {
	case []map[string]any:
		return l, true
	case []any:
		out := make([]map[string]any, len(l))
		for i, e := range l {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, false
			}
			out[i] = m
		}
		return out, true
	}
	return nil, false
}
