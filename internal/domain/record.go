package domain

// RecordType names a registered record shape (Product, Order, ...).
type RecordType string

// String returns the record type name.
func (t RecordType) String() string { return string(t) }

// Fields is a flat field-value mapping as decoded from a request body or
// hydrated from storage. Values are JSON-shaped: string, float64, bool,
// []any and map[string]any.
type Fields map[string]any

// Clone returns a deep copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	c := make(Fields, len(f))
	for k, v := range f {
		c[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Fields(t).Clone())
	case Fields:
		return t.Clone()
	case []any:
		c := make([]any, len(t))
		for i, e := range t {
			c[i] = cloneValue(e)
		}
		return c
	case []string:
		c := make([]string, len(t))
		copy(c, t)
		return c
	default:
		return v
	}
}
