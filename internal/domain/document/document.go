package document

import (
	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/identifier"
)

// IDField is the external name of the identifier in rendered documents.
const IDField = "id"

// Document is a persisted record: field values plus the store-assigned
// identifier (immutable value object).
type Document struct {
	id     identifier.ID
	fields domain.Fields
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id identifier.ID, fields domain.Fields) Document {
	return Document{id: id, fields: fields}
}

// ID returns the native identifier.
func (d Document) ID() identifier.ID { return d.id }

// ExternalID returns the encoded identifier.
func (d Document) ExternalID() string { return identifier.Encode(d.id) }

// Fields returns the stored field values.
func (d Document) Fields() domain.Fields { return d.fields }

// Get returns a single field value.
func (d Document) Get(name string) (any, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// Render returns a copy of the fields with the encoded identifier under "id".
func (d Document) Render() map[string]any {
	out := make(map[string]any, len(d.fields)+1)
	for k, v := range d.fields.Clone() {
		out[k] = v
	}
	out[IDField] = d.ExternalID()
	return out
}
