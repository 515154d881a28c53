// Package identifier translates between the store's native document
// identifier (a BSON ObjectID) and its external hex string form.
package identifier

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/docgate/internal/domain"
)

// Length is the length of an encoded identifier.
const Length = 24

// ID is the native document identifier.
type ID = primitive.ObjectID

// New returns a freshly generated native identifier.
func New() ID { return primitive.NewObjectID() }

// Encode renders a native identifier as lowercase hex.
func Encode(id ID) string { return id.Hex() }

// Decode parses an external identifier. Any malformed input, including the
// all-zero identifier, yields domain.ErrInvalidIdentifier.
func Decode(s string) (ID, error) {
	if len(s) != Length {
		return primitive.NilObjectID, fmt.Errorf("%q: want %d hex characters: %w", truncate(s), Length, domain.ErrInvalidIdentifier)
	}
	id, err := primitive.ObjectIDFromHex(strings.ToLower(s))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%q: %w", truncate(s), domain.ErrInvalidIdentifier)
	}
	if id.IsZero() {
		return primitive.NilObjectID, fmt.Errorf("zero identifier: %w", domain.ErrInvalidIdentifier)
	}
	return id, nil
}

func truncate(s string) string {
	if len(s) > 64 {
		return s[:64] + "..."
	}
	return s
}
