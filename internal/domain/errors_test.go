package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewValidationError_Empty(t *testing.T) {
	if err := NewValidationError("Product", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("Product", []FieldError{
		{Field: "title", Message: "is required"},
		{Field: "price", Message: "must be greater than or equal to 0"},
	})

	wrapped := fmt.Errorf("create: %w", err)
	if !errors.Is(wrapped, ErrValidation) {
		t.Error("expected errors.Is(ErrValidation)")
	}

	var ve *ValidationError
	if !errors.As(wrapped, &ve) {
		t.Fatal("expected errors.As(*ValidationError)")
	}
	if got := ve.FieldNames(); len(got) != 2 || got[0] != "title" || got[1] != "price" {
		t.Errorf("FieldNames() = %v", got)
	}

	msg := err.Error()
	for _, want := range []string{"validation failed", "Product", "title: is required", "price:"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}
