package schema

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/schema/field"
)

func itemSchema() Schema {
	return MustNew("Item", "line",
		field.MustNew("sku", field.String, field.Required()),
		field.MustNew("quantity", field.Integer, field.Required(), field.Min(1)),
	)
}

func basketSchema() Schema {
	return MustNew("Basket", "basket",
		field.MustNew("owner", field.String, field.Required(), field.Filterable()),
		field.MustNew("note", field.String, field.Searchable()),
		field.MustNew("total", field.Number, field.Required(), field.Min(0)),
		field.MustNew("open", field.Boolean, field.Default(true)),
		field.MustNew("labels", field.StringList, field.Searchable()),
		field.MustNew("items", field.RecordList, field.Of("Item"), field.Required(), field.MinItems(1)),
	)
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Register(itemSchema()); err != nil {
		t.Fatalf("register item: %v", err)
	}
	if err := r.Register(basketSchema()); err != nil {
		t.Fatalf("register basket: %v", err)
	}
	return r
}

func validBasket() domain.Fields {
	return domain.Fields{
		"owner": "ann",
		"total": 12.5,
		"items": []any{map[string]any{"sku": "a-1", "quantity": float64(2)}},
	}
}

func TestCollectionName(t *testing.T) {
	tests := map[domain.RecordType]string{
		"Product":  "product",
		"Order":    "order",
		"BlogPost": "blogs",
	}
	for rt, want := range tests {
		if got := CollectionName(rt); got != want {
			t.Errorf("CollectionName(%q) = %q, want %q", rt, got, want)
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	f := field.MustNew("a", field.String)
	if _, err := New("product", "", f); err == nil {
		t.Error("expected error for non CamelCase name")
	}
	if _, err := New("Product", ""); err == nil {
		t.Error("expected error for schema without fields")
	}
	if _, err := New("Product", "", f, f); err == nil {
		t.Error("expected error for duplicate field")
	}
}

func TestSchema_Accessors(t *testing.T) {
	s := basketSchema()
	if s.Collection() != "basket" {
		t.Errorf("Collection() = %q", s.Collection())
	}
	if got := s.SearchableFields(); !reflect.DeepEqual(got, []string{"note", "labels"}) {
		t.Errorf("SearchableFields() = %v", got)
	}
	if _, ok := s.FieldByName("owner"); !ok {
		t.Error("FieldByName(owner) not found")
	}
	if _, ok := s.FieldByName("missing"); ok {
		t.Error("FieldByName(missing) should not be found")
	}
	if len(s.UniqueFields()) != 0 {
		t.Errorf("UniqueFields() = %v", s.UniqueFields())
	}
}

func TestRegister_Duplicate(t *testing.T) {
	r := newTestRegistry(t)
	err := r.Register(itemSchema())
	if !errors.Is(err, domain.ErrDuplicateSchema) {
		t.Errorf("expected ErrDuplicateSchema, got %v", err)
	}
}

func TestRegister_UnknownElement(t *testing.T) {
	r := NewRegistry()
	err := r.Register(basketSchema())
	if !errors.Is(err, domain.ErrUnknownSchema) {
		t.Errorf("expected ErrUnknownSchema, got %v", err)
	}
	if len(r.Schemas()) != 0 {
		t.Error("failed registration must not add the schema")
	}
}

func TestCollection(t *testing.T) {
	r := newTestRegistry(t)

	name, err := r.Collection("Basket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "basket" {
		t.Errorf("Collection() = %q", name)
	}
	again, _ := r.Collection("Basket")
	if again != name {
		t.Error("Collection() must be deterministic")
	}

	if _, err := r.Collection("Nope"); !errors.Is(err, domain.ErrUnknownSchema) {
		t.Errorf("expected ErrUnknownSchema, got %v", err)
	}
}

func TestSchemas_Order(t *testing.T) {
	r := newTestRegistry(t)
	got := r.Schemas()
	if len(got) != 2 || got[0].RecordType() != "Item" || got[1].RecordType() != "Basket" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestValidate_Valid(t *testing.T) {
	r := newTestRegistry(t)
	payload := validBasket()
	if err := r.Validate("Basket", payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := payload["open"]; ok {
		t.Error("Validate must not apply defaults")
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	r := newTestRegistry(t)
	payload := domain.Fields{
		"total": -1.0,
		"open":  "yes",
		"items": []any{
			map[string]any{"sku": "a", "quantity": float64(1)},
			map[string]any{"quantity": 0.0},
		},
	}

	err := r.Validate("Basket", payload)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("expected *ValidationError")
	}
	want := []string{"owner", "total", "open", "items.1.sku", "items.1.quantity"}
	if got := ve.FieldNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("FieldNames() = %v, want %v", got, want)
	}
	if ve.RecordType != "Basket" {
		t.Errorf("RecordType = %q", ve.RecordType)
	}
}

func TestValidate_EmptyItems(t *testing.T) {
	r := newTestRegistry(t)
	payload := validBasket()
	payload["items"] = []any{}

	var ve *domain.ValidationError
	if err := r.Validate("Basket", payload); !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !reflect.DeepEqual(ve.FieldNames(), []string{"items"}) {
		t.Errorf("FieldNames() = %v", ve.FieldNames())
	}
}

func TestValidate_NullIsAbsent(t *testing.T) {
	r := newTestRegistry(t)
	payload := validBasket()
	payload["note"] = nil
	if err := r.Validate("Basket", payload); err != nil {
		t.Errorf("null optional field should be accepted: %v", err)
	}
}

func TestValidate_UnknownType(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Validate("Nope", domain.Fields{}); !errors.Is(err, domain.ErrUnknownSchema) {
		t.Errorf("expected ErrUnknownSchema, got %v", err)
	}
}

func TestPrepare(t *testing.T) {
	r := newTestRegistry(t)
	payload := validBasket()
	payload["labels"] = []any{"x"}
	payload["extra"] = "dropped"
	payload["items"] = []any{map[string]any{"sku": "a-1", "quantity": float64(2), "gift": true}}

	out, err := r.Prepare("Basket", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out["open"] != true {
		t.Errorf("expected default open=true, got %v", out["open"])
	}
	if _, ok := out["extra"]; ok {
		t.Error("undeclared field must be dropped")
	}
	if _, ok := out["note"]; ok {
		t.Error("absent optional field without default must stay absent")
	}
	if _, ok := payload["open"]; ok {
		t.Error("Prepare must not mutate the input")
	}

	items, ok := out["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items = %#v", out["items"])
	}
	item := items[0].(map[string]any)
	if item["quantity"] != int64(2) {
		t.Errorf("expected quantity normalized to int64, got %#v", item["quantity"])
	}
	if _, ok := item["gift"]; ok {
		t.Error("undeclared nested field must be dropped")
	}
}

func TestPrepare_Invalid(t *testing.T) {
	r := newTestRegistry(t)
	out, err := r.Prepare("Basket", domain.Fields{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if out != nil {
		t.Error("expected no output on failure")
	}
}

func TestPrepare_IntegerOutOfRange(t *testing.T) {
	r := newTestRegistry(t)
	for _, qty := range []any{json.Number("1e300"), json.Number("9223372036854775808"), 1e19} {
		payload := validBasket()
		payload["items"] = []any{map[string]any{"sku": "a-1", "quantity": qty}}

		out, err := r.Prepare("Basket", payload)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("quantity %v: expected ValidationError, got %v (stored %#v)", qty, err, out)
		}
		if len(ve.Fields) != 1 || ve.Fields[0].Field != "items.0.quantity" {
			t.Errorf("quantity %v: unexpected fields %+v", qty, ve.Fields)
		}
	}
}

func TestPrepare_LargeIntegerIsExact(t *testing.T) {
	r := newTestRegistry(t)
	payload := validBasket()
	payload["items"] = []any{map[string]any{"sku": "a-1", "quantity": json.Number("9007199254740993")}}

	out, err := r.Prepare("Basket", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item := out["items"].([]any)[0].(map[string]any)
	if item["quantity"] != int64(9007199254740993) {
		t.Errorf("quantity = %#v, want 9007199254740993", item["quantity"])
	}
}
