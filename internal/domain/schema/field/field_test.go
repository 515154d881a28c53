package field

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		opts []Option
	}{
		{"title", String, []Option{Required(), Searchable()}},
		{"price", Number, []Option{Min(0)}},
		{"age", Integer, []Option{Min(0), Max(120)}},
		{"in_stock", Boolean, []Option{Default(true)}},
		{"tags", StringList, []Option{Searchable()}},
		{"items", RecordList, []Option{Of("OrderItem"), MinItems(1)}},
		{strings.Repeat("x", 64), String, nil},
	}

	for _, tt := range tests {
		f, err := New(tt.name, tt.kind, tt.opts...)
		if err != nil {
			t.Errorf("New(%q, %q) unexpected error: %v", tt.name, tt.kind, err)
			continue
		}
		if f.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", f.Name(), tt.name)
		}
		if f.Kind() != tt.kind {
			t.Errorf("Kind() = %q, want %q", f.Kind(), tt.kind)
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		desc    string
		name    string
		kind    Kind
		opts    []Option
		wantErr string
	}{
		{"empty name", "", String, nil, "required"},
		{"too long", strings.Repeat("x", 65), String, nil, "too long"},
		{"reserved id", "id", String, nil, "reserved"},
		{"reserved _id", "_id", String, nil, "reserved"},
		{"unknown kind", "x", Kind("date"), nil, "invalid field kind"},
		{"bounds on string", "x", String, []Option{Min(1)}, "bounds"},
		{"min above max", "x", Number, []Option{Min(5), Max(1)}, "exceeds"},
		{"list without element", "x", RecordList, nil, "element type"},
		{"element on string", "x", String, []Option{Of("Item")}, "element type"},
		{"searchable number", "x", Number, []Option{Searchable()}, "textual"},
		{"bad default", "x", Integer, []Option{Min(1), Default(0)}, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := New(tt.name, tt.kind, tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustNew("", String)
}

func TestOptions(t *testing.T) {
	f := MustNew("status", String, Required(), Filterable(), Unique(), Default("pending"), Describe("Order status"))

	if !f.IsRequired() || !f.IsFilterable() || !f.IsUnique() {
		t.Errorf("flags not applied: %+v", f)
	}
	if f.IsSearchable() {
		t.Error("IsSearchable() should be false")
	}
	def, ok := f.Default()
	if !ok || def != "pending" {
		t.Errorf("Default() = %v, %v", def, ok)
	}
	if f.Description() != "Order status" {
		t.Errorf("Description() = %q", f.Description())
	}
	if f.Min() != nil || f.Max() != nil {
		t.Error("string field should have no bounds")
	}
}

func TestCheckValue(t *testing.T) {
	price := MustNew("price", Number, Min(0))
	qty := MustNew("quantity", Integer, Min(1))
	age := MustNew("age", Integer, Min(0), Max(120))
	title := MustNew("title", String)
	flag := MustNew("in_stock", Boolean)
	tags := MustNew("tags", StringList)
	items := MustNew("items", RecordList, Of("OrderItem"), MinItems(1))

	tests := []struct {
		desc string
		f    Field
		v    any
		ok   bool
	}{
		{"price ok", price, 19.99, true},
		{"price zero", price, 0.0, true},
		{"price negative", price, -0.01, false},
		{"price as string", price, "19.99", false},
		{"price json number", price, json.Number("3.5"), true},
		{"quantity integral float", qty, float64(2), true},
		{"quantity fractional", qty, 1.5, false},
		{"quantity zero", qty, 0.0, false},
		{"age upper bound", age, 120.0, true},
		{"age above bound", age, 121.0, false},
		{"age int64", age, int64(30), true},
		{"quantity huge float", qty, 1e300, false},
		{"quantity huge json number", qty, json.Number("1e300"), false},
		{"quantity past int64", qty, json.Number("9223372036854775808"), false},
		{"quantity max int64", qty, json.Number("9223372036854775807"), true},
		{"title ok", title, "Cookies", true},
		{"title number", title, 5.0, false},
		{"bool ok", flag, false, true},
		{"bool as string", flag, "true", false},
		{"tags any", tags, []any{"a", "b"}, true},
		{"tags strings", tags, []string{"a"}, true},
		{"tags mixed", tags, []any{"a", 1.0}, false},
		{"items ok", items, []any{map[string]any{"title": "x"}}, true},
		{"items empty", items, []any{}, false},
		{"items scalar", items, []any{"x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			msg := tt.f.CheckValue(tt.v)
			if tt.ok && msg != "" {
				t.Errorf("unexpected violation %q", msg)
			}
			if !tt.ok && msg == "" {
				t.Error("expected a violation")
			}
		})
	}
}

func TestToFloat_RejectsNaN(t *testing.T) {
	if _, ok := ToFloat(math.NaN()); ok {
		t.Error("NaN should not convert")
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		desc string
		v    any
		want int64
		ok   bool
	}{
		{"float", float64(7), 7, true},
		{"int32", int32(-3), -3, true},
		{"json exact", json.Number("9007199254740993"), 9007199254740993, true},
		{"json float form", json.Number("2e3"), 2000, true},
		{"min int64", float64(math.MinInt64), math.MinInt64, true},
		{"two to the 63", math.Pow(2, 63), 0, false},
		{"fraction", 1.5, 0, false},
		{"string", "1", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := ToInt64(tt.v)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ToInt64(%v) = %d, %v; want %d, %v", tt.v, got, ok, tt.want, tt.ok)
			}
		})
	}
}
