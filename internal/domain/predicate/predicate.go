package predicate

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docgate/internal/domain/schema/field"
)

// MaxOperands is the maximum number of operands per And/Or group.
const MaxOperands = 32

// Op tags a predicate node.
type Op int

const (
	// OpAll matches every document.
	OpAll Op = iota
	// OpMatch is an exact field = value comparison.
	OpMatch
	// OpContains is a case-insensitive substring match.
	OpContains
	// OpAnd requires every operand.
	OpAnd
	// OpOr requires at least one operand.
	OpOr
)

func (o Op) String() string {
	switch o {
	case OpAll:
		return "all"
	case OpMatch:
		return "match"
	case OpContains:
		return "contains"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	}
	return "unknown"
}

// Predicate is an immutable, store-agnostic filter tree.
// The zero value matches everything.
type Predicate struct {
	op       Op
	field    string
	value    string
	operands []Predicate
}

// All returns the unconstrained predicate.
func All() Predicate { return Predicate{op: OpAll} }

// Match creates an exact match on a field.
func Match(fieldName, value string) (Predicate, error) {
	if fieldName == "" {
		return Predicate{}, fmt.Errorf("predicate field is required")
	}
	return Predicate{op: OpMatch, field: fieldName, value: value}, nil
}

// Contains creates a case-insensitive substring condition on a field.
func Contains(fieldName, term string) (Predicate, error) {
	if fieldName == "" {
		return Predicate{}, fmt.Errorf("predicate field is required")
	}
	if term == "" {
		return Predicate{}, fmt.Errorf("search term is required for field %q", fieldName)
	}
	return Predicate{op: OpContains, field: fieldName, value: term}, nil
}

// And combines operands conjunctively. Unconstrained operands are dropped;
// a single remaining operand is returned unchanged.
func And(operands ...Predicate) (Predicate, error) {
	return group(OpAnd, operands)
}

// Or combines operands disjunctively. An empty Or is rejected since it
// would match nothing.
func Or(operands ...Predicate) (Predicate, error) {
	if len(operands) == 0 {
		return Predicate{}, fmt.Errorf("or requires at least one operand")
	}
	return group(OpOr, operands)
}

func group(op Op, operands []Predicate) (Predicate, error) {
	if len(operands) > MaxOperands {
		return Predicate{}, fmt.Errorf("too many %s operands (max %d)", op, MaxOperands)
	}
	kept := make([]Predicate, 0, len(operands))
	for _, p := range operands {
		if p.IsAll() {
			if op == OpOr {
				return All(), nil
			}
			continue
		}
		kept = append(kept, p)
	}
	switch len(kept) {
	case 0:
		return All(), nil
	case 1:
		return kept[0], nil
	}
	return Predicate{op: op, operands: kept}, nil
}

// Op returns the node tag.
func (p Predicate) Op() Op { return p.op }

// Field returns the field of a Match or Contains node.
func (p Predicate) Field() string { return p.field }

// Value returns the match value or search term.
func (p Predicate) Value() string { return p.value }

// Operands returns the children of an And or Or node.
func (p Predicate) Operands() []Predicate { return p.operands }

// IsAll reports whether p matches every document.
func (p Predicate) IsAll() bool { return p.op == OpAll }

// String renders p for logs, e.g. `and(category = "powder", or(...))`.
func (p Predicate) String() string {
	switch p.op {
	case OpMatch:
		return fmt.Sprintf("%s = %q", p.field, p.value)
	case OpContains:
		return fmt.Sprintf("%s contains %q", p.field, p.value)
	case OpAnd, OpOr:
		parts := make([]string, len(p.operands))
		for i, o := range p.operands {
			parts[i] = o.String()
		}
		return p.op.String() + "(" + strings.Join(parts, ", ") + ")"
	}
	return "all"
}

// Evaluate applies p to a field mapping. Backends without a native query
// language use it directly.
func (p Predicate) Evaluate(doc map[string]any) bool {
	switch p.op {
	case OpAll:
		return true
	case OpMatch:
		return matches(doc[p.field], p.value)
	case OpContains:
		return contains(doc[p.field], strings.ToLower(p.value))
	case OpAnd:
		for _, o := range p.operands {
			if !o.Evaluate(doc) {
				return false
			}
		}
		return true
	case OpOr:
		for _, o := range p.operands {
			if o.Evaluate(doc) {
				return true
			}
		}
		return false
	}
	return false
}

func matches(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case nil:
		return false
	}
	if items, ok := field.ToStrings(v); ok {
		for _, s := range items {
			if s == want {
				return true
			}
		}
	}
	return false
}

func contains(v any, lowerTerm string) bool {
	if s, ok := v.(string); ok {
		return strings.Contains(strings.ToLower(s), lowerTerm)
	}
	if items, ok := field.ToStrings(v); ok {
		for _, s := range items {
			if strings.Contains(strings.ToLower(s), lowerTerm) {
				return true
			}
		}
	}
	return false
}
