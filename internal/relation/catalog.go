package relation

import (
	"github.com/52North/SOS-sub007/internal/field"
	"github.com/52North/SOS-sub007/internal/predicate"
	"github.com/52North/SOS-sub007/internal/temporal"
)

type key struct {
	relation temporal.Relation
	kind     field.Kind
}

// Catalog is the support matrix of temporal relations over field shapes.
// It is immutable once built and safe for concurrent use.
type Catalog struct {
	rules map[key]Rule
}

// NewCatalog builds the support matrix.
func NewCatalog() *Catalog {
	rules := make(map[key]Rule)
	for _, rel := range temporal.All() {
		for _, kind := range field.Kinds() {
			if terms, ok := templateFor(rel, kind); ok {
				rules[key{rel, kind}] = Rule{relation: rel, kind: kind, terms: terms}
			}
		}
	}
	return &Catalog{rules: rules}
}

// Lookup returns the rule for rel on a field of the given kind. ok is false
// when the pair is unsupported.
func (c *Catalog) Lookup(rel temporal.Relation, kind field.Kind) (Rule, bool) {
	r, ok := c.rules[key{rel, kind}]
	return r, ok
}

// Supports reports whether rel can be applied to a field of the given kind.
func (c *Catalog) Supports(rel temporal.Relation, kind field.Kind) bool {
	_, ok := c.rules[key{rel, kind}]
	return ok
}

// Supported returns the relations defined for kind, in relation order.
func (c *Catalog) Supported(kind field.Kind) []temporal.Relation {
	var out []temporal.Relation
	for _, rel := range temporal.All() {
		if c.Supports(rel, kind) {
			out = append(out, rel)
		}
	}
	return out
}

func templateFor(rel temporal.Relation, kind field.Kind) ([]Term, bool) {
	switch kind {
	case field.KindInterval:
		return intervalTerms(rel)
	case field.KindPointWithFallback:
		return pointTerms(rel)
	}
	return nil, false
}

func term(o Operand, op predicate.Op, b Bound) Term {
	return Term{Operand: o, Op: op, Bound: b}
}

const (
	lt = predicate.OpLess
	gt = predicate.OpGreater
	eq = predicate.OpEqual
)

// intervalTerms lists the Allen relations between a stored interval [s, e]
// and the reference period [s1, e1]. Every relation is defined.
func intervalTerms(rel temporal.Relation) ([]Term, bool) {
	s, e := OperandStart, OperandEnd
	s1, e1 := BoundStart, BoundEnd

	switch rel {
	case temporal.After:
		return []Term{term(s, gt, e1)}, true
	case temporal.Before:
		return []Term{term(e, lt, s1)}, true
	case temporal.Equals:
		return []Term{term(s, eq, s1), term(e, eq, e1)}, true
	case temporal.Contains:
		return []Term{term(s, lt, s1), term(e, gt, e1)}, true
	case temporal.During:
		return []Term{term(s, gt, s1), term(e, lt, e1)}, true
	case temporal.Begins:
		return []Term{term(s, eq, s1), term(e, lt, e1)}, true
	case temporal.BegunBy:
		return []Term{term(s, eq, s1), term(e, gt, e1)}, true
	case temporal.Ends:
		return []Term{term(s, gt, s1), term(e, eq, e1)}, true
	case temporal.EndedBy:
		return []Term{term(s, lt, s1), term(e, eq, e1)}, true
	case temporal.Overlaps:
		return []Term{term(s, lt, s1), term(e, gt, s1), term(e, lt, e1)}, true
	case temporal.OverlappedBy:
		return []Term{term(s, gt, s1), term(s, lt, e1), term(e, gt, e1)}, true
	case temporal.Meets:
		return []Term{term(e, eq, s1)}, true
	case temporal.MetBy:
		return []Term{term(s, eq, e1)}, true
	}
	return nil, false
}

// pointTerms lists the relations a single instant p can take part in. A
// point compares against one boundary per term; relations that would need
// p to coincide with both ends of a non-degenerate period, or to span a
// boundary, are not defined.
func pointTerms(rel temporal.Relation) ([]Term, bool) {
	p := OperandPoint
	s1, e1 := BoundStart, BoundEnd

	switch rel {
	case temporal.After:
		return []Term{term(p, gt, e1)}, true
	case temporal.Before:
		return []Term{term(p, lt, s1)}, true
	case temporal.During:
		return []Term{term(p, gt, s1), term(p, lt, e1)}, true
	case temporal.Begins:
		return []Term{term(p, eq, s1)}, true
	case temporal.Ends:
		return []Term{term(p, eq, e1)}, true
	case temporal.Equals, temporal.Contains, temporal.BegunBy, temporal.EndedBy,
		temporal.Overlaps, temporal.OverlappedBy, temporal.Meets, temporal.MetBy:
		return nil, false
	}
	return nil, false
}
