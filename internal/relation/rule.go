package relation

import (
	"fmt"

	"github.com/52North/SOS-sub007/internal/field"
	"github.com/52North/SOS-sub007/internal/predicate"
	"github.com/52North/SOS-sub007/internal/temporal"
)

// Operand names the stored side of a comparison term.
type Operand uint8

const (
	// OperandStart is the start column of an interval field.
	OperandStart Operand = iota + 1
	// OperandEnd is the end column of an interval field.
	OperandEnd
	// OperandPoint is the point column of a point field, or its fallback
	// in the null branch.
	OperandPoint
)

func (o Operand) String() string {
	switch o {
	case OperandStart:
		return "s"
	case OperandEnd:
		return "e"
	case OperandPoint:
		return "p"
	default:
		return fmt.Sprintf("Operand(%d)", uint8(o))
	}
}

// Bound names the reference boundary a term compares against.
type Bound uint8

const (
	BoundStart Bound = iota + 1
	BoundEnd
)

func (b Bound) String() string {
	switch b {
	case BoundStart:
		return "s1"
	case BoundEnd:
		return "e1"
	default:
		return fmt.Sprintf("Bound(%d)", uint8(b))
	}
}

// Term is one comparison atom of a rule template.
type Term struct {
	Operand Operand
	Op      predicate.Op
	Bound   Bound
}

func (t Term) String() string {
	return fmt.Sprintf("%s %s %s", t.Operand, t.Op, t.Bound)
}

// Rule is the predicate template for one supported (relation, shape kind)
// pair.
type Rule struct {
	relation temporal.Relation
	kind     field.Kind
	terms    []Term
}

// Relation returns the relation the rule implements.
func (r Rule) Relation() temporal.Relation { return r.relation }

// Kind returns the field shape kind the rule applies to.
func (r Rule) Kind() field.Kind { return r.kind }

// Terms returns a copy of the rule's comparison terms in table order.
func (r Rule) Terms() []Term {
	out := make([]Term, len(r.terms))
	copy(out, r.terms)
	return out
}

// Instantiate binds the template to the columns of shape and the given
// parameter names.
//
// Interval rules with one term yield a bare Comparison, otherwise an And
// of the terms. Point rules yield
//
//	(p IS NOT NULL AND terms(p)) OR (p IS NULL AND terms(fallback))
func (r Rule) Instantiate(shape field.Shape, startParam, endParam string) (predicate.Predicate, error) {
	if shape == nil || shape.Kind() != r.kind {
		return nil, fmt.Errorf("rule for %s %s cannot be applied to %T", r.kind, r.relation, shape)
	}
	param := func(b Bound) string {
		if b == BoundStart {
			return startParam
		}
		return endParam
	}

	switch s := shape.(type) {
	case field.Interval:
		column := func(o Operand) string {
			if o == OperandStart {
				return s.Start
			}
			return s.End
		}
		atoms := make([]predicate.Predicate, len(r.terms))
		for i, t := range r.terms {
			atoms[i] = predicate.Comparison{Column: column(t.Operand), Op: t.Op, Param: param(t.Bound)}
		}
		if len(atoms) == 1 {
			return atoms[0], nil
		}
		return predicate.And{Predicates: atoms}, nil

	case field.PointWithFallback:
		branch := func(guard predicate.Predicate, column string) predicate.Predicate {
			atoms := make([]predicate.Predicate, 0, len(r.terms)+1)
			atoms = append(atoms, guard)
			for _, t := range r.terms {
				atoms = append(atoms, predicate.Comparison{Column: column, Op: t.Op, Param: param(t.Bound)})
			}
			return predicate.And{Predicates: atoms}
		}
		return predicate.Or{Predicates: []predicate.Predicate{
			branch(predicate.IsNotNull{Column: s.Point}, s.Point),
			branch(predicate.IsNull{Column: s.Point}, s.Fallback),
		}}, nil

	default:
		return nil, fmt.Errorf("unsupported shape %T", shape)
	}
}
