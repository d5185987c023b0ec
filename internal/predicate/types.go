package predicate

import "fmt"

// Predicate is a node of a boolean predicate tree.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Op is a comparison operator. Temporal predicates only ever need strict
// ordering and equality.
type Op uint8

const (
	OpLess Op = iota + 1
	OpGreater
	OpEqual
)

// String returns the operator symbol.
func (o Op) String() string {
	switch o {
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpEqual:
		return "="
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// Valid reports whether o is one of the defined operators.
func (o Op) Valid() bool {
	return o >= OpLess && o <= OpEqual
}

// Comparison compares a stored column with a named parameter.
//
// Semantics:
//
//	<column> <op> :<param>
type Comparison struct {
	Column string // backing column, supplied by the field catalog
	Op     Op
	Param  string // placeholder name, e.g. "start1"
}

func (Comparison) predicateNode() {}

// IsNull holds when the column has no value.
type IsNull struct {
	Column string
}

func (IsNull) predicateNode() {}

// IsNotNull holds when the column has a value.
type IsNotNull struct {
	Column string
}

func (IsNotNull) predicateNode() {}

// And is the conjunction of its predicates. An empty And is true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or is the disjunction of its predicates. An empty Or is false.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Less returns column < :param.
func Less(column, param string) Comparison {
	return Comparison{Column: column, Op: OpLess, Param: param}
}

// Greater returns column > :param.
func Greater(column, param string) Comparison {
	return Comparison{Column: column, Op: OpGreater, Param: param}
}

// Equal returns column = :param.
func Equal(column, param string) Comparison {
	return Comparison{Column: column, Op: OpEqual, Param: param}
}

// AllOf returns the conjunction of ps.
func AllOf(ps ...Predicate) And {
	return And{Predicates: ps}
}

// AnyOf returns the disjunction of ps.
func AnyOf(ps ...Predicate) Or {
	return Or{Predicates: ps}
}
