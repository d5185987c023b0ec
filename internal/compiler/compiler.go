package compiler

import (
	"errors"
	"fmt"
	"time"

	"github.com/52North/SOS-sub007/internal/field"
	"github.com/52North/SOS-sub007/internal/predicate"
	"github.com/52North/SOS-sub007/internal/relation"
)

// Compiler turns temporal filters into one predicate tree. A Compiler is
// read-only after construction and safe for concurrent use.
type Compiler struct {
	Fields    *field.Catalog
	Relations *relation.Catalog
}

// New returns a compiler over the given catalogs.
func New(fields *field.Catalog, relations *relation.Catalog) *Compiler {
	return &Compiler{Fields: fields, Relations: relations}
}

// Default returns a compiler over the default field catalog and the
// standard relation catalog.
func Default() *Compiler {
	return New(field.DefaultCatalog(), relation.NewCatalog())
}

// Result is a compiled filter set.
type Result struct {
	// Predicate is the conjunction of the per-filter predicates, in filter
	// order. It is an empty And when no filters were given.
	Predicate predicate.And

	// Bindings maps every parameter name to its literal value.
	Bindings map[string]time.Time

	ordered []Binding
}

// Params returns the parameters referenced by the predicate in first-use
// order. Bindings may hold more names than this; rules that reference one
// bound leave the other unused.
func (r *Result) Params() []string {
	return predicate.Params(r.Predicate)
}

// OrderedBindings returns the bindings in the order they were produced:
// start1, end1, start2, end2, ...
func (r *Result) OrderedBindings() []Binding {
	out := make([]Binding, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Fingerprint returns a content hash of the predicate structure. Binding
// values do not take part, so results of the same filter shape share it.
func (r *Result) Fingerprint() (string, error) {
	return predicate.Fingerprint(r.Predicate)
}

// Compile validates and compiles filters. Filter i is compiled with ordinal
// i+1. The first rejected filter aborts compilation and no partial result is
// returned.
func (c *Compiler) Compile(filters []Filter) (*Result, error) {
	if c.Fields == nil || c.Relations == nil {
		return nil, errors.New("compiler requires a field catalog and a relation catalog")
	}

	res := &Result{
		Predicate: predicate.And{Predicates: make([]predicate.Predicate, 0, len(filters))},
		Bindings:  make(map[string]time.Time, 2*len(filters)),
		ordered:   make([]Binding, 0, 2*len(filters)),
	}
	for i, f := range filters {
		pred, binds, err := c.compileOne(f, i+1)
		if err != nil {
			return nil, err
		}
		res.Predicate.Predicates = append(res.Predicate.Predicates, pred)
		for _, b := range binds {
			res.Bindings[b.Name] = b.Value
			res.ordered = append(res.ordered, b)
		}
	}
	return res, nil
}

func (c *Compiler) compileOne(f Filter, ordinal int) (predicate.Predicate, []Binding, error) {
	if !f.Relation.Valid() {
		return nil, nil, &Error{
			Kind:           KindUnsupportedOperator,
			Message:        fmt.Sprintf("unknown temporal relation %s", f.Relation),
			Relation:       f.Relation,
			ValueReference: f.ValueReference,
			Ordinal:        ordinal,
		}
	}

	desc, err := c.Fields.Resolve(f.ValueReference)
	if err != nil {
		return nil, nil, &Error{
			Kind:           KindUnsupportedValueReference,
			Message:        err.Error(),
			Relation:       f.Relation,
			ValueReference: f.ValueReference,
			Ordinal:        ordinal,
			Err:            err,
		}
	}

	pred, binds, err := Build(c.Relations, f.Relation, desc, f.Reference, ordinal)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.ValueReference = f.ValueReference
		}
		return nil, nil, err
	}
	return pred, binds, nil
}
