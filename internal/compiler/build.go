package compiler

import (
	"errors"
	"fmt"
	"time"

	"github.com/52North/SOS-sub007/internal/field"
	"github.com/52North/SOS-sub007/internal/predicate"
	"github.com/52North/SOS-sub007/internal/relation"
	"github.com/52North/SOS-sub007/internal/temporal"
)

// Binding assigns a literal timestamp to a predicate parameter.
type Binding struct {
	Name  string
	Value time.Time
}

// ParamNames returns the start and end parameter names for the filter at
// the given 1-based ordinal.
func ParamNames(ordinal int) (start, end string) {
	return fmt.Sprintf("start%d", ordinal), fmt.Sprintf("end%d", ordinal)
}

// Build compiles one temporal relation against a field into a predicate.
//
// The reference is normalised to a period [s1, e1]; an Instant v becomes
// [v, v]. Both bindings are always returned, start first, even when the
// rule references only one of them. Build reads nothing but its arguments.
func Build(cat *relation.Catalog, rel temporal.Relation, desc field.Descriptor, ref temporal.Value, ordinal int) (predicate.Predicate, []Binding, error) {
	if ordinal < 1 {
		return nil, nil, fmt.Errorf("ordinal must be at least 1, got %d", ordinal)
	}
	if cat == nil {
		return nil, nil, errors.New("relation catalog is required")
	}
	if !rel.Valid() {
		return nil, nil, &Error{
			Kind:           KindUnsupportedOperator,
			Message:        fmt.Sprintf("unknown temporal relation %s", rel),
			Relation:       rel,
			ValueReference: desc.Name,
			Ordinal:        ordinal,
			Err:            temporal.ErrUnknownRelation,
		}
	}

	start, end, err := temporal.Normalize(ref)
	if err != nil {
		return nil, nil, &Error{
			Kind:           KindUnsupportedTime,
			Message:        err.Error(),
			Relation:       rel,
			ValueReference: desc.Name,
			Ordinal:        ordinal,
			Err:            err,
		}
	}

	if desc.Shape == nil {
		return nil, nil, fmt.Errorf("field %q has no shape", desc.Name)
	}
	rule, ok := cat.Lookup(rel, desc.Shape.Kind())
	if !ok {
		return nil, nil, &Error{
			Kind:           KindUnsupportedTime,
			Message:        fmt.Sprintf("relation %s is not defined for %s field %s", rel, desc.Shape.Kind(), desc.Name),
			Relation:       rel,
			ValueReference: desc.Name,
			Ordinal:        ordinal,
		}
	}

	startParam, endParam := ParamNames(ordinal)
	pred, err := rule.Instantiate(desc.Shape, startParam, endParam)
	if err != nil {
		return nil, nil, err
	}
	return pred, []Binding{
		{Name: startParam, Value: start},
		{Name: endParam, Value: end},
	}, nil
}
