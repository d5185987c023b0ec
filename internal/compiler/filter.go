package compiler

import (
	"fmt"
	"strings"

	"github.com/52North/SOS-sub007/internal/temporal"
)

// Filter is one decoded temporal filter of a request.
type Filter struct {
	Relation       temporal.Relation
	ValueReference string
	Reference      temporal.Value
}

func (f Filter) String() string {
	ref := "<nil>"
	if f.Reference != nil {
		ref = f.Reference.String()
	}
	return fmt.Sprintf("%s(%s, %s)", f.Relation, f.ValueReference, ref)
}

// NewFilter decodes a filter from its textual parts. The relation accepts
// the plain, "TM_" and FES operator names; the time is an ISO 8601 instant
// or "start/end" period.
func NewFilter(rel, valueReference, timeValue string) (Filter, error) {
	r, err := temporal.ParseRelation(rel)
	if err != nil {
		return Filter{}, &Error{
			Kind:           KindUnsupportedOperator,
			Message:        err.Error(),
			ValueReference: valueReference,
			Err:            err,
		}
	}
	v, err := temporal.ParseValue(timeValue)
	if err != nil {
		return Filter{}, &Error{
			Kind:           KindUnsupportedTime,
			Message:        err.Error(),
			Relation:       r,
			ValueReference: valueReference,
			Err:            err,
		}
	}
	return Filter{Relation: r, ValueReference: strings.TrimSpace(valueReference), Reference: v}, nil
}

// ParseFilter decodes "RELATION,VALUE_REFERENCE,TIME", for example
//
//	During,om:phenomenonTime,2013-07-18T00:00:00Z/2013-07-18T01:00:00Z
func ParseFilter(s string) (Filter, error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) != 3 {
		return Filter{}, fmt.Errorf("filter %q: want RELATION,VALUE_REFERENCE,TIME", s)
	}
	return NewFilter(parts[0], parts[1], parts[2])
}

// ParseKVP decodes the value of an SOS 2.0 KVP temporalFilter parameter,
// "VALUE_REFERENCE,TIME". The KVP binding carries no operator: a period
// selects During and an instant selects Equals.
func ParseKVP(s string) (Filter, error) {
	ref, timeValue, ok := strings.Cut(s, ",")
	if !ok {
		return Filter{}, fmt.Errorf("temporalFilter %q: want VALUE_REFERENCE,TIME", s)
	}
	v, err := temporal.ParseValue(timeValue)
	if err != nil {
		return Filter{}, &Error{
			Kind:           KindUnsupportedTime,
			Message:        err.Error(),
			ValueReference: ref,
			Err:            err,
		}
	}
	rel := temporal.Equals
	if _, isPeriod := v.(temporal.Period); isPeriod {
		rel = temporal.During
	}
	return Filter{Relation: rel, ValueReference: strings.TrimSpace(ref), Reference: v}, nil
}

// TextFilter is the textual form of a filter used in YAML filter files and
// scenarios.
type TextFilter struct {
	Relation       string `yaml:"relation" json:"relation"`
	ValueReference string `yaml:"valueReference" json:"valueReference"`
	Time           string `yaml:"time" json:"time"`
}

// Filter decodes f with NewFilter.
func (f TextFilter) Filter() (Filter, error) {
	return NewFilter(f.Relation, f.ValueReference, f.Time)
}
