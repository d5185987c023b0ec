package store

import (
	"errors"
	"fmt"

	"github.com/52North/SOS-sub007/internal/temporal"
)

// Record is the textual form of an observation used in YAML files. Times
// use ISO 8601; phenomenonTime and validTime may be an instant or a
// "start/end" period.
type Record struct {
	ID               string `yaml:"id"`
	Procedure        string `yaml:"procedure"`
	ObservedProperty string `yaml:"observedProperty"`
	PhenomenonTime   string `yaml:"phenomenonTime"`
	ResultTime       string `yaml:"resultTime"`
	ValidTime        string `yaml:"validTime"`
	Value            string `yaml:"value"`
}

// Observation decodes and validates the record.
func (r Record) Observation() (Observation, error) {
	o := Observation{
		ID:               r.ID,
		Procedure:        r.Procedure,
		ObservedProperty: r.ObservedProperty,
		Value:            r.Value,
	}

	if r.PhenomenonTime == "" {
		return Observation{}, errors.New("phenomenonTime is required")
	}
	pt, err := parsePeriod(r.PhenomenonTime)
	if err != nil {
		return Observation{}, fmt.Errorf("phenomenonTime: %w", err)
	}
	o.PhenomenonTime = pt

	if r.ResultTime != "" {
		rt, err := temporal.ParseTime(r.ResultTime)
		if err != nil {
			return Observation{}, fmt.Errorf("resultTime: %w", err)
		}
		o.ResultTime = &rt
	}

	if r.ValidTime != "" {
		vt, err := parsePeriod(r.ValidTime)
		if err != nil {
			return Observation{}, fmt.Errorf("validTime: %w", err)
		}
		o.ValidTime = &vt
	}

	if err := o.Validate(); err != nil {
		return Observation{}, err
	}
	return o, nil
}

// parsePeriod parses an instant or period; an instant t becomes [t, t].
func parsePeriod(s string) (temporal.Period, error) {
	v, err := temporal.ParseValue(s)
	if err != nil {
		return temporal.Period{}, err
	}
	start, end, err := temporal.Normalize(v)
	if err != nil {
		return temporal.Period{}, err
	}
	return temporal.Period{Start: start, End: end}, nil
}
