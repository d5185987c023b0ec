package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/52North/SOS-sub007/internal/temporal"
)

// Observation is one stored O&M observation.
type Observation struct {
	ID               string
	Procedure        string
	ObservedProperty string

	// PhenomenonTime is always a period; instantaneous observations have
	// Start == End.
	PhenomenonTime temporal.Period

	// ResultTime is nil when the result time equals the end of the
	// phenomenon time.
	ResultTime *time.Time

	// ValidTime is optional.
	ValidTime *temporal.Period

	Value string
}

// Validate checks required fields and period ordering.
func (o Observation) Validate() error {
	if o.Procedure == "" {
		return errors.New("procedure is required")
	}
	if o.ObservedProperty == "" {
		return errors.New("observed property is required")
	}
	if o.PhenomenonTime.Start.IsZero() || o.PhenomenonTime.End.IsZero() {
		return errors.New("phenomenon time is required")
	}
	if _, _, err := temporal.Normalize(o.PhenomenonTime); err != nil {
		return fmt.Errorf("phenomenon time: %w", err)
	}
	if o.ValidTime != nil {
		if _, _, err := temporal.Normalize(*o.ValidTime); err != nil {
			return fmt.Errorf("valid time: %w", err)
		}
	}
	return nil
}
