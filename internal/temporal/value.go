package temporal

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMalformedPeriod is returned when a period starts after it ends.
	ErrMalformedPeriod = errors.New("malformed period")

	// ErrNoValue is returned when a filter carries no reference time.
	ErrNoValue = errors.New("missing time value")

	// ErrInvalidTime is returned when a time string cannot be parsed.
	ErrInvalidTime = errors.New("invalid time")
)

// Value is a reference time: either an Instant or a Period.
//
// This is a sealed interface; only types in this package implement it.
type Value interface {
	fmt.Stringer
	timeValue()
}

// Instant is a single point in time.
type Instant struct {
	At time.Time
}

func (Instant) timeValue() {}

// String formats the instant as RFC 3339 in UTC.
func (i Instant) String() string {
	return formatTime(i.At)
}

// Period is the closed interval [Start, End]. Start must not be after End;
// Normalize rejects periods that violate this.
type Period struct {
	Start time.Time
	End   time.Time
}

func (Period) timeValue() {}

// String formats the period as an ISO 8601 "start/end" interval.
func (p Period) String() string {
	return formatTime(p.Start) + "/" + formatTime(p.End)
}

// NewPeriod returns the period [start, end] or ErrMalformedPeriod.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: start, End: end}
	if _, _, err := Normalize(p); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Normalize returns the (start, end) pair a relation formula is bound to.
// An Instant v becomes (v, v); a Period is returned as is once its ordering
// has been checked.
func Normalize(v Value) (time.Time, time.Time, error) {
	switch val := v.(type) {
	case Instant:
		return val.At, val.At, nil
	case *Instant:
		if val == nil {
			return time.Time{}, time.Time{}, ErrNoValue
		}
		return val.At, val.At, nil
	case Period:
		return normalizePeriod(val)
	case *Period:
		if val == nil {
			return time.Time{}, time.Time{}, ErrNoValue
		}
		return normalizePeriod(*val)
	case nil:
		return time.Time{}, time.Time{}, ErrNoValue
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unsupported time value type: %T", v)
	}
}

func normalizePeriod(p Period) (time.Time, time.Time, error) {
	if p.Start.After(p.End) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s is after end %s",
			ErrMalformedPeriod, formatTime(p.Start), formatTime(p.End))
	}
	return p.Start, p.End, nil
}

// timeLayouts are tried in order by ParseTime. Layouts without a zone are
// interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,         // 2013-07-18T00:00:00.5Z, 2013-07-18T00:00:00+02:00
	"2006-01-02T15:04Z07:00", // 2013-07-18T00:00Z
	"2006-01-02T15:04:05",    // 2013-07-18T00:00:00, fraction optional
	"2006-01-02T15:04",       // 2013-07-18T00:00
	"2006-01-02",             // 2013-07-18
}

// ParseTime parses an ISO 8601 timestamp in one of the supported layouts.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// ParseValue parses "t" as an Instant and "start/end" as a Period.
//
// Period ordering is not checked here; Normalize rejects reversed periods.
func ParseValue(s string) (Value, error) {
	startStr, endStr, isPeriod := strings.Cut(strings.TrimSpace(s), "/")
	start, err := ParseTime(startStr)
	if err != nil {
		return nil, err
	}
	if !isPeriod {
		return Instant{At: start}, nil
	}
	end, err := ParseTime(endStr)
	if err != nil {
		return nil, err
	}
	return Period{Start: start, End: end}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
