package field

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrUnknownReference is returned by Resolve for value references that do
// not name a catalogued field.
var ErrUnknownReference = errors.New("unknown value reference")

// Value reference names of the observation time fields.
const (
	PhenomenonTime = "phenomenonTime"
	ResultTime     = "resultTime"
	ValidTime      = "validTime"
)

// Backing columns of the default observation table.
const (
	ColumnPhenomenonTimeStart = "phenomenon_time_start"
	ColumnPhenomenonTimeEnd   = "phenomenon_time_end"
	ColumnResultTime          = "result_time"
	ColumnValidTimeStart      = "valid_time_start"
	ColumnValidTimeEnd        = "valid_time_end"
)

// namespacePrefix is the O&M prefix SOS 2.0 clients put on value references.
const namespacePrefix = "om:"

var columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Catalog maps value references to field descriptors. It is immutable once
// built and safe for concurrent use.
type Catalog struct {
	fields map[string]Descriptor
}

// NewCatalog builds a catalog from descriptors. Names must be unique and
// every backing column must be a plain SQL identifier.
func NewCatalog(descs ...Descriptor) (*Catalog, error) {
	fields := make(map[string]Descriptor, len(descs))
	for _, d := range descs {
		if err := validateDescriptor(d); err != nil {
			return nil, err
		}
		if _, dup := fields[d.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", d.Name)
		}
		fields[d.Name] = d
	}
	return &Catalog{fields: fields}, nil
}

func validateDescriptor(d Descriptor) error {
	if d.Name == "" {
		return errors.New("field name is required")
	}
	if strings.HasPrefix(d.Name, namespacePrefix) {
		return fmt.Errorf("field %q: name must not carry the %q prefix", d.Name, namespacePrefix)
	}
	switch d.Shape.(type) {
	case nil:
		return fmt.Errorf("field %q: shape is required", d.Name)
	case Interval, PointWithFallback:
	default:
		return fmt.Errorf("field %q: unsupported shape %T", d.Name, d.Shape)
	}
	for _, col := range d.Columns() {
		if !columnPattern.MatchString(col) {
			return fmt.Errorf("field %q: invalid column name %q", d.Name, col)
		}
	}
	return nil
}

// DefaultCatalog returns the catalog of the O&M observation time fields:
// phenomenon time and valid time as intervals, result time as a point that
// falls back to the end of the phenomenon time.
func DefaultCatalog() *Catalog {
	cat, err := NewCatalog(
		Descriptor{
			Name:  PhenomenonTime,
			Shape: Interval{Start: ColumnPhenomenonTimeStart, End: ColumnPhenomenonTimeEnd},
		},
		Descriptor{
			Name:  ResultTime,
			Shape: PointWithFallback{Point: ColumnResultTime, Fallback: ColumnPhenomenonTimeEnd},
		},
		Descriptor{
			Name:  ValidTime,
			Shape: Interval{Start: ColumnValidTimeStart, End: ColumnValidTimeEnd},
		},
	)
	if err != nil {
		panic(err)
	}
	return cat
}

// Resolve returns the descriptor for a value reference. The "om:" prefix
// is accepted and ignored.
func (c *Catalog) Resolve(ref string) (Descriptor, error) {
	name := strings.TrimPrefix(strings.TrimSpace(ref), namespacePrefix)
	d, ok := c.fields[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownReference, ref)
	}
	return d, nil
}

// Names returns the catalogued value references in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.fields))
	for name := range c.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns every descriptor, sorted by name.
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(c.fields))
	for _, name := range c.Names() {
		out = append(out, c.fields[name])
	}
	return out
}

// Len returns the number of catalogued fields.
func (c *Catalog) Len() int {
	return len(c.fields)
}
