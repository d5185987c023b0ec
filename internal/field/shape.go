package field

import "fmt"

// Kind identifies a field shape. The relation catalog is keyed on it.
type Kind uint8

const (
	KindInterval Kind = iota + 1
	KindPointWithFallback
)

// Kinds returns every shape kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindInterval, KindPointWithFallback}
}

func (k Kind) String() string {
	switch k {
	case KindInterval:
		return "interval"
	case KindPointWithFallback:
		return "point"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool {
	return k == KindInterval || k == KindPointWithFallback
}

// Shape describes how a time-valued field is stored.
//
// This is a sealed interface - only Interval and PointWithFallback
// implement it.
type Shape interface {
	Kind() Kind
	shape()
}

// Interval is a field stored as a start/end column pair. Instantaneous
// values are stored with start = end.
type Interval struct {
	Start string
	End   string
}

func (Interval) Kind() Kind { return KindInterval }
func (Interval) shape()     {}

// PointWithFallback is a field stored in one nullable column. When the
// column is null the field takes the value of the Fallback column.
type PointWithFallback struct {
	Point    string
	Fallback string
}

func (PointWithFallback) Kind() Kind { return KindPointWithFallback }
func (PointWithFallback) shape()     {}

// Descriptor binds a value reference name to its storage shape.
type Descriptor struct {
	Name  string
	Shape Shape
}

// Columns returns the backing columns of the descriptor.
func (d Descriptor) Columns() []string {
	switch s := d.Shape.(type) {
	case Interval:
		return []string{s.Start, s.End}
	case PointWithFallback:
		return []string{s.Point, s.Fallback}
	default:
		return nil
	}
}
