package field

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Shape names used in CUE catalog definitions.
const (
	shapeInterval = "interval"
	shapePoint    = "point"
)

// LoadError reports a malformed catalog definition with its CUE position.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadCatalog reads a CUE file declaring the field catalog:
//
//	field: {
//		phenomenonTime: {shape: "interval", start: "phenomenon_time_start", end: "phenomenon_time_end"}
//		resultTime: {shape: "point", point: "result_time", fallback: "phenomenon_time_end"}
//	}
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading field catalog: %w", err)
	}
	return ParseCatalog(data, path)
}

// ParseCatalog compiles CUE source into a catalog. filename is used for
// error positions only.
func ParseCatalog(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileCatalog(v)
}

// CompileCatalog builds a catalog from the "field" struct of a CUE value.
func CompileCatalog(v cue.Value) (*Catalog, error) {
	fieldsVal := v.LookupPath(cue.ParsePath("field"))
	if !fieldsVal.Exists() {
		return nil, &LoadError{Field: "field", Message: "field catalog is required", Pos: v.Pos()}
	}
	iter, err := fieldsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var descs []Descriptor
	for iter.Next() {
		d, err := compileDescriptor(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	if len(descs) == 0 {
		return nil, &LoadError{Field: "field", Message: "at least one field is required", Pos: fieldsVal.Pos()}
	}
	return NewCatalog(descs...)
}

func compileDescriptor(name string, v cue.Value) (Descriptor, error) {
	path := "field." + name
	kind, err := requireString(v, path, "shape")
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{Name: name}
	switch kind {
	case shapeInterval:
		start, err := requireString(v, path, "start")
		if err != nil {
			return Descriptor{}, err
		}
		end, err := requireString(v, path, "end")
		if err != nil {
			return Descriptor{}, err
		}
		d.Shape = Interval{Start: start, End: end}
	case shapePoint:
		point, err := requireString(v, path, "point")
		if err != nil {
			return Descriptor{}, err
		}
		fallback, err := requireString(v, path, "fallback")
		if err != nil {
			return Descriptor{}, err
		}
		d.Shape = PointWithFallback{Point: point, Fallback: fallback}
	default:
		return Descriptor{}, &LoadError{
			Field:   path + ".shape",
			Message: fmt.Sprintf("unknown shape %q (want %q or %q)", kind, shapeInterval, shapePoint),
			Pos:     v.LookupPath(cue.ParsePath("shape")).Pos(),
		}
	}
	return d, nil
}

func requireString(v cue.Value, path, name string) (string, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return "", &LoadError{Field: path + "." + name, Message: "is required", Pos: v.Pos()}
	}
	s, err := val.String()
	if err != nil {
		return "", &LoadError{Field: path + "." + name, Message: "must be a string", Pos: val.Pos()}
	}
	return s, nil
}

// formatCUEError keeps the position of the first CUE error.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &LoadError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}
