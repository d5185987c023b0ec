package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/52North/SOS-sub007/internal/compiler"
	"github.com/52North/SOS-sub007/internal/store"
)

// Error codes for command errors. Filter rejections use the compiler's
// error kind as their code instead.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E002" // Input file not found
	ErrCodeParseFailed  = "E003" // YAML parse failed
	ErrCodeInvalidInput = "E004" // Malformed filter or observation
	ErrCodeConfig       = "E005" // Config or field catalog error
	ErrCodeDatabase     = "E006" // Store open/read/write error
)

// LoadError is an input file error with its source line.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// LoadFilters reads a YAML filter file:
//
//	filters:
//	  - relation: During
//	    valueReference: om:phenomenonTime
//	    time: 2013-07-18T00:00:00Z/2013-07-18T01:00:00Z
//
// Filter rejections are returned as *compiler.Error so callers can report
// their kind; everything else is a *LoadError.
func LoadFilters(path string) ([]compiler.Filter, error) {
	items, err := loadList(path, "filters")
	if err != nil {
		return nil, err
	}

	filters := make([]compiler.Filter, 0, len(items))
	for _, item := range items {
		var doc compiler.TextFilter
		if err := item.Decode(&doc); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), File: path, Line: item.Line}
		}
		if doc.ValueReference == "" || doc.Time == "" {
			return nil, &LoadError{
				Code:    ErrCodeInvalidInput,
				Message: "filter requires valueReference and time",
				File:    path,
				Line:    item.Line,
			}
		}
		f, err := doc.Filter()
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// LoadObservations reads a YAML observations list; entries use the
// store.Record fields.
func LoadObservations(path string) ([]store.Observation, error) {
	items, err := loadList(path, "observations")
	if err != nil {
		return nil, err
	}

	obs := make([]store.Observation, 0, len(items))
	for _, item := range items {
		var rec store.Record
		if err := item.Decode(&rec); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), File: path, Line: item.Line}
		}
		o, err := rec.Observation()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidInput, Message: err.Error(), File: path, Line: item.Line}
		}
		obs = append(obs, o)
	}
	return obs, nil
}

// loadList returns the sequence items under key in the YAML file at path.
func loadList(path, key string) ([]*yaml.Node, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "file not found", File: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), File: path}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), File: path}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "expected a mapping at the top level", File: path}
	}

	doc := root.Content[0]
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != key {
			continue
		}
		list := doc.Content[i+1]
		if list.Kind != yaml.SequenceNode {
			return nil, &LoadError{
				Code:    ErrCodeParseFailed,
				Message: fmt.Sprintf("%s must be a list", key),
				File:    path,
				Line:    list.Line,
			}
		}
		return list.Content, nil
	}
	return nil, &LoadError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("missing %q list", key), File: path}
}
