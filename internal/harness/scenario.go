package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/52North/SOS-sub007/internal/compiler"
	"github.com/52North/SOS-sub007/internal/store"
	"github.com/52North/SOS-sub007/internal/temporal"
	"github.com/52North/SOS-sub007/internal/testutil"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is an optional CUE field catalog. Relative paths are resolved
	// against the scenario file. Empty uses the default observation fields.
	Catalog string `yaml:"catalog,omitempty"`

	// Observations are inserted before any step runs.
	Observations []store.Record `yaml:"observations,omitempty"`

	// Series generate regular instantaneous observations after
	// Observations are inserted.
	Series []Series `yaml:"series,omitempty"`

	// Steps are run in order against the same store.
	Steps []Step `yaml:"steps"`
}

// Series describes Count instantaneous observations starting at Start and
// spaced Step apart. Values are "1", "2", ... in time order.
type Series struct {
	Procedure        string `yaml:"procedure"`
	ObservedProperty string `yaml:"observedProperty"`
	Start            string `yaml:"start"`
	Step             string `yaml:"step"`
	Count            int    `yaml:"count"`
}

// Step compiles one filter set and checks the query outcome.
type Step struct {
	Name string `yaml:"name"`

	// Filters are decoded first, then KVP values, into one conjunctive
	// filter list.
	Filters []compiler.TextFilter `yaml:"filters,omitempty"`
	KVP     []string              `yaml:"kvp,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect is the expected outcome of a step. Exactly one of IDs and Error
// must be set; "ids: []" expects no matches.
type Expect struct {
	// IDs are the matching observation IDs in result order.
	IDs []string `yaml:"ids"`

	// Error is the expected rejection kind, e.g. UNSUPPORTED_TIME.
	Error string `yaml:"error,omitempty"`

	// Predicate optionally pins the rendered predicate.
	Predicate string `yaml:"predicate,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "expects:" vs "expect:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.Catalog != "" {
		if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
			return fmt.Errorf("catalog file not found: %s", s.Catalog)
		}
	}

	for i, series := range s.Series {
		if _, err := series.times(); err != nil {
			return fmt.Errorf("series[%d]: %w", i, err)
		}
	}

	names := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if names[step.Name] {
			return fmt.Errorf("steps[%d]: duplicate step name %q", i, step.Name)
		}
		names[step.Name] = true

		hasIDs := step.Expect.IDs != nil
		hasError := step.Expect.Error != ""
		if hasIDs == hasError {
			return fmt.Errorf("steps[%d].expect: exactly one of ids and error is required", i)
		}
		if hasError {
			if err := validateKind(step.Expect.Error); err != nil {
				return fmt.Errorf("steps[%d].expect: %w", i, err)
			}
		}
	}

	return nil
}

func validateKind(kind string) error {
	switch compiler.ErrorKind(kind) {
	case compiler.KindUnsupportedOperator, compiler.KindUnsupportedValueReference, compiler.KindUnsupportedTime:
		return nil
	default:
		return fmt.Errorf("unknown error kind %q", kind)
	}
}

// times returns the phenomenon times of the series.
func (s Series) times() ([]time.Time, error) {
	if s.Count <= 0 {
		return nil, fmt.Errorf("count must be positive")
	}
	start, err := temporal.ParseTime(s.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	step, err := time.ParseDuration(s.Step)
	if err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive")
	}

	clock := testutil.NewStepClock(start, step)
	out := make([]time.Time, s.Count)
	for i := range out {
		out[i] = clock.Next()
	}
	return out, nil
}
