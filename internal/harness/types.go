package harness

// StepResult is the observed outcome of one scenario step.
type StepResult struct {
	Name string `json:"name"`

	// Filters are the decoded filters in compile order.
	Filters []string `json:"filters"`

	// Predicate is the rendered predicate; empty when the step was rejected.
	Predicate string `json:"predicate,omitempty"`

	// IDs are the matching observation IDs in result order.
	IDs []string `json:"ids"`

	// Error is the rejection kind, if the filters were rejected.
	Error string `json:"error,omitempty"`

	// Fingerprint identifies the predicate shape. It is left out of golden
	// files.
	Fingerprint string `json:"-"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step matched its expectation.
	Pass bool `json:"pass"`

	// Steps holds one entry per scenario step, in order.
	Steps []StepResult `json:"steps"`

	// Errors contains expectation mismatches.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Step returns the result of the named step.
func (r *Result) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}
