package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"github.com/52North/SOS-sub007/internal/compiler"
	"github.com/52North/SOS-sub007/internal/field"
	"github.com/52North/SOS-sub007/internal/predicate"
	"github.com/52North/SOS-sub007/internal/relation"
	"github.com/52North/SOS-sub007/internal/store"
	"github.com/52North/SOS-sub007/internal/temporal"
	"github.com/52North/SOS-sub007/internal/testutil"
)

// Harness is the test execution engine.
// It runs the steps of one scenario against a seeded store.
type Harness struct {
	store    *store.Store
	compiler *compiler.Compiler
	logger   *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Observation IDs are sequential so results are reproducible.
//
// Execution flow:
// 1. Build the compiler from the scenario catalog
// 2. Create fresh in-memory database
// 3. Insert explicit observations, then series observations
// 4. Compile and query each step, checking its expectation
// 5. Return result with pass/fail, step results, and errors
//
// Filter rejections are step outcomes, not errors. The returned error is
// reserved for scenarios that cannot run at all.
func Run(scenario *Scenario) (*Result, error) {
	comp, err := scenarioCompiler(scenario)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewSequentialIDs("")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:    st,
		compiler: comp,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()
	if err := h.seed(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed observations: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		sr, err := h.runStep(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Name, err)
		}
		result.Steps = append(result.Steps, sr)
		for _, msg := range checkExpect(step, sr) {
			result.AddError(fmt.Sprintf("step %q: %s", step.Name, msg))
		}
	}
	return result, nil
}

func scenarioCompiler(scenario *Scenario) (*compiler.Compiler, error) {
	if scenario.Catalog == "" {
		return compiler.Default(), nil
	}
	fields, err := field.LoadCatalog(scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load field catalog: %w", err)
	}
	return compiler.New(fields, relation.NewCatalog()), nil
}

// seed inserts the scenario observations. Records keep their IDs; the rest
// are numbered in insertion order.
func (h *Harness) seed(ctx context.Context, scenario *Scenario) error {
	var obs []store.Observation
	for i, rec := range scenario.Observations {
		o, err := rec.Observation()
		if err != nil {
			return fmt.Errorf("observations[%d]: %w", i, err)
		}
		obs = append(obs, o)
	}
	for i, series := range scenario.Series {
		times, err := series.times()
		if err != nil {
			return fmt.Errorf("series[%d]: %w", i, err)
		}
		for n, t := range times {
			obs = append(obs, store.Observation{
				Procedure:        series.Procedure,
				ObservedProperty: series.ObservedProperty,
				PhenomenonTime:   temporal.Period{Start: t, End: t},
				Value:            strconv.Itoa(n + 1),
			})
		}
	}
	if len(obs) == 0 {
		return nil
	}

	ids, err := h.store.Insert(ctx, obs...)
	if err != nil {
		return err
	}
	h.logger.Debug("seeded observations", "count", len(ids))
	return nil
}

func (h *Harness) runStep(ctx context.Context, step Step) (StepResult, error) {
	sr := StepResult{Name: step.Name, Filters: []string{}, IDs: []string{}}

	filters, err := decodeFilters(step)
	if err == nil {
		for _, f := range filters {
			sr.Filters = append(sr.Filters, f.String())
		}
		var res *compiler.Result
		res, err = h.compiler.Compile(filters)
		if err == nil {
			return h.query(ctx, sr, res)
		}
	}

	var rejection *compiler.Error
	if !errors.As(err, &rejection) {
		return StepResult{}, err
	}
	sr.Error = string(rejection.Kind)
	h.logger.Debug("step rejected", "step", step.Name, "kind", rejection.Kind, "error", rejection)
	return sr, nil
}

func (h *Harness) query(ctx context.Context, sr StepResult, res *compiler.Result) (StepResult, error) {
	fingerprint, err := res.Fingerprint()
	if err != nil {
		return StepResult{}, err
	}
	found, err := h.store.Find(ctx, res)
	if err != nil {
		return StepResult{}, err
	}

	sr.Predicate = predicate.String(res.Predicate)
	sr.Fingerprint = fingerprint
	for _, o := range found {
		sr.IDs = append(sr.IDs, o.ID)
	}
	h.logger.Debug("step matched", "step", sr.Name, "count", len(sr.IDs), "fingerprint", fingerprint)
	return sr, nil
}

// decodeFilters decodes the structured filters of a step, then its KVP
// values.
func decodeFilters(step Step) ([]compiler.Filter, error) {
	filters := make([]compiler.Filter, 0, len(step.Filters)+len(step.KVP))
	for _, tf := range step.Filters {
		f, err := tf.Filter()
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	for _, kvp := range step.KVP {
		f, err := compiler.ParseKVP(kvp)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// checkExpect returns one message per mismatch between a step result and
// its expectation.
func checkExpect(step Step, sr StepResult) []string {
	var msgs []string
	exp := step.Expect

	if exp.Error != "" {
		if sr.Error != exp.Error {
			msgs = append(msgs, fmt.Sprintf("expected rejection %s, got %s", exp.Error, describe(sr)))
		}
		return msgs
	}

	if sr.Error != "" {
		msgs = append(msgs, fmt.Sprintf("expected ids %v, got rejection %s", exp.IDs, sr.Error))
		return msgs
	}
	if !slices.Equal(exp.IDs, sr.IDs) {
		msgs = append(msgs, fmt.Sprintf("expected ids %v, got %v", exp.IDs, sr.IDs))
	}
	if exp.Predicate != "" && exp.Predicate != sr.Predicate {
		msgs = append(msgs, fmt.Sprintf("expected predicate %s, got %s", exp.Predicate, sr.Predicate))
	}
	return msgs
}

func describe(sr StepResult) string {
	if sr.Error != "" {
		return "rejection " + sr.Error
	}
	return fmt.Sprintf("ids %v", sr.IDs)
}
