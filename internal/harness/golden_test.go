package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Regenerate with:
//
//	go test ./internal/harness -run TestRunWithGolden -update
func TestRunWithGolden_OMTimeFields(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/om_time_fields.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestSnapshotMarshal(t *testing.T) {
	data, err := Snapshot{
		ScenarioName: "s",
		Steps: []StepResult{{
			Name:        "after",
			Filters:     []string{"After(resultTime, 2013-07-18T00:00:00Z)"},
			Predicate:   "(phenomenon_time_start > :end1)",
			IDs:         []string{},
			Fingerprint: "abc",
		}},
	}.marshal()
	require.NoError(t, err)

	assert.Contains(t, string(data), `"predicate": "(phenomenon_time_start > :end1)"`)
	assert.Contains(t, string(data), `"ids": []`)
	assert.NotContains(t, string(data), "abc")
	assert.NotContains(t, string(data), `"error"`)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}
