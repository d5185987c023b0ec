package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationsJSON(t *testing.T) {
	out, _, err := execute(t, NewRelationsCommand(&RootOptions{Format: "json"}))
	require.NoError(t, err)

	var data RelationsOutput
	decodeData(t, out, &data)

	require.Len(t, data.Fields, 3)
	assert.Equal(t, FieldRow{
		Name:    "resultTime",
		Shape:   "point",
		Columns: []string{"result_time", "phenomenon_time_end"},
	}, data.Fields[1])

	require.Len(t, data.Relations, 13)
	assert.Equal(t, "After", data.Relations[0].Relation)
	assert.Equal(t, map[string]string{
		"phenomenonTime": "s > e1",
		"resultTime":     "p > e1",
		"validTime":      "s > e1",
	}, data.Relations[0].Rules)

	for _, row := range data.Relations {
		assert.Contains(t, row.Rules, "phenomenonTime", "%s must be defined on intervals", row.Relation)
	}

	var pointSupported []string
	for _, row := range data.Relations {
		if _, ok := row.Rules["resultTime"]; ok {
			pointSupported = append(pointSupported, row.Relation)
		}
	}
	assert.Equal(t, []string{"After", "Before", "During", "Begins", "Ends"}, pointSupported)
}

func TestRelationsText(t *testing.T) {
	out, _, err := execute(t, NewRelationsCommand(&RootOptions{Format: "text"}))
	require.NoError(t, err)

	assert.Contains(t, out, "phenomenon_time_start, phenomenon_time_end")
	assert.Contains(t, out, "s < s1 AND e > s1 AND e < e1")

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "OverlappedBy") {
			assert.Contains(t, line, "unsupported")
		}
	}
}

func TestRelationsCustomCatalog(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "fields.cue")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`
field: {
	samplingTime: {shape: "point", point: "sampled_at", fallback: "received_at"}
}
`), 0o644))
	configPath := filepath.Join(dir, "sostime.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("catalog: "+catalogPath+"\n"), 0o644))

	out, _, err := execute(t, NewRelationsCommand(&RootOptions{Format: "json", ConfigPath: configPath}))
	require.NoError(t, err)

	var data RelationsOutput
	decodeData(t, out, &data)
	require.Len(t, data.Fields, 1)
	assert.Equal(t, "samplingTime", data.Fields[0].Name)
	assert.Equal(t, map[string]string{"samplingTime": "p > s1 AND p < e1"}, data.Relations[4].Rules)
}
