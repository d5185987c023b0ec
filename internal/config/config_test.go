package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52North/SOS-sub007/internal/field"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "text", cfg.Logger.Format)
	assert.Equal(t, "sostime.db", cfg.Database)
	assert.Empty(t, cfg.Catalog)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
logger:
  level: debug
  format: json
database: /var/lib/sostime/obs.db
`))
	require.NoError(t, err)
	assert.Equal(t, LoggerConfig{Level: "debug", Format: "json"}, cfg.Logger)
	assert.Equal(t, "/var/lib/sostime/obs.db", cfg.Database)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("logger:\n  format: colored-text\n"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "colored-text", cfg.Logger.Format)
	assert.Equal(t, "sostime.db", cfg.Database)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"yaml", "logger: [", "cannot parse config file"},
		{"level", "logger:\n  level: loud\n", "invalid log level"},
		{"format", "logger:\n  format: xml\n", "invalid log format"},
		{"database", "database: \"\"\n", "database path is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sostime.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: obs.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "obs.db", cfg.Database)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LoggerConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "filters", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, float64(2), rec["filters"])
}

func TestNewLoggerFormats(t *testing.T) {
	for _, format := range []string{"text", "json", "colored-text"} {
		var buf bytes.Buffer
		logger, err := LoggerConfig{Level: "debug", Format: format}.NewLogger(&buf)
		require.NoError(t, err, format)
		logger.Debug("hello")
		assert.Contains(t, buf.String(), "hello", format)
	}

	_, err := LoggerConfig{Level: "debug", Format: "xml"}.NewLogger(&bytes.Buffer{})
	assert.Error(t, err)
	_, err = LoggerConfig{Level: "trace", Format: "text"}.NewLogger(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestCompilerDefaultCatalog(t *testing.T) {
	c, err := Default().Compiler()
	require.NoError(t, err)
	assert.Equal(t, []string{field.PhenomenonTime, field.ResultTime, field.ValidTime}, c.Fields.Names())
}

func TestCompilerCUECatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
field: samplingTime: {shape: "interval", start: "sampling_start", end: "sampling_end"}
`), 0o644))

	cfg := Default()
	cfg.Catalog = path
	c, err := cfg.Compiler()
	require.NoError(t, err)
	assert.Equal(t, []string{"samplingTime"}, c.Fields.Names())

	cfg.Catalog = filepath.Join(t.TempDir(), "missing.cue")
	_, err = cfg.Compiler()
	assert.Error(t, err)
}
