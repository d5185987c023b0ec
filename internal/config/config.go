package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"gopkg.in/yaml.v3"

	"github.com/52North/SOS-sub007/internal/compiler"
	"github.com/52North/SOS-sub007/internal/field"
	"github.com/52North/SOS-sub007/internal/relation"
)

// Config is the sostime application configuration.
type Config struct {
	Logger LoggerConfig `yaml:"logger"`

	// Database is the SQLite file used by ingest and query.
	Database string `yaml:"database"`

	// Catalog is an optional CUE field catalog. Empty uses the default
	// observation fields.
	Catalog string `yaml:"catalog"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Logger:   LoggerConfig{Level: "info", Format: "text"},
		Database: "sostime.db",
	}
}

// Load reads a YAML configuration file. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file content: %w", err)
	}
	return Parse(content)
}

// Parse decodes YAML configuration over the defaults and validates it.
func Parse(content []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (cfg Config) Validate() error {
	if _, err := parseLevel(cfg.Logger.Level); err != nil {
		return err
	}
	switch cfg.Logger.Format {
	case "text", "json", "colored-text":
	default:
		return fmt.Errorf("invalid log format: %s", cfg.Logger.Format)
	}
	if cfg.Database == "" {
		return errors.New("database path is required")
	}
	return nil
}

// NewLogger builds the slog logger described by cfg, writing to w.
func (cfg LoggerConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case "colored-text":
		handler = tint.NewHandler(w, &tint.Options{Level: level})
	default:
		return nil, fmt.Errorf("invalid log format: %s", cfg.Format)
	}
	return slog.New(handler), nil
}

// Compiler builds the filter compiler: the configured field catalog (or
// the default one) and the standard relation catalog.
func (cfg Config) Compiler() (*compiler.Compiler, error) {
	fields := field.DefaultCatalog()
	if cfg.Catalog != "" {
		var err error
		fields, err = field.LoadCatalog(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("cannot load field catalog: %w", err)
		}
	}
	return compiler.New(fields, relation.NewCatalog()), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}
