package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/52North/SOS-sub007/internal/store"
)

// IngestOptions holds options for the ingest command.
type IngestOptions struct {
	*RootOptions
	DatabasePath string
}

// IngestOutput is the data payload of a successful ingest.
type IngestOutput struct {
	Database string   `json:"database"`
	IDs      []string `json:"ids"`
	Total    int64    `json:"total"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <observations.yaml>",
		Short: "Load observations into the store",
		Long: `Load observations from a YAML file into the SQLite store.

The file holds an observations list; each entry has procedure,
observedProperty, phenomenonTime (instant or start/end), an optional
resultTime instant, an optional validTime period and a value. Entries
with an id that is already stored are skipped.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DatabasePath, "db", "", "path to SQLite database (defaults to the configured database)")

	return cmd
}

func runIngest(opts *IngestOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return reportError(formatter, ErrCodeConfig, err)
	}
	logger, err := opts.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return reportError(formatter, ErrCodeConfig, err)
	}

	dbPath := opts.DatabasePath
	if dbPath == "" {
		dbPath = cfg.Database
	}

	obs, err := LoadObservations(path)
	if err != nil {
		return reportError(formatter, ErrCodeInvalidInput, err)
	}
	formatter.VerboseLog("Loaded %d observation(s) from %s", len(obs), path)

	st, err := store.Open(dbPath)
	if err != nil {
		return reportError(formatter, ErrCodeDatabase, fmt.Errorf("failed to open database: %w", err))
	}
	defer st.Close()

	ctx := cmd.Context()
	ids, err := st.Insert(ctx, obs...)
	if err != nil {
		return reportError(formatter, ErrCodeDatabase, err)
	}
	total, err := st.Count(ctx, nil)
	if err != nil {
		return reportError(formatter, ErrCodeDatabase, err)
	}
	logger.Info("ingested observations", "database", dbPath, "count", len(ids), "total", total)

	out := IngestOutput{Database: dbPath, IDs: ids, Total: total}
	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	fmt.Fprintf(formatter.Writer, "✓ Ingested %d observation(s) into %s (%d stored)\n", len(ids), dbPath, total)
	for _, id := range ids {
		formatter.VerboseLog("  %s", id)
	}
	return nil
}
