package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/52North/SOS-sub007/internal/predicate"
	"github.com/52North/SOS-sub007/internal/store"
	"github.com/52North/SOS-sub007/internal/temporal"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	*RootOptions
	FilterFlags
	DatabasePath string
}

// ObservationOutput is one observation in query output.
type ObservationOutput struct {
	ID               string `json:"id"`
	Procedure        string `json:"procedure"`
	ObservedProperty string `json:"observedProperty"`
	PhenomenonTime   string `json:"phenomenonTime"`
	ResultTime       string `json:"resultTime,omitempty"`
	ValidTime        string `json:"validTime,omitempty"`
	Value            string `json:"value"`
}

// QueryOutput is the data payload of a successful query.
type QueryOutput struct {
	Predicate    string              `json:"predicate"`
	Fingerprint  string              `json:"fingerprint"`
	Observations []ObservationOutput `json:"observations"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find stored observations matching temporal filters",
		Long: `Compile temporal filters and run them against the observation store.

All filters must hold. Without filters every observation is returned.
Results are ordered by phenomenon time start, then id.`,
		Example:       `  sostime query --db obs.db --filter 'After,resultTime,2013-07-18T00:00:00Z'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	opts.FilterFlags.register(cmd)
	cmd.Flags().StringVar(&opts.DatabasePath, "db", "", "path to SQLite database (defaults to the configured database)")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return reportError(formatter, ErrCodeConfig, err)
	}
	logger, err := opts.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return reportError(formatter, ErrCodeConfig, err)
	}
	c, err := cfg.Compiler()
	if err != nil {
		return reportError(formatter, ErrCodeConfig, err)
	}

	filters, err := opts.collect()
	if err != nil {
		return reportError(formatter, ErrCodeInvalidInput, err)
	}
	res, err := c.Compile(filters)
	if err != nil {
		logger.Debug("filter rejected", "error", err)
		return reportError(formatter, ErrCodeGeneric, err)
	}
	fingerprint, err := res.Fingerprint()
	if err != nil {
		return reportError(formatter, ErrCodeGeneric, err)
	}

	dbPath := opts.DatabasePath
	if dbPath == "" {
		dbPath = cfg.Database
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return reportError(formatter, ErrCodeDatabase, fmt.Errorf("failed to open database: %w", err))
	}
	defer st.Close()

	start := time.Now()
	found, err := st.Find(cmd.Context(), res)
	if err != nil {
		return reportError(formatter, ErrCodeDatabase, err)
	}
	logger.Debug("query finished",
		"filters", len(filters),
		"fingerprint", fingerprint,
		"rows", len(found),
		"elapsed", time.Since(start))

	out := QueryOutput{
		Predicate:    predicate.String(res.Predicate),
		Fingerprint:  fingerprint,
		Observations: make([]ObservationOutput, len(found)),
	}
	for i, o := range found {
		out.Observations[i] = observationOutput(o)
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	formatter.VerboseLog("Predicate: %s", out.Predicate)
	renderObservations(formatter.Writer, out.Observations)
	return nil
}

func observationOutput(o store.Observation) ObservationOutput {
	out := ObservationOutput{
		ID:               o.ID,
		Procedure:        o.Procedure,
		ObservedProperty: o.ObservedProperty,
		PhenomenonTime:   o.PhenomenonTime.String(),
		Value:            o.Value,
	}
	if o.ResultTime != nil {
		out.ResultTime = temporal.Instant{At: *o.ResultTime}.String()
	}
	if o.ValidTime != nil {
		out.ValidTime = o.ValidTime.String()
	}
	return out
}

func renderObservations(w io.Writer, obs []ObservationOutput) {
	if len(obs) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Procedure", "Property", "Phenomenon Time", "Result Time", "Valid Time", "Value"})
	for _, o := range obs {
		t.AppendRow(table.Row{o.ID, o.Procedure, o.ObservedProperty, o.PhenomenonTime, o.ResultTime, o.ValidTime, o.Value})
	}
	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(obs))
}
