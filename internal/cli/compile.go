package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/52North/SOS-sub007/internal/compiler"
	"github.com/52North/SOS-sub007/internal/predicate"
	"github.com/52North/SOS-sub007/internal/querysql"
)

// FilterFlags are the filter inputs shared by compile and query.
type FilterFlags struct {
	Filters []string // RELATION,VALUE_REFERENCE,TIME
	KVP     []string // VALUE_REFERENCE,TIME
	File    string   // YAML filter file
}

func (ff *FilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&ff.Filters, "filter", nil, "temporal filter RELATION,VALUE_REFERENCE,TIME (repeatable)")
	cmd.Flags().StringArrayVar(&ff.KVP, "kvp", nil, "SOS KVP temporalFilter VALUE_REFERENCE,TIME (repeatable)")
	cmd.Flags().StringVarP(&ff.File, "file", "f", "", "YAML file with a filters list")
}

// collect decodes the filters in file, --filter, --kvp order.
func (ff *FilterFlags) collect() ([]compiler.Filter, error) {
	var filters []compiler.Filter
	if ff.File != "" {
		loaded, err := LoadFilters(ff.File)
		if err != nil {
			return nil, err
		}
		filters = append(filters, loaded...)
	}
	for _, s := range ff.Filters {
		f, err := compiler.ParseFilter(s)
		if err != nil {
			return nil, asInputError(err)
		}
		filters = append(filters, f)
	}
	for _, s := range ff.KVP {
		f, err := compiler.ParseKVP(s)
		if err != nil {
			return nil, asInputError(err)
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// asInputError keeps rejections as they are and turns syntax errors into
// LoadErrors.
func asInputError(err error) error {
	if compiler.IsRejection(err) {
		return err
	}
	return &LoadError{Code: ErrCodeInvalidInput, Message: err.Error()}
}

// CompileOptions holds options for the compile command.
type CompileOptions struct {
	*RootOptions
	FilterFlags
	Table string
}

// BindingOutput is one parameter binding in compile output.
type BindingOutput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CompileOutput is the data payload of a successful compile.
type CompileOutput struct {
	Filters     []string        `json:"filters"`
	Predicate   string          `json:"predicate"`
	Tree        json.RawMessage `json:"tree"`
	Params      []string        `json:"params"`
	Bindings    []BindingOutput `json:"bindings"`
	Fingerprint string          `json:"fingerprint"`
	SQL         string          `json:"sql"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile temporal filters into a predicate",
		Long: `Compile temporal filters into a parameterized predicate tree.

Prints the predicate, its parameter bindings, a structural fingerprint and
the SQL a SQLite observation table would run for it.

TIME is an ISO 8601 instant or a start/end period.`,
		Example: `  sostime compile --filter 'During,om:phenomenonTime,2013-07-18T00:00:00Z/2013-07-18T01:00:00Z'
  sostime compile --kvp 'resultTime,2013-07-18T00:00:00Z' --format json
  sostime compile -f filters.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, cmd)
		},
	}

	opts.FilterFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Table, "table", "observations", "table name used for the rendered SQL")

	return cmd
}

func runCompile(opts *CompileOptions, cmd *cobra.Command) error {
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
	if len(filters) == 0 {
		return reportError(formatter, ErrCodeInvalidInput, errors.New("no filters given: use --filter, --kvp or --file"))
	}

	res, err := c.Compile(filters)
	if err != nil {
		logger.Debug("filter rejected", "error", err)
		return reportError(formatter, ErrCodeGeneric, err)
	}

	out, err := buildCompileOutput(filters, res, opts.Table)
	if err != nil {
		return reportError(formatter, ErrCodeGeneric, err)
	}
	logger.Debug("compiled filters", "count", len(filters), "fingerprint", out.Fingerprint)

	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	writeCompileText(formatter, out)
	return nil
}

func buildCompileOutput(filters []compiler.Filter, res *compiler.Result, table string) (*CompileOutput, error) {
	tree, err := predicate.MarshalCanonical(res.Predicate)
	if err != nil {
		return nil, err
	}
	fingerprint, err := res.Fingerprint()
	if err != nil {
		return nil, err
	}
	render := &querysql.Compiler{Table: table}
	sql, _, err := render.Select(res)
	if err != nil {
		return nil, fmt.Errorf("render SQL: %w", err)
	}

	out := &CompileOutput{
		Filters:     make([]string, len(filters)),
		Predicate:   predicate.String(res.Predicate),
		Tree:        tree,
		Params:      res.Params(),
		Fingerprint: fingerprint,
		SQL:         sql,
	}
	for i, f := range filters {
		out.Filters[i] = f.String()
	}
	for _, b := range res.OrderedBindings() {
		out.Bindings = append(out.Bindings, BindingOutput{
			Name:  b.Name,
			Value: b.Value.UTC().Format(time.RFC3339Nano),
		})
	}
	return out, nil
}

func writeCompileText(f *OutputFormatter, out *CompileOutput) {
	fmt.Fprintf(f.Writer, "✓ Compiled %d filter(s)\n\n", len(out.Filters))

	fmt.Fprintln(f.Writer, "Filters:")
	for i, s := range out.Filters {
		fmt.Fprintf(f.Writer, "  %d. %s\n", i+1, s)
	}
	fmt.Fprintln(f.Writer)

	fmt.Fprintf(f.Writer, "Predicate:\n  %s\n\n", out.Predicate)

	fmt.Fprintln(f.Writer, "Bindings:")
	for _, b := range out.Bindings {
		fmt.Fprintf(f.Writer, "  :%s = %s\n", b.Name, b.Value)
	}
	fmt.Fprintln(f.Writer)

	fmt.Fprintf(f.Writer, "Params: %s\n", strings.Join(out.Params, ", "))
	fmt.Fprintf(f.Writer, "Fingerprint: %s\n", out.Fingerprint)
	f.VerboseLog("Tree: %s", out.Tree)
	fmt.Fprintf(f.Writer, "\nSQL:\n  %s\n", out.SQL)
}
