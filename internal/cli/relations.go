package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/52North/SOS-sub007/internal/compiler"
	"github.com/52North/SOS-sub007/internal/temporal"
)

// FieldRow describes one catalogued field.
type FieldRow struct {
	Name    string   `json:"name"`
	Shape   string   `json:"shape"`
	Columns []string `json:"columns"`
}

// RelationRow lists the rule template of a relation per field. Fields the
// relation is unsupported on are absent from Rules.
type RelationRow struct {
	Relation string            `json:"relation"`
	Rules    map[string]string `json:"rules"`
}

// RelationsOutput is the data payload of the relations command.
type RelationsOutput struct {
	Fields    []FieldRow    `json:"fields"`
	Relations []RelationRow `json:"relations"`
}

// NewRelationsCommand creates the relations command.
func NewRelationsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relations",
		Short: "Print the relation support matrix",
		Long: `Print every temporal relation against every catalogued field.

Each cell shows the rule template, where s/e are the field's start/end
columns, p is its point column (or fallback) and s1/e1 are the reference
period bounds. An instant reference has s1 = e1.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelations(rootOpts, cmd)
		},
	}
	return cmd
}

func runRelations(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return reportError(formatter, ErrCodeConfig, err)
	}
	c, err := cfg.Compiler()
	if err != nil {
		return reportError(formatter, ErrCodeConfig, err)
	}

	out := buildRelationsOutput(c)
	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	renderRelations(formatter.Writer, out)
	return nil
}

func buildRelationsOutput(c *compiler.Compiler) RelationsOutput {
	descs := c.Fields.Descriptors()

	out := RelationsOutput{
		Fields:    make([]FieldRow, len(descs)),
		Relations: make([]RelationRow, 0, len(temporal.All())),
	}
	for i, d := range descs {
		out.Fields[i] = FieldRow{Name: d.Name, Shape: d.Shape.Kind().String(), Columns: d.Columns()}
	}

	for _, rel := range temporal.All() {
		row := RelationRow{Relation: rel.String(), Rules: make(map[string]string, len(descs))}
		for _, d := range descs {
			rule, ok := c.Relations.Lookup(rel, d.Shape.Kind())
			if !ok {
				continue
			}
			terms := rule.Terms()
			parts := make([]string, len(terms))
			for i, t := range terms {
				parts[i] = t.String()
			}
			row.Rules[d.Name] = strings.Join(parts, " AND ")
		}
		out.Relations = append(out.Relations, row)
	}
	return out
}

func renderRelations(w io.Writer, out RelationsOutput) {
	fields := table.NewWriter()
	fields.SetOutputMirror(w)
	fields.SetStyle(table.StyleLight)
	fields.AppendHeader(table.Row{"Field", "Shape", "Columns"})
	for _, f := range out.Fields {
		fields.AppendRow(table.Row{f.Name, f.Shape, strings.Join(f.Columns, ", ")})
	}
	fields.Render()
	fmt.Fprintln(w)

	matrix := table.NewWriter()
	matrix.SetOutputMirror(w)
	matrix.SetStyle(table.StyleLight)

	header := table.Row{"Relation"}
	for _, f := range out.Fields {
		header = append(header, f.Name)
	}
	matrix.AppendHeader(header)

	for _, r := range out.Relations {
		row := table.Row{r.Relation}
		for _, f := range out.Fields {
			rule, ok := r.Rules[f.Name]
			if !ok {
				rule = "unsupported"
			}
			row = append(row, rule)
		}
		matrix.AppendRow(row)
	}
	matrix.Render()
}
