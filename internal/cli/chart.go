package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/askviz/internal/encoding"
	"github.com/roach88/askviz/internal/schema"
)

// ChartOptions holds flags for the chart command.
type ChartOptions struct {
	*RootOptions
	Schema string // result Schema Index file
	Chart  chartValue
}

// NewChartCommand creates the chart command.
func NewChartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "chart <question>",
		Short: "Choose a chart for a query result",
		Long: `Choose a chart type and assign result columns to roles.

The --schema file describes the result table (column kinds, distinct counts
and row count), not the source dataset. Its rows field is required; a result
with rows: 0 is charted with a "no data" note. Chart vocabulary in the question
("pie", "trend", "distribution") overrides shape-based selection unless
--chart names a type.

Examples:
  askviz chart --schema result.yaml "revenue by region"
  askviz chart --schema result.yaml --chart "Box Plot" "revenue by region"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "result Schema Index file (required)")
	cmd.Flags().Var(&opts.Chart, "chart", "chart type: Auto or one of the catalog")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runChart(opts *ChartOptions, question string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	ix, err := schema.LoadResultFile(opts.Schema)
	if err != nil {
		return formatter.Fail(ErrCodeSchemaLoad, "loading schema", err)
	}

	enc := encoding.SelectAs(ix, question, opts.Chart.Chart())
	if formatter.JSON() {
		return formatter.Success(enc)
	}

	writeEncoding(formatter.Writer, enc)
	return nil
}
