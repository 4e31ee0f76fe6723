package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/askviz/internal/ask"
	"github.com/roach88/askviz/internal/dataset"
	"github.com/roach88/askviz/internal/encoding"
	"github.com/roach88/askviz/internal/executor"
	"github.com/roach88/askviz/internal/store"
)

// defaultPreviewRows is the number of result rows shown in text mode.
const defaultPreviewRows = 20

// AskOptions holds flags for the ask command.
type AskOptions struct {
	*RootOptions
	Data  string // CSV dataset
	Chart chartValue
	Save  bool
	DB    string // visualization store path
	Name  string // saved visualization name
	Limit int    // text-mode preview rows
}

// AskOutput is the JSON form of an answered question.
type AskOutput struct {
	TranslateOutput
	Encoding encoding.Encoding `json:"encoding"`

	Degraded       bool      `json:"degraded"`
	ResultFallback string    `json:"result_fallback,omitempty"`
	ExecutionError *CLIError `json:"execution_error,omitempty"`

	Result *dataset.Table `json:"result"`

	SavedID string `json:"saved_id,omitempty"`
}

// NewAskCommand creates the ask command.
func NewAskCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AskOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question over a CSV dataset",
		Long: `Load a CSV file, translate the question into SQL, run it and choose a
chart for the result.

When the query fails the command still succeeds with a degraded result:
rows matching the query's filter when it can be re-applied, otherwise a
sample of the dataset. The failure is reported alongside the result.

Examples:
  askviz ask --data sales.csv "total sales by region"
  askviz ask --data sales.csv --chart pie "sales by region"
  askviz ask --data sales.csv --save --name "Regional totals" "total sales by region"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "CSV dataset (required)")
	cmd.Flags().Var(&opts.Chart, "chart", "chart type: Auto or one of the catalog")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save the visualization")
	cmd.Flags().StringVar(&opts.DB, "db", defaultDBPath, "visualization store path")
	cmd.Flags().StringVar(&opts.Name, "name", "", "name for the saved visualization")
	cmd.Flags().IntVar(&opts.Limit, "limit", defaultPreviewRows, "result rows shown in text output (0 for all)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func runAsk(opts *AskOptions, question string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	t, err := dataset.LoadCSV(opts.Data)
	if err != nil {
		return formatter.Fail(ErrCodeDataLoad, "loading dataset", err)
	}
	formatter.VerboseLog("Loaded %d row(s), %d column(s) from %s", t.Len(), len(t.Columns), opts.Data)

	ex, err := executor.Open(ctx, t)
	if err != nil {
		return formatter.Fail(ErrCodeDataLoad, "loading dataset into the query engine", err)
	}
	defer ex.Close()

	answer, err := ask.Ask(ctx, ex, question, opts.Chart.Chart())
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, "answering question", err)
	}

	out := AskOutput{
		TranslateOutput: newTranslateOutput(answer.Translation),
		Encoding:        answer.Encoding,
		Degraded:        answer.Result.Degraded,
		ResultFallback:  string(answer.Result.Fallback),
		Result:          answer.Result.Table,
	}
	if answer.ExecError != nil {
		out.ExecutionError = executionError(answer.ExecError)
	}

	if opts.Save {
		v, err := saveAnswer(cmd, opts, answer)
		if err != nil {
			return formatter.Fail(ErrCodeStore, "saving visualization", err)
		}
		out.SavedID = v.ID
		slog.Info("visualization saved", "id", v.ID, "name", v.Name)
	}

	if formatter.JSON() {
		return formatter.Success(out)
	}

	writeAnswer(formatter, out, opts.Limit)
	return nil
}

func saveAnswer(cmd *cobra.Command, opts *AskOptions, answer *ask.Answer) (store.Visualization, error) {
	payload, err := answer.MarshalPayload()
	if err != nil {
		return store.Visualization{}, err
	}

	s, err := store.Open(opts.DB)
	if err != nil {
		return store.Visualization{}, err
	}
	defer s.Close()

	return s.Save(cmd.Context(), store.Visualization{
		Name:      opts.Name,
		Question:  answer.Translation.Question,
		SQL:       answer.Translation.SQL,
		ChartType: string(answer.Encoding.Chart),
		Payload:   payload,
	})
}

func executionError(err error) *CLIError {
	var execErr *executor.ExecutionError
	if errors.As(err, &execErr) {
		return &CLIError{Code: string(execErr.Code), Message: execErr.Error()}
	}
	return &CLIError{Code: ErrCodeGeneric, Message: err.Error()}
}

func writeAnswer(f *OutputFormatter, out AskOutput, limit int) {
	writeTranslation(f, out.TranslateOutput)
	fmt.Fprintln(f.Writer)
	writeEncoding(f.Writer, out.Encoding)
	fmt.Fprintln(f.Writer)

	if out.Degraded {
		fmt.Fprintf(f.Writer, "Query failed, showing %s rows instead.\n", out.ResultFallback)
		if out.ExecutionError != nil {
			fmt.Fprintf(f.Writer, "  %s\n", out.ExecutionError.Message)
		}
	}
	writeTable(f.Writer, out.Result, limit)

	if out.SavedID != "" {
		fmt.Fprintf(f.Writer, "\nSaved as %s\n", out.SavedID)
	}
}
