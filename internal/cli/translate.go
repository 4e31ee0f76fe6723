package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/askviz/internal/schema"
	"github.com/roach88/askviz/internal/translate"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	Schema string // Schema Index file
}

// TranslateOutput is the result of translating one question.
type TranslateOutput struct {
	Question      string `json:"question"`
	Intent        string `json:"intent"`
	IntentMatched bool   `json:"intent_matched"`
	SQL           string `json:"sql"`
	Explanation   string `json:"explanation"`
	Fallback      string `json:"fallback,omitempty"`
}

func newTranslateOutput(tr translate.Translation) TranslateOutput {
	return TranslateOutput{
		Question:      tr.Question,
		Intent:        tr.Intent.String(),
		IntentMatched: tr.IntentMatched,
		SQL:           tr.SQL,
		Explanation:   tr.Explanation,
		Fallback:      string(tr.Fallback),
	}
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate <question>",
		Short: "Translate a question into SQL",
		Long: `Translate a plain-English question into a SQL query over the relation
"data" described by a Schema Index file (YAML, JSON or CUE).

Examples:
  askviz translate --schema sales.yaml "total revenue by region"
  askviz translate --schema sales.cue --format json "revenue trend by month"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema Index file (required)")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runTranslate(opts *TranslateOptions, question string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	ix, err := schema.LoadFile(opts.Schema)
	if err != nil {
		return formatter.Fail(ErrCodeSchemaLoad, "loading schema", err)
	}
	formatter.VerboseLog("Loaded %d column(s) from %s", ix.Len(), opts.Schema)

	out := newTranslateOutput(translate.Translate(question, ix))
	if formatter.JSON() {
		return formatter.Success(out)
	}

	writeTranslation(formatter, out)
	return nil
}

func writeTranslation(f *OutputFormatter, out TranslateOutput) {
	intent := out.Intent
	if !out.IntentMatched {
		intent += " (default)"
	}
	fmt.Fprintf(f.Writer, "Intent:      %s\n", intent)
	fmt.Fprintf(f.Writer, "SQL:         %s\n", out.SQL)
	fmt.Fprintf(f.Writer, "Explanation: %s\n", out.Explanation)
	if out.Fallback != "" {
		fmt.Fprintf(f.Writer, "Fallback:    %s\n", out.Fallback)
	}
}
