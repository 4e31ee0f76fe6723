package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/roach88/askviz/internal/dataset"
	"github.com/roach88/askviz/internal/encoding"
)

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// chartValue is a --chart flag holding a catalog chart type or Auto.
type chartValue struct {
	chart encoding.ChartType
}

var _ pflag.Value = (*chartValue)(nil)

func (v *chartValue) String() string {
	if v.chart == "" {
		return string(encoding.Auto)
	}
	return string(v.chart)
}

func (v *chartValue) Set(s string) error {
	c, err := encoding.ParseChartType(s)
	if err != nil {
		return err
	}
	v.chart = c
	return nil
}

func (v *chartValue) Type() string { return "chart" }

// Chart returns the parsed chart type, Auto when unset.
func (v *chartValue) Chart() encoding.ChartType {
	if v.chart == "" {
		return encoding.Auto
	}
	return v.chart
}

// writeEncoding prints an encoding as aligned "key: value" lines.
func writeEncoding(w io.Writer, enc encoding.Encoding) {
	fmt.Fprintf(w, "Chart:       %s\n", enc.Chart.Label())
	if enc.Title != "" {
		fmt.Fprintf(w, "Title:       %s\n", enc.Title)
	}
	for _, r := range encoding.RoleOrder {
		if col, ok := enc.Role(r); ok {
			fmt.Fprintf(w, "  %-10s %s\n", string(r)+":", col)
		}
	}
	if len(enc.Path) > 0 {
		fmt.Fprintf(w, "  %-10s %s\n", "path:", strings.Join(enc.Path, " > "))
	}
	if enc.Transform != encoding.TransformNone {
		fmt.Fprintf(w, "Transform:   %s\n", enc.Transform)
	}
	if enc.Placeholder != "" {
		fmt.Fprintf(w, "Placeholder: %s\n", enc.Placeholder)
	}
	if enc.Note != "" {
		fmt.Fprintf(w, "Note:        %s\n", enc.Note)
	}
}

// maxCellWidth caps a preview cell when the terminal width is unknown.
const maxCellWidth = 40

// writeTable prints up to limit rows of t as aligned columns. On a
// terminal, cells are clipped so a row fits the window.
func writeTable(w io.Writer, t *dataset.Table, limit int) {
	recs := t.Records()
	if len(recs) == 0 || len(recs[0]) == 0 {
		fmt.Fprintln(w, "(no columns)")
		return
	}
	shown := recs
	if limit > 0 && len(recs)-1 > limit {
		shown = recs[:limit+1]
	}

	width := cellWidth(w, len(recs[0]))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range shown {
		cells := make([]string, len(rec))
		for i, c := range rec {
			cells[i] = clip(c, width)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()

	if hidden := len(recs) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "... %d more row(s)\n", hidden)
	}
}

// cellWidth spreads the terminal width over columns, or returns
// maxCellWidth when w is not a terminal.
func cellWidth(w io.Writer, columns int) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return maxCellWidth
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || columns == 0 {
		return maxCellWidth
	}
	return max(cols/columns-2, 8)
}

func clip(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
