package cli

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/askviz/internal/store"
)

// defaultDBPath is the visualization store used when --db is not given.
const defaultDBPath = "askviz.db"

// SavedOptions holds flags shared by the saved subcommands.
type SavedOptions struct {
	*RootOptions
	DB    string
	Limit int
}

// NewSavedCommand creates the saved command and its subcommands.
func NewSavedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SavedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved visualizations",
		Long: `List, show, delete and summarize visualizations saved with "ask --save".

Examples:
  askviz saved list
  askviz saved show 0190a3c4-...
  askviz saved stats --db ./work.db`,
	}
	cmd.PersistentFlags().StringVar(&opts.DB, "db", defaultDBPath, "visualization store path")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List saved visualizations, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavedList(opts, cmd)
		},
	}
	list.Flags().IntVar(&opts.Limit, "limit", 0, "maximum records to list (0 for all)")

	show := &cobra.Command{
		Use:           "show <id>",
		Short:         "Show a saved visualization and count the view",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavedShow(opts, args[0], cmd)
		},
	}

	del := &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a saved visualization",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavedDelete(opts, args[0], cmd)
		},
	}

	stats := &cobra.Command{
		Use:           "stats",
		Short:         "Summarize saved visualizations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavedStats(opts, cmd)
		},
	}

	cmd.AddCommand(list, show, del, stats)
	return cmd
}

// withStore opens the store, runs fn and closes it. Store errors are
// reported with ErrCodeStore, a missing record with ErrCodeNotFound.
func withStore(opts *SavedOptions, formatter *OutputFormatter, fn func(*store.Store) error) error {
	s, err := store.Open(opts.DB)
	if err != nil {
		return formatter.Fail(ErrCodeStore, "opening store", err)
	}
	defer s.Close()

	if err := fn(s); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ErrCodeNotFound, "visualization not found", err)
		}
		return formatter.Fail(ErrCodeStore, "store operation failed", err)
	}
	return nil
}

func runSavedList(opts *SavedOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var records []store.Visualization
	err := withStore(opts, formatter, func(s *store.Store) error {
		var err error
		records, err = s.List(cmd.Context(), opts.Limit)
		return err
	})
	if err != nil {
		return err
	}

	if formatter.JSON() {
		return formatter.Success(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No saved visualizations.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCHART\tVIEWS\tCREATED")
	for _, v := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", v.ID, v.Name, v.ChartType, v.Views, v.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runSavedShow(opts *SavedOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var v store.Visualization
	err := withStore(opts, formatter, func(s *store.Store) error {
		var err error
		v, err = s.Get(cmd.Context(), id)
		return err
	})
	if err != nil {
		return err
	}

	if formatter.JSON() {
		return formatter.Success(v)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "ID:       %s\n", v.ID)
	fmt.Fprintf(w, "Name:     %s\n", v.Name)
	fmt.Fprintf(w, "Created:  %s\n", v.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Question: %s\n", v.Question)
	fmt.Fprintf(w, "SQL:      %s\n", v.SQL)
	fmt.Fprintf(w, "Chart:    %s\n", v.ChartType)
	fmt.Fprintf(w, "Views:    %d\n", v.Views)
	return nil
}

func runSavedDelete(opts *SavedOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	err := withStore(opts, formatter, func(s *store.Store) error {
		return s.Delete(cmd.Context(), id)
	})
	if err != nil {
		return err
	}

	if formatter.JSON() {
		return formatter.Success(map[string]string{"deleted": id})
	}
	fmt.Fprintf(formatter.Writer, "Deleted %s\n", id)
	return nil
}

func runSavedStats(opts *SavedOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var st store.Stats
	err := withStore(opts, formatter, func(s *store.Store) error {
		var err error
		st, err = s.Stats(cmd.Context())
		return err
	})
	if err != nil {
		return err
	}

	if formatter.JSON() {
		return formatter.Success(st)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Saved: %d\n", st.Total)
	fmt.Fprintf(w, "Views: %d\n", st.Views)
	charts := make([]string, 0, len(st.ByChart))
	for c := range st.ByChart {
		charts = append(charts, c)
	}
	sort.Strings(charts)
	for _, c := range charts {
		fmt.Fprintf(w, "  %-14s %d\n", c+":", st.ByChart[c])
	}
	return nil
}
