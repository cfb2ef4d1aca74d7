package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/shapeitup/internal/report"
	"github.com/danielpatrickdp/shapeitup/internal/sink"
)

// #region command
func newInspectCmd(opts *rootOptions) *cobra.Command {
	var (
		dbPath  string
		mode    string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize accuracy by style and group count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.Sink.SQLitePath
			}
			if mode == "" {
				mode = cfg.Locale.ExperimentMode
			}
			if mode == "all" {
				mode = ""
			}
			return runInspect(dbPath, mode, jsonOut, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite log (defaults to sink.sqlite_path)")
	cmd.Flags().StringVar(&mode, "mode", "", `mode label to summarize ("all" for every row; default experiment)`)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

// #endregion command

// #region inspect
func runInspect(dbPath, mode string, jsonOut bool, w io.Writer) error {
	store, err := sink.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	rows, err := store.ListRows(0)
	if err != nil {
		return err
	}
	sum := report.Summarize(rows, mode)
	if jsonOut {
		return printJSON(w, sum)
	}
	printSummaryTable(w, sum)
	return nil
}

func printSummaryTable(w io.Writer, sum report.Summary) {
	if sum.Overall.Answered == 0 {
		fmt.Fprintln(w, "no answers logged")
		return
	}
	fmt.Fprintf(w, "participants: %d  answered: %d  correct: %d  accuracy: %.3f\n\n",
		sum.Participants, sum.Overall.Answered, sum.Overall.Correct, sum.Overall.Accuracy)

	fmt.Fprintf(w, "%-10s  %8s  %8s  %8s\n", "Style", "Answered", "Correct", "Accuracy")
	fmt.Fprintf(w, "%-10s+-%8s+-%8s+-%8s\n", "----------", "--------", "--------", "--------")
	styles := make([]string, 0, len(sum.ByStyle))
	for s := range sum.ByStyle {
		styles = append(styles, s)
	}
	slices.Sort(styles)
	for _, s := range styles {
		t := sum.ByStyle[s]
		fmt.Fprintf(w, "%-10s  %8d  %8d  %8.3f\n", s, t.Answered, t.Correct, t.Accuracy)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %8s  %8s  %8s\n", "Groups", "Answered", "Correct", "Accuracy")
	fmt.Fprintf(w, "%-10s+-%8s+-%8s+-%8s\n", "----------", "--------", "--------", "--------")
	counts := make([]int, 0, len(sum.ByGroupCount))
	for n := range sum.ByGroupCount {
		counts = append(counts, n)
	}
	slices.Sort(counts)
	for _, n := range counts {
		t := sum.ByGroupCount[n]
		fmt.Fprintf(w, "%-10d  %8d  %8d  %8.3f\n", n, t.Answered, t.Correct, t.Accuracy)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// #endregion inspect
