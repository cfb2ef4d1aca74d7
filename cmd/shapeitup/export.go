package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/shapeitup/internal/sink"
)

// #region command
func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		dbPath  string
		outPath string
		mode    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the logged answers as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				cfg, err := opts.load()
				if err != nil {
					return err
				}
				dbPath = cfg.Sink.SQLitePath
			}
			w := cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}
			return runExport(dbPath, mode, w)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite log (defaults to sink.sqlite_path)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&mode, "mode", "", "only rows with this mode label")
	return cmd
}

// #endregion command

// #region export
func runExport(dbPath, mode string, w io.Writer) error {
	store, err := sink.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	rows, err := store.ListRows(0)
	if err != nil {
		return err
	}
	if mode != "" {
		kept := rows[:0]
		for _, r := range rows {
			if r.Mode == mode {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	return sink.ExportCSV(rows, w)
}

// #endregion export
