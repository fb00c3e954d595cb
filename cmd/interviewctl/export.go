package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sithumSoft/MockMate/internal/jobs"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reports of completed, not yet exported interviews to JSONL",
	RunE:  runExport,
}

var (
	exportDir   string
	exportBatch int
)

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "./exports", "Directory for the export file")
	exportCmd.Flags().IntVar(&exportBatch, "batch", 0, "Export at most this many interviews, 0 for all")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	st, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	job := jobs.NewReportExporterJob(st, &jobs.ExporterConfig{
		ExportDir:     exportDir,
		ExportEnabled: true,
		BatchSize:     exportBatch,
	}, newLogger())

	path, err := job.RunManual(cmd.Context())
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to export")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
	return nil
}
