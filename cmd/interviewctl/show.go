package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sithumSoft/MockMate/internal/interview"
)

var showCmd = &cobra.Command{
	Use:   "show <interview-id>",
	Short: "Print a stored interview with all of its rounds",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var reportCmd = &cobra.Command{
	Use:   "report <interview-id>",
	Short: "Print the performance report of an interview",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <interview-id>",
	Short: "Delete an interview and its rounds",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(showCmd, reportCmd, deleteCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	st, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	iv, err := st.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), iv)
}

func runReport(cmd *cobra.Command, args []string) error {
	st, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	iv, err := st.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), interview.BuildReport(iv))
}

func runDelete(cmd *cobra.Command, args []string) error {
	st, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	deleted, err := st.Delete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("interview %q not found", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
