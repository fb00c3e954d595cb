package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sithumSoft/MockMate/internal/interview"
	"github.com/sithumSoft/MockMate/internal/models"
	"github.com/sithumSoft/MockMate/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List interviews, newest first",
	RunE:  runList,
}

var (
	listUser   string
	listStatus string
	listLimit  int
	listJSON   bool
)

func init() {
	listCmd.Flags().StringVar(&listUser, "user", "", "Only interviews of this user")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (ongoing|completed)")
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of interviews, 0 for all")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print JSON instead of a table")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	status := models.Status(listStatus)
	switch status {
	case "", models.StatusOngoing, models.StatusCompleted:
	default:
		return fmt.Errorf("invalid --status %q: must be ongoing or completed", listStatus)
	}
	if listLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	st, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	interviews, err := st.ListAll(cmd.Context(), store.ListOptions{UserID: listUser, Status: status, Limit: listLimit})
	if err != nil {
		return fmt.Errorf("failed to list interviews: %w", err)
	}

	out := cmd.OutOrStdout()
	if listJSON {
		if interviews == nil {
			interviews = []models.Interview{}
		}
		return printJSON(out, interviews)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tJOB TITLE\tMODE\tSTATUS\tROUNDS\tSCORE\tCREATED")
	for _, iv := range interviews {
		score := interview.OverallScore(iv.Questions)
		if iv.OverallScore != nil {
			score = *iv.OverallScore
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%.1f\t%s\n",
			iv.ID, iv.UserID, iv.JobTitle, iv.Mode, iv.Status, len(iv.Questions), score,
			iv.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
