// Command interviewctl inspects and maintains stored interviews.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "interviewctl",
	Short:        "Inspect and maintain MockMate interviews",
	Long:         "interviewctl reads the interview database configured through the usual environment variables (DB_DRIVER, POSTGRES_*, SQLITE_PATH, REDIS_ADDR).",
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
