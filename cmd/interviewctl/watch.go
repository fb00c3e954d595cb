package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sithumSoft/MockMate/internal/events"
	"github.com/sithumSoft/MockMate/internal/models"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print interview-completed events as JSON lines until interrupted",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := openRedis(ctx)
	if err != nil {
		return err
	}
	defer rdb.Close()

	out := cmd.OutOrStdout()
	ready := make(chan struct{})
	go func() {
		select {
		case <-ready:
			fmt.Fprintf(cmd.ErrOrStderr(), "listening on %s\n", events.InterviewCompletedChannel)
		case <-ctx.Done():
		}
	}()

	enc := json.NewEncoder(out)
	err = events.NewSubscriber(rdb, newLogger()).SubscribeToCompletions(ctx, ready, func(evt models.InterviewCompletedEvent) {
		enc.Encode(evt)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
