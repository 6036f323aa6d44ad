package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSMSCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sms",
		Short: "SMS notification tools",
	}

	var (
		eventID int64
		async   bool
	)
	send := &cobra.Command{
		Use:   "send",
		Short: "Send an event's pending SMS notifications",
		Long: `Send every pending notification queued for an event.

With --async the dispatch is handed to the job queue (postgres only) and the
command prints the job id instead of waiting for delivery.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventID <= 0 {
				return fmt.Errorf("--event must be a positive event id")
			}
			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()

			if async {
				if a.Queue == nil {
					return fmt.Errorf("async dispatch needs the postgres backend with JOBS_ENABLED=true")
				}
				if _, err := a.Services.Events.Get(cmd.Context(), eventID); err != nil {
					return err
				}
				jobID, err := a.Queue.EnqueueSMSDispatch(cmd.Context(), eventID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "queued sms dispatch job %d\n", jobID)
				return nil
			}

			result, err := a.Services.Notifications.Dispatch(cmd.Context(), eventID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			if result.Failed > 0 {
				return fmt.Errorf("%d message(s) failed", result.Failed)
			}
			return nil
		},
	}
	send.Flags().Int64Var(&eventID, "event", 0, "event id")
	send.Flags().BoolVar(&async, "async", false, "enqueue the dispatch instead of sending inline")
	_ = send.MarkFlagRequired("event")

	cmd.AddCommand(send, newBroadcastCommand(global))
	return cmd
}

func newBroadcastCommand(global *globalOptions) *cobra.Command {
	var (
		eventID int64
		message string
		all     bool
	)
	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Queue a message for all active staff and send it",
		Long: `Queue one notification per active staff member for an event and send
everything pending for that event.

Examples:
  glee sms broadcast --event 3 --message "Pizza in the canteen at noon"
  glee sms broadcast --event 3 --message "Reminder" --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventID <= 0 {
				return fmt.Errorf("--event must be a positive event id")
			}
			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()

			result, err := a.Services.Notifications.Broadcast(cmd.Context(), eventID, message, !all)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			if result.Failed > 0 {
				return fmt.Errorf("%d message(s) failed", result.Failed)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&eventID, "event", 0, "event id")
	cmd.Flags().StringVar(&message, "message", "", "message text")
	cmd.Flags().BoolVar(&all, "all", false, "include inactive staff")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}
