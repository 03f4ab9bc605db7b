package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/workforce-console/internal/console"
)

// stopIfNil maps a manager's nil result to errStopped.
func stopIfNil[T any](rows []T) error {
	if rows == nil {
		return errStopped
	}
	return nil
}

func newAttendanceCmd(a *app) *cobra.Command {
	var q console.AttendanceQuery
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Show check-ins for your users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return stopIfNil(console.NewAttendanceManager(a.client, a.renderer).List(cmd.Context(), q))
		},
	}
	cmd.Flags().StringVar(&q.Date, "date", "", "day to show (YYYY-MM-DD)")
	cmd.Flags().IntVar(&q.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&q.PerPage, "per-page", 0, "rows per page")
	return cmd
}

func newCallsCmd(a *app) *cobra.Command {
	var q console.CallQuery
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Show call history across your users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return stopIfNil(console.NewCallHistoryManager(a.client, a.renderer).List(cmd.Context(), q))
		},
	}
	cmd.Flags().StringVar(&q.Filter, "filter", "", "today, week or month")
	cmd.Flags().StringVar(&q.Date, "date", "", "day to show (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.Search, "search", "", "contact, number or user filter")
	cmd.Flags().StringVar(&q.CallType, "type", "", "incoming, outgoing or missed")
	cmd.Flags().IntVar(&q.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&q.PerPage, "per-page", 0, "rows per page")
	return cmd
}

func newPerformanceCmd(a *app) *cobra.Command {
	var filter string
	var ascending bool
	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Rank your users by score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return stopIfNil(console.NewPerformanceManager(a.client, a.renderer).Load(cmd.Context(), filter, ascending))
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "period, e.g. today")
	cmd.Flags().BoolVar(&ascending, "asc", false, "lowest score first")
	return cmd
}

func newFollowupsCmd(a *app) *cobra.Command {
	followups := &cobra.Command{Use: "followups", Short: "Review follow-up reminders"}

	var q console.FollowupQuery
	list := &cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return stopIfNil(console.NewFollowupManager(a.client, a.renderer).List(cmd.Context(), q))
		},
	}
	list.Flags().Int64Var(&q.UserID, "user", 0, "only this user's reminders")
	list.Flags().StringVar(&q.Filter, "filter", "", "period, e.g. today")
	list.Flags().IntVar(&q.Page, "page", 0, "page number")
	list.Flags().IntVar(&q.PerPage, "per-page", 0, "rows per page")

	complete := &cobra.Command{
		Use:  "complete ID",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return stopUnless(console.NewFollowupManager(a.client, a.renderer).Complete(cmd.Context(), id))
		},
	}

	followups.AddCommand(list, complete)
	return followups
}

func newLogsCmd(a *app) *cobra.Command {
	logs := &cobra.Command{Use: "logs", Short: "Review console activity (elevated profile)"}
	logs.AddCommand(
		&cobra.Command{
			Use:  "list",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return stopIfNil(console.NewActivityManager(a.client, a.renderer).List(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:  "clear",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return stopUnless(console.NewActivityManager(a.client, a.renderer).Clear(cmd.Context()))
			},
		},
	)
	return logs
}
