package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"brancoder/internal/deps"
	"brancoder/internal/notifications"
	"brancoder/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external dependencies and directory access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if banner, err := deps.FFmpegVersion(cmd.Context(), cfg.FFmpegBinary()); err == nil {
				fmt.Fprintln(out, banner)
			} else {
				fmt.Fprintf(out, "ffmpeg version unavailable: %v\n", err)
			}

			depRows := make([][]string, 0)
			allAvailable := true
			for _, status := range preflight.CheckSystemDeps(cfg) {
				detail := status.Detail
				if detail == "" {
					detail = status.Command
				}
				depRows = append(depRows, []string{
					status.Name,
					yesNo(status.Available),
					detail,
				})
				if !status.Available && !status.Optional {
					allAvailable = false
				}
			}
			fmt.Fprintln(out, "Dependencies:")
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Available", "Detail"}, depRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			checkRows := make([][]string, 0)
			allPassed := true
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				checkRows = append(checkRows, []string{result.Name, yesNo(result.Passed), result.Detail})
				if !result.Passed {
					allPassed = false
				}
			}
			fmt.Fprintln(out, "Checks:")
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Passed", "Detail"}, checkRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if !allAvailable || !allPassed {
				return fmt.Errorf("environment is not ready for conversions")
			}
			return nil
		},
	}
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the configured ntfy topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Notifications.NtfyTopic == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No ntfy topic configured; nothing to send.")
				return nil
			}
			notifier := notifications.NewService(cfg)
			if err := notifier.TestNotification(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent.")
			return nil
		},
	}
}
