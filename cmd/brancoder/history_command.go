package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"brancoder/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No conversions recorded.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				detail := entry.ErrorMessage
				if detail == "" {
					detail = "-"
				}
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					prettyLabel(string(entry.Status)),
					filepath.Base(entry.InputPath),
					filepath.Base(entry.OutputPath),
					entry.VideoCodec,
					strconv.Itoa(entry.ProgressPercent) + "%",
					formatMiB(entry.EstimatedSizeBytes),
					formatMiB(entry.ActualSizeBytes),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Status", "Input", "Output", "Codec", "Progress", "Estimated", "Actual", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show (0 for all)")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the full record of one conversion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("no conversion with id %s", args[0])
			}

			detail := entry.ErrorMessage
			if detail == "" {
				detail = "-"
			}
			rows := [][]string{
				{"ID", entry.ID},
				{"Started", entry.CreatedAt.Local().Format("2006-01-02 15:04:05")},
				{"Updated", entry.UpdatedAt.Local().Format("2006-01-02 15:04:05")},
				{"Status", prettyLabel(string(entry.Status))},
				{"Input", entry.InputPath},
				{"Output", entry.OutputPath},
				{"Container", entry.Container},
				{"Video codec", entry.VideoCodec},
				{"Audio codec", entry.AudioCodec},
				{"Progress", strconv.Itoa(entry.ProgressPercent) + "%"},
				{"Estimated size", formatMiB(entry.EstimatedSizeBytes)},
				{"Actual size", formatMiB(entry.ActualSizeBytes)},
				{"Detail", detail},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"}, rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}
