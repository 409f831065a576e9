package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"brancoder/internal/capabilities"
	"brancoder/internal/encoding"
)

func newEstimateCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags
	var sampleSeconds int

	cmd := &cobra.Command{
		Use:   "estimate <input>",
		Short: "Estimate the output size of a conversion with a short sample encode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()
			out := cmd.OutOrStdout()

			req, asset, err := resolveRequest(cmd.Context(), cfg, args[0], "", flags)
			if err != nil {
				return err
			}

			caps := capabilities.Discover(cmd.Context(), cfg.FFmpegBinary(), logger)
			if err := req.Validate(caps); err != nil {
				return err
			}

			if sampleSeconds <= 0 {
				sampleSeconds = cfg.Estimate.SampleSeconds
			}
			estimator := encoding.NewEstimator(cfg.FFmpegBinary(), cfg.FFprobeBinary(), sampleSeconds, logger)
			result := estimator.Estimate(cmd.Context(), req)
			if !result.Success {
				return fmt.Errorf("estimate failed: %s", result.ErrorMessage)
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"Source size", formatMiB(asset.SizeBytes)},
					{"Sample size", formatMiB(result.SampleSizeBytes)},
					{"Estimated output", formatMiB(result.EstimatedSizeBytes)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			if result.EstimatedSizeBytes == 0 {
				fmt.Fprintln(out, "The sample encoded but the source duration was unknown, so no size was extrapolated.")
			}
			return nil
		},
	}

	addRenderFlags(cmd, &flags)
	cmd.Flags().IntVar(&sampleSeconds, "sample-seconds", 0, "Length of the sample encode in seconds")
	return cmd
}
