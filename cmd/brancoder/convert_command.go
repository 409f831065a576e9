package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"brancoder/internal/capabilities"
	"brancoder/internal/encoding"
	"brancoder/internal/history"
	"brancoder/internal/logging"
	"brancoder/internal/notifications"
	"brancoder/internal/preflight"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags
	var output string
	var skipEstimate bool
	var force bool

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a media file with the configured render settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()
			out := cmd.OutOrStdout()

			// One conversion at a time per machine; the encoder writes
			// two-pass log files with fixed names into the working directory.
			lock := flock.New(filepath.Join(cfg.Paths.StateDir, "convert.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire conversion lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another conversion is already running")
			}
			defer func() { _ = lock.Unlock() }()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			req, _, err := resolveRequest(runCtx, cfg, args[0], output, flags)
			if err != nil {
				return err
			}

			caps := capabilities.Discover(runCtx, cfg.FFmpegBinary(), logger)
			if err := req.Validate(caps); err != nil {
				return err
			}

			outputDir := filepath.Dir(req.OutputPath)
			if access := preflight.CheckDirectoryAccess("Output directory", outputDir); !access.Passed {
				return fmt.Errorf("output directory check failed: %s", access.Detail)
			}

			var estimatedBytes int64
			if !skipEstimate {
				estimator := encoding.NewEstimator(cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.Estimate.SampleSeconds, logger)
				result := estimator.Estimate(runCtx, req)
				if !result.Success {
					return fmt.Errorf("dry run failed: %s", result.ErrorMessage)
				}
				estimatedBytes = result.EstimatedSizeBytes
				if estimatedBytes > 0 {
					fmt.Fprintf(out, "Estimated output size: %s\n", formatMiB(estimatedBytes))
				}
				if space := preflight.CheckFreeSpace("Disk space", outputDir, estimatedBytes); !space.Passed {
					if !force {
						return fmt.Errorf("disk space check failed: %s (use --force to convert anyway)", space.Detail)
					}
					logger.Warn("converting despite failed disk space check", logging.String("detail", space.Detail))
				}
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Begin(runCtx, history.Entry{
				InputPath:          req.InputPath,
				OutputPath:         req.OutputPath,
				Container:          req.Container,
				VideoCodec:         req.VideoCodec,
				AudioCodec:         req.AudioCodec,
				EstimatedSizeBytes: estimatedBytes,
			})
			if err != nil {
				return err
			}

			notifier := notifications.NewService(cfg)
			runner := encoding.NewRunner(cfg.FFmpegBinary(), logger)
			job, err := runner.Start(runCtx, req, caps)
			if err != nil {
				_ = store.Fail(runCtx, entry.ID, err.Error())
				return err
			}

			interactive := isInteractive(out)
			var failureMessage string
			for event := range job.Events() {
				switch event.Kind {
				case encoding.EventLog:
					logger.Debug("encoder status", logging.String("line", event.Line))
				case encoding.EventProgress:
					if interactive {
						fmt.Fprintf(out, "\rConverting... %3d%%", event.Percent)
					} else {
						fmt.Fprintf(out, "Converting... %d%%\n", event.Percent)
					}
					_ = store.SetProgress(runCtx, entry.ID, event.Percent)
				case encoding.EventFailed:
					failureMessage = event.Message
				}
			}
			if interactive {
				fmt.Fprintln(out)
			}

			if err := job.Wait(); err != nil {
				if runCtx.Err() != nil {
					_ = store.Cancel(cmd.Context(), entry.ID)
					return fmt.Errorf("conversion cancelled")
				}
				_ = store.Fail(cmd.Context(), entry.ID, failureMessage)
				if notifyErr := notifier.NotifyConversionFailed(cmd.Context(), req.InputPath, failureMessage); notifyErr != nil {
					logger.Warn("failure notification not delivered", logging.Error(notifyErr))
				}
				return err
			}

			var actualBytes int64
			if info, statErr := os.Stat(req.OutputPath); statErr == nil {
				actualBytes = info.Size()
			}
			if err := store.Complete(runCtx, entry.ID, actualBytes); err != nil {
				logger.Warn("history not updated", logging.Error(err))
			}
			if notifyErr := notifier.NotifyConversionCompleted(runCtx, req.OutputPath, actualBytes); notifyErr != nil {
				logger.Warn("completion notification not delivered", logging.Error(notifyErr))
			}

			persistRenderSettings(ctx, cfg, req, logger)

			fmt.Fprintf(out, "Wrote %s (%s)\n", req.OutputPath, formatMiB(actualBytes))
			return nil
		},
	}

	addRenderFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	cmd.Flags().BoolVar(&skipEstimate, "skip-estimate", false, "Skip the dry-run size estimate")
	cmd.Flags().BoolVar(&force, "force", false, "Convert even when the disk space check fails")
	return cmd
}
