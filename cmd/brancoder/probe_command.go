package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"brancoder/internal/media"
	"brancoder/internal/media/ffprobe"
	"brancoder/internal/timeline"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if asJSON {
				result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(result.RawJSON()))
				return nil
			}

			asset, err := media.ProbeAsset(cmd.Context(), cfg.FFprobeBinary(), args[0])
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Path", asset.Path},
				{"Duration", fmt.Sprintf("%.2fs (%s)", asset.DurationSeconds, timeline.FormatTimestamp(asset.DurationMS(), asset.FrameRate()))},
				{"Size", formatMiB(asset.SizeBytes)},
			}
			if asset.Video != nil {
				rows = append(rows,
					[]string{"Video codec", asset.Video.Codec},
					[]string{"Resolution", fmt.Sprintf("%dx%d", asset.Video.Width, asset.Video.Height)},
					[]string{"Frame rate", fmt.Sprintf("%.3f fps", asset.Video.FrameRate)},
				)
			} else {
				rows = append(rows, []string{"Video codec", "none"})
			}
			if asset.Audio != nil {
				rows = append(rows,
					[]string{"Audio codec", asset.Audio.Codec},
					[]string{"Channels", fmt.Sprintf("%d", asset.Audio.Channels)},
				)
			} else {
				rows = append(rows, []string{"Audio codec", "none"})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"}, rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw ffprobe JSON instead of a summary")
	return cmd
}
