package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"brancoder/internal/capabilities"
)

func newCapabilitiesCommand(ctx *commandContext) *cobra.Command {
	var muxer string

	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "List the containers and codecs the installed ffmpeg can produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()
			out := cmd.OutOrStdout()

			caps := capabilities.Discover(cmd.Context(), cfg.FFmpegBinary(), logger)

			if muxer = strings.TrimSpace(muxer); muxer != "" {
				codecs := capabilities.QueryMuxerCodecs(cmd.Context(), cfg.FFmpegBinary(), muxer)
				caps = caps.WithMuxerCodecs(muxer, codecs)
				rows := make([][]string, 0, len(codecs))
				for _, codec := range caps.CodecsFor(muxer) {
					note := ""
					if caps.IsAudioOnly(codec) {
						note = "audio only"
					}
					rows = append(rows, []string{codec, note})
				}
				fmt.Fprintf(out, "Video codecs accepted by %q:\n", muxer)
				fmt.Fprintln(out, renderTable(
					[]string{"Codec", "Note"}, rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				if len(codecs) == 0 {
					fmt.Fprintln(out, "No muxer-specific list available; any encode-capable video codec is accepted.")
				}
				if !caps.HasContainer(muxer) {
					fmt.Fprintf(out, "Note: %q is not among the discovered muxable containers.\n", muxer)
				}
				return nil
			}

			containerRows := make([][]string, 0)
			for _, container := range caps.Containers() {
				containerRows = append(containerRows, []string{container})
			}
			fmt.Fprintln(out, "Containers:")
			fmt.Fprintln(out, renderTable([]string{"Container"}, containerRows, nil))

			codecRows := make([][]string, 0)
			for _, codec := range caps.VideoCodecs() {
				codecRows = append(codecRows, []string{codec})
			}
			fmt.Fprintln(out, "Video codecs:")
			fmt.Fprintln(out, renderTable([]string{"Codec"}, codecRows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&muxer, "muxer", "", "Show the codecs a specific muxer accepts")
	return cmd
}
