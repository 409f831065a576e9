package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"brancoder/internal/codecopts"
	"brancoder/internal/config"
	"brancoder/internal/encoding"
	"brancoder/internal/media"
)

// renderFlags are the operator-facing render controls shared by estimate and
// convert. Unset flags inherit the persisted render settings.
type renderFlags struct {
	container  string
	videoCodec string
	audioCodec string
	quality    int
	bitrate    int
	preset     string
	passes     int
	start      float64
	duration   float64
}

func addRenderFlags(cmd *cobra.Command, flags *renderFlags) {
	cmd.Flags().StringVar(&flags.container, "container", "", "Output container (mp4, mkv, ...)")
	cmd.Flags().StringVar(&flags.videoCodec, "codec", "", "Video codec (libx264, vp9, ...)")
	cmd.Flags().StringVar(&flags.audioCodec, "audio-codec", "", "Audio codec")
	cmd.Flags().IntVar(&flags.quality, "crf", -1, "Constant rate factor, when the codec supports one")
	cmd.Flags().IntVar(&flags.bitrate, "bitrate", 0, "Video bitrate in kbit/s, when the codec supports one")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "Encoder preset")
	cmd.Flags().IntVar(&flags.passes, "passes", 0, "Encoding passes")
	cmd.Flags().Float64Var(&flags.start, "start", 0, "Trim start in seconds")
	cmd.Flags().Float64Var(&flags.duration, "duration", 0, "Trim duration in seconds (default: remainder of the source)")
}

// applyDefaults fills unset controls from the persisted render settings and
// the codec's option defaults.
func (f *renderFlags) applyDefaults(cfg *config.Config) {
	if f.container == "" {
		f.container = cfg.Render.Container
	}
	if f.videoCodec == "" {
		f.videoCodec = cfg.Render.VideoCodec
	}
	if f.audioCodec == "" {
		f.audioCodec = cfg.Render.AudioCodec
	}
	spec := codecopts.OptionsFor(f.videoCodec)
	if f.quality < 0 {
		if cfg.Render.QualityFactor > 0 {
			f.quality = cfg.Render.QualityFactor
		} else {
			f.quality = spec.Quality.Default
		}
	}
	if f.bitrate == 0 {
		f.bitrate = cfg.Render.BitrateKbps
	}
	if f.preset == "" {
		f.preset = cfg.Render.Preset
	}
	if f.passes == 0 {
		f.passes = cfg.Render.Passes
	}
}

// resolveRequest probes the input and builds a normalized conversion request
// from the flags. A zero duration means the remainder of the source past the
// trim start.
func resolveRequest(ctx context.Context, cfg *config.Config, input, output string, flags renderFlags) (encoding.Request, *media.Asset, error) {
	flags.applyDefaults(cfg)

	asset, err := media.ProbeAsset(ctx, cfg.FFprobeBinary(), input)
	if err != nil {
		return encoding.Request{}, nil, err
	}

	duration := flags.duration
	if duration <= 0 {
		duration = asset.DurationSeconds - flags.start
	}

	if output == "" {
		output = defaultOutputPath(cfg, input, flags.container)
	}

	spec := codecopts.OptionsFor(flags.videoCodec)
	req := encoding.Request{
		InputPath:           input,
		OutputPath:          output,
		Container:           flags.container,
		VideoCodec:          flags.videoCodec,
		AudioCodec:          flags.audioCodec,
		TrimStartSeconds:    flags.start,
		TrimDurationSeconds: duration,
		Options:             encoding.OptionsFromSpec(spec, flags.quality, flags.bitrate, flags.passes, flags.preset),
	}
	return req.Normalized(), asset, nil
}

// defaultOutputPath derives the output location from the input name, the
// target container, and the configured output directory.
func defaultOutputPath(cfg *config.Config, input, container string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := cfg.Render.OutputName
	if name == "" {
		name = stem
	}
	candidate := fmt.Sprintf("%s.%s", name, strings.ToLower(strings.TrimSpace(container)))

	dir := cfg.Paths.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	output := filepath.Join(dir, candidate)
	if output == input {
		output = filepath.Join(dir, fmt.Sprintf("%s_converted.%s", name, strings.ToLower(container)))
	}
	return output
}
