package encoding

import (
	"fmt"
	"strconv"
	"strings"
)

// convertArgs builds the ffmpeg argument list for the full-length encode:
// seek to the trim start, encode exactly the trim duration, and apply the
// request's codec and quality parameters.
func convertArgs(req Request) []string {
	args := []string{
		"-y", "-hide_banner",
		"-i", req.InputPath,
		"-ss", formatSeconds(req.TrimStartSeconds),
		"-t", formatSeconds(req.TrimDurationSeconds),
	}
	args = append(args, codecArgs(req)...)
	args = append(args, req.OutputPath)
	return args
}

// sampleArgs builds the bounded dry-run invocation writing sampleSeconds of
// output to tmpPath.
func sampleArgs(req Request, sampleSeconds int, tmpPath string) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", req.InputPath,
		"-t", strconv.Itoa(sampleSeconds),
	}
	args = append(args, codecArgs(req)...)
	args = append(args, tmpPath)
	return args
}

func codecArgs(req Request) []string {
	args := []string{
		"-c:v", req.VideoCodec,
		"-c:a", req.AudioCodec,
	}
	opts := req.Options
	if opts.QualityFactor != nil {
		args = append(args, "-crf", strconv.Itoa(*opts.QualityFactor))
	}
	if opts.BitrateKbps != nil {
		args = append(args, "-b:v", fmt.Sprintf("%dk", *opts.BitrateKbps))
	}
	if opts.Preset != "" {
		args = append(args, "-preset", opts.Preset)
	}
	if opts.Passes > 0 {
		args = append(args, "-pass", strconv.Itoa(opts.Passes))
	}
	return args
}

func formatSeconds(value float64) string {
	return strings.TrimRight(strings.TrimRight(strconv.FormatFloat(value, 'f', 3, 64), "0"), ".")
}
