package encoding

import (
	"fmt"
	"strings"

	"brancoder/internal/capabilities"
	"brancoder/internal/codecopts"
	"brancoder/internal/services"
)

// DefaultAudioCodec is applied when a request does not name one.
const DefaultAudioCodec = "aac"

// Options carries the advanced quality parameters of a render, tagged by
// kind. A nil/zero field means the parameter is not supplied; fields are set
// only when the codec's option spec supports them.
type Options struct {
	QualityFactor *int
	BitrateKbps   *int
	Preset        string
	Passes        int
}

// Request describes one render attempt. It is built fresh per attempt,
// immutable once validated, and consumed by both the dry-run estimator and
// the full conversion job.
type Request struct {
	InputPath           string
	OutputPath          string
	Container           string
	VideoCodec          string
	AudioCodec          string
	TrimStartSeconds    float64
	TrimDurationSeconds float64
	Options             Options
}

// Normalized returns a copy with defaults and whitespace applied.
func (r Request) Normalized() Request {
	out := r
	out.InputPath = strings.TrimSpace(r.InputPath)
	out.OutputPath = strings.TrimSpace(r.OutputPath)
	out.Container = strings.ToLower(strings.TrimSpace(r.Container))
	out.VideoCodec = strings.TrimSpace(r.VideoCodec)
	out.AudioCodec = strings.TrimSpace(r.AudioCodec)
	if out.AudioCodec == "" {
		out.AudioCodec = DefaultAudioCodec
	}
	out.Options.Preset = strings.TrimSpace(r.Options.Preset)
	return out
}

// Validate checks the request against the capability set and the codec's
// option spec. It returns a services.ErrValidation error describing the
// first problem found; a valid request returns nil.
func (r Request) Validate(caps *capabilities.Set) error {
	fail := func(message string) error {
		return services.Wrap(services.ErrValidation, "encoding", "validate request", message, nil)
	}

	if r.InputPath == "" {
		return fail("input path is required")
	}
	if r.OutputPath == "" {
		return fail("output path is required")
	}
	if r.Container == "" {
		return fail("container is required")
	}
	if r.VideoCodec == "" {
		return fail("video codec is required")
	}
	if r.TrimStartSeconds < 0 {
		return fail("trim start must not be negative")
	}
	if r.TrimDurationSeconds <= 0 {
		return fail("trim duration must be positive")
	}

	if caps != nil && !caps.Supports(r.Container, r.VideoCodec) {
		return fail(fmt.Sprintf("codec %q is not supported by container %q", r.VideoCodec, r.Container))
	}

	spec := codecopts.OptionsFor(r.VideoCodec)
	opts := r.Options
	if opts.QualityFactor != nil {
		if !spec.HasQualityFactor {
			return fail(fmt.Sprintf("codec %q has no quality factor", r.VideoCodec))
		}
		if q := *opts.QualityFactor; q < spec.Quality.Min || q > spec.Quality.Max {
			return fail(fmt.Sprintf("quality factor %d outside range %d..%d", q, spec.Quality.Min, spec.Quality.Max))
		}
	}
	if opts.BitrateKbps != nil {
		if !spec.HasBitrate {
			return fail(fmt.Sprintf("codec %q has no bitrate control", r.VideoCodec))
		}
		if *opts.BitrateKbps <= 0 {
			return fail("bitrate must be positive")
		}
	}
	if opts.Preset != "" && !spec.SupportsPreset(opts.Preset) {
		return fail(fmt.Sprintf("preset %q is not valid for codec %q", opts.Preset, r.VideoCodec))
	}
	if opts.Passes != 0 && !spec.SupportsPasses(opts.Passes) {
		return fail(fmt.Sprintf("codec %q does not support %d-pass encoding", r.VideoCodec, opts.Passes))
	}
	return nil
}

// OptionsFromSpec builds Options from raw control values, keeping only the
// parameters the codec's spec declares meaningful. This mirrors hiding the
// advanced controls a codec does not understand.
func OptionsFromSpec(spec codecopts.Spec, qualityFactor, bitrateKbps, passes int, preset string) Options {
	var opts Options
	if spec.HasQualityFactor {
		q := qualityFactor
		opts.QualityFactor = &q
	}
	if spec.HasBitrate && bitrateKbps > 0 {
		b := bitrateKbps
		opts.BitrateKbps = &b
	}
	if preset = strings.TrimSpace(preset); preset != "" && spec.SupportsPreset(preset) {
		opts.Preset = preset
	}
	if spec.SupportsPasses(passes) {
		opts.Passes = passes
	}
	return opts
}
