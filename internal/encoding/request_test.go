package encoding

import (
	"errors"
	"testing"

	"brancoder/internal/capabilities"
	"brancoder/internal/codecopts"
	"brancoder/internal/services"
)

func validRequest() Request {
	return Request{
		InputPath:           "/media/in.mkv",
		OutputPath:          "/media/out.mp4",
		Container:           "mp4",
		VideoCodec:          "h264",
		AudioCodec:          "aac",
		TrimStartSeconds:    0,
		TrimDurationSeconds: 120,
	}
}

func TestNormalizedAppliesDefaults(t *testing.T) {
	req := Request{
		InputPath:  "  /media/in.mkv ",
		OutputPath: "/media/out.mp4",
		Container:  " MP4 ",
		VideoCodec: "h264",
	}
	got := req.Normalized()
	if got.InputPath != "/media/in.mkv" {
		t.Fatalf("input = %q", got.InputPath)
	}
	if got.Container != "mp4" {
		t.Fatalf("container = %q, want mp4", got.Container)
	}
	if got.AudioCodec != DefaultAudioCodec {
		t.Fatalf("audio codec = %q, want %q", got.AudioCodec, DefaultAudioCodec)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing input", func(r *Request) { r.InputPath = "" }},
		{"missing output", func(r *Request) { r.OutputPath = "" }},
		{"missing container", func(r *Request) { r.Container = "" }},
		{"missing codec", func(r *Request) { r.VideoCodec = "" }},
		{"negative trim start", func(r *Request) { r.TrimStartSeconds = -1 }},
		{"zero trim duration", func(r *Request) { r.TrimDurationSeconds = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := req.Validate(nil)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestValidateContainerCompatibility(t *testing.T) {
	caps := capabilities.Fallback().WithMuxerCodecs("webm", []string{"vp9", "av1"})

	req := validRequest()
	req.Container = "webm"
	req.VideoCodec = "h264"
	if err := req.Validate(caps); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation error for incompatible codec", err)
	}

	req.VideoCodec = "vp9"
	if err := req.Validate(caps); err != nil {
		t.Fatalf("compatible codec rejected: %v", err)
	}
}

func TestValidateOptionConstraints(t *testing.T) {
	quality := func(v int) *int { return &v }

	t.Run("quality out of range", func(t *testing.T) {
		req := validRequest()
		req.VideoCodec = "libx264"
		req.Options.QualityFactor = quality(99)
		if err := req.Validate(nil); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("quality on codec without one", func(t *testing.T) {
		req := validRequest()
		req.VideoCodec = "mpeg4"
		req.Options.QualityFactor = quality(23)
		if err := req.Validate(nil); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		req := validRequest()
		req.VideoCodec = "libx264"
		req.Options.QualityFactor = quality(23)
		req.Options.Preset = "blazing"
		if err := req.Validate(nil); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("valid advanced options", func(t *testing.T) {
		req := validRequest()
		req.VideoCodec = "libx264"
		req.Options.QualityFactor = quality(23)
		req.Options.Preset = "medium"
		req.Options.Passes = 2
		if err := req.Validate(nil); err != nil {
			t.Fatalf("valid options rejected: %v", err)
		}
	})
}

func TestOptionsFromSpec(t *testing.T) {
	t.Run("unknown codec yields empty options", func(t *testing.T) {
		opts := OptionsFromSpec(codecopts.OptionsFor("unknown_codec"), 23, 4000, 2, "fast")
		if opts.QualityFactor != nil || opts.BitrateKbps != nil || opts.Preset != "" || opts.Passes != 0 {
			t.Fatalf("opts = %+v, want empty", opts)
		}
	})

	t.Run("keeps only supported parameters", func(t *testing.T) {
		opts := OptionsFromSpec(codecopts.OptionsFor("libx264"), 20, 4000, 2, "slow")
		if opts.QualityFactor == nil || *opts.QualityFactor != 20 {
			t.Fatalf("quality = %v", opts.QualityFactor)
		}
		if opts.BitrateKbps != nil {
			t.Fatal("bitrate should be dropped for a quality-factor codec")
		}
		if opts.Preset != "slow" {
			t.Fatalf("preset = %q", opts.Preset)
		}
		if opts.Passes != 2 {
			t.Fatalf("passes = %d", opts.Passes)
		}
	})

	t.Run("invalid preset dropped silently", func(t *testing.T) {
		opts := OptionsFromSpec(codecopts.OptionsFor("libx264"), 23, 0, 1, "turbo")
		if opts.Preset != "" {
			t.Fatalf("preset = %q, want empty", opts.Preset)
		}
	})
}
