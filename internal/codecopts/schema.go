package codecopts

import "strings"

// QualityRange bounds a codec's constant-quality factor. Lower values mean
// higher quality and larger output.
type QualityRange struct {
	Min     int
	Max     int
	Default int
}

// Spec describes which quality controls a codec understands. The zero value
// means the codec exposes no advanced controls.
type Spec struct {
	HasQualityFactor bool
	Quality          QualityRange
	Presets          []string
	HasBitrate       bool
	Passes           []int
}

// HasAdvanced reports whether any advanced control is meaningful for the codec.
func (s Spec) HasAdvanced() bool {
	return s.HasQualityFactor || s.HasBitrate || len(s.Presets) > 0 || len(s.Passes) > 0
}

// SupportsPreset reports whether name is one of the codec's presets.
func (s Spec) SupportsPreset(name string) bool {
	for _, preset := range s.Presets {
		if preset == name {
			return true
		}
	}
	return false
}

// SupportsPasses reports whether the codec supports n-pass encoding.
func (s Spec) SupportsPasses(n int) bool {
	for _, passes := range s.Passes {
		if passes == n {
			return true
		}
	}
	return false
}

// DefaultPreset returns the first enumerated preset, or "" when unsupported.
func (s Spec) DefaultPreset() string {
	if len(s.Presets) == 0 {
		return ""
	}
	return s.Presets[0]
}

// DefaultPasses returns the minimum supported pass count, or 0 when the
// codec has no pass control.
func (s Spec) DefaultPasses() int {
	if len(s.Passes) == 0 {
		return 0
	}
	min := s.Passes[0]
	for _, passes := range s.Passes[1:] {
		if passes < min {
			min = passes
		}
	}
	return min
}

var x264Presets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow",
}

var specs = map[string]Spec{
	"libx264":    {HasQualityFactor: true, Quality: QualityRange{0, 51, 23}, Presets: x264Presets, Passes: []int{1, 2}},
	"x264":       {HasQualityFactor: true, Quality: QualityRange{0, 51, 23}, Presets: x264Presets, Passes: []int{1, 2}},
	"libx265":    {HasQualityFactor: true, Quality: QualityRange{0, 51, 28}, Presets: x264Presets, Passes: []int{1, 2}},
	"x265":       {HasQualityFactor: true, Quality: QualityRange{0, 51, 28}, Presets: x264Presets, Passes: []int{1, 2}},
	"vp9":        {HasQualityFactor: true, Quality: QualityRange{0, 63, 32}, Passes: []int{1, 2}},
	"libvpx-vp9": {HasQualityFactor: true, Quality: QualityRange{0, 63, 32}, Passes: []int{1, 2}},
	"mpeg4":      {HasBitrate: true, Passes: []int{1, 2}},
	"mpeg2video": {HasBitrate: true, Passes: []int{1, 2}},
	"libxvid":    {HasBitrate: true, Passes: []int{1, 2}},
}

// OptionsFor returns the option spec for a codec. The lookup is total:
// unknown codecs resolve to the zero Spec, which hides all advanced controls.
func OptionsFor(codec string) Spec {
	spec, ok := specs[strings.TrimSpace(codec)]
	if !ok {
		return Spec{}
	}
	out := spec
	out.Presets = append([]string(nil), spec.Presets...)
	out.Passes = append([]int(nil), spec.Passes...)
	return out
}
