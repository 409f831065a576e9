package capabilities

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"

	"brancoder/internal/logging"
	"brancoder/internal/services"
)

// Set holds the encoder capabilities discovered from ffmpeg. A Set is
// read-only after construction; rediscovery builds a fresh value and the
// holder swaps the whole pointer, never mutates entries in place.
type Set struct {
	containers      []string
	videoCodecs     []string
	audioOnlyCodecs map[string]struct{}
	containerCodecs map[string][]string
}

// Fallback returns the static capability set used when ffmpeg cannot be
// queried. The set is deliberately small and safe.
func Fallback() *Set {
	return newSet(
		[]string{"avi", "mkv", "mov", "mp4", "webm"},
		[]string{"h264", "h265", "mpeg4", "vp9"},
		nil,
		nil,
	)
}

func newSet(containers, videoCodecs []string, audioOnly map[string]struct{}, containerCodecs map[string][]string) *Set {
	if audioOnly == nil {
		audioOnly = map[string]struct{}{}
	}
	if containerCodecs == nil {
		containerCodecs = map[string][]string{}
	}
	return &Set{
		containers:      sortedUnique(containers),
		videoCodecs:     sortedUnique(videoCodecs),
		audioOnlyCodecs: audioOnly,
		containerCodecs: containerCodecs,
	}
}

// Containers returns the muxable container names, sorted.
func (s *Set) Containers() []string {
	return append([]string(nil), s.containers...)
}

// VideoCodecs returns the encode-capable video codec names, sorted.
func (s *Set) VideoCodecs() []string {
	return append([]string(nil), s.videoCodecs...)
}

// HasContainer reports whether the container can be muxed.
func (s *Set) HasContainer(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range s.containers {
		if c == name {
			return true
		}
	}
	return false
}

// IsAudioOnly reports whether the codec encodes audio but not video.
func (s *Set) IsAudioOnly(codec string) bool {
	_, ok := s.audioOnlyCodecs[strings.TrimSpace(codec)]
	return ok
}

// CodecsFor returns the codecs the container is known to accept. Containers
// without a compatibility entry fall back to the full video codec list.
func (s *Set) CodecsFor(container string) []string {
	container = strings.ToLower(strings.TrimSpace(container))
	if codecs, ok := s.containerCodecs[container]; ok && len(codecs) > 0 {
		return append([]string(nil), codecs...)
	}
	return s.VideoCodecs()
}

// Supports reports whether the codec is acceptable for the container. When a
// compatibility entry exists the codec must be in it; otherwise any known
// video codec passes.
func (s *Set) Supports(container, codec string) bool {
	codec = strings.TrimSpace(codec)
	for _, candidate := range s.CodecsFor(container) {
		if candidate == codec {
			return true
		}
	}
	return false
}

// WithMuxerCodecs returns a new Set with the container's compatibility entry
// replaced wholesale. The receiver is left untouched.
func (s *Set) WithMuxerCodecs(container string, codecs []string) *Set {
	container = strings.ToLower(strings.TrimSpace(container))
	compat := make(map[string][]string, len(s.containerCodecs)+1)
	for key, value := range s.containerCodecs {
		compat[key] = value
	}
	if len(codecs) == 0 {
		delete(compat, container)
	} else {
		compat[container] = sortedUnique(codecs)
	}
	audioOnly := make(map[string]struct{}, len(s.audioOnlyCodecs))
	for key := range s.audioOnlyCodecs {
		audioOnly[key] = struct{}{}
	}
	return newSet(s.containers, s.videoCodecs, audioOnly, compat)
}

// Discover queries ffmpeg for its muxable containers and encode-capable
// codecs. Discovery fails soft: any query or parse failure yields the static
// fallback set instead of an error.
func Discover(ctx context.Context, binary string, logger *slog.Logger) *Set {
	if logger == nil {
		logger = logging.NewNop()
	}

	formatsOut, err := runFFmpeg(ctx, binary, "-formats")
	if err != nil {
		logger.Warn("capability discovery failed, using fallback set",
			logging.Error(services.Wrap(services.ErrCapabilityQuery, "capabilities", "formats", "", err)))
		return Fallback()
	}
	codecsOut, err := runFFmpeg(ctx, binary, "-codecs")
	if err != nil {
		logger.Warn("capability discovery failed, using fallback set",
			logging.Error(services.Wrap(services.ErrCapabilityQuery, "capabilities", "codecs", "", err)))
		return Fallback()
	}

	containers := parseMuxableFormats(formatsOut)
	videoCodecs, audioOnly := parseEncoders(codecsOut)
	if len(containers) == 0 || len(videoCodecs) == 0 {
		logger.Warn("capability discovery returned no entries, using fallback set")
		return Fallback()
	}

	audioOnlySet := make(map[string]struct{}, len(audioOnly))
	for _, codec := range audioOnly {
		audioOnlySet[codec] = struct{}{}
	}
	return newSet(containers, videoCodecs, audioOnlySet, nil)
}

// QueryMuxerCodecs asks ffmpeg which video codecs a muxer accepts. An empty
// slice (query failed or muxer lists nothing) means the caller should keep
// the permissive fallback.
func QueryMuxerCodecs(ctx context.Context, binary, container string) []string {
	container = strings.ToLower(strings.TrimSpace(container))
	if container == "" {
		return nil
	}
	output, err := runFFmpeg(ctx, binary, "-h", fmt.Sprintf("muxer=%s", container))
	if err != nil {
		return nil
	}
	return parseMuxerCodecs(output)
}

func runFFmpeg(ctx context.Context, binary string, args ...string) (string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	argv := append([]string{"-hide_banner"}, args...)
	output, err := exec.CommandContext(ctx, binary, argv...).Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// parseMuxableFormats extracts muxer names from `ffmpeg -formats` output.
// Relevant lines carry the E (muxing) flag in the second column, e.g.
//
//	 E  mp4             MP4 (MPEG-4 Part 14)
//	DE  avi             AVI (Audio Video Interleaved)
func parseMuxableFormats(output string) []string {
	var formats []string
	for _, line := range strings.Split(output, "\n") {
		if len(line) < 5 {
			continue
		}
		flags := line[:4]
		if !strings.Contains(flags, "E") {
			continue
		}
		fields := strings.Fields(line[4:])
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		// Alias lists ("mov,mp4,m4a") and separator rows are skipped; plain
		// muxer names are letters optionally followed by digits.
		if !isFormatName(name) {
			continue
		}
		formats = append(formats, strings.ToLower(name))
	}
	return formats
}

// parseEncoders extracts encode-capable codecs from `ffmpeg -codecs` output,
// split into video codecs and audio-only codecs. Codec lines look like
//
//	 DEV.L. h264   H.264 / AVC ...
//	 DEA.L. aac    AAC (Advanced Audio Coding)
//
// where position 2 carries E (encode) and position 3 the media type.
func parseEncoders(output string) (video []string, audioOnly []string) {
	for _, line := range strings.Split(output, "\n") {
		if len(line) < 8 || line[0] != ' ' {
			continue
		}
		flags := line[1:7]
		if flags[1] != 'E' {
			continue
		}
		fields := strings.Fields(line[7:])
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		switch flags[2] {
		case 'V':
			video = append(video, name)
		case 'A':
			audioOnly = append(audioOnly, name)
		}
	}
	return video, audioOnly
}

// parseMuxerCodecs extracts "Supported video codecs:" entries from
// `ffmpeg -h muxer=<name>` output.
func parseMuxerCodecs(output string) []string {
	var codecs []string
	for _, line := range strings.Split(output, "\n") {
		_, list, found := strings.Cut(line, "Supported video codecs:")
		if !found {
			continue
		}
		for _, entry := range strings.Split(list, ",") {
			entry = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(entry), "."))
			if entry != "" {
				codecs = append(codecs, entry)
			}
		}
	}
	return sortedUnique(codecs)
}

func isFormatName(value string) bool {
	if value == "" {
		return false
	}
	first := rune(value[0])
	if (first < 'a' || first > 'z') && (first < 'A' || first > 'Z') {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
