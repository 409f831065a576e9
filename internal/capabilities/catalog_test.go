package capabilities

import (
	"context"
	"reflect"
	"testing"
)

const formatsFixture = `File formats:
 D. = Demuxing supported
 .E = Muxing supported
 --
 D  3dostr          3DO STR
  E mp4             MP4 (MPEG-4 Part 14)
 DE avi             AVI (Audio Video Interleaved)
 DE matroska        Matroska
 D  mov,mp4,m4a,3gp,3g2,mj2 QuickTime / MOV
  E webm            WebM
`

const codecsFixture = `Codecs:
 D..... = Decoding supported
 .E.... = Encoding supported
 ..V... = Video codec
 ..A... = Audio codec
 ..S... = Subtitle codec
 -------
 DEV.L. h264                 H.264 / AVC / MPEG-4 AVC
 DEV.L. mpeg4                MPEG-4 part 2
 D.V.L. vc1                  SMPTE VC-1
 DEA.L. aac                  AAC (Advanced Audio Coding)
 DEA.L. mp3                  MP3 (MPEG audio layer 3)
 D.A.L. atrac3               ATRAC3
 DES... mov_text             MOV text
`

const muxerFixture = `Muxer webm [WebM]:
    Common extensions: webm.
    Default video codec: vp9.
    Default audio codec: opus.
    Supported video codecs: vp8, vp9, av1.
webm muxer AVOptions:
`

func TestParseMuxableFormats(t *testing.T) {
	got := parseMuxableFormats(formatsFixture)
	want := []string{"avi", "matroska", "mp4", "webm"}
	if !reflect.DeepEqual(sortedUnique(got), want) {
		t.Fatalf("parseMuxableFormats = %v, want %v", got, want)
	}
}

func TestParseEncoders(t *testing.T) {
	video, audioOnly := parseEncoders(codecsFixture)
	wantVideo := []string{"h264", "mpeg4"}
	wantAudio := []string{"aac", "mp3"}
	if !reflect.DeepEqual(sortedUnique(video), wantVideo) {
		t.Fatalf("video codecs = %v, want %v", video, wantVideo)
	}
	if !reflect.DeepEqual(sortedUnique(audioOnly), wantAudio) {
		t.Fatalf("audio-only codecs = %v, want %v", audioOnly, wantAudio)
	}
}

func TestParseMuxerCodecs(t *testing.T) {
	got := parseMuxerCodecs(muxerFixture)
	want := []string{"av1", "vp8", "vp9"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseMuxerCodecs = %v, want %v", got, want)
	}
}

func TestDiscoverFallsBackWhenBinaryMissing(t *testing.T) {
	set := Discover(context.Background(), "definitely-not-ffmpeg-binary", nil)
	if !reflect.DeepEqual(set.Containers(), []string{"avi", "mkv", "mov", "mp4", "webm"}) {
		t.Fatalf("unexpected fallback containers: %v", set.Containers())
	}
	if !reflect.DeepEqual(set.VideoCodecs(), []string{"h264", "h265", "mpeg4", "vp9"}) {
		t.Fatalf("unexpected fallback codecs: %v", set.VideoCodecs())
	}
	if set.IsAudioOnly("aac") {
		t.Fatal("fallback set has no audio-only codecs")
	}
}

func TestCodecsForFallsBackToFullList(t *testing.T) {
	set := Fallback()
	if got := set.CodecsFor("mkv"); !reflect.DeepEqual(got, set.VideoCodecs()) {
		t.Fatalf("expected permissive fallback, got %v", got)
	}
}

func TestHasContainer(t *testing.T) {
	set := Fallback()
	if !set.HasContainer("mp4") {
		t.Fatal("mp4 must be in the fallback containers")
	}
	if !set.HasContainer("  MKV ") {
		t.Fatal("lookup must trim and lowercase the name")
	}
	if set.HasContainer("ogg") {
		t.Fatal("ogg is not in the fallback containers")
	}
}

func TestWithMuxerCodecsReplacesWholesale(t *testing.T) {
	base := Fallback()
	updated := base.WithMuxerCodecs("webm", []string{"vp9", "vp8"})

	if got := updated.CodecsFor("webm"); !reflect.DeepEqual(got, []string{"vp8", "vp9"}) {
		t.Fatalf("unexpected webm codecs: %v", got)
	}
	if !updated.Supports("webm", "vp9") {
		t.Fatal("vp9 must be supported for webm")
	}
	if updated.Supports("webm", "libx264") {
		t.Fatal("libx264 must be excluded by the webm compat entry")
	}
	// Original set is untouched.
	if !reflect.DeepEqual(base.CodecsFor("webm"), base.VideoCodecs()) {
		t.Fatal("receiver mutated by WithMuxerCodecs")
	}

	// Replacing again swaps the entry wholesale, never merges.
	replaced := updated.WithMuxerCodecs("webm", []string{"av1"})
	if got := replaced.CodecsFor("webm"); !reflect.DeepEqual(got, []string{"av1"}) {
		t.Fatalf("expected wholesale replacement, got %v", got)
	}

	// Empty replacement clears the entry back to the permissive fallback.
	cleared := replaced.WithMuxerCodecs("webm", nil)
	if got := cleared.CodecsFor("webm"); !reflect.DeepEqual(got, cleared.VideoCodecs()) {
		t.Fatalf("expected cleared entry, got %v", got)
	}
}
