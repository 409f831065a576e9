package media

import (
	"context"
	"fmt"

	"brancoder/internal/media/ffprobe"
	"brancoder/internal/services"
)

// DefaultFrameRate is assumed when the probe reports no usable frame rate.
const DefaultFrameRate = 30.0

// VideoStream describes the primary video stream of an asset.
type VideoStream struct {
	Codec     string
	Width     int
	Height    int
	FrameRate float64
}

// AudioStream describes the primary audio stream of an asset.
type AudioStream struct {
	Codec    string
	Channels int
}

// Asset is the immutable description of a selected input file. It is built
// once per selection and discarded when a new file is chosen.
type Asset struct {
	Path            string
	DurationSeconds float64
	SizeBytes       int64
	Video           *VideoStream
	Audio           *AudioStream
}

// FrameRate returns the video frame rate, falling back to DefaultFrameRate
// when the asset has no video stream or the probe value was unusable.
func (a *Asset) FrameRate() float64 {
	if a == nil || a.Video == nil || a.Video.FrameRate <= 0 {
		return DefaultFrameRate
	}
	return a.Video.FrameRate
}

// DurationMS returns the asset duration in whole milliseconds.
func (a *Asset) DurationMS() int64 {
	if a == nil {
		return 0
	}
	return int64(a.DurationSeconds * 1000)
}

// ProbeAsset inspects the file at path and builds its Asset description.
// A probe that fails outright or reports a non-positive duration is fatal to
// the requested operation and returns services.ErrProbe.
func ProbeAsset(ctx context.Context, binary, path string) (*Asset, error) {
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		return nil, services.Wrap(services.ErrProbe, "media", "probe", fmt.Sprintf("inspect %q", path), err)
	}
	return assetFromResult(path, result)
}

func assetFromResult(path string, result ffprobe.Result) (*Asset, error) {
	duration := result.DurationSeconds()
	if duration <= 0 {
		return nil, services.Wrap(services.ErrProbe, "media", "probe", fmt.Sprintf("no usable duration for %q", path), nil)
	}

	asset := &Asset{
		Path:            path,
		DurationSeconds: duration,
		SizeBytes:       result.SizeBytes(),
	}
	if stream := result.FirstVideoStream(); stream != nil {
		video := &VideoStream{
			Codec:     stream.CodecName,
			Width:     stream.Width,
			Height:    stream.Height,
			FrameRate: stream.FrameRate(),
		}
		if video.FrameRate <= 0 {
			video.FrameRate = DefaultFrameRate
		}
		asset.Video = video
	}
	if stream := result.FirstAudioStream(); stream != nil {
		asset.Audio = &AudioStream{
			Codec:    stream.CodecName,
			Channels: stream.Channels,
		}
	}
	return asset, nil
}
