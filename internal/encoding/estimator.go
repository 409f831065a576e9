package encoding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strings"
	"sync"

	"brancoder/internal/logging"
	"brancoder/internal/media"
)

// DefaultSampleSeconds bounds the dry-run encode when no length is configured.
const DefaultSampleSeconds = 2

// EstimateResult reports the outcome of a dry run. Success with a zero size
// means the sample encoded but the source duration could not be determined,
// so no extrapolation was possible.
type EstimateResult struct {
	Success            bool
	EstimatedSizeBytes int64
	SampleSizeBytes    int64
	Superseded         bool
	ErrorMessage       string
}

// Estimator produces output-size estimates by encoding a short sample with
// the requested settings and scaling the sample size to the full duration.
// At most one estimate runs at a time: starting a new one cancels and waits
// out any estimate still in flight.
type Estimator struct {
	ffmpeg        string
	ffprobe       string
	sampleSeconds int
	logger        *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running chan struct{}
}

func NewEstimator(ffmpegBinary, ffprobeBinary string, sampleSeconds int, logger *slog.Logger) *Estimator {
	if sampleSeconds <= 0 {
		sampleSeconds = DefaultSampleSeconds
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Estimator{
		ffmpeg:        ffmpegBinary,
		ffprobe:       ffprobeBinary,
		sampleSeconds: sampleSeconds,
		logger:        logger,
	}
}

// Estimate runs a dry-run encode for req. The request should already be
// normalized and validated. A call made while a previous estimate is still
// running supersedes it; the superseded call reports Superseded and never
// wins over the newer one.
func (e *Estimator) Estimate(ctx context.Context, req Request) EstimateResult {
	runCtx, done := e.begin(ctx)
	defer done()

	result := e.run(runCtx, req)
	if runCtx.Err() != nil && ctx.Err() == nil {
		return EstimateResult{Superseded: true, ErrorMessage: "superseded by a newer estimate"}
	}
	return result
}

// begin cancels any estimate in flight, waits for it to release the
// estimator, and registers this call as the current one.
func (e *Estimator) begin(ctx context.Context) (context.Context, func()) {
	for {
		e.mu.Lock()
		if e.cancel == nil {
			break
		}
		cancel, running := e.cancel, e.running
		e.mu.Unlock()
		cancel()
		<-running
	}

	runCtx, cancel := context.WithCancel(ctx)
	running := make(chan struct{})
	e.cancel = cancel
	e.running = running
	e.mu.Unlock()

	return runCtx, func() {
		e.mu.Lock()
		if e.running == running {
			e.cancel = nil
			e.running = nil
		}
		e.mu.Unlock()
		cancel()
		close(running)
	}
}

func (e *Estimator) run(ctx context.Context, req Request) EstimateResult {
	tmpPath, err := sampleOutputPath(req.Container)
	if err != nil {
		return EstimateResult{ErrorMessage: fmt.Sprintf("create sample file: %v", err)}
	}
	defer os.Remove(tmpPath)

	args := sampleArgs(req, e.sampleSeconds, tmpPath)
	e.logger.Debug("starting dry-run encode",
		logging.String("input", req.InputPath),
		logging.String("codec", req.VideoCodec),
		logging.Int("sample_seconds", e.sampleSeconds))

	cmd := exec.CommandContext(ctx, e.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return EstimateResult{ErrorMessage: "estimate cancelled"}
		}
		return EstimateResult{ErrorMessage: encodeFailureMessage(err, stderr.String())}
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		return EstimateResult{ErrorMessage: fmt.Sprintf("read sample size: %v", err)}
	}
	sampleBytes := info.Size()

	asset, err := media.ProbeAsset(ctx, e.ffprobe, req.InputPath)
	if err != nil {
		// The sample encoded fine, so the settings are workable even
		// though the source duration is unknown.
		e.logger.Warn("sample encoded but source probe failed", logging.Error(err))
		return EstimateResult{Success: true, SampleSizeBytes: sampleBytes}
	}

	estimated := ExtrapolateSize(sampleBytes, asset.DurationSeconds, e.sampleSeconds)
	return EstimateResult{
		Success:            true,
		EstimatedSizeBytes: estimated,
		SampleSizeBytes:    sampleBytes,
	}
}

// ExtrapolateSize scales a sample encode's size to the full source duration.
func ExtrapolateSize(sampleBytes int64, durationSeconds float64, sampleSeconds int) int64 {
	if sampleBytes <= 0 || durationSeconds <= 0 || sampleSeconds <= 0 {
		return 0
	}
	return int64(math.Round(float64(sampleBytes) * durationSeconds / float64(sampleSeconds)))
}

func sampleOutputPath(container string) (string, error) {
	pattern := "brancoder-sample-*"
	if container != "" {
		pattern += "." + container
	}
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	path := file.Name()
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// encodeFailureMessage condenses an encoder failure into a single line,
// preferring the last stderr line over the bare exit status.
func encodeFailureMessage(err error, stderr string) string {
	lines := strings.FieldsFunc(stderr, func(r rune) bool { return r == '\n' || r == '\r' })
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("encoder exited with status %d", exitErr.ExitCode())
	}
	return err.Error()
}
