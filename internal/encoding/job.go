package encoding

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"brancoder/internal/capabilities"
	"brancoder/internal/logging"
	"brancoder/internal/services"
)

// EventKind discriminates job stream events.
type EventKind int

const (
	EventLog EventKind = iota
	EventProgress
	EventCompleted
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventLog:
		return "log"
	case EventProgress:
		return "progress"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is one entry in a job's stream. Line is set for EventLog, Percent
// for EventProgress, and Message for EventFailed.
type Event struct {
	Kind    EventKind
	Line    string
	Percent int
	Message string
}

// Job is a running conversion. Its event stream is finite and ordered,
// terminated by exactly one EventCompleted or EventFailed, after which the
// channel closes. Callers must consume Events or call Wait, which drains.
type Job struct {
	events chan Event
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Events returns the job's event stream.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Cancel stops the encoder process. The stream still terminates normally,
// with an EventFailed reporting the cancellation.
func (j *Job) Cancel() {
	j.cancel()
}

// Wait drains any unread events and blocks until the job finishes. It
// returns nil when the encoder exited cleanly.
func (j *Job) Wait() error {
	for range j.events {
	}
	<-j.done
	return j.err
}

// Runner launches conversion jobs.
type Runner struct {
	ffmpeg string
	logger *slog.Logger
}

func NewRunner(ffmpegBinary string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{ffmpeg: ffmpegBinary, logger: logger}
}

// Start validates req against caps and launches the encoder. Exactly one
// encoder process runs per job. Progress percentages are computed against
// the trim duration, since that is the span being encoded.
func (r *Runner) Start(ctx context.Context, req Request, caps *capabilities.Set) (*Job, error) {
	req = req.Normalized()
	if err := req.Validate(caps); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, r.ffmpeg, convertArgs(req)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, services.Wrap(services.ErrEncode, "encoding", "start conversion", "attach status pipe", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, services.Wrap(services.ErrEncode, "encoding", "start conversion", "launch encoder", err)
	}

	r.logger.Info("conversion started",
		logging.String("input", req.InputPath),
		logging.String("output", req.OutputPath),
		logging.String("container", req.Container),
		logging.String("video_codec", req.VideoCodec))

	job := &Job{
		events: make(chan Event, 256),
		ctx:    runCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go job.run(cmd, stderr, req.TrimDurationSeconds, r.logger)
	return job, nil
}

func (j *Job) run(cmd *exec.Cmd, stderr io.Reader, totalSeconds float64, logger *slog.Logger) {
	defer close(j.done)
	defer j.cancel()

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanStatusLines)

	lastPercent := -1
	var tail []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		record := ParseProgressLine(line)
		if !record.IsStatus {
			// Non-status output is kept for the failure message.
			tail = append(tail, line)
			if len(tail) > 8 {
				tail = tail[1:]
			}
			continue
		}
		j.events <- Event{Kind: EventLog, Line: record.RawLine}
		if record.HasTime {
			if percent := ProgressPercent(record.TimeSeconds, totalSeconds); percent != lastPercent {
				lastPercent = percent
				j.events <- Event{Kind: EventProgress, Percent: percent}
			}
		}
	}

	if scanErr := scanner.Err(); scanErr != nil {
		// The scan aborted mid-stream. Keep draining so the encoder never
		// blocks on a full pipe, then report the read fault.
		_, _ = io.Copy(io.Discard, stderr)
		_ = cmd.Wait()
		message := fmt.Sprintf("status stream read failed: %v", scanErr)
		j.err = services.Wrap(services.ErrEncode, "encoding", "convert", message, scanErr)
		logger.Error("conversion failed", logging.String("detail", message))
		j.events <- Event{Kind: EventFailed, Message: message}
		close(j.events)
		return
	}

	err := cmd.Wait()
	switch {
	case err == nil:
		// A clean exit completes the job even if the last reported
		// percentage fell short of 100.
		logger.Info("conversion completed")
		j.events <- Event{Kind: EventCompleted, Percent: 100}
	case j.ctx.Err() != nil:
		message := "conversion cancelled"
		j.err = services.Wrap(services.ErrEncode, "encoding", "convert", message, j.ctx.Err())
		logger.Warn("conversion cancelled")
		j.events <- Event{Kind: EventFailed, Message: message}
	default:
		message := encodeFailureMessage(err, strings.Join(tail, "\n"))
		j.err = services.Wrap(services.ErrEncode, "encoding", "convert", message, err)
		logger.Error("conversion failed", logging.String("detail", message))
		j.events <- Event{Kind: EventFailed, Message: message}
	}
	close(j.events)
}

// scanStatusLines splits on both carriage returns and newlines, since the
// encoder rewrites its status line in place with bare carriage returns.
func scanStatusLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
