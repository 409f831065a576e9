package encoding

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"brancoder/internal/services"
)

func jobRequest() Request {
	return Request{
		InputPath:           "/media/in.mkv",
		OutputPath:          "/media/out.mp4",
		Container:           "mp4",
		VideoCodec:          "h264",
		AudioCodec:          "aac",
		TrimStartSeconds:    5,
		TrimDurationSeconds: 110,
	}
}

func collectEvents(t *testing.T, job *Job) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(10 * time.Second)
	for {
		select {
		case event, ok := <-job.Events():
			if !ok {
				return events
			}
			events = append(events, event)
		case <-timeout:
			t.Fatal("event stream never terminated")
		}
	}
}

// The status stream uses bare carriage returns between updates, the way the
// encoder rewrites its status line in place.
const convertStub = `#!/bin/sh
printf 'frame=  100 fps=30 q=28.0 size=256KiB time=00:00:27.50 bitrate=1k speed=2x\r' >&2
printf 'frame=  200 fps=30 q=28.0 size=512KiB time=00:00:55.00 bitrate=1k speed=2x\r' >&2
printf 'frame=  400 fps=30 q=28.0 size=999KiB time=00:01:50.00 bitrate=1k speed=2x\n' >&2
exit 0
`

func TestJobStreamsProgressAndCompletes(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := writeStub(t, dir, "ffmpeg", convertStub)

	runner := NewRunner(ffmpeg, nil)
	job, err := runner.Start(context.Background(), jobRequest(), nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	events := collectEvents(t, job)
	if len(events) == 0 {
		t.Fatal("no events")
	}

	var progress []int
	var logs, terminal int
	for _, event := range events {
		switch event.Kind {
		case EventLog:
			logs++
		case EventProgress:
			progress = append(progress, event.Percent)
		case EventCompleted, EventFailed:
			terminal++
		}
	}
	if terminal != 1 {
		t.Fatalf("terminal events = %d, want exactly 1", terminal)
	}
	if last := events[len(events)-1]; last.Kind != EventCompleted {
		t.Fatalf("last event = %s, want completed", last.Kind)
	}
	if logs != 3 {
		t.Fatalf("log events = %d, want 3", logs)
	}
	// Percentages track the 110 second trim span, not the full source.
	want := []int{25, 50, 100}
	if len(progress) != len(want) {
		t.Fatalf("progress = %v, want %v", progress, want)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Fatalf("progress = %v, want %v", progress, want)
		}
	}

	if err := job.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestJobCompletesOnCleanExitBelowFullProgress(t *testing.T) {
	dir := t.TempDir()
	stub := `#!/bin/sh
printf 'frame=  100 fps=30 q=28.0 time=00:00:27.50 bitrate=1k\n' >&2
exit 0
`
	ffmpeg := writeStub(t, dir, "ffmpeg", stub)

	runner := NewRunner(ffmpeg, nil)
	job, err := runner.Start(context.Background(), jobRequest(), nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	events := collectEvents(t, job)
	if last := events[len(events)-1]; last.Kind != EventCompleted {
		t.Fatalf("last event = %s, want completed despite partial progress", last.Kind)
	}
	if err := job.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestJobReportsEncoderFailure(t *testing.T) {
	dir := t.TempDir()
	stub := `#!/bin/sh
echo "Error opening output file /media/out.mp4" >&2
exit 1
`
	ffmpeg := writeStub(t, dir, "ffmpeg", stub)

	runner := NewRunner(ffmpeg, nil)
	job, err := runner.Start(context.Background(), jobRequest(), nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	events := collectEvents(t, job)
	last := events[len(events)-1]
	if last.Kind != EventFailed {
		t.Fatalf("last event = %s, want failed", last.Kind)
	}
	if !strings.Contains(last.Message, "Error opening output file") {
		t.Fatalf("failure message = %q", last.Message)
	}

	err = job.Wait()
	if !errors.Is(err, services.ErrEncode) {
		t.Fatalf("wait err = %v, want encode error", err)
	}
}

func TestJobFailsWhenStatusLineExceedsBuffer(t *testing.T) {
	dir := t.TempDir()
	// A single status line past the scanner's 1 MiB cap aborts the scan;
	// the job must still drain the stream and terminate with a failure
	// instead of leaving the encoder blocked on a full pipe.
	stub := `#!/bin/sh
{
printf 'frame= '
head -c 2097152 /dev/zero | tr '\0' 'x'
printf '\n'
} >&2
exit 0
`
	ffmpeg := writeStub(t, dir, "ffmpeg", stub)

	runner := NewRunner(ffmpeg, nil)
	job, err := runner.Start(context.Background(), jobRequest(), nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	events := collectEvents(t, job)
	if len(events) == 0 {
		t.Fatal("no events")
	}
	last := events[len(events)-1]
	if last.Kind != EventFailed {
		t.Fatalf("last event = %s, want failed", last.Kind)
	}
	if !strings.Contains(last.Message, "read failed") {
		t.Fatalf("failure message = %q", last.Message)
	}

	err = job.Wait()
	if !errors.Is(err, services.ErrEncode) {
		t.Fatalf("wait err = %v, want encode error", err)
	}
}

func TestJobCancel(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := writeStub(t, dir, "ffmpeg", "#!/bin/sh\nexec sleep 5\n")

	runner := NewRunner(ffmpeg, nil)
	job, err := runner.Start(context.Background(), jobRequest(), nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		job.Cancel()
	}()

	events := collectEvents(t, job)
	last := events[len(events)-1]
	if last.Kind != EventFailed {
		t.Fatalf("last event = %s, want failed", last.Kind)
	}
	if !strings.Contains(last.Message, "cancelled") {
		t.Fatalf("failure message = %q", last.Message)
	}
	if err := job.Wait(); err == nil {
		t.Fatal("wait returned nil for a cancelled job")
	}
}

func TestStartRejectsInvalidRequest(t *testing.T) {
	runner := NewRunner("ffmpeg", nil)
	req := jobRequest()
	req.InputPath = ""
	if _, err := runner.Start(context.Background(), req, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}
